// Package scheduler decides which objects and which cascades get
// re-voxelized each frame.
package scheduler

import (
	"fmt"

	"github.com/achilleasa/vxgi/log"
	"github.com/achilleasa/vxgi/scene"
	"github.com/achilleasa/vxgi/voxel"
)

// Voxelizer captures the currently active objects into a grid.
type Voxelizer interface {
	Voxelize(grid voxel.GridID, tag voxel.Tag) error
}

// Scheduler tracks the cascade cursor and the timestamp. Dynamic objects
// refresh one diffuse cascade per frame in round-robin order; static
// objects are only voxelized during warm-up.
type Scheduler struct {
	logger log.Logger

	objects   []scene.Object
	cursor    voxel.GridID
	timestamp int
}

// Create a scheduler for the voxelizable subset of objs. The set is fixed
// for the lifetime of the scheduler.
func New(objs []scene.Object) *Scheduler {
	s := &Scheduler{
		logger:  log.New("scheduler"),
		objects: scene.Voxelizable(objs),
		cursor:  voxel.Diffuse1,
	}
	s.logger.Infof("tracking %d voxelizable objects (%d ignored)", len(s.objects), len(objs)-len(s.objects))
	return s
}

// The diffuse cascade that was voxelized last.
func (s *Scheduler) Cursor() voxel.GridID {
	return s.cursor
}

// The timestamp in [0, 100).
func (s *Scheduler) Timestamp() int {
	return s.timestamp
}

// The tag attached to round-robin writes at the current timestamp.
func (s *Scheduler) Tag() voxel.Tag {
	return voxel.RoundTag(s.timestamp)
}

// The voxelizable objects in iteration order.
func (s *Scheduler) Objects() []scene.Object {
	return s.objects
}

// Advance the cursor to the next diffuse cascade. Wrapping from DIFFUSE8
// back to DIFFUSE1 bumps the timestamp.
func (s *Scheduler) Next() voxel.GridID {
	if s.cursor < voxel.Diffuse8 {
		s.cursor++
		return s.cursor
	}

	s.cursor = voxel.Diffuse1
	s.timestamp = (s.timestamp + 1) % voxel.TimestampRange
	s.logger.Debugf("cascade round complete; timestamp is now %d", s.timestamp)
	return s.cursor
}

// Voxelize each dynamic object in isolation into the next diffuse cascade
// and the specular grid. All objects are active again when this returns,
// even if voxelization fails.
func (s *Scheduler) VoxelizePerObject(v Voxelizer) error {
	return s.isolate(func(obj scene.Object) error {
		if obj.Static() {
			return nil
		}

		grid := s.Next()
		tag := s.Tag()
		if err := v.Voxelize(grid, tag); err != nil {
			return fmt.Errorf("scheduler: voxelizing %q into %s: %w", obj.Name(), grid, err)
		}
		if err := v.Voxelize(voxel.Specular, tag); err != nil {
			return fmt.Errorf("scheduler: voxelizing %q into %s: %w", obj.Name(), voxel.Specular, err)
		}
		return nil
	})
}

// Voxelize each static object in isolation into every grid using the
// baseline tag.
func (s *Scheduler) VoxelizePerObjectInitialization(v Voxelizer) error {
	return s.isolate(func(obj scene.Object) error {
		if !obj.Static() {
			return nil
		}

		for grid := voxel.Diffuse1; grid < voxel.NumGrids; grid++ {
			if err := v.Voxelize(grid, voxel.BaselineTag); err != nil {
				return fmt.Errorf("scheduler: warm-up of %q into %s: %w", obj.Name(), grid, err)
			}
		}
		return nil
	})
}

// Run the static initialization pass the given number of times.
func (s *Scheduler) WarmUp(v Voxelizer, iterations int) error {
	for i := 0; i < iterations; i++ {
		if err := s.VoxelizePerObjectInitialization(v); err != nil {
			return err
		}
	}
	if iterations > 0 {
		s.logger.Noticef("completed %d warm-up iterations", iterations)
	}
	return nil
}

// Deactivate all objects, then activate each one alone while fn runs for
// it. Objects are reactivated before returning.
func (s *Scheduler) isolate(fn func(obj scene.Object) error) error {
	if len(s.objects) == 0 {
		return nil
	}

	for _, obj := range s.objects {
		obj.SetActive(false)
	}
	defer func() {
		for _, obj := range s.objects {
			obj.SetActive(true)
		}
	}()

	for _, obj := range s.objects {
		obj.SetActive(true)
		err := fn(obj)
		obj.SetActive(false)
		if err != nil {
			return err
		}
	}
	return nil
}
