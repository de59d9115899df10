// Package renderer wires the scheduler, the capture rig, the voxelization
// backend and the compositor into a per-frame loop.
package renderer

import (
	"fmt"
	"time"

	"github.com/achilleasa/vxgi/capture"
	"github.com/achilleasa/vxgi/compositor"
	"github.com/achilleasa/vxgi/compute"
	"github.com/achilleasa/vxgi/config"
	"github.com/achilleasa/vxgi/log"
	"github.com/achilleasa/vxgi/scene"
	"github.com/achilleasa/vxgi/scheduler"
	"github.com/achilleasa/vxgi/texture"
	"github.com/achilleasa/vxgi/voxel"
)

// Renderer owns the voxel hierarchy for its whole lifetime. It is not safe
// for concurrent use.
type Renderer struct {
	logger log.Logger
	cfg    *config.Config

	hierarchy *voxel.Hierarchy
	space     voxel.Space

	rig        *capture.Rig
	backend    compute.Backend
	scheduler  *scheduler.Scheduler
	compositor *compositor.Compositor

	frame  int
	stats  FrameStats
	closed bool
}

// Create a renderer for the given objects. The config is normalized in
// place and must not be modified afterwards.
func New(cfg *config.Config, objects []scene.Object, rig *capture.Rig, factory compute.Factory) (*Renderer, error) {
	if rig == nil {
		return nil, ErrNoCaptureRig
	}
	if factory == nil {
		return nil, ErrNoBackend
	}

	cfg.Normalize()

	r := &Renderer{
		logger:    log.New("renderer"),
		cfg:       cfg,
		hierarchy: voxel.NewHierarchy(cfg.DiffuseDimension, cfg.SpecularDimension),
		space:     voxel.Space{Boundary: cfg.WorldVolumeBoundary},
		rig:       rig,
	}

	var err error
	r.backend, err = factory(r.hierarchy, r.space)
	if err != nil {
		r.hierarchy.Release()
		return nil, fmt.Errorf("renderer: could not create voxelization backend: %w", err)
	}
	if r.backend == nil {
		r.hierarchy.Release()
		return nil, ErrNoBackend
	}

	r.scheduler = scheduler.New(objects)
	r.compositor = compositor.New(cfg)

	r.logger.Noticef(
		"using %s backend; grid dims %v; world boundary %.2f",
		r.backend.Name(), r.hierarchy.Dims(), r.space.Boundary,
	)
	return r, nil
}

// Run the configured number of warm-up iterations for static objects.
func (r *Renderer) Init() error {
	if r.closed {
		return ErrClosed
	}

	start := time.Now()
	r.stats = FrameStats{}
	if err := r.scheduler.WarmUp(r, r.cfg.InitialVoxelizationIterations); err != nil {
		return err
	}
	r.stats.RenderTime = time.Since(start)
	r.stats.Timestamp = r.scheduler.Timestamp()
	r.stats.Cursor = r.scheduler.Cursor()
	return nil
}

// Voxelize the currently active objects into grid. Each face view is
// rendered at the grid dimension and dispatched to the backend in order.
// Degenerate grids are skipped.
func (r *Renderer) Voxelize(grid voxel.GridID, tag voxel.Tag) error {
	cascade := r.hierarchy.Grid(grid)
	if cascade == nil {
		return fmt.Errorf("%w: %s", compute.ErrUnknownGrid, grid)
	}

	stat := VoxelizationStat{Grid: grid, Tag: tag}
	if cascade.Degenerate() {
		r.logger.Debugf("skipping degenerate grid %s", grid)
		r.stats.Voxelizations = append(r.stats.Voxelizations, stat)
		return nil
	}

	for _, f := range capture.Faces {
		start := time.Now()
		c, err := r.rig.Face(f).Render(grid, cascade.Dim)
		if err != nil {
			return fmt.Errorf("renderer: %s capture for %s: %w", f, grid, err)
		}
		stat.CaptureTime += time.Since(start)

		elapsed, err := r.backend.DispatchFilteredVoxelization(grid, c.Color, c.Position, tag)
		if err != nil {
			return fmt.Errorf("renderer: %s dispatch for %s: %w", f, grid, err)
		}
		stat.DispatchTime += elapsed
		stat.Dispatches++
	}

	r.stats.Voxelizations = append(r.stats.Voxelizations, stat)
	return nil
}

// Refresh the hierarchy for dynamic objects and compose the next frame.
// The source frame must match the primary view size unless the renderer
// runs in voxelization debug mode.
func (r *Renderer) RenderFrame(source *texture.Texture) (*texture.Texture, error) {
	if r.closed {
		return nil, ErrClosed
	}

	start := time.Now()
	r.frame++
	r.stats = FrameStats{Frame: r.frame}

	if err := r.scheduler.VoxelizePerObject(r); err != nil {
		return nil, err
	}

	primaryStart := time.Now()
	primary, err := r.rig.Primary().Render()
	if err != nil {
		return nil, fmt.Errorf("renderer: primary capture: %w", err)
	}
	r.stats.PrimaryTime = time.Since(primaryStart)

	out, err := r.compositor.Render(&compositor.Inputs{
		Hierarchy: r.hierarchy,
		Space:     r.space,
		Primary:   primary,
		Source:    source,
		Tag:       r.scheduler.Tag(),
	})
	if err != nil {
		return nil, err
	}

	r.stats.Stages = r.compositor.Stats()
	r.stats.Timestamp = r.scheduler.Timestamp()
	r.stats.Cursor = r.scheduler.Cursor()
	r.stats.RenderTime = time.Since(start)
	r.logger.Debugf("frame %d: %d dispatches in %s", r.frame, r.stats.Dispatches(), r.stats.RenderTime)
	return out, nil
}

// Get statistics for the last rendered frame or warm-up.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

func (r *Renderer) Hierarchy() *voxel.Hierarchy {
	return r.hierarchy
}

func (r *Renderer) Space() voxel.Space {
	return r.space
}

func (r *Renderer) Scheduler() *scheduler.Scheduler {
	return r.scheduler
}

// Capture the hierarchy together with the current timestamp.
func (r *Renderer) Snapshot() *voxel.Snapshot {
	return &voxel.Snapshot{
		Hierarchy: r.hierarchy,
		Space:     r.space,
		Timestamp: r.scheduler.Timestamp(),
	}
}

// Shutdown the backend and release the hierarchy.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.backend.Close()
	r.hierarchy.Release()
}
