// Package cpu implements the filtered voxelization kernel on the host.
package cpu

import (
	"time"

	"github.com/achilleasa/vxgi/compute"
	"github.com/achilleasa/vxgi/log"
	"github.com/achilleasa/vxgi/texture"
	"github.com/achilleasa/vxgi/voxel"
)

// Backend writes directly into the hierarchy grids. Texels are processed
// in row-major order so results are deterministic.
type Backend struct {
	logger    log.Logger
	hierarchy *voxel.Hierarchy
	space     voxel.Space
}

// Create a cpu backend bound to h.
func New(h *voxel.Hierarchy, space voxel.Space) *Backend {
	return &Backend{
		logger:    log.New("cpu backend"),
		hierarchy: h,
		space:     space,
	}
}

// Implements compute.Factory.
func Factory(h *voxel.Hierarchy, space voxel.Space) (compute.Backend, error) {
	return New(h, space), nil
}

func (b *Backend) Name() string {
	return "cpu"
}

func (b *Backend) DispatchFilteredVoxelization(grid voxel.GridID, color, position *texture.Texture, tag voxel.Tag) (time.Duration, error) {
	start := time.Now()

	cascade, err := compute.CheckDispatch(b.hierarchy, grid, color, position)
	if err != nil || cascade == nil {
		return time.Since(start), err
	}

	written, discarded := 0, 0
	for i, pos := range position.Data {
		// background texel
		if pos[3] == 0 {
			continue
		}

		index, ok := b.space.Index(pos.Vec3(), cascade.Dim)
		if !ok {
			discarded++
			continue
		}

		sample := voxel.Pack(color.Data[i].Vec3(), tag)
		cascade.Data[index] = uint32(voxel.Blend(voxel.Voxel(cascade.Data[index]), sample))
		written++
	}

	b.logger.Debugf("%s: blended %d texels, discarded %d outside the world volume", grid, written, discarded)
	return time.Since(start), nil
}

func (b *Backend) Close() {}
