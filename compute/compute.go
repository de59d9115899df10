// Package compute defines the contract of the voxelization backends.
package compute

import (
	"fmt"
	"time"

	"github.com/achilleasa/vxgi/texture"
	"github.com/achilleasa/vxgi/voxel"
)

// Backend scatters captured texels into one grid of the hierarchy it was
// created for. A dispatch must be complete and visible in the hierarchy
// when the call returns.
type Backend interface {
	// The backend name (e.g. "cpu" or the OpenCL device name).
	Name() string

	// Blend every covered texel of a capture into the target grid using
	// the given tag. Dispatches against degenerate grids are no-ops.
	DispatchFilteredVoxelization(grid voxel.GridID, color, position *texture.Texture, tag voxel.Tag) (time.Duration, error)

	// Release backend resources.
	Close()
}

// Factory creates a backend bound to a hierarchy and voxel space.
type Factory func(h *voxel.Hierarchy, space voxel.Space) (Backend, error)

// Validate the target grid and the capture textures of a dispatch. It
// returns the target cascade or nil when the dispatch is a no-op.
func CheckDispatch(h *voxel.Hierarchy, grid voxel.GridID, color, position *texture.Texture) (*voxel.Cascade, error) {
	cascade := h.Grid(grid)
	if cascade == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGrid, grid)
	}
	if cascade.Degenerate() {
		return nil, nil
	}
	if color == nil || position == nil {
		return nil, ErrMissingTexture
	}

	for _, tex := range []*texture.Texture{color, position} {
		if tex.Width != cascade.Dim || tex.Height != cascade.Dim {
			return nil, fmt.Errorf(
				"%w: %s texture is %dx%d; grid %s expects %dx%d",
				ErrTextureSizeMismatch, tex.Format, tex.Width, tex.Height, grid, cascade.Dim, cascade.Dim,
			)
		}
	}
	return cascade, nil
}
