package voxel

import (
	"github.com/achilleasa/vxgi/types"
	"github.com/chewxy/math32"
)

// Space maps world positions inside the cube [-Boundary, Boundary)^3 to
// voxel cells.
type Space struct {
	Boundary float32
}

// Return the cell containing p in a grid of dimension dim. The second
// result is false for positions outside the world volume or degenerate grids.
func (s Space) Cell(p types.Vec3, dim int) (x, y, z int, ok bool) {
	if dim <= 0 || s.Boundary <= 0 {
		return 0, 0, 0, false
	}

	var cell [3]int
	scale := float32(dim) / (2 * s.Boundary)
	for i := 0; i < 3; i++ {
		// NaN fails both comparisons
		if !(p[i] >= -s.Boundary && p[i] < s.Boundary) {
			return 0, 0, 0, false
		}
		c := int(math32.Floor((p[i] + s.Boundary) * scale))
		// Guard against float rounding at the upper edge
		if c >= dim {
			c = dim - 1
		}
		cell[i] = c
	}
	return cell[0], cell[1], cell[2], true
}

// Return the linear index of the cell containing p.
func (s Space) Index(p types.Vec3, dim int) (int, bool) {
	x, y, z, ok := s.Cell(p, dim)
	if !ok {
		return 0, false
	}
	return x + y*dim + z*dim*dim, true
}

// World-space edge length of a cell in a grid of dimension dim.
func (s Space) VoxelSize(dim int) float32 {
	if dim <= 0 {
		return 0
	}
	return 2 * s.Boundary / float32(dim)
}

// World-space center of cell (x, y, z).
func (s Space) Center(x, y, z, dim int) types.Vec3 {
	size := s.VoxelSize(dim)
	return types.XYZ(
		-s.Boundary+(float32(x)+0.5)*size,
		-s.Boundary+(float32(y)+0.5)*size,
		-s.Boundary+(float32(z)+0.5)*size,
	)
}

// Look up the voxel containing p in the given grid.
func (s Space) Sample(grid *Cascade, p types.Vec3) (Voxel, bool) {
	if grid.Degenerate() {
		return 0, false
	}
	index, ok := s.Index(p, grid.Dim)
	if !ok {
		return 0, false
	}
	return Voxel(grid.Data[index]), true
}
