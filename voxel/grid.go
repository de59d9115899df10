// Package voxel implements the cascaded voxel volume hierarchy: eight
// diffuse cascades of halving resolution plus one specular grid.
package voxel

import "fmt"

// GridID identifies one of the nine grids of the hierarchy.
type GridID uint8

const (
	Diffuse1 GridID = iota
	Diffuse2
	Diffuse3
	Diffuse4
	Diffuse5
	Diffuse6
	Diffuse7
	Diffuse8
	Specular

	NumGrids
)

// The number of diffuse cascades.
const NumCascades = int(Specular)

var gridNames = [NumGrids]string{
	"DIFFUSE1", "DIFFUSE2", "DIFFUSE3", "DIFFUSE4",
	"DIFFUSE5", "DIFFUSE6", "DIFFUSE7", "DIFFUSE8",
	"SPECULAR",
}

func (id GridID) String() string {
	if id < NumGrids {
		return gridNames[id]
	}
	return fmt.Sprintf("GRID(%d)", uint8(id))
}

// Returns true for DIFFUSE1..DIFFUSE8.
func (id GridID) IsDiffuse() bool {
	return id < Specular
}

// Return the diffuse cascade at 0-based level k (0 = finest).
func DiffuseCascade(level int) GridID {
	return Diffuse1 + GridID(level)
}

// Cascade is one voxel grid covering the whole world volume.
type Cascade struct {
	Dim  int
	Data []uint32
}

func newCascade(dim int) *Cascade {
	return &Cascade{
		Dim:  dim,
		Data: make([]uint32, dim*dim*dim),
	}
}

// Returns true if the cascade has no cells.
func (c *Cascade) Degenerate() bool {
	return c == nil || c.Dim <= 0
}

// Linear index of cell (x, y, z).
func (c *Cascade) Index(x, y, z int) int {
	return x + y*c.Dim + z*c.Dim*c.Dim
}

// Return the voxel stored at cell (x, y, z).
func (c *Cascade) At(x, y, z int) Voxel {
	return Voxel(c.Data[c.Index(x, y, z)])
}

// Count the non-empty cells.
func (c *Cascade) Occupancy() int {
	count := 0
	for _, v := range c.Data {
		if !Voxel(v).Empty() {
			count++
		}
	}
	return count
}

// Hierarchy owns the nine grids. It is created once by the renderer,
// mutated only by the voxelization backends and released at teardown.
type Hierarchy struct {
	grids [NumGrids]*Cascade
}

// Allocate and zero-fill all grids. Diffuse cascade k has dimension
// base >> k. A base dimension larger than the specular dimension is clamped
// to it and negative dimensions are treated as 0.
func NewHierarchy(baseDiffuseDim, specularDim int) *Hierarchy {
	if specularDim < 0 {
		specularDim = 0
	}
	if baseDiffuseDim < 0 {
		baseDiffuseDim = 0
	}
	if baseDiffuseDim > specularDim {
		baseDiffuseDim = specularDim
	}

	h := &Hierarchy{}
	for level := 0; level < NumCascades; level++ {
		h.grids[DiffuseCascade(level)] = newCascade(baseDiffuseDim >> uint(level))
	}
	h.grids[Specular] = newCascade(specularDim)
	return h
}

// Return the grid with the given id or nil if the id is invalid or the
// hierarchy has been released.
func (h *Hierarchy) Grid(id GridID) *Cascade {
	if id >= NumGrids {
		return nil
	}
	return h.grids[id]
}

// Return the dimension of every grid indexed by GridID.
func (h *Hierarchy) Dims() [NumGrids]int {
	var dims [NumGrids]int
	for id, grid := range h.grids {
		if grid != nil {
			dims[id] = grid.Dim
		}
	}
	return dims
}

// Count the non-empty cells of a grid.
func (h *Hierarchy) Occupancy(id GridID) int {
	grid := h.Grid(id)
	if grid == nil {
		return 0
	}
	return grid.Occupancy()
}

// Reset every cell of every grid to empty.
func (h *Hierarchy) Clear() {
	for _, grid := range h.grids {
		if grid == nil {
			continue
		}
		for i := range grid.Data {
			grid.Data[i] = 0
		}
	}
}

// Drop all grid buffers. The hierarchy must not be used afterwards.
func (h *Hierarchy) Release() {
	for id := range h.grids {
		h.grids[id] = nil
	}
}
