package compositor

import (
	"github.com/achilleasa/vxgi/config"
	"github.com/achilleasa/vxgi/types"
	"github.com/achilleasa/vxgi/voxel"
	"github.com/chewxy/math32"
)

// A cone direction in the local frame where +Z is the surface normal.
type coneDir struct {
	dir    types.Vec3
	weight float32
}

var up = types.XYZ(0, 0, 1)

// Return the diffuse cone set for a sample density tier. Each cone is
// weighted by the cosine of its angle to the normal.
func diffuseCones(density config.Density) []coneDir {
	count := density.Cones()
	cones := []coneDir{{dir: up, weight: 1}}
	if count == 1 {
		return cones
	}

	// Tilted cones 45 degrees away from the normal; the first four follow
	// the tangent axes and the next four the diagonals.
	sinT, cosT := math32.Sincos(math32.Pi / 4)
	for i := 0; i < count-1; i++ {
		azimuth := float32(i%4) * math32.Pi / 2
		if i >= 4 {
			azimuth += math32.Pi / 4
		}
		sinA, cosA := math32.Sincos(azimuth)
		cones = append(cones, coneDir{
			dir:    types.XYZ(sinT*cosA, sinT*sinA, cosT),
			weight: cosT,
		})
	}
	return cones
}

// marcher samples the voxel hierarchy along cones.
type marcher struct {
	hierarchy  *voxel.Hierarchy
	space      voxel.Space
	current    voxel.Tag
	method     config.Method
	voxelSize1 float32
}

func newMarcher(in *Inputs, method config.Method) *marcher {
	m := &marcher{
		hierarchy: in.Hierarchy,
		space:     in.Space,
		current:   in.Tag,
		method:    method,
	}
	if grid := in.Hierarchy.Grid(voxel.Diffuse1); !grid.Degenerate() {
		m.voxelSize1 = in.Space.VoxelSize(grid.Dim)
	}
	return m
}

// Samples written more than one timestamp round ago are ignored; warm-up
// samples never expire.
func (m *marcher) fresh(tag voxel.Tag) bool {
	return tag.Baseline() || tag.Age(m.current) <= 1
}

// Select the diffuse cascade whose voxel size best matches the cone
// diameter. Degenerate cascades fall back to the next finer one.
func (m *marcher) cascadeFor(diameter float32) *voxel.Cascade {
	if m.voxelSize1 == 0 {
		return nil
	}

	level := 0
	if diameter > m.voxelSize1 {
		level = int(math32.Floor(math32.Log2(diameter / m.voxelSize1)))
	}
	if level > voxel.NumCascades-1 {
		level = voxel.NumCascades - 1
	}

	for ; level >= 0; level-- {
		if grid := m.hierarchy.Grid(voxel.DiffuseCascade(level)); !grid.Degenerate() {
			return grid
		}
	}
	return nil
}

// Estimate indirect diffuse light at pos as the weighted average of the
// cones around normal.
func (m *marcher) diffuse(pos, normal types.Vec3, cone config.Cone, cones []coneDir) types.Vec3 {
	rot := types.QuatBetween(up, normal)
	origin := pos.Add(normal.Mul(cone.Offset))

	var sum types.Vec3
	var weights float32
	for _, c := range cones {
		dir := rot.Rotate(c.dir)
		radiance := m.march(origin, dir, cone, func(dist float32) *voxel.Cascade {
			return m.cascadeFor(2 * dist * cone.Angle)
		})
		sum = sum.Add(radiance.Mul(c.weight))
		weights += c.weight
	}
	return sum.Mul(1 / weights)
}

// Estimate indirect specular light at pos by marching along the view
// vector reflected around normal through the specular grid.
func (m *marcher) specular(pos, normal, eye types.Vec3, cone config.Cone) types.Vec3 {
	grid := m.hierarchy.Grid(voxel.Specular)
	if grid.Degenerate() {
		return types.Vec3{}
	}

	view := pos.Sub(eye).Normalize()
	dir := view.Reflect(normal).Normalize()
	origin := pos.Add(normal.Mul(cone.Offset))
	return m.march(origin, dir, cone, func(float32) *voxel.Cascade {
		return grid
	})
}

// March from origin along dir, growing the step by the configured
// multiplier, and accumulate the radiance of fresh occupied voxels.
func (m *marcher) march(origin, dir types.Vec3, cone config.Cone, gridAt func(dist float32) *voxel.Cascade) types.Vec3 {
	var (
		acc   types.Vec3
		alpha float32
	)

	dist, step := cone.Step, cone.Step
	for i := 0; i < cone.MaxIterations; i++ {
		grid := gridAt(dist)
		if grid == nil {
			break
		}

		v, inside := m.space.Sample(grid, origin.Add(dir.Mul(dist)))
		if !inside {
			break
		}

		if !v.Empty() && m.fresh(v.Tag()) {
			falloff := 1 / (1 + dist)
			if m.method == config.Approximate {
				return v.Color().Mul(falloff)
			}

			a := types.Clamp(step/m.space.VoxelSize(grid.Dim), 0, 1)
			acc = acc.Add(v.Color().Mul((1 - alpha) * a * falloff))
			alpha += (1 - alpha) * a
			if alpha >= 0.99 {
				break
			}
		}

		dist += step
		step *= cone.StepMultiplier
	}
	return acc
}
