package scene

import (
	"github.com/achilleasa/vxgi/types"
	"github.com/chewxy/math32"
)

const rayEpsilon = 1e-4

// Box is an axis-aligned box with a constant albedo. Dynamic boxes may
// oscillate along Motion with the given period (in frames).
type Box struct {
	objectBase

	Min    types.Vec3
	Max    types.Vec3
	Albedo types.Vec3

	Motion types.Vec3
	Period int

	restMin types.Vec3
	restMax types.Vec3
}

// Create a new active box. Min and max corners are sorted.
func NewBox(name string, min, max, albedo types.Vec3, static bool, tags ...string) *Box {
	lo, hi := types.MinVec3(min, max), types.MaxVec3(min, max)
	return &Box{
		objectBase: objectBase{
			name:   name,
			static: static,
			active: true,
			tags:   tags,
		},
		Min:     lo,
		Max:     hi,
		Albedo:  albedo,
		restMin: lo,
		restMax: hi,
	}
}

func (b *Box) Kind() Kind { return KindGeometry }

// Move the box to its position at the given frame. Static boxes and boxes
// without motion never move.
func (b *Box) Animate(frame int) {
	if b.static || b.Period <= 0 {
		return
	}
	phase := 2 * math32.Pi * float32(frame%b.Period) / float32(b.Period)
	offset := b.Motion.Mul(math32.Sin(phase))
	b.Min = b.restMin.Add(offset)
	b.Max = b.restMax.Add(offset)
}

// Check whether p lies inside the box.
func (b *Box) Contains(p types.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Intersect a ray with the box using the slab method. It returns the
// distance to the closest hit in front of the origin and the outward
// facing normal of the face that was hit.
func (b *Box) Intersect(origin, dir types.Vec3) (float32, types.Vec3, bool) {
	tMin := float32(-math32.MaxFloat32)
	tMax := float32(math32.MaxFloat32)
	var enterAxis, exitAxis int

	for i := 0; i < 3; i++ {
		if math32.Abs(dir[i]) < 1e-8 {
			if origin[i] < b.Min[i] || origin[i] > b.Max[i] {
				return 0, types.Vec3{}, false
			}
			continue
		}
		inv := 1.0 / dir[i]
		t0 := (b.Min[i] - origin[i]) * inv
		t1 := (b.Max[i] - origin[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin, enterAxis = t0, i
		}
		if t1 < tMax {
			tMax, exitAxis = t1, i
		}
		if tMin > tMax {
			return 0, types.Vec3{}, false
		}
	}

	if tMax < rayEpsilon {
		return 0, types.Vec3{}, false
	}

	// Ray starts inside the box; report the exit face.
	t, axis := tMin, enterAxis
	if tMin < rayEpsilon {
		t, axis = tMax, exitAxis
	}

	var normal types.Vec3
	hit := origin.Add(dir.Mul(t))
	if math32.Abs(hit[axis]-b.Min[axis]) < math32.Abs(hit[axis]-b.Max[axis]) {
		normal[axis] = -1
	} else {
		normal[axis] = 1
	}
	return t, normal, true
}
