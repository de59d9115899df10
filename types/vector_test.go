package types

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestNormalize(t *testing.T) {
	v := XYZ(3, 0, 4).Normalize()
	if !ApproxEqual(v, XYZ(0.6, 0, 0.8), 1e-5) {
		t.Fatalf("expected normalized vector to be (0.6, 0, 0.8); got %v", v)
	}

	if zero := (Vec3{}).Normalize(); zero != (Vec3{}) {
		t.Fatalf("expected zero vector to stay zero; got %v", zero)
	}
}

func TestReflect(t *testing.T) {
	in := XYZ(1, -1, 0).Normalize()
	out := in.Reflect(XYZ(0, 1, 0))
	if !ApproxEqual(out, XYZ(1, 1, 0).Normalize(), 1e-5) {
		t.Fatalf("expected reflected vector (0.707, 0.707, 0); got %v", out)
	}
}

func TestQuatBetween(t *testing.T) {
	type spec struct {
		from Vec3
		to   Vec3
	}
	specs := []spec{
		{XYZ(0, 0, 1), XYZ(0, 0, 1)},
		{XYZ(0, 0, 1), XYZ(0, 1, 0)},
		{XYZ(0, 0, 1), XYZ(1, 1, 1).Normalize()},
		{XYZ(0, 0, 1), XYZ(0, 0, -1)},
		{XYZ(1, 0, 0), XYZ(-1, 0, 0)},
	}

	for index, s := range specs {
		got := QuatBetween(s.from, s.to).Rotate(s.from)
		if !ApproxEqual(got, s.to, 1e-4) {
			t.Fatalf("[spec %d] expected rotated vector %v; got %v", index, s.to, got)
		}
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	q := QuatFromAxisAngle(XYZ(0, 1, 0), math32.Pi/2)
	got := q.Rotate(XYZ(1, 0, 0))
	if !ApproxEqual(got, XYZ(0, 0, -1), 1e-5) {
		t.Fatalf("expected (0, 0, -1); got %v", got)
	}
}

func TestLerp(t *testing.T) {
	got := XYZW(0, 0, 0, 0).Lerp(XYZW(2, 4, 6, 8), 0.5)
	if got != XYZW(1, 2, 3, 4) {
		t.Fatalf("expected midpoint (1, 2, 3, 4); got %v", got)
	}
}
