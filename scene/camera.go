package scene

import (
	"fmt"

	"github.com/achilleasa/vxgi/types"
	"github.com/go-gl/mathgl/mgl32"
)

// Stores the ray directions at the four corners of the camera frustrum. Per
// pixel rays are generated by interpolating the corner rays.
type Frustrum [4]types.Vec3

func (fr Frustrum) String() string {
	return fmt.Sprintf(
		"Frustrum Rays:\nTL : (%3.3f, %3.3f, %3.3f)\nTR : (%3.3f, %3.3f, %3.3f)\nBL : (%3.3f, %3.3f, %3.3f)\nBR : (%3.3f, %3.3f, %3.3f)",
		fr[0][0], fr[0][1], fr[0][2],
		fr[1][0], fr[1][1], fr[1][2],
		fr[2][0], fr[2][1], fr[2][2],
		fr[3][0], fr[3][1], fr[3][2],
	)
}

// The camera type describes the primary view.
type Camera struct {
	objectBase

	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Vertical field of view in degrees.
	FOV float32

	ViewMat  mgl32.Mat4
	ProjMat  mgl32.Mat4
	Frustrum Frustrum
}

func NewCamera(position, lookAt types.Vec3, fov float32) *Camera {
	return &Camera{
		objectBase: objectBase{name: "camera", active: true},
		ViewMat:    mgl32.Ident4(),
		ProjMat:    mgl32.Ident4(),
		Position:   position,
		LookAt:     lookAt,
		Up:         types.XYZ(0, 1, 0),
		FOV:        fov,
	}
}

func (c *Camera) Kind() Kind { return KindCamera }

// Setup camera projection matrix for the given aspect ratio.
func (c *Camera) SetupProjection(aspect float32) {
	c.ProjMat = mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, 0.1, 1000)
	c.Update()
}

// Recalculate the view matrix and frustrum corner rays.
func (c *Camera) Update() {
	c.ViewMat = mgl32.LookAtV(toMgl(c.Position), toMgl(c.LookAt), toMgl(c.Up))
	c.updateFrustrum()
}

// Return the normalized ray direction through the normalized screen
// coordinates (u, v); (0, 0) is the top-left corner.
func (c *Camera) Ray(u, v float32) types.Vec3 {
	top := c.Frustrum[0].Mul(1 - u).Add(c.Frustrum[1].Mul(u))
	bottom := c.Frustrum[2].Mul(1 - u).Add(c.Frustrum[3].Mul(u))
	return top.Mul(1 - v).Add(bottom.Mul(v)).Normalize()
}

// Generate a ray vector for each corner of the camera frustrum by
// multiplying clip space vectors for each corner with the inv proj/view
// matrix, applying perspective and subtracting the camera eye position.
func (c *Camera) updateFrustrum() {
	invProjViewMat := c.ProjMat.Mul4(c.ViewMat).Inv()

	corners := [4]mgl32.Vec4{
		{-1, 1, -1, 1},
		{1, 1, -1, 1},
		{-1, -1, -1, 1},
		{1, -1, -1, 1},
	}
	for i, corner := range corners {
		v := invProjViewMat.Mul4x1(corner)
		world := types.XYZ(v[0]/v[3], v[1]/v[3], v[2]/v[3])
		c.Frustrum[i] = world.Sub(c.Position)
	}
}

func toMgl(v types.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}
