// Package software implements the capture views by ray casting the box
// scene on the host.
package software

import (
	"github.com/achilleasa/vxgi/capture"
	"github.com/achilleasa/vxgi/scene"
	"github.com/achilleasa/vxgi/texture"
	"github.com/achilleasa/vxgi/types"
	"github.com/achilleasa/vxgi/voxel"
)

// FaceView is an orthographic view covering one side of the world volume.
// Each texel casts a ray from the face of the volume into it.
type FaceView struct {
	face  capture.Face
	scene *scene.Scene
	space voxel.Space
}

// Create the six face views for sc.
func NewFaceViews(sc *scene.Scene, space voxel.Space) []capture.FaceView {
	views := make([]capture.FaceView, 0, capture.NumFaces)
	for _, f := range capture.Faces {
		views = append(views, &FaceView{face: f, scene: sc, space: space})
	}
	return views
}

func (v *FaceView) Face() capture.Face {
	return v.face
}

// Render the active boxes carrying the voxelize tag into dim x dim
// textures. Only direct light is captured; ambient light is left to the
// compositor.
func (v *FaceView) Render(grid voxel.GridID, dim int) (*capture.Capture, error) {
	out := &capture.Capture{
		Color:    texture.New(texture.Rgba32F, dim, dim),
		Position: texture.New(texture.Position32F, dim, dim),
	}
	if dim <= 0 {
		return out, nil
	}

	right, down, forward := v.face.Basis()
	b := v.space.Boundary
	size := v.space.VoxelSize(dim)

	// Top-left corner of the face plane
	corner := forward.Mul(-b).Sub(right.Mul(b)).Sub(down.Mul(b))

	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			origin := corner.
				Add(right.Mul((float32(x) + 0.5) * size)).
				Add(down.Mul((float32(y) + 0.5) * size))

			box, t, normal, hit := v.scene.IntersectVoxelizable(origin, forward)
			if !hit {
				continue
			}

			p := origin.Add(forward.Mul(t))
			lit := v.scene.Lighting.ShadeDirect(box.Albedo, normal)
			out.Color.Set(x, y, lit.Vec4(1))
			out.Position.Set(x, y, p.Vec4(1))
		}
	}
	return out, nil
}

// PrimaryView renders the scene from the scene camera.
type PrimaryView struct {
	scene  *scene.Scene
	width  int
	height int
}

func NewPrimaryView(sc *scene.Scene, width, height int) *PrimaryView {
	return &PrimaryView{scene: sc, width: width, height: height}
}

// Render albedo, position and normal buffers. Direct lights are switched
// off while rendering the color buffer and restored afterwards.
func (v *PrimaryView) Render() (*capture.PrimaryCapture, error) {
	out := &capture.PrimaryCapture{
		Color:    texture.New(texture.Rgba32F, v.width, v.height),
		Position: texture.New(texture.Position32F, v.width, v.height),
		Normal:   texture.New(texture.Normal32F, v.width, v.height),
		Eye:      v.scene.Camera.Position,
	}

	lighting := v.scene.Lighting
	if lighting.Enabled() {
		lighting.Off()
		defer lighting.On()
	}

	castPrimary(v.scene, v.width, v.height, func(x, y int, box *scene.Box, p, n types.Vec3) {
		out.Color.Set(x, y, lighting.Shade(box.Albedo, n).Vec4(1))
		out.Position.Set(x, y, p.Vec4(1))
		out.Normal.Set(x, y, n.Vec4(0))
	})
	return out, nil
}

// Render the direct-lit frame as seen by the scene camera. It stands in for
// the host renderer's output when no source frame is supplied.
func RenderDirect(sc *scene.Scene, width, height int) *texture.Texture {
	out := texture.New(texture.Rgba32F, width, height)
	castPrimary(sc, width, height, func(x, y int, box *scene.Box, p, n types.Vec3) {
		out.Set(x, y, sc.Lighting.Shade(box.Albedo, n).Vec4(1))
	})
	for i := range out.Data {
		out.Data[i][3] = 1
	}
	return out
}

func castPrimary(sc *scene.Scene, width, height int, hitFn func(x, y int, box *scene.Box, p, n types.Vec3)) {
	cam := sc.Camera
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dir := cam.Ray((float32(x)+0.5)/float32(width), (float32(y)+0.5)/float32(height))
			box, t, normal, hit := sc.Intersect(cam.Position, dir)
			if !hit {
				continue
			}
			hitFn(x, y, box, cam.Position.Add(dir.Mul(t)), normal)
		}
	}
}
