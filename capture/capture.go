// Package capture defines the views that render scene geometry into the
// color and position textures consumed by voxelization and compositing.
package capture

import (
	"fmt"

	"github.com/achilleasa/vxgi/texture"
	"github.com/achilleasa/vxgi/types"
	"github.com/achilleasa/vxgi/voxel"
)

// Face identifies one of the six axis-aligned orthographic capture directions.
type Face uint8

const (
	Front Face = iota
	Back
	Left
	Right
	Top
	Bottom

	NumFaces
)

// Faces lists the capture directions in dispatch order.
var Faces = [NumFaces]Face{Front, Back, Left, Right, Top, Bottom}

var faceNames = [NumFaces]string{"front", "back", "left", "right", "top", "bottom"}

func (f Face) String() string {
	if f < NumFaces {
		return faceNames[f]
	}
	return fmt.Sprintf("face(%d)", uint8(f))
}

// Return the orthonormal basis of the face camera: the texture x axis, the
// texture y axis (pointing down the image) and the viewing direction.
func (f Face) Basis() (right, down, forward types.Vec3) {
	switch f {
	case Front:
		return types.XYZ(1, 0, 0), types.XYZ(0, -1, 0), types.XYZ(0, 0, -1)
	case Back:
		return types.XYZ(-1, 0, 0), types.XYZ(0, -1, 0), types.XYZ(0, 0, 1)
	case Left:
		return types.XYZ(0, 0, 1), types.XYZ(0, -1, 0), types.XYZ(1, 0, 0)
	case Right:
		return types.XYZ(0, 0, -1), types.XYZ(0, -1, 0), types.XYZ(-1, 0, 0)
	case Top:
		return types.XYZ(1, 0, 0), types.XYZ(0, 0, 1), types.XYZ(0, -1, 0)
	default:
		return types.XYZ(1, 0, 0), types.XYZ(0, 0, -1), types.XYZ(0, 1, 0)
	}
}

// Capture is the output of a face view. Color holds lit color; Position holds
// world positions with coverage in w.
type Capture struct {
	Color    *texture.Texture
	Position *texture.Texture
}

// PrimaryCapture is the output of the primary view. Color holds the
// unlit surface albedo.
type PrimaryCapture struct {
	Color    *texture.Texture
	Position *texture.Texture
	Normal   *texture.Texture

	// World-space eye position of the primary view.
	Eye types.Vec3
}

// FaceView renders the active scene objects along one axis-aligned
// direction into textures sized for the target grid.
type FaceView interface {
	Face() Face
	Render(grid voxel.GridID, dim int) (*Capture, error)
}

// PrimaryView renders the scene from the viewer's point of view.
type PrimaryView interface {
	Render() (*PrimaryCapture, error)
}

// Rig binds the six face views and the primary view.
type Rig struct {
	primary PrimaryView
	faces   [NumFaces]FaceView
}

// Create a rig. All six faces and the primary view must be supplied.
func NewRig(primary PrimaryView, faces ...FaceView) (*Rig, error) {
	if primary == nil {
		return nil, ErrMissingPrimaryView
	}

	rig := &Rig{primary: primary}
	for _, view := range faces {
		if view == nil {
			continue
		}
		f := view.Face()
		if f >= NumFaces {
			return nil, fmt.Errorf("capture: invalid face %s", f)
		}
		if rig.faces[f] != nil {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFaceView, f)
		}
		rig.faces[f] = view
	}

	for _, f := range Faces {
		if rig.faces[f] == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingFaceView, f)
		}
	}
	return rig, nil
}

// Return the view for face f.
func (r *Rig) Face(f Face) FaceView {
	if f >= NumFaces {
		return nil
	}
	return r.faces[f]
}

func (r *Rig) Primary() PrimaryView {
	return r.primary
}
