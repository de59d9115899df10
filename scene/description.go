package scene

import (
	"errors"
	"fmt"

	"github.com/achilleasa/vxgi/types"
)

var (
	ErrNoCamera = errors.New("scene: no camera defined")
)

// BoxDescription defines a box as it appears in a config file.
type BoxDescription struct {
	Name   string     `toml:"name" yaml:"name" json:"name"`
	Min    types.Vec3 `toml:"min" yaml:"min" json:"min"`
	Max    types.Vec3 `toml:"max" yaml:"max" json:"max"`
	Albedo types.Vec3 `toml:"albedo" yaml:"albedo" json:"albedo"`
	Static bool       `toml:"static" yaml:"static" json:"static"`

	// Objects without the voxelize tag are rendered but never voxelized.
	Tags []string `toml:"tags" yaml:"tags" json:"tags"`

	Motion types.Vec3 `toml:"motion" yaml:"motion" json:"motion"`
	Period int        `toml:"period" yaml:"period" json:"period"`
}

type LightDescription struct {
	Name      string     `toml:"name" yaml:"name" json:"name"`
	Direction types.Vec3 `toml:"direction" yaml:"direction" json:"direction"`
	Color     types.Vec3 `toml:"color" yaml:"color" json:"color"`
	Intensity float32    `toml:"intensity" yaml:"intensity" json:"intensity"`
}

type CameraDescription struct {
	Position types.Vec3 `toml:"position" yaml:"position" json:"position"`
	LookAt   types.Vec3 `toml:"lookAt" yaml:"lookAt" json:"lookAt"`
	FOV      float32    `toml:"fov" yaml:"fov" json:"fov"`
}

// Description is the declarative form of a box scene.
type Description struct {
	Camera  *CameraDescription `toml:"camera" yaml:"camera" json:"camera"`
	Ambient types.Vec3         `toml:"ambient" yaml:"ambient" json:"ambient"`
	Lights  []LightDescription `toml:"lights" yaml:"lights" json:"lights"`
	Boxes   []BoxDescription   `toml:"boxes" yaml:"boxes" json:"boxes"`
}

// Scene holds the objects built from a Description.
type Scene struct {
	Camera   *Camera
	Lighting *Lighting
	Boxes    []*Box
}

// Build a scene from its description. The camera projection is set up for
// the given aspect ratio.
func (d *Description) Build(aspect float32) (*Scene, error) {
	if d.Camera == nil {
		return nil, ErrNoCamera
	}

	fov := d.Camera.FOV
	if fov <= 0 {
		fov = 45
	}
	cam := NewCamera(d.Camera.Position, d.Camera.LookAt, fov)
	cam.SetupProjection(aspect)

	sc := &Scene{
		Camera:   cam,
		Lighting: &Lighting{Ambient: d.Ambient},
		Boxes:    make([]*Box, 0, len(d.Boxes)),
	}

	for index, ld := range d.Lights {
		if ld.Direction.Len() == 0 {
			return nil, fmt.Errorf("scene: light %d has a zero direction vector", index)
		}
		name := ld.Name
		if name == "" {
			name = fmt.Sprintf("light-%d", index)
		}
		sc.Lighting.Lights = append(sc.Lighting.Lights, NewLight(name, ld.Direction, ld.Color, ld.Intensity))
	}

	for index, bd := range d.Boxes {
		name := bd.Name
		if name == "" {
			name = fmt.Sprintf("box-%d", index)
		}
		box := NewBox(name, bd.Min, bd.Max, bd.Albedo, bd.Static, bd.Tags...)
		box.Motion = bd.Motion
		box.Period = bd.Period
		sc.Boxes = append(sc.Boxes, box)
	}

	return sc, nil
}

// Return every object in the scene: boxes in declaration order followed by
// the lights and the camera.
func (s *Scene) Objects() []Object {
	out := make([]Object, 0, len(s.Boxes)+len(s.Lighting.Lights)+1)
	for _, box := range s.Boxes {
		out = append(out, box)
	}
	for _, light := range s.Lighting.Lights {
		out = append(out, light)
	}
	return append(out, s.Camera)
}

// Move all dynamic boxes to their position at the given frame.
func (s *Scene) Animate(frame int) {
	for _, box := range s.Boxes {
		box.Animate(frame)
	}
}

// Intersect a ray with the active boxes and return the closest hit.
func (s *Scene) Intersect(origin, dir types.Vec3) (*Box, float32, types.Vec3, bool) {
	return s.intersect(origin, dir, false)
}

// Intersect a ray with the active boxes that carry the voxelize tag.
func (s *Scene) IntersectVoxelizable(origin, dir types.Vec3) (*Box, float32, types.Vec3, bool) {
	return s.intersect(origin, dir, true)
}

func (s *Scene) intersect(origin, dir types.Vec3, voxelizableOnly bool) (*Box, float32, types.Vec3, bool) {
	var (
		closest *Box
		bestT   float32
		bestN   types.Vec3
	)
	for _, box := range s.Boxes {
		if !box.Active() || (voxelizableOnly && !HasTag(box, VoxelizeTag)) {
			continue
		}
		if t, n, ok := box.Intersect(origin, dir); ok && (closest == nil || t < bestT) {
			closest, bestT, bestN = box, t, n
		}
	}
	return closest, bestT, bestN, closest != nil
}
