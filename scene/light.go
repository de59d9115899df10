package scene

import "github.com/achilleasa/vxgi/types"

// Light is a directional light.
type Light struct {
	objectBase

	// Direction the light travels in (from the light towards the scene).
	Direction types.Vec3
	Color     types.Vec3
	Intensity float32
}

func NewLight(name string, direction, color types.Vec3, intensity float32) *Light {
	return &Light{
		objectBase: objectBase{name: name, static: true, active: true},
		Direction:  direction.Normalize(),
		Color:      color,
		Intensity:  intensity,
	}
}

func (l *Light) Kind() Kind { return KindLight }

// Lighting groups the scene lights with an ambient term. Turning the direct
// lights off makes shading return albedo scaled by the full ambient weight,
// which is how geometry color is captured separately from lit color.
type Lighting struct {
	Lights  []*Light
	Ambient types.Vec3

	off bool
}

// Disable direct lights.
func (l *Lighting) Off() { l.off = true }

// Enable direct lights.
func (l *Lighting) On() { l.off = false }

// Returns true if direct lights are enabled.
func (l *Lighting) Enabled() bool { return !l.off }

// Shade a surface with the given albedo and normal. With direct lights
// disabled the albedo is returned unchanged.
func (l *Lighting) Shade(albedo, normal types.Vec3) types.Vec3 {
	if l.off {
		return albedo
	}

	return albedo.MulVec(l.Ambient.Add(l.direct(normal)))
}

// Shade a surface using the direct lights only. The ambient term and the
// on/off switch are ignored.
func (l *Lighting) ShadeDirect(albedo, normal types.Vec3) types.Vec3 {
	return albedo.MulVec(l.direct(normal))
}

func (l *Lighting) direct(normal types.Vec3) types.Vec3 {
	var radiance types.Vec3
	for _, light := range l.Lights {
		if !light.Active() {
			continue
		}
		nDotL := normal.Dot(light.Direction.Mul(-1))
		if nDotL <= 0 {
			continue
		}
		radiance = radiance.Add(light.Color.Mul(nDotL * light.Intensity))
	}
	return radiance
}
