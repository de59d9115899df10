package scene

import "fmt"

// Kind classifies scene objects. Only geometry can be voxelized.
type Kind uint8

const (
	KindGeometry Kind = iota
	KindLight
	KindCamera
)

// Objects carrying this tag take part in voxelization.
const VoxelizeTag = "Voxelize"

func (k Kind) String() string {
	switch k {
	case KindGeometry:
		return "geometry"
	case KindLight:
		return "light"
	case KindCamera:
		return "camera"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Object is implemented by everything the host scene exposes to the
// voxelization pipeline.
type Object interface {
	Name() string
	Kind() Kind

	// Static objects are only voxelized during warm-up.
	Static() bool

	Active() bool
	SetActive(active bool)

	Tags() []string
}

// Return the subset of objs that are geometry and carry the voxelize tag,
// preserving their order.
func Voxelizable(objs []Object) []Object {
	out := make([]Object, 0, len(objs))
	for _, obj := range objs {
		if obj == nil || obj.Kind() != KindGeometry {
			continue
		}
		if HasTag(obj, VoxelizeTag) {
			out = append(out, obj)
		}
	}
	return out
}

// Check whether obj carries tag.
func HasTag(obj Object, tag string) bool {
	for _, t := range obj.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}

// Embedded by the concrete object types to provide bookkeeping for the
// common Object methods.
type objectBase struct {
	name   string
	static bool
	active bool
	tags   []string
}

func (o *objectBase) Name() string          { return o.name }
func (o *objectBase) Static() bool          { return o.static }
func (o *objectBase) Active() bool          { return o.active }
func (o *objectBase) SetActive(active bool) { o.active = active }
func (o *objectBase) Tags() []string        { return o.tags }
