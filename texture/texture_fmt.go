package texture

import "fmt"

// Format describes how the channels of a texture should be interpreted.
type Format uint32

const (
	// Linear RGBA color.
	Rgba32F Format = iota
	// World-space position in xyz; w holds geometry coverage (0 = background).
	Position32F
	// World-space surface normal in xyz.
	Normal32F
)

var formatNames = map[Format]string{
	Rgba32F:     "rgba32f",
	Position32F: "position32f",
	Normal32F:   "normal32f",
}

// Implements Stringer.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", uint32(f))
}
