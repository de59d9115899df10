package config

import (
	"fmt"
	"strings"
)

// Computation selects what the compositor outputs.
type Computation uint8

const (
	Diffuse Computation = iota
	Specular
	DiffuseSpecular
	Voxelization
)

var computationNames = []string{"DIFFUSE", "SPECULAR", "DIFFUSE_SPECULAR", "VOXELIZATION"}

func (c Computation) String() string { return enumName(computationNames, int(c)) }

// Implements encoding.TextMarshaler.
func (c Computation) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Implements encoding.TextUnmarshaler.
func (c *Computation) UnmarshalText(text []byte) error {
	v, err := parseEnum("computation", computationNames, string(text))
	if err == nil {
		*c = Computation(v)
	}
	return err
}

// Method selects the cone tracing accumulation model.
type Method uint8

const (
	Realistic Method = iota
	Approximate
)

var methodNames = []string{"REALISTIC", "APPROXIMATE"}

func (m Method) String() string { return enumName(methodNames, int(m)) }

// Implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	v, err := parseEnum("cone tracing method", methodNames, string(text))
	if err == nil {
		*m = Method(v)
	}
	return err
}

// Density controls the number of diffuse cones traced per pixel.
type Density uint8

const (
	Low Density = iota
	Medium
	High
)

var densityNames = []string{"LOW", "MEDIUM", "HIGH"}

func (d Density) String() string { return enumName(densityNames, int(d)) }

// Implements encoding.TextMarshaler.
func (d Density) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Implements encoding.TextUnmarshaler.
func (d *Density) UnmarshalText(text []byte) error {
	v, err := parseEnum("sample density", densityNames, string(text))
	if err == nil {
		*d = Density(v)
	}
	return err
}

// Return the number of diffuse cones traced for this density tier.
func (d Density) Cones() int {
	switch d {
	case Low:
		return 1
	case Medium:
		return 5
	}
	return 9
}

func enumName(names []string, v int) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("UNKNOWN(%d)", v)
}

func parseEnum(kind string, names []string, text string) (int, error) {
	text = strings.ToUpper(strings.TrimSpace(text))
	text = strings.Replace(text, "-", "_", -1)
	for index, name := range names {
		if name == text {
			return index, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown %s %q (expected one of %s)", ErrInvalidOption, kind, text, strings.Join(names, ", "))
}
