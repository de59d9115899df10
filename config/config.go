// Package config defines the pipeline configuration and loads it from TOML,
// YAML or JSON documents.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/achilleasa/vxgi/asset"
	"github.com/achilleasa/vxgi/log"
	"github.com/achilleasa/vxgi/scene"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	BackendCPU    = "cpu"
	BackendOpenCL = "opencl"
)

var logger = log.New("config")

// Cone holds the tracing, filtering and blending parameters for one of the
// indirect lighting channels.
type Cone struct {
	MaxIterations  int     `toml:"maxIterations" yaml:"maxIterations" json:"maxIterations"`
	Step           float32 `toml:"step" yaml:"step" json:"step"`
	StepMultiplier float32 `toml:"stepMultiplier" yaml:"stepMultiplier" json:"stepMultiplier"`

	// Cone aperture in [0, 1]; only used by the diffuse channel.
	Angle float32 `toml:"angle" yaml:"angle" json:"angle"`

	Offset   float32 `toml:"offset" yaml:"offset" json:"offset"`
	Strength float32 `toml:"strength" yaml:"strength" json:"strength"`

	Downsample     int     `toml:"downsample" yaml:"downsample" json:"downsample"`
	BlurIterations int     `toml:"blurIterations" yaml:"blurIterations" json:"blurIterations"`
	BlurStep       float32 `toml:"blurStep" yaml:"blurStep" json:"blurStep"`
}

type Frame struct {
	Width  int `toml:"width" yaml:"width" json:"width"`
	Height int `toml:"height" yaml:"height" json:"height"`
}

// Config is passed once to the renderer and treated as read-only afterwards.
type Config struct {
	Computation Computation `toml:"computation" yaml:"computation" json:"computation"`
	Method      Method      `toml:"coneTracingMethod" yaml:"coneTracingMethod" json:"coneTracingMethod"`
	Samples     Density     `toml:"sampleDensity" yaml:"sampleDensity" json:"sampleDensity"`

	DiffuseDimension  int `toml:"diffuseDimension" yaml:"diffuseDimension" json:"diffuseDimension"`
	SpecularDimension int `toml:"specularDimension" yaml:"specularDimension" json:"specularDimension"`

	// Half extent of the voxelized world volume.
	WorldVolumeBoundary float32 `toml:"worldVolumeBoundary" yaml:"worldVolumeBoundary" json:"worldVolumeBoundary"`

	InitialVoxelizationIterations int `toml:"initialVoxelizationIterations" yaml:"initialVoxelizationIterations" json:"initialVoxelizationIterations"`

	DirectStrength  float32 `toml:"directStrength" yaml:"directStrength" json:"directStrength"`
	AmbientStrength float32 `toml:"ambientStrength" yaml:"ambientStrength" json:"ambientStrength"`

	Diffuse  Cone `toml:"diffuse" yaml:"diffuse" json:"diffuse"`
	Specular Cone `toml:"specular" yaml:"specular" json:"specular"`

	Frame Frame `toml:"frame" yaml:"frame" json:"frame"`

	// Number of compositor row workers.
	Workers int `toml:"workers" yaml:"workers" json:"workers"`

	// Voxelization backend and optional device name filter.
	Backend string `toml:"backend" yaml:"backend" json:"backend"`
	Device  string `toml:"device" yaml:"device" json:"device"`

	LogLevel string `toml:"logLevel" yaml:"logLevel" json:"logLevel"`

	// Optional direct-lit source frame. When empty, the source frame is
	// rendered from the scene.
	Source string `toml:"source" yaml:"source" json:"source"`

	Scene scene.Description `toml:"scene" yaml:"scene" json:"scene"`
}

func defaultCone() Cone {
	return Cone{
		MaxIterations:  10,
		Step:           0.5,
		StepMultiplier: 1.0,
		Angle:          0.3,
		Offset:         0.1,
		Strength:       1.0,
		Downsample:     1,
		BlurIterations: 0,
		BlurStep:       1.0,
	}
}

// Return a config populated with default values.
func Default() *Config {
	return &Config{
		Computation:                   Diffuse,
		Method:                        Realistic,
		Samples:                       High,
		DiffuseDimension:              64,
		SpecularDimension:             64,
		WorldVolumeBoundary:           10,
		InitialVoxelizationIterations: 10,
		DirectStrength:                0.5,
		AmbientStrength:               0.1,
		Diffuse:                       defaultCone(),
		Specular:                      defaultCone(),
		Frame:                         Frame{Width: 320, Height: 240},
		Workers:                       runtime.NumCPU(),
		Backend:                       BackendCPU,
		LogLevel:                      "notice",
	}
}

// Load a config from a local file or http/https URL. The document format is
// selected by the file extension. Options missing from the document keep
// their default values. The returned config is normalized.
func Load(pathToConfig string) (*Config, error) {
	data, ext, err := asset.ReadAll(pathToConfig)
	if err != nil {
		return nil, err
	}

	cfg, err := Decode(data, ext)
	if err != nil {
		return nil, fmt.Errorf("config: could not parse %s: %w", pathToConfig, err)
	}
	return cfg, nil
}

// Decode a config document in the format identified by ext (".toml",
// ".yaml", ".yml" or ".json"). Unknown keys are rejected.
func Decode(data []byte, ext string) (*Config, error) {
	cfg := Default()

	var err error
	switch ext {
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(cfg); err == io.EOF {
			err = nil
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

// Validate checks options that cannot be corrected by clamping.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidOption, err.Error())
	}
	switch c.Backend {
	case BackendCPU, BackendOpenCL:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidOption, c.Backend)
	}
	return nil
}

// Normalize silently clamps out of range options to their nearest valid
// value. Each adjustment is logged at info level.
func (c *Config) Normalize() {
	if c.SpecularDimension < 0 {
		logger.Infof("clamping specular dimension %d to 0", c.SpecularDimension)
		c.SpecularDimension = 0
	}
	if c.DiffuseDimension < 0 {
		logger.Infof("clamping diffuse dimension %d to 0", c.DiffuseDimension)
		c.DiffuseDimension = 0
	}
	if c.DiffuseDimension > c.SpecularDimension {
		logger.Infof("clamping diffuse dimension %d to specular dimension %d", c.DiffuseDimension, c.SpecularDimension)
		c.DiffuseDimension = c.SpecularDimension
	}
	if c.WorldVolumeBoundary <= 0 {
		logger.Infof("world volume boundary %f is not positive; using 1", c.WorldVolumeBoundary)
		c.WorldVolumeBoundary = 1
	}
	if c.InitialVoxelizationIterations < 0 {
		logger.Infof("clamping initial voxelization iterations %d to 0", c.InitialVoxelizationIterations)
		c.InitialVoxelizationIterations = 0
	}
	if c.Frame.Width < 1 || c.Frame.Height < 1 {
		logger.Infof("invalid frame size %dx%d; using 320x240", c.Frame.Width, c.Frame.Height)
		c.Frame = Frame{Width: 320, Height: 240}
	}
	if c.Workers < 1 {
		c.Workers = runtime.NumCPU()
		logger.Infof("using %d compositor workers", c.Workers)
	}
	c.Diffuse.normalize("diffuse")
	c.Specular.normalize("specular")
}

func (c *Cone) normalize(channel string) {
	if c.MaxIterations < 0 {
		logger.Infof("%s: clamping max iterations %d to 0", channel, c.MaxIterations)
		c.MaxIterations = 0
	}
	if c.Step <= 0 {
		logger.Infof("%s: cone step %f is not positive; using 0.5", channel, c.Step)
		c.Step = 0.5
	}
	if c.StepMultiplier <= 0 {
		logger.Infof("%s: step multiplier %f is not positive; using 1", channel, c.StepMultiplier)
		c.StepMultiplier = 1
	}
	if c.Angle < 0 || c.Angle > 1 {
		clamped := c.Angle
		if clamped < 0 {
			clamped = 0
		} else {
			clamped = 1
		}
		logger.Infof("%s: clamping cone angle %f to %f", channel, c.Angle, clamped)
		c.Angle = clamped
	}
	if c.Offset < 0 {
		logger.Infof("%s: clamping cone offset %f to 0", channel, c.Offset)
		c.Offset = 0
	}
	if c.Downsample < 1 {
		logger.Infof("%s: clamping downsample %d to 1", channel, c.Downsample)
		c.Downsample = 1
	}
	if c.BlurIterations < 0 {
		logger.Infof("%s: clamping blur iterations %d to 0", channel, c.BlurIterations)
		c.BlurIterations = 0
	}
	if c.BlurStep <= 0 {
		logger.Infof("%s: blur step %f is not positive; using 1", channel, c.BlurStep)
		c.BlurStep = 1
	}
}
