// Package compositor estimates indirect diffuse and specular light by cone
// tracing the voxel hierarchy and combines it with the direct-lit frame.
package compositor

import (
	"fmt"
	"time"

	"github.com/achilleasa/vxgi/capture"
	"github.com/achilleasa/vxgi/config"
	"github.com/achilleasa/vxgi/log"
	"github.com/achilleasa/vxgi/texture"
	"github.com/achilleasa/vxgi/voxel"
)

// Inputs bundles everything a frame composition reads. None of the inputs
// are modified.
type Inputs struct {
	Hierarchy *voxel.Hierarchy
	Space     voxel.Space

	Primary *capture.PrimaryCapture

	// The direct-lit frame produced by the host renderer.
	Source *texture.Texture

	// Tag of the current timestamp; older round-robin samples are ignored.
	Tag voxel.Tag
}

// StageStat records the time spent in one pipeline stage.
type StageStat struct {
	Name string
	Time time.Duration
}

// Compositor runs the configured pipeline once per frame.
type Compositor struct {
	logger   log.Logger
	cfg      *config.Config
	pipeline *Pipeline
	stats    []StageStat
}

// Create a compositor for cfg. The config must not be modified afterwards.
func New(cfg *config.Config) *Compositor {
	return &Compositor{
		logger:   log.New("compositor"),
		cfg:      cfg,
		pipeline: DefaultPipeline(cfg.Computation),
	}
}

// Create a compositor that runs a custom pipeline.
func NewWithPipeline(cfg *config.Config, pipeline *Pipeline) *Compositor {
	c := New(cfg)
	c.pipeline = pipeline
	return c
}

// Compose a frame. The returned texture has the size of the primary capture.
func (c *Compositor) Render(in *Inputs) (*texture.Texture, error) {
	if err := c.validate(in); err != nil {
		return nil, err
	}

	f := &frame{
		in:     in,
		width:  in.Primary.Position.Width,
		height: in.Primary.Position.Height,
		march:  newMarcher(in, c.cfg.Method),
	}

	c.stats = c.stats[:0]
	for _, stage := range c.pipeline.Stages {
		elapsed, err := stage.Run(c, f)
		if err != nil {
			return nil, fmt.Errorf("compositor: stage %s: %w", stage.Name, err)
		}
		c.stats = append(c.stats, StageStat{Name: stage.Name, Time: elapsed})
	}

	if f.out == nil {
		return nil, ErrNoOutput
	}
	return f.out, nil
}

// Return the stage timings of the last rendered frame.
func (c *Compositor) Stats() []StageStat {
	out := make([]StageStat, len(c.stats))
	copy(out, c.stats)
	return out
}

func (c *Compositor) validate(in *Inputs) error {
	if in == nil || in.Hierarchy == nil {
		return ErrMissingHierarchy
	}
	p := in.Primary
	if p == nil || p.Color == nil || p.Position == nil || p.Normal == nil {
		return ErrMissingPrimary
	}
	if !p.Color.SameSize(p.Position) || !p.Color.SameSize(p.Normal) {
		return fmt.Errorf("%w: primary buffers differ in size", ErrFrameSizeMismatch)
	}

	if c.cfg.Computation == config.Voxelization {
		return nil
	}
	if in.Source == nil {
		return ErrMissingSource
	}
	if !in.Source.SameSize(p.Color) {
		return fmt.Errorf("%w: source is %dx%d, primary view is %dx%d",
			ErrFrameSizeMismatch, in.Source.Width, in.Source.Height, p.Color.Width, p.Color.Height)
	}
	return nil
}
