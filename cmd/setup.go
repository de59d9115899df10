package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/achilleasa/vxgi/capture"
	"github.com/achilleasa/vxgi/capture/software"
	"github.com/achilleasa/vxgi/compute"
	"github.com/achilleasa/vxgi/compute/cpu"
	"github.com/achilleasa/vxgi/config"
	"github.com/achilleasa/vxgi/renderer"
	"github.com/achilleasa/vxgi/scene"
	"github.com/achilleasa/vxgi/texture"
	"github.com/achilleasa/vxgi/voxel"
	"github.com/urfave/cli"
)

// Voxelization backends by name. Backends that need extra build tags
// register themselves from an init function.
var backends = map[string]func(device string) compute.Factory{
	config.BackendCPU: func(string) compute.Factory { return cpu.Factory },
}

// Load the config named by the --config flag (or the defaults) and apply
// any command line overrides.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if err := applyFlags(cfg, ctx); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

func applyFlags(cfg *config.Config, ctx *cli.Context) error {
	type textFlag struct {
		name   string
		target interface{ UnmarshalText([]byte) error }
	}
	for _, f := range []textFlag{
		{"computation", &cfg.Computation},
		{"method", &cfg.Method},
		{"samples", &cfg.Samples},
	} {
		if !ctx.IsSet(f.name) {
			continue
		}
		if err := f.target.UnmarshalText([]byte(ctx.String(f.name))); err != nil {
			return fmt.Errorf("--%s: %w", f.name, err)
		}
	}

	if ctx.IsSet("width") {
		cfg.Frame.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Frame.Height = ctx.Int("height")
	}
	if ctx.IsSet("backend") {
		cfg.Backend = strings.ToLower(ctx.String("backend"))
	}
	if ctx.IsSet("device") {
		cfg.Device = ctx.String("device")
	}
	return nil
}

// Everything needed to render frames of a box scene.
type session struct {
	cfg      *config.Config
	scene    *scene.Scene
	renderer *renderer.Renderer
	source   *texture.Texture
}

// Build the scene, the software capture rig and the renderer described by
// cfg and run the warm-up pass.
func newSession(cfg *config.Config) (*session, error) {
	newFactory, ok := backends[cfg.Backend]
	if !ok {
		return nil, fmt.Errorf("%w: backend %q is not available in this build", renderer.ErrNoBackend, cfg.Backend)
	}

	sc, err := cfg.Scene.Build(float32(cfg.Frame.Width) / float32(cfg.Frame.Height))
	if err != nil {
		return nil, err
	}

	space := voxel.Space{Boundary: cfg.WorldVolumeBoundary}
	rig, err := capture.NewRig(
		software.NewPrimaryView(sc, cfg.Frame.Width, cfg.Frame.Height),
		software.NewFaceViews(sc, space)...,
	)
	if err != nil {
		return nil, err
	}

	r, err := renderer.New(cfg, sc.Objects(), rig, newFactory(cfg.Device))
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, scene: sc, renderer: r}
	if cfg.Source != "" {
		if s.source, err = texture.Load(cfg.Source, cfg.Frame.Width, cfg.Frame.Height); err != nil {
			r.Close()
			return nil, err
		}
	}

	logger.Noticef("warming up static objects (%d iterations)", cfg.InitialVoxelizationIterations)
	if err = r.Init(); err != nil {
		r.Close()
		return nil, err
	}
	return s, nil
}

// Animate the scene and render the next frame.
func (s *session) renderFrame(frame int) (*texture.Texture, error) {
	s.scene.Animate(frame)

	source := s.source
	if source == nil && s.cfg.Computation != config.Voxelization {
		source = software.RenderDirect(s.scene, s.cfg.Frame.Width, s.cfg.Frame.Height)
	}
	return s.renderer.RenderFrame(source)
}

func (s *session) Close() {
	s.renderer.Close()
}

// Insert a zero-padded frame number before the file extension.
func framePath(path string, frame int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%04d%s", strings.TrimSuffix(path, ext), frame, ext)
}
