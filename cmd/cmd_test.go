package cmd

import (
	"flag"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/achilleasa/vxgi/config"
	"github.com/achilleasa/vxgi/voxel"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

const testScene = `
diffuseDimension = 16
specularDimension = 16
initialVoxelizationIterations = 1
workers = 2
logLevel = "warning"

[frame]
width = 24
height = 16

[scene]
ambient = [0.1, 0.1, 0.1]

[scene.camera]
position = [0, 2, 8]
lookAt = [0, 0, 0]
fov = 60

[[scene.lights]]
direction = [0, -1, -1]
color = [1, 1, 1]
intensity = 1

[[scene.boxes]]
name = "floor"
min = [-5, -2, -5]
max = [5, -1, 5]
albedo = [0.8, 0.8, 0.8]
static = true
tags = ["Voxelize"]

[[scene.boxes]]
name = "cube"
min = [-1, -1, -1]
max = [1, 1, 1]
albedo = [1, 0, 0]
motion = [1, 0, 0]
period = 8
tags = ["Voxelize"]
`

func writeScene(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte(testScene), 0644))
	return path
}

func testApp() *cli.App {
	app := cli.NewApp()
	app.Flags = []cli.Flag{cli.BoolFlag{Name: "v"}, cli.BoolFlag{Name: "vv"}}
	app.Commands = Commands
	return app
}

func flagContext(t *testing.T, args map[string]string, extra ...cli.Flag) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range append(extra, rendererFlags...) {
		f.Apply(set)
	}
	for name, value := range args {
		require.NoError(t, set.Set(name, value))
	}
	return cli.NewContext(nil, set, nil)
}

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	ctx := flagContext(t, map[string]string{
		"computation": "voxelization",
		"method":      "Approximate",
		"samples":     "low",
		"width":       "100",
		"backend":     "CPU",
	})
	require.NoError(t, applyFlags(cfg, ctx))

	require.Equal(t, config.Voxelization, cfg.Computation)
	require.Equal(t, config.Approximate, cfg.Method)
	require.Equal(t, config.Low, cfg.Samples)
	require.Equal(t, 100, cfg.Frame.Width)
	require.Equal(t, 240, cfg.Frame.Height)
	require.Equal(t, config.BackendCPU, cfg.Backend)

	ctx = flagContext(t, map[string]string{"samples": "ultra"})
	require.ErrorIs(t, applyFlags(config.Default(), ctx), config.ErrInvalidOption)
}

func TestFramePath(t *testing.T) {
	require.Equal(t, "out/frame-0007.png", framePath("out/frame.png", 7))
	require.Equal(t, "frame-0012", framePath("frame", 12))
}

func TestUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "quantum"
	_, err := newSession(cfg)
	require.Error(t, err)
}

func TestRenderCommand(t *testing.T) {
	scenePath := writeScene(t)
	out := filepath.Join(t.TempDir(), "frame.png")

	err := testApp().Run([]string{"vxgi", "render", "--config", scenePath, "--frames", "3", "--all", "--out", out, "--samples", "medium"})
	require.NoError(t, err)

	for frame := 0; frame < 3; frame++ {
		require.FileExists(t, framePath(out, frame))
	}
}

func TestVoxelDumpAndInfo(t *testing.T) {
	scenePath := writeScene(t)
	out := filepath.Join(t.TempDir(), "voxels.zip")

	err := testApp().Run([]string{"vxgi", "voxels", "dump", "--config", scenePath, "--frames", "8", "--out", out})
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	snap, err := voxel.ReadSnapshot(f)
	require.NoError(t, err)
	require.Equal(t, 1, snap.Timestamp)
	require.Equal(t, float32(10), snap.Space.Boundary)
	require.NotZero(t, snap.Hierarchy.Occupancy(voxel.Diffuse1))
	require.NotZero(t, snap.Hierarchy.Occupancy(voxel.Specular))

	require.NoError(t, testApp().Run([]string{"vxgi", "voxels", "info", out}))
	require.Error(t, testApp().Run([]string{"vxgi", "voxels", "info"}))
}

func TestWatchRejectsRemoteConfigs(t *testing.T) {
	type spec struct {
		config string
		expErr error
	}
	specs := []spec{
		{"", ErrNoWatchConfig},
		{"http://example.com/scene.toml", ErrRemoteWatchConfig},
		{"https://example.com/scene.toml", ErrRemoteWatchConfig},
	}

	for index, s := range specs {
		ctx := flagContext(t, map[string]string{"config": s.config})
		err := watch(ctx, make(chan os.Signal), nil)
		require.ErrorIs(t, err, s.expErr, "[spec %d]", index)
	}

	err := testApp().Run([]string{"vxgi", "watch", "--config", "https://example.com/scene.toml"})
	require.ErrorIs(t, err, ErrRemoteWatchConfig)
}

func TestWatchRerendersOnChange(t *testing.T) {
	scenePath := writeScene(t)
	out := filepath.Join(t.TempDir(), "frame.png")
	ctx := flagContext(t, map[string]string{"config": scenePath, "out": out}, cli.StringFlag{Name: "out"})

	stop := make(chan os.Signal, 1)
	rendered := make(chan error)
	done := make(chan error, 1)
	go func() { done <- watch(ctx, stop, rendered) }()

	frameWidth := func() int {
		f, err := os.Open(out)
		require.NoError(t, err)
		defer f.Close()
		cfg, _, err := image.DecodeConfig(f)
		require.NoError(t, err)
		return cfg.Width
	}

	timeout := time.After(30 * time.Second)
	select {
	case err := <-rendered:
		require.NoError(t, err)
	case <-timeout:
		t.Fatal("timed out waiting for the initial render")
	}
	require.Equal(t, 24, frameWidth())

	// Replace the config the way editors do
	tmp := filepath.Join(filepath.Dir(scenePath), "scene.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(strings.Replace(testScene, "width = 24", "width = 32", 1)), 0644))
	require.NoError(t, os.Rename(tmp, scenePath))

	for resized := false; !resized; {
		select {
		case err := <-rendered:
			resized = err == nil && frameWidth() == 32
		case <-timeout:
			t.Fatal("timed out waiting for a re-render")
		}
	}

	stop <- os.Interrupt
	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			return
		case <-rendered:
		case <-timeout:
			t.Fatal("timed out waiting for the watch to stop")
		}
	}
}
