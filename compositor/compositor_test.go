package compositor

import (
	"errors"
	"reflect"
	"testing"

	"github.com/achilleasa/vxgi/capture"
	"github.com/achilleasa/vxgi/config"
	"github.com/achilleasa/vxgi/texture"
	"github.com/achilleasa/vxgi/types"
	"github.com/achilleasa/vxgi/voxel"
	"github.com/chewxy/math32"
)

const (
	frameW = 8
	frameH = 6
)

func testConfig(mode config.Computation) *config.Config {
	cfg := config.Default()
	cfg.Computation = mode
	cfg.Method = config.Approximate
	cfg.Samples = config.Low
	cfg.DiffuseDimension = 8
	cfg.SpecularDimension = 8
	cfg.Workers = 2
	return cfg
}

func fill(tex *texture.Texture, v types.Vec4) *texture.Texture {
	for i := range tex.Data {
		tex.Data[i] = v
	}
	return tex
}

// Every pixel sees a surface at the origin facing +Z.
func testPrimary() *capture.PrimaryCapture {
	return &capture.PrimaryCapture{
		Color:    fill(texture.New(texture.Rgba32F, frameW, frameH), types.XYZW(0.5, 0.5, 0.5, 1)),
		Position: fill(texture.New(texture.Position32F, frameW, frameH), types.XYZW(0, 0, 0, 1)),
		Normal:   fill(texture.New(texture.Normal32F, frameW, frameH), types.XYZW(0, 0, 1, 0)),
		Eye:      types.XYZ(0, 0, 5),
	}
}

func testInputs(h *voxel.Hierarchy, current voxel.Tag) *Inputs {
	return &Inputs{
		Hierarchy: h,
		Space:     voxel.Space{Boundary: 10},
		Primary:   testPrimary(),
		Source:    fill(texture.New(texture.Rgba32F, frameW, frameH), types.XYZW(1, 1, 1, 1)),
		Tag:       current,
	}
}

func fillGrids(h *voxel.Hierarchy, color types.Vec3, tag voxel.Tag) {
	for id := voxel.Diffuse1; id < voxel.NumGrids; id++ {
		grid := h.Grid(id)
		for i := range grid.Data {
			grid.Data[i] = uint32(voxel.Pack(color, tag))
		}
	}
}

func expectUniform(t *testing.T, tex *texture.Texture, exp float32) {
	t.Helper()
	for i, v := range tex.Data {
		for c := 0; c < 3; c++ {
			if math32.Abs(v[c]-exp) > 1e-4 {
				t.Fatalf("expected texel %d channel %d to be %f; got %f", i, c, exp, v[c])
			}
		}
	}
}

func TestCompositeWithoutIndirectLight(t *testing.T) {
	modes := []config.Computation{config.Diffuse, config.Specular, config.DiffuseSpecular}

	for index, mode := range modes {
		h := voxel.NewHierarchy(8, 8)
		out, err := New(testConfig(mode)).Render(testInputs(h, voxel.RoundTag(0)))
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if out.Width != frameW || out.Height != frameH {
			t.Fatalf("[spec %d] expected a %dx%d frame; got %dx%d", index, frameW, frameH, out.Width, out.Height)
		}

		// 0.5 * source + 0.1 * albedo
		expectUniform(t, out, 0.55)
	}
}

func TestDiffuseIndirectLight(t *testing.T) {
	h := voxel.NewHierarchy(8, 8)
	fillGrids(h, types.XYZ(1, 1, 1), voxel.BaselineTag)

	out, err := New(testConfig(config.Diffuse)).Render(testInputs(h, voxel.RoundTag(3)))
	if err != nil {
		t.Fatal(err)
	}

	// The first sample at distance 0.5 returns 1 / 1.5 which is modulated
	// by the albedo.
	expectUniform(t, out, 0.55+0.5/1.5)
}

func TestStaleSamplesIgnored(t *testing.T) {
	type spec struct {
		written voxel.Tag
		current voxel.Tag
		exp     float32
	}
	specs := []spec{
		{voxel.RoundTag(0), voxel.RoundTag(0), 0.55 + 0.5/1.5},
		{voxel.RoundTag(0), voxel.RoundTag(1), 0.55 + 0.5/1.5},
		{voxel.RoundTag(0), voxel.RoundTag(5), 0.55},
		{voxel.RoundTag(99), voxel.RoundTag(0), 0.55 + 0.5/1.5},
		{voxel.RoundTag(97), voxel.RoundTag(0), 0.55},
	}

	for index, s := range specs {
		h := voxel.NewHierarchy(8, 8)
		fillGrids(h, types.XYZ(1, 1, 1), s.written)

		out, err := New(testConfig(config.Diffuse)).Render(testInputs(h, s.current))
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if got := out.At(0, 0)[0]; math32.Abs(got-s.exp) > 1e-4 {
			t.Fatalf("[spec %d] expected composed value %f; got %f", index, s.exp, got)
		}
	}
}

func TestRealisticAccumulation(t *testing.T) {
	h := voxel.NewHierarchy(8, 8)
	fillGrids(h, types.XYZ(1, 1, 1), voxel.BaselineTag)

	cfg := testConfig(config.Specular)
	cfg.Method = config.Realistic

	out, err := New(cfg).Render(testInputs(h, voxel.RoundTag(0)))
	if err != nil {
		t.Fatal(err)
	}

	got := out.At(0, 0)[0]
	if got <= 0.55 || got >= 0.55+1 {
		t.Fatalf("expected partial specular contribution; got %f", got)
	}
}

func TestVoxelDebugIgnoresConeParameters(t *testing.T) {
	h := voxel.NewHierarchy(8, 8)
	space := voxel.Space{Boundary: 10}
	index, _ := space.Index(types.XYZ(0, 0, 0), 8)
	h.Grid(voxel.Diffuse1).Data[index] = uint32(voxel.Pack(types.XYZ(1, 0, 0), voxel.BaselineTag))

	render := func(cfg *config.Config) *texture.Texture {
		in := testInputs(h, voxel.RoundTag(0))
		in.Source = nil
		in.Primary.Position.Set(1, 0, types.XYZW(0, 0, 0, 0))
		out, err := New(cfg).Render(in)
		if err != nil {
			t.Fatal(err)
		}
		return out
	}

	cfg1 := testConfig(config.Voxelization)
	cfg2 := testConfig(config.Voxelization)
	cfg2.Diffuse = config.Cone{MaxIterations: 1, Step: 3, StepMultiplier: 2, Angle: 1, Downsample: 4, BlurIterations: 3, BlurStep: 2}
	cfg2.Samples = config.High
	cfg2.Method = config.Realistic

	out1, out2 := render(cfg1), render(cfg2)
	if !reflect.DeepEqual(out1.Data, out2.Data) {
		t.Fatal("expected voxel debug output to be independent of cone parameters")
	}

	if got := out1.At(0, 0); got != types.XYZW(1, 0, 0, 1) {
		t.Fatalf("expected voxel color at covered pixel; got %v", got)
	}
	if got := out1.At(1, 0); got != types.XYZW(0, 0, 0, 1) {
		t.Fatalf("expected black background pixel; got %v", got)
	}
}

func TestDownsampleAndBlur(t *testing.T) {
	h := voxel.NewHierarchy(8, 8)
	fillGrids(h, types.XYZ(1, 1, 1), voxel.BaselineTag)

	cfg := testConfig(config.Diffuse)
	cfg.Diffuse.Downsample = 2
	cfg.Diffuse.BlurIterations = 2
	cfg.Diffuse.BlurStep = 1.5

	c := New(cfg)
	out, err := c.Render(testInputs(h, voxel.RoundTag(0)))
	if err != nil {
		t.Fatal(err)
	}
	expectUniform(t, out, 0.55+0.5/1.5)

	var names []string
	for _, stat := range c.Stats() {
		names = append(names, stat.Name)
	}
	exp := []string{"diffuse cones", "diffuse blur", "composite"}
	if !reflect.DeepEqual(names, exp) {
		t.Fatalf("expected stages %v; got %v", exp, names)
	}
}

func TestBlurPreservesConstantSignal(t *testing.T) {
	src := fill(texture.New(texture.Rgba32F, 5, 4), types.XYZW(0.25, 0.25, 0.25, 1))
	out := blur(src, 3, 2, 2)
	if !out.SameSize(src) {
		t.Fatalf("expected blurred texture to keep its size; got %s", out)
	}
	expectUniform(t, out, 0.25)
}

func TestDiffuseCones(t *testing.T) {
	type spec struct {
		density config.Density
		exp     int
	}
	specs := []spec{
		{config.Low, 1},
		{config.Medium, 5},
		{config.High, 9},
	}

	for index, s := range specs {
		cones := diffuseCones(s.density)
		if len(cones) != s.exp {
			t.Fatalf("[spec %d] expected %d cones; got %d", index, s.exp, len(cones))
		}
		if cones[0].dir != types.XYZ(0, 0, 1) {
			t.Fatalf("[spec %d] expected first cone to follow the normal; got %v", index, cones[0].dir)
		}
		for i, c := range cones {
			if math32.Abs(c.dir.Len()-1) > 1e-5 {
				t.Fatalf("[spec %d] expected cone %d to be unit length; got %f", index, i, c.dir.Len())
			}
			if math32.Abs(c.dir[2]-c.weight) > 1e-5 {
				t.Fatalf("[spec %d] expected cone %d weight to match its cosine", index, i)
			}
		}
	}
}

func TestValidation(t *testing.T) {
	type spec struct {
		mode   config.Computation
		mutate func(in *Inputs)
		expErr error
	}
	specs := []spec{
		{config.Diffuse, func(in *Inputs) { in.Hierarchy = nil }, ErrMissingHierarchy},
		{config.Diffuse, func(in *Inputs) { in.Primary = nil }, ErrMissingPrimary},
		{config.Diffuse, func(in *Inputs) { in.Primary.Normal = nil }, ErrMissingPrimary},
		{config.Diffuse, func(in *Inputs) { in.Source = nil }, ErrMissingSource},
		{config.Specular, func(in *Inputs) { in.Source = texture.New(texture.Rgba32F, 4, 4) }, ErrFrameSizeMismatch},
		{config.Diffuse, func(in *Inputs) { in.Primary.Color = texture.New(texture.Rgba32F, 1, 1) }, ErrFrameSizeMismatch},
		{config.Voxelization, func(in *Inputs) { in.Source = nil }, nil},
	}

	for index, s := range specs {
		in := testInputs(voxel.NewHierarchy(8, 8), voxel.RoundTag(0))
		s.mutate(in)
		_, err := New(testConfig(s.mode)).Render(in)
		if s.expErr == nil {
			if err != nil {
				t.Fatalf("[spec %d] unexpected error: %v", index, err)
			}
			continue
		}
		if !errors.Is(err, s.expErr) {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}
}

func TestCustomPipelineWithoutOutput(t *testing.T) {
	c := NewWithPipeline(testConfig(config.Diffuse), &Pipeline{Stages: []PipelineStage{
		{"diffuse cones", TraceDiffuse()},
	}})
	_, err := c.Render(testInputs(voxel.NewHierarchy(8, 8), voxel.RoundTag(0)))
	if err != ErrNoOutput {
		t.Fatalf("expected ErrNoOutput; got %v", err)
	}
}
