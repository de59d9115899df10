package compositor

import (
	"time"

	"github.com/achilleasa/vxgi/config"
	"github.com/achilleasa/vxgi/texture"
	"github.com/achilleasa/vxgi/types"
	"github.com/achilleasa/vxgi/voxel"
)

// Per-frame state shared by the pipeline stages.
type frame struct {
	in     *Inputs
	width  int
	height int
	march  *marcher

	diffuse  *texture.Texture
	specular *texture.Texture
	out      *texture.Texture
}

// An alias for functions that can be used as part of the composition pipeline.
type StageFunc func(c *Compositor, f *frame) (time.Duration, error)

type PipelineStage struct {
	Name string
	Run  StageFunc
}

// The list of stages that are used to compose a frame.
type Pipeline struct {
	Stages []PipelineStage
}

// Select the stages required for a computation mode.
func DefaultPipeline(mode config.Computation) *Pipeline {
	switch mode {
	case config.Voxelization:
		return &Pipeline{Stages: []PipelineStage{
			{"voxel debug", VoxelDebug()},
		}}
	case config.Diffuse:
		return &Pipeline{Stages: []PipelineStage{
			{"diffuse cones", TraceDiffuse()},
			{"diffuse blur", BlurDiffuse()},
			{"composite", Composite(true, false)},
		}}
	case config.Specular:
		return &Pipeline{Stages: []PipelineStage{
			{"specular cones", TraceSpecular()},
			{"specular blur", BlurSpecular()},
			{"composite", Composite(false, true)},
		}}
	}

	return &Pipeline{Stages: []PipelineStage{
		{"diffuse cones", TraceDiffuse()},
		{"specular cones", TraceSpecular()},
		{"diffuse blur", BlurDiffuse()},
		{"specular blur", BlurSpecular()},
		{"composite", Composite(true, true)},
	}}
}

// Trace diffuse cones at the downsampled diffuse resolution.
func TraceDiffuse() StageFunc {
	return func(c *Compositor, f *frame) (time.Duration, error) {
		start := time.Now()
		cone := c.cfg.Diffuse
		dirs := diffuseCones(c.cfg.Samples)
		f.diffuse = f.traceDownsampled(cone.Downsample, c.cfg.Workers, func(pos, normal types.Vec3) types.Vec3 {
			return f.march.diffuse(pos, normal, cone, dirs)
		})
		return time.Since(start), nil
	}
}

// Trace specular reflection cones at the downsampled specular resolution.
func TraceSpecular() StageFunc {
	return func(c *Compositor, f *frame) (time.Duration, error) {
		start := time.Now()
		cone := c.cfg.Specular
		eye := f.in.Primary.Eye
		f.specular = f.traceDownsampled(cone.Downsample, c.cfg.Workers, func(pos, normal types.Vec3) types.Vec3 {
			return f.march.specular(pos, normal, eye, cone)
		})
		return time.Since(start), nil
	}
}

// Apply the configured blur iterations to the diffuse buffer.
func BlurDiffuse() StageFunc {
	return func(c *Compositor, f *frame) (time.Duration, error) {
		start := time.Now()
		f.diffuse = blur(f.diffuse, c.cfg.Diffuse.BlurIterations, c.cfg.Diffuse.BlurStep, c.cfg.Workers)
		return time.Since(start), nil
	}
}

// Apply the configured blur iterations to the specular buffer.
func BlurSpecular() StageFunc {
	return func(c *Compositor, f *frame) (time.Duration, error) {
		start := time.Now()
		f.specular = blur(f.specular, c.cfg.Specular.BlurIterations, c.cfg.Specular.BlurStep, c.cfg.Workers)
		return time.Since(start), nil
	}
}

// Combine the source frame with ambient and indirect light:
//
//	out = direct*source + ambient*albedo + diffuse*albedo*indirectDiffuse + specular*indirectSpecular
func Composite(withDiffuse, withSpecular bool) StageFunc {
	return func(c *Compositor, f *frame) (time.Duration, error) {
		start := time.Now()
		cfg := c.cfg
		out := texture.New(texture.Rgba32F, f.width, f.height)

		parallelRows(f.height, cfg.Workers, func(y int) {
			v := (float32(y) + 0.5) / float32(f.height)
			for x := 0; x < f.width; x++ {
				u := (float32(x) + 0.5) / float32(f.width)
				albedo := f.in.Primary.Color.At(x, y).Vec3()

				col := f.in.Source.At(x, y).Vec3().Mul(cfg.DirectStrength).
					Add(albedo.Mul(cfg.AmbientStrength))
				if withDiffuse {
					indirect := f.diffuse.SampleBilinear(u, v).Vec3()
					col = col.Add(albedo.MulVec(indirect).Mul(cfg.Diffuse.Strength))
				}
				if withSpecular {
					indirect := f.specular.SampleBilinear(u, v).Vec3()
					col = col.Add(indirect.Mul(cfg.Specular.Strength))
				}
				out.Set(x, y, col.Vec4(1))
			}
		})

		f.out = out
		return time.Since(start), nil
	}
}

// Show the finest diffuse cascade contents at each visible surface point.
// Cone parameters do not affect this stage.
func VoxelDebug() StageFunc {
	return func(c *Compositor, f *frame) (time.Duration, error) {
		start := time.Now()
		grid := f.in.Hierarchy.Grid(voxel.Diffuse1)
		out := texture.New(texture.Rgba32F, f.width, f.height)

		parallelRows(f.height, c.cfg.Workers, func(y int) {
			for x := 0; x < f.width; x++ {
				col := types.XYZW(0, 0, 0, 1)
				pos := f.in.Primary.Position.At(x, y)
				if pos[3] != 0 {
					if v, ok := f.in.Space.Sample(grid, pos.Vec3()); ok && !v.Empty() {
						col = v.Color().Vec4(1)
					}
				}
				out.Set(x, y, col)
			}
		})

		f.out = out
		return time.Since(start), nil
	}
}

// Evaluate fn for every texel of a buffer downsampled by factor ds. Texels
// map to the nearest primary view pixel; background texels stay black.
func (f *frame) traceDownsampled(ds, workers int, fn func(pos, normal types.Vec3) types.Vec3) *texture.Texture {
	if ds < 1 {
		ds = 1
	}
	w, h := f.width/ds, f.height/ds
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	out := texture.New(texture.Rgba32F, w, h)
	parallelRows(h, workers, func(y int) {
		py := ((2*y + 1) * f.height) / (2 * h)
		for x := 0; x < w; x++ {
			px := ((2*x + 1) * f.width) / (2 * w)
			pos := f.in.Primary.Position.At(px, py)
			if pos[3] == 0 {
				continue
			}
			normal := f.in.Primary.Normal.At(px, py).Vec3()
			out.Set(x, y, fn(pos.Vec3(), normal).Vec4(1))
		}
	})
	return out
}
