package compositor

import (
	"github.com/achilleasa/vxgi/texture"
	"github.com/achilleasa/vxgi/types"
)

// 5-tap binomial kernel.
var blurWeights = [5]float32{1.0 / 16, 4.0 / 16, 6.0 / 16, 4.0 / 16, 1.0 / 16}

// Run iterations pairs of horizontal and vertical blur passes with taps
// spaced step texels apart.
func blur(src *texture.Texture, iterations int, step float32, workers int) *texture.Texture {
	out := src
	for i := 0; i < iterations; i++ {
		out = blurPass(out, step, 0, workers)
		out = blurPass(out, 0, step, workers)
	}
	return out
}

func blurPass(src *texture.Texture, dx, dy float32, workers int) *texture.Texture {
	out := texture.New(src.Format, src.Width, src.Height)
	w, h := float32(src.Width), float32(src.Height)

	parallelRows(src.Height, workers, func(y int) {
		v := (float32(y) + 0.5) / h
		for x := 0; x < src.Width; x++ {
			u := (float32(x) + 0.5) / w

			var sum types.Vec4
			for tap, weight := range blurWeights {
				k := float32(tap - 2)
				sum = sum.Add(src.SampleBilinear(u+k*dx/w, v+k*dy/h).Mul(weight))
			}
			out.Set(x, y, sum)
		}
	})
	return out
}
