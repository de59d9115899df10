// Package texture implements the float RGBA textures exchanged between the
// capture rig, the voxelization backends and the compositor.
package texture

import (
	"fmt"
	"image"
	"image/color"

	"github.com/achilleasa/vxgi/types"
	"github.com/chewxy/math32"
)

// Texture is a row-major float RGBA image. Texel (0, 0) is the top-left corner.
type Texture struct {
	Format Format

	Width  int
	Height int

	Data []types.Vec4
}

// Allocate a zero-filled texture. Negative dimensions are treated as zero.
func New(format Format, width, height int) *Texture {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Texture{
		Format: format,
		Width:  width,
		Height: height,
		Data:   make([]types.Vec4, width*height),
	}
}

// Return the texel at (x, y). Coordinates are clamped to the texture edges.
func (t *Texture) At(x, y int) types.Vec4 {
	if len(t.Data) == 0 {
		return types.Vec4{}
	}
	x = clampInt(x, 0, t.Width-1)
	y = clampInt(y, 0, t.Height-1)
	return t.Data[y*t.Width+x]
}

// Store a texel at (x, y). Out of range writes are ignored.
func (t *Texture) Set(x, y int, v types.Vec4) {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return
	}
	t.Data[y*t.Width+x] = v
}

// Sample the texture with bilinear filtering at normalized coordinates
// u, v in [0, 1]. Texel centers are located at (i + 0.5) / size.
func (t *Texture) SampleBilinear(u, v float32) types.Vec4 {
	if len(t.Data) == 0 {
		return types.Vec4{}
	}

	fx := u*float32(t.Width) - 0.5
	fy := v*float32(t.Height) - 0.5
	x0 := int(math32.Floor(fx))
	y0 := int(math32.Floor(fy))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	top := t.At(x0, y0).Lerp(t.At(x0+1, y0), tx)
	bottom := t.At(x0, y0+1).Lerp(t.At(x0+1, y0+1), tx)
	return top.Lerp(bottom, ty)
}

// Check whether two textures share the same dimensions.
func (t *Texture) SameSize(other *Texture) bool {
	return other != nil && t.Width == other.Width && t.Height == other.Height
}

// Create a deep copy of the texture.
func (t *Texture) Clone() *Texture {
	out := &Texture{
		Format: t.Format,
		Width:  t.Width,
		Height: t.Height,
		Data:   make([]types.Vec4, len(t.Data)),
	}
	copy(out.Data, t.Data)
	return out
}

// Convert the texture to an 8-bit sRGB-agnostic image. Color channels are
// clamped to [0, 1]; alpha is forced to opaque.
func (t *Texture) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			c := t.Data[y*t.Width+x]
			img.SetNRGBA(x, y, color.NRGBA{
				R: toByte(c[0]),
				G: toByte(c[1]),
				B: toByte(c[2]),
				A: 255,
			})
		}
	}
	return img
}

// Create a texture from an image. Channels are normalized to [0, 1].
func FromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := New(Rgba32F, bounds.Dx(), bounds.Dy())
	for y := 0; y < tex.Height; y++ {
		for x := 0; x < tex.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			tex.Data[y*tex.Width+x] = types.XYZW(
				float32(c.R)/255.0,
				float32(c.G)/255.0,
				float32(c.B)/255.0,
				float32(c.A)/255.0,
			)
		}
	}
	return tex
}

func (t *Texture) String() string {
	return fmt.Sprintf("%s %dx%d", t.Format, t.Width, t.Height)
}

func toByte(v float32) uint8 {
	return uint8(types.Clamp(v, 0, 1)*255.0 + 0.5)
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
