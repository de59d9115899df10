package texture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	// Register decoders for the source frame formats we accept.
	_ "image/jpeg"

	"github.com/HugoSmits86/nativewebp"
	"github.com/achilleasa/vxgi/asset"
	_ "github.com/ftrvxmtrx/tga"
	xdraw "golang.org/x/image/draw"
)

// Load a source frame from a local path or http/https URL. PNG, JPEG and TGA
// images are supported. If width and height are both positive and differ from
// the image size, the image is rescaled using a Catmull-Rom filter.
func Load(pathToImage string, width, height int) (*Texture, error) {
	res, err := asset.NewResource(pathToImage, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	img, _, err := image.Decode(res)
	if err != nil {
		return nil, fmt.Errorf("texture: could not decode %s: %w", res.Path(), err)
	}

	return FromImage(Rescale(img, width, height)), nil
}

// Rescale img to width x height. The image is returned as-is if the requested
// dimensions are not positive or already match.
func Rescale(img image.Image, width, height int) image.Image {
	bounds := img.Bounds()
	if width <= 0 || height <= 0 || (bounds.Dx() == width && bounds.Dy() == height) {
		return img
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}

// Save the texture to a file. The encoder is selected by the file extension;
// ".png" and ".webp" are supported.
func Save(t *Texture, pathToFile string) error {
	ext := strings.ToLower(filepath.Ext(pathToFile))
	if ext != ".png" && ext != ".webp" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Create(pathToFile)
	if err != nil {
		return err
	}

	img := t.Image()
	switch ext {
	case ".png":
		err = png.Encode(f, img)
	case ".webp":
		err = nativewebp.Encode(f, img, nil)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("texture: could not encode %s: %w", pathToFile, err)
	}
	return f.Close()
}
