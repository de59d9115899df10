package texture

import (
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/achilleasa/vxgi/types"
	"github.com/stretchr/testify/require"
)

func TestAtClampsToEdges(t *testing.T) {
	tex := New(Rgba32F, 2, 2)
	tex.Set(0, 0, types.XYZW(1, 0, 0, 1))
	tex.Set(1, 1, types.XYZW(0, 1, 0, 1))
	tex.Set(5, 5, types.XYZW(9, 9, 9, 9))

	require.Equal(t, types.XYZW(1, 0, 0, 1), tex.At(-3, -1))
	require.Equal(t, types.XYZW(0, 1, 0, 1), tex.At(10, 10))
}

func TestSampleBilinear(t *testing.T) {
	tex := New(Rgba32F, 2, 1)
	tex.Set(0, 0, types.XYZW(0, 0, 0, 1))
	tex.Set(1, 0, types.XYZW(1, 1, 1, 1))

	type spec struct {
		u   float32
		exp float32
	}
	specs := []spec{
		{0.0, 0.0},
		{0.25, 0.0},
		{0.5, 0.5},
		{0.75, 1.0},
		{1.0, 1.0},
	}

	for index, s := range specs {
		got := tex.SampleBilinear(s.u, 0.5)
		if got[0] < s.exp-1e-5 || got[0] > s.exp+1e-5 {
			t.Fatalf("[spec %d] expected sample at u=%f to be %f; got %f", index, s.u, s.exp, got[0])
		}
	}
}

func TestImageRoundTrip(t *testing.T) {
	tex := New(Rgba32F, 3, 2)
	tex.Set(2, 1, types.XYZW(1, 0.5, 2, 0))

	img := tex.Image()
	require.Equal(t, color.NRGBA{R: 255, G: 128, B: 255, A: 255}, img.NRGBAAt(2, 1))

	back := FromImage(img)
	require.Equal(t, 3, back.Width)
	require.Equal(t, 2, back.Height)
	require.InDelta(t, 0.5, back.At(2, 1)[1], 0.01)
	require.Equal(t, float32(1), back.At(0, 0)[3])
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	tex := New(Rgba32F, 4, 4)
	for i := range tex.Data {
		tex.Data[i] = types.XYZW(0, 0, 1, 1)
	}

	for _, name := range []string{"frame.png", "frame.webp"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(tex, path))
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.NotZero(t, info.Size())
	}

	loaded, err := Load(filepath.Join(dir, "frame.png"), 8, 2)
	require.NoError(t, err)
	require.Equal(t, 8, loaded.Width)
	require.Equal(t, 2, loaded.Height)
	require.InDelta(t, 1.0, loaded.At(3, 1)[2], 0.01)

	err = Save(tex, filepath.Join(dir, "frame.bmp"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		img := image.NewNRGBA(image.Rect(0, 0, 2, 3))
		img.SetNRGBA(1, 2, color.NRGBA{R: 255, A: 255})
		png.Encode(w, img)
	}))
	defer server.Close()

	tex, err := Load(server.URL+"/source.png", 0, 0)
	require.NoError(t, err)
	require.Equal(t, 2, tex.Width)
	require.Equal(t, 3, tex.Height)
	require.Equal(t, float32(1), tex.At(1, 2)[0])
}

func TestLoadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	_, err := Load(path, 0, 0)
	require.Error(t, err)
}
