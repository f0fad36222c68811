package quantize

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/illusionman1212/gifproc/container"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestFixedPaletteNearestMatch(t *testing.T) {
	q := FixedPalette{Palette: container.ColorTable{
		{R: 0, G: 0, B: 0},
		{R: 255, G: 255, B: 255},
		{R: 255, G: 0, B: 0},
	}}

	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.SetRGBA(0, 0, color.RGBA{10, 10, 10, 255})    // near black
	img.SetRGBA(1, 0, color.RGBA{250, 250, 250, 255}) // near white
	img.SetRGBA(2, 0, color.RGBA{240, 20, 20, 255})   // near red

	res, err := q.Quantize(img, 256)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 2}, res.Indices)
	require.Equal(t, q.Palette, res.Palette)
	require.Nil(t, res.TransparentIndex)
}

// stubQuantizer builds a fixed two-entry palette regardless of input,
// standing in for x/image's perceptual quantizers.
type stubQuantizer struct{}

func (stubQuantizer) Quantize(p color.Palette, m image.Image) color.Palette {
	return append(p,
		color.RGBA{0, 0, 0, 255},
		color.RGBA{255, 255, 255, 255},
	)
}

func TestDrawQuantizer(t *testing.T) {
	q := DrawQuantizer{Quantizer: stubQuantizer{}}
	img := solidImage(2, 2, color.RGBA{255, 255, 255, 255})

	res, err := q.Quantize(img, 256)
	require.NoError(t, err)
	require.Len(t, res.Palette, 2)
	require.Equal(t, []byte{1, 1, 1, 1}, res.Indices)
}

func TestDrawQuantizerTransparentIndex(t *testing.T) {
	q := DrawQuantizer{
		Quantizer:       stubQuantizer{},
		TransparentRGBA: &color.RGBA{0, 0, 0, 255},
	}
	img := solidImage(1, 1, color.RGBA{255, 255, 255, 255})

	res, err := q.Quantize(img, 256)
	require.NoError(t, err)
	require.NotNil(t, res.TransparentIndex)
	require.Equal(t, byte(0), *res.TransparentIndex)
}
