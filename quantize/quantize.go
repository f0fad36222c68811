// Package quantize adapts external color quantizers onto the contract the
// encoder consumes: an RGBA frame in, (indices, palette, optional
// transparent index) out. The real work is delegated to a
// golang.org/x/image/draw.Quantizer, the same seam the standard library's
// image/gif encoder exposes; nothing here reimplements quantization.
package quantize

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/illusionman1212/gifproc/container"
)

// Result is a quantizer's output: one index per pixel (row-major over the
// source image), the palette those indices index into, and an optional
// index reserved for transparency.
type Result struct {
	Indices          []byte
	Palette          container.ColorTable
	TransparentIndex *byte
}

// Quantizer reduces an RGBA image to at most maxColors indexed entries.
// Implementations wrap a draw.Quantizer (x/image's perceptual quantizers,
// e.g. draw.FloydSteinberg's underlying palette selector) or a fixed
// palette.
type Quantizer interface {
	Quantize(img image.Image, maxColors int) (Result, error)
}

// DrawQuantizer adapts any draw.Quantizer into this package's Quantizer
// contract. TransparentRGBA, if non-nil, marks the canvas color that maps
// to a transparent index in the output palette (GIF has no native alpha
// channel in its indexed pixels; transparency is always one reserved
// index).
type DrawQuantizer struct {
	Quantizer       draw.Quantizer
	TransparentRGBA *color.RGBA
}

// Quantize builds a palette via the wrapped draw.Quantizer, then maps every
// pixel of img to its nearest palette entry.
func (q DrawQuantizer) Quantize(img image.Image, maxColors int) (Result, error) {
	palette := q.Quantizer.Quantize(make(color.Palette, 0, maxColors), img)

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	indices := make([]byte, w*h)
	var transparentIndex *byte

	if q.TransparentRGBA != nil {
		idx := byte(palette.Index(*q.TransparentRGBA))
		transparentIndex = &idx
	}

	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			c := img.At(bounds.Min.X+col, bounds.Min.Y+row)
			indices[row*w+col] = byte(palette.Index(c))
		}
	}

	table := make(container.ColorTable, len(palette))
	for i, c := range palette {
		r, g, b, _ := c.RGBA()
		table[i] = container.ColorTableEntry{R: byte(r >> 8), G: byte(g >> 8), B: byte(b >> 8)}
	}

	return Result{Indices: indices, Palette: table, TransparentIndex: transparentIndex}, nil
}

// FixedPalette quantizes against a caller-supplied palette with no color
// search beyond nearest-match, useful for indexed sources (e.g. frames
// decoded from another GIF) that already carry their own table.
type FixedPalette struct {
	Palette          container.ColorTable
	TransparentIndex *byte
}

// Quantize maps every pixel of img to its nearest entry in the fixed
// palette via Euclidean distance in RGB space.
func (q FixedPalette) Quantize(img image.Image, maxColors int) (Result, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	indices := make([]byte, w*h)

	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			r, g, b, _ := img.At(bounds.Min.X+col, bounds.Min.Y+row).RGBA()
			indices[row*w+col] = nearestEntry(q.Palette, byte(r>>8), byte(g>>8), byte(b>>8))
		}
	}

	return Result{Indices: indices, Palette: q.Palette, TransparentIndex: q.TransparentIndex}, nil
}

func nearestEntry(palette container.ColorTable, r, g, b byte) byte {
	best := 0
	bestDist := -1
	for i, e := range palette {
		dr := int(e.R) - int(r)
		dg := int(e.G) - int(g)
		db := int(e.B) - int(b)
		dist := dr*dr + dg*dg + db*db
		if bestDist == -1 || dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return byte(best)
}
