package canvas

import "github.com/illusionman1212/gifproc/container"

// IndexedFrame is a decoded-but-not-yet-painted frame: a flat index
// buffer in wire order (row-major if linear, the four interlace passes
// concatenated if not), its own palette (nil to defer to the container's
// global table), the bit width of one index symbol, and the region it
// occupies on the shared canvas.
type IndexedFrame struct {
	X, Y             int
	Width, Height    int
	Indices          []byte // one byte per pixel, wire order
	BitsPerIndex     int    // min-code-size; every index fits this width
	Interlaced       bool
	Palette          container.ColorTable // nil -> caller resolves against global
	TransparentIndex *byte
}

// ResolvePalette returns the frame's own palette if set, otherwise global.
func (f IndexedFrame) ResolvePalette(global container.ColorTable) container.ColorTable {
	if f.Palette != nil {
		return f.Palette
	}
	return global
}

func paletteEntry(palette container.ColorTable, idx byte) container.ColorTableEntry {
	if int(idx) >= len(palette) {
		return container.ColorTableEntry{}
	}
	return palette[idx]
}
