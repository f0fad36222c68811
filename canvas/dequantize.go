package canvas

import "github.com/illusionman1212/gifproc/container"

// traversalRows returns the row indices of a frame region in the order its
// decoded index stream should be consumed: row-major for a linear frame,
// or the GIF's four interlace passes (start 0 stride 8, start 4 stride 8,
// start 2 stride 4, start 1 stride 2) concatenated for an interlaced one.
func traversalRows(height int, interlaced bool) []int {
	if !interlaced {
		rows := make([]int, height)
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	type pass struct{ start, stride int }
	passes := [...]pass{{0, 8}, {4, 8}, {2, 4}, {1, 2}}
	rows := make([]int, 0, height)
	for _, p := range passes {
		for r := p.start; r < height; r += p.stride {
			rows = append(rows, r)
		}
	}
	return rows
}

// Paint walks f's index stream in its traversal order and writes each
// pixel onto c at (f.X+col, f.Y+row). An index equal to the frame's
// transparent index (if any) leaves the canvas beneath untouched. global is
// the container's global color table, used when f has no local palette.
func Paint(c *Canvas, f IndexedFrame, global container.ColorTable) {
	palette := f.ResolvePalette(global)
	rows := traversalRows(f.Height, f.Interlaced)
	pos := 0
	for _, row := range rows {
		for col := 0; col < f.Width; col++ {
			if pos >= len(f.Indices) {
				c.markActiveRegion(f.X, f.Y, f.Width, f.Height)
				return
			}
			idx := f.Indices[pos]
			pos++
			if f.TransparentIndex != nil && idx == *f.TransparentIndex {
				continue
			}
			entry := paletteEntry(palette, idx)
			c.setPixel(f.X+col, f.Y+row, entry.R, entry.G, entry.B, 255)
		}
	}
	c.markActiveRegion(f.X, f.Y, f.Width, f.Height)
}
