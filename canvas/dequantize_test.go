package canvas

import (
	"testing"

	"github.com/illusionman1212/gifproc/container"
	"github.com/stretchr/testify/require"
)

// identityPalette returns an n-entry palette where entry i is (i, i, i).
func identityPalette(n int) container.ColorTable {
	t := make(container.ColorTable, n)
	for i := range t {
		t[i] = container.ColorTableEntry{R: byte(i), G: byte(i), B: byte(i)}
	}
	return t
}

// TestPaintIdentityLinear checks that indices [0,1,2,...] with an identity
// palette and no transparency paint pixels (i,i,i,255) in row-major order.
func TestPaintIdentityLinear(t *testing.T) {
	c := New(4, 1)
	f := IndexedFrame{Width: 4, Height: 1, Indices: []byte{0, 1, 2, 3}}
	Paint(c, f, identityPalette(4))

	for i := 0; i < 4; i++ {
		r, g, b, a := c.At(i, 0)
		require.Equal(t, byte(i), r)
		require.Equal(t, byte(i), g)
		require.Equal(t, byte(i), b)
		require.Equal(t, byte(255), a)
	}
}

// TestPaintCheckerboard paints a 2x2 frame with a black/white palette and
// indices [0,1,1,0] and checks the row-major pixel sequence.
func TestPaintCheckerboard(t *testing.T) {
	palette := container.ColorTable{{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}}
	c := New(2, 2)
	f := IndexedFrame{Width: 2, Height: 2, Indices: []byte{0, 1, 1, 0}}
	Paint(c, f, palette)

	want := [][4]byte{
		{0, 0, 0, 255}, {255, 255, 255, 255},
		{255, 255, 255, 255}, {0, 0, 0, 255},
	}
	i := 0
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			r, g, b, a := c.At(col, row)
			require.Equal(t, want[i], [4]byte{r, g, b, a}, "pixel %d", i)
			i++
		}
	}
}

// TestPaintTransparentIndex checks that a transparent index leaves the
// pre-existing canvas pixel untouched instead of painting over it.
func TestPaintTransparentIndex(t *testing.T) {
	palette := container.ColorTable{{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}}
	c := New(2, 2)
	// Pre-seed a distinguishable background pixel where index 1 will be
	// transparent.
	c.setPixel(1, 0, 9, 9, 9, 9)

	transparent := byte(1)
	f := IndexedFrame{
		Width: 2, Height: 2,
		Indices:          []byte{0, 1, 1, 0},
		TransparentIndex: &transparent,
	}
	Paint(c, f, palette)

	r, g, b, a := c.At(0, 0)
	require.Equal(t, [4]byte{0, 0, 0, 255}, [4]byte{r, g, b, a})

	r, g, b, a = c.At(1, 0)
	require.Equal(t, [4]byte{9, 9, 9, 9}, [4]byte{r, g, b, a}, "transparent index must leave background untouched")
}

// TestInterlacedRowOrder checks that an 8-row interlaced frame produces
// the four-pass row order 0 -> 4 -> 2,6 -> 1,3,5,7.
func TestInterlacedRowOrder(t *testing.T) {
	rows := traversalRows(8, true)
	require.Equal(t, []int{0, 4, 2, 6, 1, 3, 5, 7}, rows)
}

func TestTraversalRowsLinear(t *testing.T) {
	rows := traversalRows(4, false)
	require.Equal(t, []int{0, 1, 2, 3}, rows)
}

// TestDisposalRestoreToBackground checks that clearing the active region
// after a RestoreToBackground disposal leaves the old painted rectangle
// fully transparent.
func TestDisposalRestoreToBackground(t *testing.T) {
	c := New(4, 4)
	c.markActiveRegion(1, 1, 2, 2)
	for row := 1; row < 3; row++ {
		for col := 1; col < 3; col++ {
			c.setPixel(col, row, 200, 200, 200, 255)
		}
	}

	c.ClearActiveRegion()

	for row := 1; row < 3; row++ {
		for col := 1; col < 3; col++ {
			r, g, b, a := c.At(col, row)
			require.Equal(t, [4]byte{0, 0, 0, 0}, [4]byte{r, g, b, a})
		}
	}
}

func TestPaintOutOfBoundsRegionDoesNotPanic(t *testing.T) {
	c := New(2, 2)
	f := IndexedFrame{X: 1, Y: 1, Width: 4, Height: 4, Indices: make([]byte, 16)}
	require.NotPanics(t, func() { Paint(c, f, identityPalette(1)) })
}
