package gifproc

import (
	"bytes"
	"io"
	"testing"

	"github.com/illusionman1212/gifproc/canvas"
	"github.com/illusionman1212/gifproc/container"
	"github.com/stretchr/testify/require"
)

// seekBuffer adapts a growable byte slice into an io.ReadWriteSeeker for
// round-tripping an Encoder's output straight back into Open, with no
// filesystem involved.
type seekBuffer struct {
	data []byte
	pos  int64
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	end := s.pos + int64(len(p))
	if end > int64(len(s.data)) {
		grown := make([]byte, end)
		copy(grown, s.data)
		s.data = grown
	}
	n := copy(s.data[s.pos:end], p)
	s.pos = end
	return n, nil
}

func (s *seekBuffer) Read(p []byte) (int, error) {
	if s.pos >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		s.pos = offset
	case io.SeekCurrent:
		s.pos += offset
	case io.SeekEnd:
		s.pos = int64(len(s.data)) + offset
	}
	return s.pos, nil
}

// TestEncodeDecodeRoundTrip checks that a frame encoded through the
// Encoder and re-parsed through Open/ForEachFrame yields a canvas whose
// pixels match the original palette lookup at every position.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	var buf seekBuffer
	enc, err := Create(&buf)
	require.NoError(t, err)

	palette := container.ColorTable{
		{R: 0, G: 0, B: 0},
		{R: 255, G: 0, B: 0},
		{R: 0, G: 255, B: 0},
		{R: 0, G: 0, B: 255},
	}
	indices := []byte{0, 1, 2, 3}
	require.NoError(t, enc.AddIndexed(canvas.IndexedFrame{
		Width: 2, Height: 2,
		Indices: indices,
		Palette: palette,
	}, 5))
	require.NoError(t, enc.Finish(palette))

	g, err := Open(&buf)
	require.NoError(t, err)
	require.Equal(t, 1, g.FrameCount())

	var got [][4]byte
	require.NoError(t, g.ForEachFrame(func(c *canvas.Canvas, delay uint16, index int) error {
		require.Equal(t, uint16(5), delay)
		require.Equal(t, 0, index)
		for row := 0; row < 2; row++ {
			for col := 0; col < 2; col++ {
				r, gg, b, a := c.At(col, row)
				got = append(got, [4]byte{r, gg, b, a})
			}
		}
		return nil
	}))

	want := make([][4]byte, len(indices))
	for i, idx := range indices {
		e := palette[idx]
		want[i] = [4]byte{e.R, e.G, e.B, 255}
	}
	require.Equal(t, want, got)
}

// TestAddIndexedGlobalPaletteWideIndices re-encodes a frame that defers to
// the global color table: its palette is nil, so the index width must come
// from the frame's own BitsPerIndex (or the index values), never from the
// empty local palette. Indices above 3 must survive the trip unmasked.
func TestAddIndexedGlobalPaletteWideIndices(t *testing.T) {
	global := make(container.ColorTable, 16)
	for i := range global {
		global[i] = container.ColorTableEntry{R: byte(i * 16), G: byte(i * 16), B: byte(i * 16)}
	}
	indices := []byte{0, 5, 10, 15}

	var buf seekBuffer
	enc, err := Create(&buf)
	require.NoError(t, err)
	require.NoError(t, enc.AddIndexed(canvas.IndexedFrame{
		Width: 2, Height: 2,
		Indices:      indices,
		BitsPerIndex: 4,
	}, 0))
	require.NoError(t, enc.Finish(global))

	g, oerr := Open(&buf)
	require.NoError(t, oerr)
	require.Equal(t, 1, g.FrameCount())

	require.NoError(t, g.ForEachFrame(func(c *canvas.Canvas, delay uint16, index int) error {
		i := 0
		for row := 0; row < 2; row++ {
			for col := 0; col < 2; col++ {
				want := global[indices[i]]
				r, gg, b, a := c.At(col, row)
				require.Equalf(t, [4]byte{want.R, want.G, want.B, 255}, [4]byte{r, gg, b, a}, "pixel %d", i)
				i++
			}
		}
		return nil
	}))
}

// TestDisposalAcrossFrames checks the carry-forward rule for the
// RestoreToBackground disposal: the first frame paints the whole canvas,
// and because its GCE asks for restore-to-background, the second frame
// starts from a transparent canvas rather than the first frame's pixels.
func TestDisposalAcrossFrames(t *testing.T) {
	var buf seekBuffer
	w, err := container.NewWriter(&buf)
	require.Nil(t, err)

	require.Nil(t, w.AddFrame(container.FrameParams{
		Width: 2, Height: 2,
		MinCodeSize: 2,
		Indices:     []byte{1, 1, 1, 1},
		Delay:       5,
		Disposal:    container.DisposalRestoreToBackground,
	}))
	require.Nil(t, w.AddFrame(container.FrameParams{
		Width: 1, Height: 1,
		MinCodeSize: 2,
		Indices:     []byte{0},
	}))
	palette := container.ColorTable{
		{R: 0, G: 0, B: 0},
		{R: 255, G: 255, B: 255},
	}
	require.Nil(t, w.Finish(palette, 0))

	g, oerr := Open(&buf)
	require.NoError(t, oerr)
	require.Equal(t, 2, g.FrameCount())

	var canvases []*canvas.Canvas
	require.NoError(t, g.ForEachFrame(func(c *canvas.Canvas, delay uint16, index int) error {
		canvases = append(canvases, c)
		return nil
	}))
	require.Len(t, canvases, 2)

	// Frame 0: all white.
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			r, gg, b, a := canvases[0].At(x, y)
			require.Equal(t, [4]byte{255, 255, 255, 255}, [4]byte{r, gg, b, a})
		}
	}

	// Frame 1: only (0,0) painted black; the rest was restored to
	// transparent background, not left white.
	r, gg, b, a := canvases[1].At(0, 0)
	require.Equal(t, [4]byte{0, 0, 0, 255}, [4]byte{r, gg, b, a})
	r, gg, b, a = canvases[1].At(1, 1)
	require.Equal(t, [4]byte{0, 0, 0, 0}, [4]byte{r, gg, b, a})
}

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile("/does/not/exist.gif")
	require.Error(t, err)
}

func TestOpenInvalidHeader(t *testing.T) {
	_, err := Open(bytes.NewReader([]byte("not a gif at all......")))
	require.Error(t, err)
}
