// Package gifproc reads and writes GIF89a/GIF87a animated images. It is
// the public facade over the layered codec underneath: bit streams
// (bitio), the LZW codec (lzw), the container parser/serializer
// (container), and the dequantizer/frame iterator (canvas).
package gifproc

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/illusionman1212/gifproc/canvas"
	"github.com/illusionman1212/gifproc/container"
	"github.com/illusionman1212/gifproc/giferr"
	"github.com/illusionman1212/gifproc/quantize"
)

// Gif is a parsed container ready for sequential frame decode. Frame
// pixel data is not decoded until ForEachFrame walks it.
type Gif struct {
	parser *container.Parser
}

// Open parses the GIF container structure from r, which must support
// independent seeks for the lifetime of the returned *Gif.
func Open(r io.ReadSeeker) (*Gif, error) {
	p, err := container.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Gif{parser: p}, nil
}

// OpenFile opens and parses a GIF from disk.
func OpenFile(path string) (*Gif, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, giferr.Newf(giferr.FileNotFound, "%s: %v", path, err)
	}
	g, perr := Open(f)
	if perr != nil {
		f.Close()
		return nil, perr
	}
	return g, nil
}

// Width returns the logical screen width.
func (g *Gif) Width() int { return int(g.parser.LSD.CanvasWidth) }

// Height returns the logical screen height.
func (g *Gif) Height() int { return int(g.parser.LSD.CanvasHeight) }

// FrameCount returns the number of frames recorded during parse.
func (g *Gif) FrameCount() int { return len(g.parser.Frames) }

// LoopCount returns the NETSCAPE2.0 loop count, or 0 (no loop extension
// present defaults to "play once" in the absence of other information).
func (g *Gif) LoopCount() int { return g.parser.LoopCount }

// Comments returns every 0xfe comment-extension payload encountered, in
// file order.
func (g *Gif) Comments() []string { return g.parser.Comments }

// Version reports "87a" or "89a".
func (g *Gif) Version() string { return g.parser.Version }

// FrameVisitor is called once per decoded frame by ForEachFrame: the
// painted canvas, the frame's delay in 10ms units, and its ordinal index.
// Returning a non-nil error stops iteration and is propagated to the
// caller of ForEachFrame.
type FrameVisitor func(c *canvas.Canvas, delay uint16, index int) error

// ForEachFrame decodes every frame in parse order: each frame's LZW index
// stream is decompressed, the canvas is prepared per the prior frame's
// disposal method, the frame is painted, and fn is invoked with the
// result.
func (g *Gif) ForEachFrame(fn FrameVisitor) error {
	it := canvas.NewIterator(g.parser)
	for {
		c, delay, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if verr := fn(c, delay, it.Index()); verr != nil {
			return verr
		}
	}
}

// Encoder incrementally serializes a new GIF container.
type Encoder struct {
	writer    *container.Writer
	loopCount uint16
}

// Create reserves the backfilled container header and returns an Encoder
// ready to accept frames.
func Create(w io.WriteSeeker) (*Encoder, error) {
	wr, err := container.NewWriter(w)
	if err != nil {
		return nil, err
	}
	return &Encoder{writer: wr}, nil
}

// SetLoopCount sets the NETSCAPE2.0 loop count written by Finish (0 means
// loop forever, the conventional GIF meaning).
func (e *Encoder) SetLoopCount(n uint16) { e.loopCount = n }

// AddFrame quantizes img via q, then appends it as a new frame with the
// given delay (10ms units). The resulting indexed frame is always written
// with its own local palette, since the global palette is only finalized
// at Finish.
func (e *Encoder) AddFrame(img image.Image, q quantize.Quantizer, delay uint16) error {
	result, err := q.Quantize(img, 256)
	if err != nil {
		return fmt.Errorf("gifproc: quantize frame: %w", err)
	}
	bounds := img.Bounds()
	frame := canvas.IndexedFrame{
		X: 0, Y: 0,
		Width: bounds.Dx(), Height: bounds.Dy(),
		Indices:          result.Indices,
		Palette:          result.Palette,
		TransparentIndex: result.TransparentIndex,
	}
	frame.BitsPerIndex = minCodeSizeFor(frame)
	return e.AddIndexed(frame, delay)
}

// AddIndexed appends an already-quantized frame directly, bypassing
// quantization entirely (used by callers that already have GIF-native
// index data, e.g. re-encoding a decoded frame). The frame's BitsPerIndex
// sets the written min-code-size; a frame that leaves it zero gets the
// smallest width covering its palette and indices. The stated width
// matters for frames deferring to the global palette: their index values
// can exceed what a local palette length would suggest.
func (e *Encoder) AddIndexed(frame canvas.IndexedFrame, delay uint16) error {
	minCodeSize := frame.BitsPerIndex
	if minCodeSize == 0 {
		minCodeSize = minCodeSizeFor(frame)
	}
	if minCodeSize < 2 {
		minCodeSize = 2
	}
	if minCodeSize > 8 {
		minCodeSize = 8
	}
	var transparent *byte
	if frame.TransparentIndex != nil {
		t := *frame.TransparentIndex
		transparent = &t
	}
	if err := e.writer.AddFrame(container.FrameParams{
		X: uint16(frame.X), Y: uint16(frame.Y),
		Width: uint16(frame.Width), Height: uint16(frame.Height),
		Interlaced:       frame.Interlaced,
		LocalPalette:     frame.Palette,
		MinCodeSize:      minCodeSize,
		Indices:          frame.Indices,
		TransparentIndex: transparent,
		Delay:            delay,
	}); err != nil {
		return err
	}
	return nil
}

// Finish writes the trailer and backfills the reserved header region with
// the GIF89a magic, logical screen descriptor, globalPalette (padded to
// 256 entries), and the looping application extension.
func (e *Encoder) Finish(globalPalette container.ColorTable) error {
	if err := e.writer.Finish(globalPalette, e.loopCount); err != nil {
		return err
	}
	return nil
}

// minCodeSizeFor picks the smallest legal min-code-size (at least 2, the
// smallest GIF allows) wide enough for every palette entry and every index
// the frame actually uses, for frames that don't state their own width.
func minCodeSizeFor(frame canvas.IndexedFrame) int {
	maxIdx := len(frame.Palette) - 1
	for _, idx := range frame.Indices {
		if int(idx) > maxIdx {
			maxIdx = int(idx)
		}
	}
	bits := 2
	for (1<<uint(bits))-1 < maxIdx {
		bits++
	}
	if bits > 8 {
		bits = 8
	}
	return bits
}
