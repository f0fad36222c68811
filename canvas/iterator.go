package canvas

import (
	"github.com/illusionman1212/gifproc/container"
	"github.com/illusionman1212/gifproc/giferr"
)

// Iterator drives sequential playback: for each container frame in parse
// order it decodes the index stream, prepares the canvas per the
// preceding frame's disposal method, paints, and carries forward the
// result per this frame's own disposal method.
type Iterator struct {
	parser  *container.Parser
	canvas  *Canvas
	prevGCE *container.GraphicsControlExtension
	index   int
}

// NewIterator constructs an iterator over an already-parsed container.
func NewIterator(p *container.Parser) *Iterator {
	width := int(p.LSD.CanvasWidth)
	height := int(p.LSD.CanvasHeight)
	return &Iterator{parser: p, canvas: New(width, height)}
}

// prepare sets up the canvas frame F paints onto. The disposal context
// comes from frame F-1's GCE, carried as prevGCE from the previous Next
// call.
func (i *Iterator) prepare() *Canvas {
	// Always return a fresh object: i.canvas must stay untouched by this
	// frame's paint in case its own disposal is RestoreToPrevious, which
	// carries i.canvas forward exactly as it was going into this call.
	if i.prevGCE == nil || i.prevGCE.Disposal == container.DisposalNone {
		return New(i.canvas.Width, i.canvas.Height)
	}
	// DoNotDispose, RestoreToBackground, RestoreToPrevious, and the
	// reserved values all start the new frame from a copy of the prior
	// canvas.
	return i.canvas.Clone()
}

// Index returns the ordinal of the most recently yielded frame, or -1 if
// Next has not yet been called.
func (i *Iterator) Index() int { return i.index - 1 }

// Next decodes, prepares, and paints the next frame, returning the
// resulting canvas, its delay in 10ms units, and whether a frame was
// produced (false once every frame has been yielded).
func (i *Iterator) Next() (*Canvas, uint16, bool, *giferr.Error) {
	if i.index >= len(i.parser.Frames) {
		return nil, 0, false, nil
	}
	frame := &i.parser.Frames[i.index]
	i.index++

	indices, err := i.parser.DecodeIndices(frame)
	if err != nil {
		return nil, 0, false, err
	}

	working := i.prepare()

	var transparentIndex *byte
	var delay uint16
	if frame.GCE != nil && frame.GCE.TransparentEnabled {
		t := frame.GCE.TransparentIndex
		transparentIndex = &t
	}
	if frame.GCE != nil {
		delay = frame.GCE.Delay
	}

	qimg := IndexedFrame{
		X: int(frame.Descriptor.Left), Y: int(frame.Descriptor.Top),
		Width: int(frame.Descriptor.Width), Height: int(frame.Descriptor.Height),
		Indices:          indices,
		BitsPerIndex:     frame.MinCodeSize,
		Interlaced:       frame.Descriptor.Interlaced,
		Palette:          frame.LocalColorTable,
		TransparentIndex: transparentIndex,
	}
	Paint(working, qimg, i.parser.GlobalColorTable)

	yielded := working.Clone()

	switch {
	case frame.GCE != nil && frame.GCE.Disposal == container.DisposalRestoreToBackground:
		working.ClearActiveRegion()
		i.canvas = working
	case frame.GCE != nil && frame.GCE.Disposal == container.DisposalRestoreToPrevious:
		// i.canvas is left exactly as prepare() found it.
	default:
		i.canvas = working
	}

	i.prevGCE = frame.GCE
	return yielded, delay, true, nil
}
