package container

import (
	"encoding/binary"
	"io"

	"github.com/illusionman1212/gifproc/bitio"
	"github.com/illusionman1212/gifproc/giferr"
	"github.com/illusionman1212/gifproc/lzw"
)

// reservedHeaderSize is header(6) + LSD(7) + 256-entry GCT(768) +
// application-extension-block(3+11+5).
const reservedHeaderSize = 6 + 7 + 256*3 + 3 + 11 + 5

// Writer serializes a GIF container incrementally: it reserves the leading
// header region up front (its final contents depend on what is known only
// after the frames are added: canvas size, global palette, loop count) and
// backfills it on Finish.
type Writer struct {
	w io.WriteSeeker

	maxWidth, maxHeight uint16
}

// NewWriter reserves the backfilled header region and positions subsequent
// writes after it.
func NewWriter(w io.WriteSeeker) (*Writer, *giferr.Error) {
	if _, err := w.Seek(0, io.SeekStart); err != nil {
		return nil, giferr.New(giferr.UnexpectedEOF)
	}
	if _, err := w.Write(make([]byte, reservedHeaderSize)); err != nil {
		return nil, giferr.New(giferr.UnexpectedEOF)
	}
	return &Writer{w: w}, nil
}

// FrameParams describes one frame to append. Indices holds one byte per
// pixel in the frame's own traversal order (row-major, or the four
// interlace passes if Interlaced is set); LocalPalette is nil to defer to
// the eventual global palette.
type FrameParams struct {
	X, Y, Width, Height uint16
	Interlaced          bool
	LocalPalette        ColorTable
	MinCodeSize         int
	Indices             []byte
	TransparentIndex    *byte
	Delay               uint16
	Disposal            DisposalMethod
}

// AddFrame appends a GCE (if transparency, a delay, or a disposal method
// is set), the image descriptor, the local color table (padded to a legal
// power of two), the min-code-size byte, and the LZW-compressed,
// sub-block-framed index stream.
func (wr *Writer) AddFrame(p FrameParams) *giferr.Error {
	if p.Width > wr.maxWidth {
		wr.maxWidth = p.Width
	}
	if p.Height > wr.maxHeight {
		wr.maxHeight = p.Height
	}

	if p.TransparentIndex != nil || p.Delay != 0 || p.Disposal != DisposalNone {
		gce := GraphicsControlExtension{
			Disposal:           p.Disposal,
			TransparentEnabled: p.TransparentIndex != nil,
			Delay:              p.Delay,
		}
		if p.TransparentIndex != nil {
			gce.TransparentIndex = *p.TransparentIndex
		}
		if err := wr.writeGCE(gce); err != nil {
			return err
		}
	}

	if err := wr.writeImageDescriptor(p); err != nil {
		return err
	}

	if p.LocalPalette != nil {
		padded := PadToPowerOfTwo(p.LocalPalette)
		if err := writeColorTable(wr.w, padded); err != nil {
			return err
		}
	}

	if err := writeByte(wr.w, byte(p.MinCodeSize)); err != nil {
		return err
	}

	in := bitio.NewCBWWriter(p.MinCodeSize)
	for _, idx := range p.Indices {
		in.Write(uint32(idx))
	}
	reader := bitio.NewCBWReader(in.Bytes(), p.MinCodeSize, in.BitLen())
	compressed := lzw.Compress(reader, p.MinCodeSize)
	return writeSubBlocks(wr.w, compressed.Bytes())
}

func (wr *Writer) writeGCE(gce GraphicsControlExtension) *giferr.Error {
	var buf [8]byte
	buf[0] = ExtensionIntroducer
	buf[1] = LabelGraphicsControl
	buf[2] = graphicsControlBlockSize
	buf[3] = marshalGCEPacked(gce)
	binary.LittleEndian.PutUint16(buf[4:6], gce.Delay)
	buf[6] = gce.TransparentIndex
	buf[7] = 0
	_, err := wr.w.Write(buf[:])
	if err != nil {
		return giferr.New(giferr.UnexpectedEOF)
	}
	return nil
}

func (wr *Writer) writeImageDescriptor(p FrameParams) *giferr.Error {
	desc := ImageDescriptor{
		Left: p.X, Top: p.Y, Width: p.Width, Height: p.Height,
		Interlaced: p.Interlaced,
	}
	if p.LocalPalette != nil {
		padded := PadToPowerOfTwo(p.LocalPalette)
		desc.LCTPresent = true
		desc.LCTSize = padded.SizeField()
	}
	var buf [9]byte
	binary.LittleEndian.PutUint16(buf[0:2], desc.Left)
	binary.LittleEndian.PutUint16(buf[2:4], desc.Top)
	binary.LittleEndian.PutUint16(buf[4:6], desc.Width)
	binary.LittleEndian.PutUint16(buf[6:8], desc.Height)
	buf[8] = marshalImageDescriptorPacked(desc)
	if err := writeByte(wr.w, ImageSeparator); err != nil {
		return err
	}
	if _, err := wr.w.Write(buf[:]); err != nil {
		return giferr.New(giferr.UnexpectedEOF)
	}
	return nil
}

// Finish writes the trailer, then seeks back and backfills the reserved
// header region: the magic, the LSD sized to the maximum frame dimensions
// with a full 256-entry GCT, the GCT itself if supplied, and the NETSCAPE
// looping application extension. The version is always 89a: the looping
// extension written below is itself an 89a feature, so an 87a header
// would declare a file that no conforming reader (this package included)
// may accept.
func (wr *Writer) Finish(globalPalette ColorTable, loopCount uint16) *giferr.Error {
	if err := writeByte(wr.w, Trailer); err != nil {
		return err
	}

	if _, err := wr.w.Seek(0, io.SeekStart); err != nil {
		return giferr.New(giferr.UnexpectedEOF)
	}

	if _, err := wr.w.Write([]byte("GIF89a")); err != nil {
		return giferr.New(giferr.UnexpectedEOF)
	}

	lsd := LogicalScreenDescriptor{
		CanvasWidth:  wr.maxWidth,
		CanvasHeight: wr.maxHeight,
		GCTPresent:   true,
		GCTSize:      7, // 1<<(7+1) == 256 entries
	}
	var lsdBuf [7]byte
	binary.LittleEndian.PutUint16(lsdBuf[0:2], lsd.CanvasWidth)
	binary.LittleEndian.PutUint16(lsdBuf[2:4], lsd.CanvasHeight)
	lsdBuf[4] = marshalLSDPacked(lsd)
	lsdBuf[5] = lsd.BackgroundIndex
	lsdBuf[6] = lsd.AspectRatio
	if _, err := wr.w.Write(lsdBuf[:]); err != nil {
		return giferr.New(giferr.UnexpectedEOF)
	}

	gct := make(ColorTable, 256)
	copy(gct, globalPalette)
	if err := writeColorTableRaw(wr.w, gct); err != nil {
		return err
	}

	var appHeader [3 + 11]byte
	appHeader[0] = ExtensionIntroducer
	appHeader[1] = LabelApplication
	appHeader[2] = applicationBlockSize
	copy(appHeader[3:11], netscapeIdentifier[:])
	copy(appHeader[11:14], netscapeAuthCode[:])
	if _, err := wr.w.Write(appHeader[:]); err != nil {
		return giferr.New(giferr.UnexpectedEOF)
	}

	// NETSCAPE loop sub-block: length 3, [0x01, loop count LE], then the
	// block terminator.
	var loopBlock [5]byte
	loopBlock[0] = 0x03
	loopBlock[1] = 0x01
	binary.LittleEndian.PutUint16(loopBlock[2:4], loopCount)
	loopBlock[4] = 0
	if _, err := wr.w.Write(loopBlock[:]); err != nil {
		return giferr.New(giferr.UnexpectedEOF)
	}

	return nil
}

func writeByte(w io.Writer, b byte) *giferr.Error {
	if _, err := w.Write([]byte{b}); err != nil {
		return giferr.New(giferr.UnexpectedEOF)
	}
	return nil
}

func writeColorTable(w io.Writer, t ColorTable) *giferr.Error {
	return writeColorTableRaw(w, t)
}

func writeColorTableRaw(w io.Writer, t ColorTable) *giferr.Error {
	data := make([]byte, len(t)*3)
	for i, e := range t {
		data[i*3] = e.R
		data[i*3+1] = e.G
		data[i*3+2] = e.B
	}
	if _, err := w.Write(data); err != nil {
		return giferr.New(giferr.UnexpectedEOF)
	}
	return nil
}

func writeSubBlocks(w io.Writer, payload []byte) *giferr.Error {
	for len(payload) > 0 {
		n := len(payload)
		if n > 255 {
			n = 255
		}
		if err := writeByte(w, byte(n)); err != nil {
			return err
		}
		if _, err := w.Write(payload[:n]); err != nil {
			return giferr.New(giferr.UnexpectedEOF)
		}
		payload = payload[n:]
	}
	return writeByte(w, 0)
}
