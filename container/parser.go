package container

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/illusionman1212/gifproc/bitio"
	"github.com/illusionman1212/gifproc/giferr"
	"github.com/illusionman1212/gifproc/lzw"
)

// netscapeIdentifier and netscapeAuthCode identify the looping application
// extension.
var (
	netscapeIdentifier = [8]byte{'N', 'E', 'T', 'S', 'C', 'A', 'P', 'E'}
	netscapeAuthCode   = [3]byte{'2', '.', '0'}
)

// Parser holds the result of a single container parse: logical screen
// state plus every frame's immutable metadata. Frame pixel data is not
// decoded during Parse; DecodeIndices reads it on demand from the recorded
// offset, so the underlying reader must stay valid and seekable for the
// Parser's lifetime.
type Parser struct {
	r io.ReadSeeker

	Version          string // "87a" or "89a"
	LSD              LogicalScreenDescriptor
	GlobalColorTable ColorTable
	Frames           []FrameContext
	Comments         []string
	LoopCount        int
	HasLoopCount     bool
}

// Parse rewinds r and reads the whole container structure (header through
// trailer), recording frame metadata without decoding pixel data.
func Parse(r io.ReadSeeker) (*Parser, *giferr.Error) {
	p := &Parser{r: r}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, giferr.New(giferr.UnexpectedEOF)
	}
	if err := p.readHeader(); err != nil {
		return nil, err
	}
	if err := p.readLSD(); err != nil {
		return nil, err
	}
	if p.LSD.GCTPresent {
		table, err := readColorTable(p.r, 1<<(uint(p.LSD.GCTSize)+1))
		if err != nil {
			return nil, err
		}
		p.GlobalColorTable = table
	}

	var activeGCE *GraphicsControlExtension
	for {
		marker, err := readByte(p.r)
		if err != nil {
			return nil, err
		}
		switch marker {
		case Trailer:
			return p, nil
		case ExtensionIntroducer:
			if p.Version != "89a" {
				return nil, giferr.New(giferr.NotSupported)
			}
			gce, cerr := p.readExtension()
			if cerr != nil {
				return nil, cerr
			}
			// A graphics control extension governs only the next block:
			// any block consumes the previously active GCE, so one that
			// was pending before this extension is dropped here.
			activeGCE = gce
		case ImageSeparator:
			frame, cerr := p.readImageDescriptorAndSkip(len(p.Frames), activeGCE)
			if cerr != nil {
				return nil, cerr
			}
			p.Frames = append(p.Frames, frame)
			activeGCE = nil
		default:
			return nil, giferr.New(giferr.InvalidExtensionLabel)
		}
	}
}

func (p *Parser) readHeader() *giferr.Error {
	var magic [6]byte
	if _, err := io.ReadFull(p.r, magic[:]); err != nil {
		return giferr.New(giferr.InvalidHeader)
	}
	if !bytes.Equal(magic[:3], []byte("GIF")) {
		return giferr.New(giferr.InvalidHeader)
	}
	version := string(magic[3:])
	if version != "87a" && version != "89a" {
		return giferr.New(giferr.InvalidHeader)
	}
	p.Version = version
	return nil
}

func (p *Parser) readLSD() *giferr.Error {
	var data [7]byte
	if _, err := io.ReadFull(p.r, data[:]); err != nil {
		return giferr.New(giferr.UnexpectedEOF)
	}
	gctPresent, colorRes, sortFlag, gctSize := unmarshalLSDPacked(data[4])
	p.LSD = LogicalScreenDescriptor{
		CanvasWidth:     binary.LittleEndian.Uint16(data[0:2]),
		CanvasHeight:    binary.LittleEndian.Uint16(data[2:4]),
		GCTPresent:      gctPresent,
		ColorResolution: colorRes,
		SortFlag:        sortFlag,
		GCTSize:         gctSize,
		BackgroundIndex: data[5],
		AspectRatio:     data[6],
	}
	return nil
}

// readExtension parses one 0x21-introduced extension and returns a non-nil
// GCE if the extension was a graphics control block.
func (p *Parser) readExtension() (*GraphicsControlExtension, *giferr.Error) {
	label, err := readByte(p.r)
	if err != nil {
		return nil, err
	}
	switch label {
	case LabelGraphicsControl:
		size, err := readByte(p.r)
		if err != nil {
			return nil, err
		}
		if size != graphicsControlBlockSize {
			return nil, giferr.New(giferr.InvalidBlockSize)
		}
		var data [4]byte
		if _, ioErr := io.ReadFull(p.r, data[:]); ioErr != nil {
			return nil, giferr.New(giferr.UnexpectedEOF)
		}
		term, err := readByte(p.r)
		if err != nil {
			return nil, err
		}
		if term != 0 {
			return nil, giferr.New(giferr.MissingBlockTerminator)
		}
		disposal, userInput, transparentEnabled := unmarshalGCEPacked(data[0])
		gce := &GraphicsControlExtension{
			Disposal:           disposal,
			UserInput:          userInput,
			TransparentEnabled: transparentEnabled,
			Delay:              binary.LittleEndian.Uint16(data[1:3]),
			TransparentIndex:   data[3],
		}
		return gce, nil

	case LabelPlainText:
		size, err := readByte(p.r)
		if err != nil {
			return nil, err
		}
		if size != plainTextBlockSize {
			return nil, giferr.New(giferr.InvalidBlockSize)
		}
		var discard [plainTextBlockSize]byte
		if _, ioErr := io.ReadFull(p.r, discard[:]); ioErr != nil {
			return nil, giferr.New(giferr.UnexpectedEOF)
		}
		if skipErr := skipSubBlocks(p.r); skipErr != nil {
			return nil, skipErr
		}
		return nil, nil

	case LabelApplication:
		size, err := readByte(p.r)
		if err != nil {
			return nil, err
		}
		if size != applicationBlockSize {
			return nil, giferr.New(giferr.InvalidBlockSize)
		}
		var data [applicationBlockSize]byte
		if _, ioErr := io.ReadFull(p.r, data[:]); ioErr != nil {
			return nil, giferr.New(giferr.UnexpectedEOF)
		}
		if bytes.Equal(data[0:8], netscapeIdentifier[:]) && bytes.Equal(data[8:11], netscapeAuthCode[:]) {
			if cerr := p.readNetscapeLoopBlock(); cerr != nil {
				return nil, cerr
			}
			return nil, nil
		}
		if skipErr := skipSubBlocks(p.r); skipErr != nil {
			return nil, skipErr
		}
		return nil, nil

	case LabelComment:
		payload, cerr := readAllSubBlocks(p.r)
		if cerr != nil {
			return nil, cerr
		}
		p.Comments = append(p.Comments, string(payload))
		return nil, nil

	default:
		return nil, giferr.New(giferr.InvalidExtensionLabel)
	}
}

func (p *Parser) readNetscapeLoopBlock() *giferr.Error {
	size, err := readByte(p.r)
	if err != nil {
		return err
	}
	if size != 3 {
		return giferr.New(giferr.InvalidApplicationData)
	}
	var data [3]byte
	if _, ioErr := io.ReadFull(p.r, data[:]); ioErr != nil {
		return giferr.New(giferr.UnexpectedEOF)
	}
	if data[0] != 0x01 {
		return giferr.New(giferr.InvalidApplicationData)
	}
	p.LoopCount = int(binary.LittleEndian.Uint16(data[1:3]))
	p.HasLoopCount = true
	term, err := readByte(p.r)
	if err != nil {
		return err
	}
	if term != 0 {
		return giferr.New(giferr.MissingBlockTerminator)
	}
	return nil
}

func (p *Parser) readImageDescriptorAndSkip(ordinal int, gce *GraphicsControlExtension) (FrameContext, *giferr.Error) {
	var data [9]byte
	if _, ioErr := io.ReadFull(p.r, data[:]); ioErr != nil {
		return FrameContext{}, giferr.New(giferr.UnexpectedEOF)
	}
	lctPresent, interlaced, sorted, lctSize := unmarshalImageDescriptorPacked(data[8])
	desc := ImageDescriptor{
		Left:       binary.LittleEndian.Uint16(data[0:2]),
		Top:        binary.LittleEndian.Uint16(data[2:4]),
		Width:      binary.LittleEndian.Uint16(data[4:6]),
		Height:     binary.LittleEndian.Uint16(data[6:8]),
		LCTPresent: lctPresent,
		Interlaced: interlaced,
		Sorted:     sorted,
		LCTSize:    lctSize,
	}

	var localTable ColorTable
	if lctPresent {
		table, err := readColorTable(p.r, 1<<(uint(lctSize)+1))
		if err != nil {
			return FrameContext{}, err
		}
		localTable = table
	}

	minCodeSize, err := readByte(p.r)
	if err != nil {
		return FrameContext{}, err
	}

	offset, seekErr := p.r.Seek(0, io.SeekCurrent)
	if seekErr != nil {
		return FrameContext{}, giferr.New(giferr.UnexpectedEOF)
	}

	if skipErr := skipSubBlocks(p.r); skipErr != nil {
		return FrameContext{}, skipErr
	}

	return FrameContext{
		Ordinal:         ordinal,
		GCE:             gce,
		Descriptor:      desc,
		LocalColorTable: localTable,
		MinCodeSize:     int(minCodeSize),
		ImageDataStart:  offset,
	}, nil
}

// DecodeIndices seeks to the frame's image data and LZW-decompresses it
// into one byte per pixel (row-major within the frame's own traversal
// order is canvas's responsibility, not this layer's).
func (p *Parser) DecodeIndices(frame *FrameContext) ([]byte, *giferr.Error) {
	if _, err := p.r.Seek(frame.ImageDataStart, io.SeekStart); err != nil {
		return nil, giferr.New(giferr.UnexpectedEOF)
	}
	payload, cerr := readAllSubBlocks(p.r)
	if cerr != nil {
		return nil, cerr
	}

	vr := bitio.NewVBWReader(payload, len(payload)*8)
	out := bitio.NewCBWWriter(frame.MinCodeSize)
	if derr := lzw.Decompress(vr, out, frame.MinCodeSize); derr != nil {
		return nil, derr
	}

	cr := bitio.NewCBWReader(out.Bytes(), frame.MinCodeSize, out.BitLen())
	indices := make([]byte, 0, out.BitLen()/frame.MinCodeSize)
	for !cr.EOF() {
		indices = append(indices, byte(cr.ReadExtract()))
	}
	return indices, nil
}

func readByte(r io.Reader) (byte, *giferr.Error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, giferr.New(giferr.UnexpectedEOF)
	}
	return buf[0], nil
}

func readColorTable(r io.Reader, entries int) (ColorTable, *giferr.Error) {
	data := make([]byte, entries*3)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, giferr.New(giferr.UnexpectedEOF)
	}
	table := make(ColorTable, entries)
	for i := range table {
		table[i] = ColorTableEntry{R: data[i*3], G: data[i*3+1], B: data[i*3+2]}
	}
	return table, nil
}

// skipSubBlocks advances past a sub-block run using Seek rather than
// reading payloads, since the block loop only needs byte offsets here.
func skipSubBlocks(r io.ReadSeeker) *giferr.Error {
	for {
		length, err := readByte(r)
		if err != nil {
			return err
		}
		if length == 0 {
			return nil
		}
		if _, seekErr := r.Seek(int64(length), io.SeekCurrent); seekErr != nil {
			return giferr.New(giferr.UnexpectedEOF)
		}
	}
}
