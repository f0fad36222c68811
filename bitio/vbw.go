package bitio

// VBWReader is a variable-bitwidth bit-stream reader. Each
// Read call may request a different width, up to 32 bits, which is what
// the LZW decompressor needs as its code width grows with the dictionary.
type VBWReader struct {
	source []byte
	size   int // total valid bits
	pos    int
}

// NewVBWReader constructs a reader over source, addressing sizeBits bits of
// meaningful data.
func NewVBWReader(source []byte, sizeBits int) *VBWReader {
	return &VBWReader{source: source, size: sizeBits}
}

// EOF reports whether the cursor has reached or passed the end of the
// stream's valid bits.
func (r *VBWReader) EOF() bool { return r.pos >= r.size }

// Read returns up to nbits bits (nbits <= 32); at the tail of the stream it
// returns a truncated field.
func (r *VBWReader) Read(nbits int) Bitfield {
	if r.EOF() {
		return Bitfield{}
	}
	val := NewBits(readBits(r.source, r.pos, nbits), nbits)
	prevPos := r.pos
	r.pos += nbits
	if r.EOF() {
		val = val.TrimMaskRight(r.size - prevPos)
	}
	return val
}

// ReadExtract is a convenience that returns just the value portion of Read.
func (r *VBWReader) ReadExtract(nbits int) uint32 {
	return r.Read(nbits).Value
}

// Rewind moves the cursor back by numBits bits, clamping at 0.
func (r *VBWReader) Rewind(numBits int) {
	r.pos -= numBits
	if r.pos < 0 {
		r.pos = 0
	}
}

// Seek moves the cursor to an absolute bit index, saturating at the
// stream's size.
func (r *VBWReader) Seek(bitIdx int) {
	if bitIdx < 0 {
		bitIdx = 0
	}
	if bitIdx > r.size {
		bitIdx = r.size
	}
	r.pos = bitIdx
}

// SeekEnd moves the cursor to the end of the stream.
func (r *VBWReader) SeekEnd() { r.pos = r.size }

// VBWWriter is a variable-bitwidth bit-stream writer.
type VBWWriter struct {
	buf *BitBuffer
	pos int
}

// NewVBWWriter constructs a writer backed by a fresh, empty buffer.
func NewVBWWriter() *VBWWriter {
	return &VBWWriter{buf: &BitBuffer{}}
}

// Write appends bitfield.MaskLen() bits.
func (w *VBWWriter) Write(val Bitfield) {
	n := w.buf.write(w.pos, val)
	w.pos += n
}

// BitLen returns the number of bits written so far.
func (w *VBWWriter) BitLen() int { return w.pos }

// Bytes returns the backing byte slice.
func (w *VBWWriter) Bytes() []byte { return w.buf.Bytes() }
