package container

import (
	"io"

	"github.com/illusionman1212/gifproc/giferr"
)

// subBlockReader turns a run of (length byte, payload) sub-blocks into a
// single contiguous io.Reader, stopping at the zero-length terminator. It
// records giferr.Error values rather than letting bare io.EOF or
// io.ErrUnexpectedEOF escape to callers outside this package.
type subBlockReader struct {
	r       io.Reader
	buf     [255]byte
	bufLen  int
	bufNext int
	done    bool
	err     *giferr.Error
}

func newSubBlockReader(r io.Reader) *subBlockReader {
	return &subBlockReader{r: r}
}

func (s *subBlockReader) readNextBlock() *giferr.Error {
	var lenBuf [1]byte
	if _, err := io.ReadFull(s.r, lenBuf[:]); err != nil {
		return giferr.New(giferr.UnexpectedEOF)
	}
	if lenBuf[0] == 0 {
		s.done = true
		return nil
	}
	if _, err := io.ReadFull(s.r, s.buf[:lenBuf[0]]); err != nil {
		return giferr.New(giferr.UnexpectedEOF)
	}
	s.bufLen = int(lenBuf[0])
	s.bufNext = 0
	return nil
}

// Read implements io.Reader, returning io.EOF once the terminator has been
// consumed. Any wire-level failure is recorded in s.err and surfaced as
// io.ErrUnexpectedEOF to the reader, with the precise giferr.Kind available
// via Err() for the caller driving the parse.
func (s *subBlockReader) Read(p []byte) (int, error) {
	if s.bufNext >= s.bufLen {
		if s.done {
			return 0, io.EOF
		}
		if err := s.readNextBlock(); err != nil {
			s.err = err
			return 0, io.ErrUnexpectedEOF
		}
		if s.done {
			return 0, io.EOF
		}
	}
	n := len(p)
	if avail := s.bufLen - s.bufNext; avail < n {
		n = avail
	}
	copy(p, s.buf[s.bufNext:s.bufNext+n])
	s.bufNext += n
	return n, nil
}

// Err returns the giferr.Error recorded by a failed Read, if any.
func (s *subBlockReader) Err() *giferr.Error { return s.err }

// readAllSubBlocks concatenates every sub-block payload into one buffer.
func readAllSubBlocks(r io.Reader) ([]byte, *giferr.Error) {
	sb := newSubBlockReader(r)
	out := []byte{}
	var chunk [255]byte
	for {
		n, err := sb.Read(chunk[:])
		out = append(out, chunk[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			if sb.err != nil {
				return nil, sb.err
			}
			return nil, giferr.New(giferr.UnexpectedEOF)
		}
	}
}
