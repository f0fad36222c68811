// Package giferr defines the single flat error kind set shared by the
// bit-stream, LZW and container layers. Parsing is fail-fast: the first
// error encountered terminates the operation and is returned verbatim.
package giferr

import "fmt"

// Kind enumerates the error conditions the codec can report. Zero value is
// Success so a zero Kind never accidentally reads as a failure.
type Kind int

const (
	Success Kind = iota
	FileNotFound
	UnexpectedEOF
	InvalidHeader
	NotSupported
	InvalidExtensionLabel
	MissingBlockTerminator
	InvalidApplicationData
	InvalidBlockSize
	MissingInitialClearCode
	InvalidCompressCode

	// DictionaryOverflow is reserved for an LZW table growing past 4095
	// entries. The decoder handles saturation by deferring the clear
	// (reading 12-bit codes and adding nothing) rather than erroring, so
	// no current code path reports it; it stays in the set for callers
	// that already switch over every Kind.
	DictionaryOverflow
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case FileNotFound:
		return "file not found"
	case UnexpectedEOF:
		return "unexpected end of file"
	case InvalidHeader:
		return "invalid GIF header"
	case NotSupported:
		return "feature not supported by this GIF version"
	case InvalidExtensionLabel:
		return "invalid extension label"
	case MissingBlockTerminator:
		return "missing sub-block terminator"
	case InvalidApplicationData:
		return "invalid application extension data"
	case InvalidBlockSize:
		return "invalid block size"
	case MissingInitialClearCode:
		return "missing initial LZW clear code"
	case InvalidCompressCode:
		return "invalid LZW compression code"
	case DictionaryOverflow:
		return "LZW dictionary overflow"
	default:
		return fmt.Sprintf("giferr.Kind(%d)", int(k))
	}
}

// Error wraps a Kind with optional context, satisfying the standard error
// interface and errors.Is via Kind comparison.
type Error struct {
	Kind    Kind
	Context string
}

func (e *Error) Error() string {
	if e.Context == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Context
}

// Is lets errors.Is(err, New(SomeKind)) match any *Error with the same Kind,
// regardless of Context.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// New constructs an *Error with no extra context.
func New(k Kind) *Error {
	return &Error{Kind: k}
}

// Newf constructs an *Error with a formatted context string.
func Newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Context: fmt.Sprintf(format, args...)}
}
