package lzw

import (
	"github.com/illusionman1212/gifproc/bitio"
	"github.com/illusionman1212/gifproc/giferr"
)

// decompressEntry is one codebook slot on the decode side: parent chains
// back toward a root symbol, decodedIndex is the single symbol appended at
// this slot, baseIndex is the first symbol of the whole string (needed for
// the KwKwK special case), and tmpNext is scratch space used only while
// walking a chain forward during emission.
type decompressEntry struct {
	parent       uint16
	tmpNext      uint16
	decodedIndex uint8
	baseIndex    uint8
}

// decompressCodebook is the decoder's parent-linked dictionary.
type decompressCodebook struct {
	codebookBase
	table    []decompressEntry
	prevCode uint16
}

func newDecompressCodebook(bitsPerSymbol int) *decompressCodebook {
	cb := &decompressCodebook{
		codebookBase: codebookBase{bitsPerSymbol: bitsPerSymbol},
		table:        make([]decompressEntry, maxCodebookEntries),
	}
	cb.reset()
	return cb
}

func (cb *decompressCodebook) reset() {
	cb.codebookSize = cb.eoiCode() + 1
	cb.prevCode = invalidConnection
	for i := uint16(0); i < cb.codebookSize; i++ {
		cb.table[i] = decompressEntry{
			parent:       invalidConnection,
			tmpNext:      invalidConnection,
			decodedIndex: uint8(i),
			baseIndex:    uint8(i),
		}
	}
}

// readWidth implements the critical deferred-clear rule: once the
// dictionary has saturated at maxCodebookEntries without a clear code, the
// decoder keeps reading at the width the encoder used for its last
// dictionary entry (12 bits) rather than erroring, so it can still follow
// the encoder's final codes up to the clear that eventually arrives.
func (cb *decompressCodebook) readWidth() int {
	if cb.codebookSize == maxCodebookEntries {
		return bitio.MinBitsize(highestCodebookEntry)
	}
	return bitio.MinBitsize(uint32(cb.codebookSize))
}

// backtraceEmit walks the parent chain from code back to its root symbol,
// then emits forward (root-to-leaf) using the table's tmpNext scratch field
// so no separate stack allocation is needed per code.
func (cb *decompressCodebook) backtraceEmit(code uint16, out *bitio.CBWWriter) {
	cur := code
	cb.table[cur].tmpNext = invalidConnection
	for cb.table[cur].parent != invalidConnection {
		child := cur
		cur = cb.table[cur].parent
		cb.table[cur].tmpNext = child
	}
	for cur != invalidConnection {
		out.Write(uint32(cb.table[cur].decodedIndex))
		cur = cb.table[cur].tmpNext
	}
}

// Decompress reads a variable-width LZW stream from in (starting with a
// clear code) and writes the decoded symbols, each bitsPerSymbol wide, to
// out. It returns a *giferr.Error describing the first malformed-stream
// condition, or nil on a clean EOI.
func Decompress(in *bitio.VBWReader, out *bitio.CBWWriter, bitsPerSymbol int) *giferr.Error {
	cb := newDecompressCodebook(bitsPerSymbol)
	if in.EOF() {
		return giferr.New(giferr.UnexpectedEOF)
	}
	first := uint16(in.ReadExtract(cb.readWidth()))
	if first != cb.clearCode() {
		return giferr.New(giferr.MissingInitialClearCode)
	}

	for !in.EOF() {
		width := cb.readWidth()
		code := uint16(in.ReadExtract(width))

		if code == cb.eoiCode() {
			in.SeekEnd()
			return nil
		}
		if code == cb.clearCode() {
			cb.reset()
			continue
		}

		deferringClear := cb.codebookSize >= maxCodebookEntries
		switch {
		case cb.prevCode == invalidConnection:
			out.Write(uint32(cb.table[code].baseIndex))
		case code < cb.codebookSize:
			cb.backtraceEmit(code, out)
			if !deferringClear {
				cb.table[cb.codebookSize] = decompressEntry{
					parent:       cb.prevCode,
					tmpNext:      invalidConnection,
					decodedIndex: cb.table[code].baseIndex,
					baseIndex:    cb.table[cb.prevCode].baseIndex,
				}
				cb.codebookSize++
			}
		case code == cb.codebookSize:
			cb.backtraceEmit(cb.prevCode, out)
			out.Write(uint32(cb.table[cb.prevCode].baseIndex))
			if !deferringClear {
				cb.table[cb.codebookSize] = decompressEntry{
					parent:       cb.prevCode,
					tmpNext:      invalidConnection,
					decodedIndex: cb.table[cb.prevCode].baseIndex,
					baseIndex:    cb.table[cb.prevCode].baseIndex,
				}
				cb.codebookSize++
			}
		default:
			return giferr.New(giferr.InvalidCompressCode)
		}
		cb.prevCode = code
	}
	return giferr.New(giferr.UnexpectedEOF)
}
