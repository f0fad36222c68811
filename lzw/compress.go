package lzw

import (
	"github.com/illusionman1212/gifproc/bitio"
)

// compressEntry is one trie node: connections maps the next input symbol to
// a child entry index, and value is the code emitted for the string this
// node represents (for the identity entries installed by reset, that code
// is the symbol itself).
type compressEntry struct {
	connections []uint16
	value       uint16
}

func newCompressEntry(alphabet int) compressEntry {
	e := compressEntry{connections: make([]uint16, alphabet)}
	for i := range e.connections {
		e.connections[i] = invalidConnection
	}
	return e
}

// compressCodebook is the encoder's trie: compression descends from head
// through table entries, appending a new string to the dictionary whenever
// the input diverges from the longest known match.
type compressCodebook struct {
	codebookBase
	head  compressEntry
	table []compressEntry
}

func newCompressCodebook(bitsPerSymbol int) *compressCodebook {
	cb := &compressCodebook{
		codebookBase: codebookBase{bitsPerSymbol: bitsPerSymbol},
		table:        make([]compressEntry, maxCodebookEntries),
	}
	cb.reset()
	return cb
}

// reset reinstalls the identity entries for every symbol in the alphabet
// plus the two reserved codes; codebookSize becomes eoiCode()+1.
func (cb *compressCodebook) reset() {
	alphabet := 1 << uint(cb.bitsPerSymbol)
	cb.head = newCompressEntry(alphabet)
	for i := 0; i < alphabet; i++ {
		cb.table[i] = newCompressEntry(alphabet)
		cb.table[i].value = uint16(i)
		cb.head.connections[i] = uint16(i)
	}
	cb.table[cb.clearCode()] = newCompressEntry(alphabet)
	cb.table[cb.clearCode()].value = cb.clearCode()
	cb.table[cb.eoiCode()] = newCompressEntry(alphabet)
	cb.table[cb.eoiCode()].value = cb.eoiCode()
	cb.codebookSize = cb.eoiCode() + 1
}

// eofMiss is the lookupResult.miss sentinel meaning the input ran out while
// still matching a dictionary string (rather than diverging on a symbol).
const eofMiss = 0xffff

// lookupResult is the outcome of walking the trie as far as the input
// allows: the code to emit, its width, the trie node the walk ended on
// (for extending the dictionary), and the symbol that caused the miss.
type lookupResult struct {
	outputValue uint16
	outputBits  int
	entry       uint16
	miss        uint16
}

// lookupPhase1 walks the trie from head, consuming symbols from in, until
// either the input is exhausted or the next symbol has no trie edge.
func (cb *compressCodebook) lookupPhase1(in *bitio.CBWReader) lookupResult {
	unit := uint16(in.ReadExtract())
	tableIndex := uint16(invalidConnection)
	node := &cb.head
	for node.connections[unit] != invalidConnection && !in.EOF() {
		tableIndex = node.connections[unit]
		node = &cb.table[tableIndex]
		unit = uint16(in.ReadExtract())
	}
	if node.connections[unit] != invalidConnection {
		finalIdx := node.connections[unit]
		return lookupResult{
			outputValue: cb.table[finalIdx].value,
			outputBits:  cb.bitsize(),
			entry:       finalIdx,
			miss:        eofMiss,
		}
	}
	in.Rewind(1)
	return lookupResult{
		outputValue: node.value,
		outputBits:  cb.bitsize(),
		entry:       tableIndex,
		miss:        unit,
	}
}

// lookupPhase2 extends the dictionary with the string that just missed, or
// emits the EOI / clear code that takes the place of a dictionary
// extension at end of input or at saturation.
func (cb *compressCodebook) lookupPhase2(res lookupResult) (extra bitio.Bitfield, hasExtra bool) {
	if res.miss == eofMiss {
		return bitio.NewBits(uint32(cb.eoiCode()), cb.bitsize()), true
	}
	if cb.codebookSize == maxCodebookEntries {
		ret := bitio.NewBits(uint32(cb.clearCode()), cb.bitsize())
		cb.reset()
		return ret, true
	}
	nextCode := cb.codebookSize
	alphabet := 1 << uint(cb.bitsPerSymbol)
	cb.table[res.entry].connections[res.miss] = nextCode
	cb.table[nextCode] = newCompressEntry(alphabet)
	cb.table[nextCode].value = nextCode
	cb.codebookSize++
	return bitio.Bitfield{}, false
}

// Compress reads symbols of bitsPerSymbol width from in until EOF, LZW-codes
// them, and returns the result as a variable-width bit stream starting with
// a clear code and ending with an EOI code.
func Compress(in *bitio.CBWReader, bitsPerSymbol int) *bitio.VBWWriter {
	out := bitio.NewVBWWriter()
	cb := newCompressCodebook(bitsPerSymbol)
	out.Write(bitio.NewBits(uint32(cb.clearCode()), cb.bitsize()))
	if in.EOF() {
		// An empty input still gets its EOI right after the clear.
		out.Write(bitio.NewBits(uint32(cb.eoiCode()), cb.bitsize()))
	}
	for !in.EOF() {
		res := cb.lookupPhase1(in)
		out.Write(bitio.NewBits(uint32(res.outputValue), res.outputBits))
		if extra, ok := cb.lookupPhase2(res); ok {
			out.Write(extra)
		}
	}
	return out
}
