// Package lzw implements the variable-width LZW compressor and
// decompressor used by GIF image data: clear code, end-of-information
// code, a 12-bit dictionary ceiling, and deferred-clear handling. The bit
// width (1..8, the GIF min-code-size) is a runtime constructor argument.
package lzw

import (
	"github.com/illusionman1212/gifproc/bitio"
)

// maxCodebookEntries is the 12-bit dictionary ceiling (4096 entries).
const maxCodebookEntries = 1 << 12

// highestCodebookEntry is the last valid code (4095), used in the deferred
// clear read-width formula once the table has saturated.
const highestCodebookEntry = 4095

// invalidConnection marks an unset trie edge or back-reference.
const invalidConnection = 0xffff

// codebookBase holds the pieces shared by the compress and decompress
// codebooks: the reserved clear/EOI codes and the current dictionary size,
// which together determine the current code width.
type codebookBase struct {
	bitsPerSymbol int
	codebookSize  uint16
}

func (c *codebookBase) clearCode() uint16 { return uint16(1) << uint(c.bitsPerSymbol) }
func (c *codebookBase) eoiCode() uint16   { return c.clearCode() + 1 }

// bitsize is the encoder's output-width rule: ceil(log2(codebookSize)).
func (c *codebookBase) bitsize() int {
	return bitio.MinBitsize(uint32(c.codebookSize - 1))
}
