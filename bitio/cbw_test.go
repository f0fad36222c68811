package bitio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCBWRoundTrip checks that values written at a fixed width read back
// exactly, for every width the readers support.
func TestCBWRoundTrip(t *testing.T) {
	for n := 1; n <= 32; n++ {
		values := []uint32{0, 1, lowMask(n) / 2, lowMask(n)}
		w := NewCBWWriter(n)
		for _, v := range values {
			w.Write(v & lowMask(n))
		}

		r := NewCBWReader(w.Bytes(), n, w.BitLen())
		for _, want := range values {
			got := r.ReadExtract()
			require.Equalf(t, want&lowMask(n), got, "width=%d", n)
		}
		require.True(t, r.EOF())
	}
}

func TestCBWReadPastEOFTruncates(t *testing.T) {
	w := NewCBWWriter(8)
	w.Write(0xAB)
	// Append three extra bits directly to simulate a partial trailing unit.
	w.buf.writeBits(w.pos, 0b101, 3)

	r := NewCBWReader(w.buf.Bytes(), 8, 11)
	first := r.Read()
	require.Equal(t, uint32(0xAB), first.Value)
	require.Equal(t, 8, first.MaskLen())

	second := r.Read()
	require.Equal(t, 3, second.MaskLen(), "trailing partial unit should report its true bit count")
	require.True(t, r.EOF())

	// Reading again past EOF is a no-op: zero mask, zero value.
	third := r.Read()
	require.Equal(t, Bitfield{}, third)
}

func TestCBWSeekClamps(t *testing.T) {
	w := NewCBWWriter(4)
	for i := 0; i < 5; i++ {
		w.Write(uint32(i))
	}
	r := NewCBWReader(w.Bytes(), 4, w.BitLen())
	r.Seek(100)
	require.True(t, r.EOF())
	r.Seek(-5)
	require.Equal(t, 0, r.TellIndex())
}

func TestCBWRewind(t *testing.T) {
	w := NewCBWWriter(3)
	w.Write(1)
	w.Write(2)
	w.Write(3)
	r := NewCBWReader(w.Bytes(), 3, w.BitLen())
	require.Equal(t, uint32(1), r.ReadExtract())
	require.Equal(t, uint32(2), r.ReadExtract())
	r.Rewind(1)
	require.Equal(t, uint32(2), r.ReadExtract())
	require.Equal(t, uint32(3), r.ReadExtract())
}

// TestLSBPacking checks the packing order: writing value v of width N at
// bit 0 of an empty buffer places v&1 in bit 0 of byte 0, (v>>1)&1 in bit
// 1, and so on.
func TestLSBPacking(t *testing.T) {
	w := NewCBWWriter(5)
	w.Write(0b10110)
	b := w.Bytes()[0]
	for i := 0; i < 5; i++ {
		want := (0b10110 >> uint(i)) & 1
		got := (b >> uint(i)) & 1
		require.Equalf(t, byte(want), got, "bit %d", i)
	}
}
