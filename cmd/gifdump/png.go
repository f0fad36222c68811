package main

// Minimal PNG chunk writer for frame dumps. Frames arrive already
// composited to RGBA (disposal and transparency resolved), so the output
// is truecolor with alpha (color type 6) and needs no PLTE/tRNS chunks.
import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"os"
)

func writePNGHeader(f *os.File) error {
	_, err := f.Write([]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a})
	return err
}

func writeChunk(f *os.File, tag []byte, data []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := f.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err := f.Write(tag); err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		return err
	}
	var hashBuf [4]byte
	binary.BigEndian.PutUint32(hashBuf[:], crc32.Update(crc32.ChecksumIEEE(tag), crc32.IEEETable, data))
	_, err := f.Write(hashBuf[:])
	return err
}

func writeIHDR(f *os.File, width, height int) error {
	data := make([]byte, 13)
	binary.BigEndian.PutUint32(data[0:4], uint32(width))
	binary.BigEndian.PutUint32(data[4:8], uint32(height))
	data[8] = 8  // bit depth
	data[9] = 6  // color type: truecolor with alpha
	data[10] = 0 // compression method
	data[11] = 0 // filter method
	data[12] = 0 // interlace method
	return writeChunk(f, []byte("IHDR"), data)
}

// filterNone prefixes every scanline with filter type 0 (no prediction).
func filterNone(pix []byte, width, height int) []byte {
	stride := width * 4
	out := make([]byte, 0, (stride+1)*height)
	for row := 0; row < height; row++ {
		out = append(out, 0)
		out = append(out, pix[row*stride:(row+1)*stride]...)
	}
	return out
}

func writeIDAT(f *os.File, pix []byte, width, height int) error {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return err
	}
	if _, err := w.Write(filterNone(pix, width, height)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return writeChunk(f, []byte("IDAT"), buf.Bytes())
}

func writeIEND(f *os.File) error {
	return writeChunk(f, []byte("IEND"), nil)
}

// writeRGBAPNG writes a truecolor+alpha PNG of pix (len == width*height*4)
// to path.
func writeRGBAPNG(path string, pix []byte, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := writePNGHeader(f); err != nil {
		return err
	}
	if err := writeIHDR(f, width, height); err != nil {
		return err
	}
	if err := writeIDAT(f, pix, width, height); err != nil {
		return err
	}
	return writeIEND(f)
}
