package bitstream_test

import (
	"bytes"
	"io"

	"github.com/spacemeshos/bitpack/bitstream"
)

// bitReader reads back packed output, following the LSB pattern.
type bitReader struct {
	stream    io.Reader
	pending   [1]byte
	alignment uint8
}

func newReader(data []byte) *bitReader {
	return &bitReader{
		stream:    bytes.NewReader(data),
		alignment: 8,
	}
}

// ReadBit reads the next single bit from the stream, LSB first.
func (br *bitReader) ReadBit() (bitstream.Bit, error) {
	if br.alignment == 8 {
		if _, err := io.ReadFull(br.stream, br.pending[:]); err != nil {
			return bitstream.Zero, err
		}
		br.alignment = 0
	}
	br.alignment++

	// Read LS bit.
	lsb := bitstream.Bit(br.pending[0]&1 == 1)

	// Remove LS bit.
	br.pending[0] >>= 1

	return lsb, nil
}

// ReadUnsigned reads numBits bits, the first one read being the LS bit of the result.
func (br *bitReader) ReadUnsigned(numBits uint) (uint64, error) {
	var val uint64
	for i := uint(0); i < numBits; i++ {
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit {
			val |= 1 << i
		}
	}
	return val, nil
}

// ReadUnsignedBE mirrors Packer.WriteUnsignedBE.
func (br *bitReader) ReadUnsignedBE(numBits uint) (uint64, error) {
	remainder := numBits % 8
	val, err := br.ReadUnsigned(remainder)
	if err != nil {
		return 0, err
	}

	for i := uint(0); i < numBits/8; i++ {
		byt, err := br.ReadUnsigned(8)
		if err != nil {
			return 0, err
		}
		val = val<<8 | byt
	}

	return val, nil
}

// ReadUnsignedLE mirrors Packer.WriteUnsignedLE.
func (br *bitReader) ReadUnsignedLE(numBits uint) (uint64, error) {
	remainder := numBits % 8
	whole := numBits - remainder

	var val uint64
	for shift := uint(0); shift < whole; shift += 8 {
		byt, err := br.ReadUnsigned(8)
		if err != nil {
			return 0, err
		}
		val |= byt << shift
	}

	high, err := br.ReadUnsigned(remainder)
	if err != nil {
		return 0, err
	}

	return val | high<<whole, nil
}

// extractBits returns n bits of src starting at bit from, aligned at position 0.
func extractBits(src []byte, from, n uint) []byte {
	out := make([]byte, (n+7)/8)
	for i := uint(0); i < n; i++ {
		bit := (src[(from+i)/8] >> ((from + i) % 8)) & 1
		out[i/8] |= bit << (i % 8)
	}
	return out
}
