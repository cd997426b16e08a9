package bitstream

import (
	"fmt"
)

// ItemWriter writes fixed-size items to a Packer, where bit-granular and
// byte-granular sizes are supported via a specialized code path.
type ItemWriter struct {
	Write       func([]byte) error
	WriteUintBE func(uint64) error
}

// NewItemWriter returns an ItemWriter for items of itemBitSize bits, which
// must be between 1 and 64.
func NewItemWriter(p *Packer, itemBitSize uint) (*ItemWriter, error) {
	if itemBitSize == 0 || itemBitSize > 64 {
		return nil, fmt.Errorf("%w: item size must be between 1 and 64 bits, given: %d", ErrInvalidArgument, itemBitSize)
	}

	iw := new(ItemWriter)
	iw.Write = func(b []byte) error {
		return p.WriteBits(b, itemBitSize)
	}

	if itemBitSize%8 == 0 {
		// Byte-granular items go through the bulk path, which copies
		// them directly while the stream is aligned.
		size := itemBitSize / 8
		iw.WriteUintBE = func(v uint64) error {
			b := make([]byte, size)
			for i := range b {
				b[i] = byte(v >> (8 * (size - 1 - uint(i))))
			}
			return iw.Write(b)
		}
	} else {
		iw.WriteUintBE = func(v uint64) error {
			return p.WriteUnsignedBE(v, itemBitSize)
		}
	}

	return iw, nil
}
