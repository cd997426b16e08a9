// Package bitstream packs bit-granular values into a byte stream, following
// the LSB pattern, where least-significant bits are written first.
//
// Completed bytes are staged in a fixed-capacity buffer and handed off to a
// Sink whenever the buffer fills, on Flush, and on End.
package bitstream

type Bit bool

const (
	Zero Bit = false
	One  Bit = true
)

const (
	// DefaultCapacity is the default staging buffer size, in bytes.
	DefaultCapacity = 1024

	// MaxAlign is the largest boundary, in bytes, Align can pad to.
	MaxAlign = 32
)

// zeros is the zero-fill source for alignment padding.
var zeros [MaxAlign]byte
