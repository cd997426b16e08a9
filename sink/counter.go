package sink

import (
	"github.com/spacemeshos/bitpack/bitstream"
)

// Counter counts chunks and bytes on their way to an inner sink.
type Counter struct {
	inner   bitstream.Sink
	chunks  int
	bytes   uint64
	largest int
}

// A compile time check to ensure that Counter fully implements the Sink interface.
var _ bitstream.Sink = (*Counter)(nil)

func NewCounter(inner bitstream.Sink) *Counter {
	return &Counter{inner: inner}
}

func (c *Counter) Accept(chunk []byte) error {
	if err := c.inner.Accept(chunk); err != nil {
		return err
	}
	c.chunks++
	c.bytes += uint64(len(chunk))
	if len(chunk) > c.largest {
		c.largest = len(chunk)
	}
	return nil
}

func (c *Counter) End() error {
	return c.inner.End()
}

// Chunks returns the number of chunks forwarded, empty ones included.
func (c *Counter) Chunks() int {
	return c.chunks
}

func (c *Counter) Bytes() uint64 {
	return c.bytes
}

// Largest returns the size of the largest chunk forwarded.
func (c *Counter) Largest() int {
	return c.largest
}
