package sink

import (
	"bytes"

	"github.com/spacemeshos/bitpack/bitstream"
)

// Collector keeps every chunk it receives in memory.
type Collector struct {
	chunks [][]byte
	ended  bool
}

// A compile time check to ensure that Collector fully implements the Sink interface.
var _ bitstream.Sink = (*Collector)(nil)

func (c *Collector) Accept(chunk []byte) error {
	if c.ended {
		return ErrEnded
	}
	c.chunks = append(c.chunks, chunk)
	return nil
}

func (c *Collector) End() error {
	if c.ended {
		return ErrEnded
	}
	c.ended = true
	return nil
}

// Chunks returns the chunks received so far, in order.
func (c *Collector) Chunks() [][]byte {
	return c.chunks
}

// Ended reports whether End has been called.
func (c *Collector) Ended() bool {
	return c.ended
}

// Bytes returns the concatenation of all chunks received so far.
func (c *Collector) Bytes() []byte {
	return bytes.Join(c.chunks, nil)
}
