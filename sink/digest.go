package sink

import (
	"hash"

	"github.com/spacemeshos/sha256-simd"

	"github.com/spacemeshos/bitpack/bitstream"
)

// Digest computes the SHA-256 of the stream while forwarding it to an inner sink.
type Digest struct {
	h     hash.Hash
	inner bitstream.Sink
	sum   []byte
}

// A compile time check to ensure that Digest fully implements the Sink interface.
var _ bitstream.Sink = (*Digest)(nil)

func NewDigest(inner bitstream.Sink) *Digest {
	return &Digest{h: sha256.New(), inner: inner}
}

func (d *Digest) Accept(chunk []byte) error {
	d.h.Write(chunk)
	return d.inner.Accept(chunk)
}

func (d *Digest) End() error {
	d.sum = d.h.Sum(nil)
	return d.inner.End()
}

// Sum returns the digest of the whole stream, or nil before End.
func (d *Digest) Sum() []byte {
	return d.sum
}
