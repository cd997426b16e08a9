package sink

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/spacemeshos/bitpack/bitstream"
)

// Zstd compresses the stream and forwards the compressed bytes to an inner sink.
type Zstd struct {
	enc   *zstd.Encoder
	inner bitstream.Sink
	ended bool
}

// A compile time check to ensure that Zstd fully implements the Sink interface.
var _ bitstream.Sink = (*Zstd)(nil)

func NewZstd(inner bitstream.Sink, opts ...zstd.EOption) (*Zstd, error) {
	enc, err := zstd.NewWriter(forwarder{sink: inner}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	return &Zstd{enc: enc, inner: inner}, nil
}

func (z *Zstd) Accept(chunk []byte) error {
	if z.ended {
		return ErrEnded
	}
	if _, err := z.enc.Write(chunk); err != nil {
		return fmt.Errorf("zstd: %w", err)
	}
	return nil
}

// End writes the final zstd frame and ends the inner sink, even if the
// encoder fails to close.
func (z *Zstd) End() error {
	if z.ended {
		return ErrEnded
	}
	z.ended = true

	var errs []error
	if err := z.enc.Close(); err != nil {
		errs = append(errs, fmt.Errorf("zstd: %w", err))
	}
	if err := z.inner.End(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
