package sink

import (
	"fmt"
	"io"

	"github.com/spacemeshos/bitpack/bitstream"
)

// Writer writes the stream to an io.Writer.
type Writer struct {
	w          io.Writer
	closeOnEnd bool
	ended      bool
}

// A compile time check to ensure that Writer fully implements the Sink interface.
var _ bitstream.Sink = (*Writer)(nil)

// NewWriter returns a Writer sink. If closeOnEnd is set and w is an
// io.Closer, w is closed at the end of the stream.
func NewWriter(w io.Writer, closeOnEnd bool) *Writer {
	return &Writer{w: w, closeOnEnd: closeOnEnd}
}

func (s *Writer) Accept(chunk []byte) error {
	if s.ended {
		return ErrEnded
	}
	n, err := s.w.Write(chunk)
	if err != nil {
		return fmt.Errorf("failed to write: %w", err)
	}
	if n != len(chunk) {
		return fmt.Errorf("failed to write: %w (%d of %d bytes)", io.ErrShortWrite, n, len(chunk))
	}
	return nil
}

func (s *Writer) End() error {
	if s.ended {
		return ErrEnded
	}
	s.ended = true

	if c, ok := s.w.(io.Closer); ok && s.closeOnEnd {
		return c.Close()
	}
	return nil
}

// forwarder exposes a Sink as an io.Writer. Write copies p, since io.Writer
// implementations must not retain it while a Sink owns its chunks.
type forwarder struct {
	sink bitstream.Sink
}

func (f forwarder) Write(p []byte) (int, error) {
	chunk := make([]byte, len(p))
	copy(chunk, p)
	if err := f.sink.Accept(chunk); err != nil {
		return 0, err
	}
	return len(p), nil
}
