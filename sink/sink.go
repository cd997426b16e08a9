// Package sink provides bitstream.Sink implementations: in-memory collection,
// io.Writer adapters, and wrappers that compress, hash or count the stream
// before forwarding it.
package sink

import (
	"errors"

	"github.com/spacemeshos/bitpack/bitstream"
)

// ErrEnded is returned when a sink receives data or a second end-of-stream
// after it has ended.
var ErrEnded = errors.New("sink already ended")

// Func adapts a pair of functions to a Sink. A nil function is a no-op.
type Func struct {
	AcceptFunc func(chunk []byte) error
	EndFunc    func() error
}

// A compile time check to ensure that Func fully implements the Sink interface.
var _ bitstream.Sink = Func{}

func (f Func) Accept(chunk []byte) error {
	if f.AcceptFunc == nil {
		return nil
	}
	return f.AcceptFunc(chunk)
}

func (f Func) End() error {
	if f.EndFunc == nil {
		return nil
	}
	return f.EndFunc()
}

type multi struct {
	sinks []bitstream.Sink
}

// NewMulti returns a Sink that duplicates the stream to all the provided
// sinks, in order. Accept stops at the first failing sink; End notifies every
// sink and joins their errors.
func NewMulti(sinks ...bitstream.Sink) bitstream.Sink {
	all := make([]bitstream.Sink, len(sinks))
	copy(all, sinks)
	return &multi{sinks: all}
}

func (m *multi) Accept(chunk []byte) error {
	for _, s := range m.sinks {
		if err := s.Accept(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (m *multi) End() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.End(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
