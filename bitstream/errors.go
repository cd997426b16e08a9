package bitstream

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInsufficientData = errors.New("insufficient data")
	ErrStreamClosed     = errors.New("stream is closed")
)

// InsufficientDataError is returned by WriteBits when the source slice holds
// fewer bits than requested.
type InsufficientDataError struct {
	Expected uint
	Passed   uint
}

func (err *InsufficientDataError) Error() string {
	return fmt.Sprintf("%d bits expected, but %d passed", err.Expected, err.Passed)
}

func (err *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}
