package bitstream

import (
	"fmt"

	"go.uber.org/zap"
)

type option struct {
	capacity int
	logger   *zap.Logger
}

type OptionFunc func(*option) error

// WithCapacity sets the staging buffer size in bytes. It only affects how the
// output is chunked, never its content.
func WithCapacity(capacity int) OptionFunc {
	return func(o *option) error {
		if capacity < 1 {
			return fmt.Errorf("%w: capacity must be at least 1 byte, given: %d", ErrInvalidArgument, capacity)
		}
		o.capacity = capacity
		return nil
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *zap.Logger) OptionFunc {
	return func(o *option) error {
		if logger == nil {
			logger = zap.NewNop()
		}
		o.logger = logger
		return nil
	}
}
