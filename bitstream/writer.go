package bitstream

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// A compile time check to ensure that Packer can be used as an io.ByteWriter.
var _ io.ByteWriter = (*Packer)(nil)

// Packer packs bits into a staging buffer and hands completed bytes to a Sink.
// A Packer is meant to be used by a single producer; it is not safe for
// concurrent use.
type Packer struct {
	sink   Sink
	logger *zap.Logger

	buf    []byte
	pos    int   // index of the byte being assembled
	offset uint8 // number of bits already written into buf[pos]
	total  uint64

	closed bool
	err    error
}

// NewPacker returns a new Packer emitting to sink.
func NewPacker(sink Sink, opts ...OptionFunc) (*Packer, error) {
	options := &option{
		capacity: DefaultCapacity,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	return &Packer{
		sink:   sink,
		logger: options.logger,
		buf:    make([]byte, options.capacity),
	}, nil
}

// TotalBits returns the number of bits accepted so far, padding included.
func (p *Packer) TotalBits() uint64 {
	return p.total
}

// Buffered returns the number of complete bytes staged but not yet flushed.
func (p *Packer) Buffered() int {
	return p.pos
}

// WriteBit writes a single bit to the stream.
func (p *Packer) WriteBit(bit Bit) error {
	var v uint64
	if bit {
		v = 1
	}
	return p.WriteUnsigned(v, 1)
}

// WriteByte writes a single byte to the stream, regardless of the alignment.
// If the byte is to be split due to alignment, the LSB pattern is followed in bit-groups.
func (p *Packer) WriteByte(b byte) error {
	if err := p.check(); err != nil {
		return err
	}
	return p.writeByte(b)
}

// WriteUnsigned writes the length LS bits of v, where length is at most 8.
// Bits of v above length are discarded.
func (p *Packer) WriteUnsigned(v uint64, length uint) error {
	if err := p.check(); err != nil {
		return err
	}
	if length > 8 {
		return fmt.Errorf("%w: an endianness is required to write more than 8 bits, given: %d", ErrInvalidArgument, length)
	}
	return p.writeUnsigned(v, length)
}

// WriteBits writes the first length bits of data, where bit 0 of data[0] is
// written first. data must hold at least ceil(length/8) bytes.
func (p *Packer) WriteBits(data []byte, length uint) error {
	if err := p.check(); err != nil {
		return err
	}
	return p.writeBits(data, length)
}

// WriteUnsignedBE writes the length LS bits of v in Big-Endian byte order:
// the partial high-order bits first, then whole bytes from the most significant one.
func (p *Packer) WriteUnsignedBE(v uint64, length uint) error {
	if err := p.check(); err != nil {
		return err
	}
	if length > 64 {
		return fmt.Errorf("%w: cannot write more than 64 bits of an integer, given: %d", ErrInvalidArgument, length)
	}

	remainder := length % 8
	whole := length - remainder

	if remainder > 0 {
		if err := p.writeUnsigned(v>>whole, remainder); err != nil {
			return err
		}
	}

	for shift := int(whole) - 8; shift >= 0; shift -= 8 {
		if err := p.writeByte(byte(v >> uint(shift))); err != nil {
			return err
		}
	}

	return nil
}

// WriteUnsignedLE writes the length LS bits of v in Little-Endian byte order:
// whole bytes from the least significant one, then the partial high-order bits.
func (p *Packer) WriteUnsignedLE(v uint64, length uint) error {
	if err := p.check(); err != nil {
		return err
	}
	if length > 64 {
		return fmt.Errorf("%w: cannot write more than 64 bits of an integer, given: %d", ErrInvalidArgument, length)
	}

	remainder := length % 8
	whole := length - remainder

	for shift := uint(0); shift < whole; shift += 8 {
		if err := p.writeByte(byte(v >> shift)); err != nil {
			return err
		}
	}

	if remainder > 0 {
		return p.writeUnsigned(v>>whole, remainder)
	}

	return nil
}

// Align pads the stream with zero bits up to the next multiple of
// boundaryBytes bytes, counted from the first bit ever written.
// A boundary of 0 is treated as 1.
func (p *Packer) Align(boundaryBytes uint) error {
	if err := p.check(); err != nil {
		return err
	}
	return p.align(boundaryBytes)
}

// Flush hands all complete bytes to the sink. A partially written byte stays
// in the packer.
func (p *Packer) Flush() error {
	if err := p.check(); err != nil {
		return err
	}
	return p.flush()
}

// End pads the stream to a byte boundary, flushes it and notifies the sink.
// The Packer can't be used afterwards.
func (p *Packer) End() error {
	if err := p.check(); err != nil {
		return err
	}
	if err := p.align(1); err != nil {
		return err
	}
	if err := p.flush(); err != nil {
		return err
	}

	p.closed = true
	p.buf = nil

	if err := p.sink.End(); err != nil {
		p.err = fmt.Errorf("sink end: %w", err)
		return p.err
	}

	p.logger.Debug("stream ended", zap.Uint64("total_bits", p.total))
	return nil
}

func (p *Packer) check() error {
	if p.closed {
		return ErrStreamClosed
	}
	return p.err
}

func (p *Packer) writeByte(b byte) error {
	if p.offset == 0 {
		p.buf[p.pos] = b
		p.total += 8
		return p.advance()
	}

	// Fill the current byte MS bits with LS bits.
	p.buf[p.pos] |= b << p.offset
	p.total += 8
	if err := p.advance(); err != nil {
		return err
	}

	// Fill the new current byte LS bits with MS bits.
	p.buf[p.pos] = b >> (8 - p.offset)
	return nil
}

func (p *Packer) writeUnsigned(v uint64, length uint) error {
	if length == 0 {
		return nil
	}

	// Eliminate unnecessary MS bits.
	v &= (1 << length) - 1

	free := 8 - uint(p.offset)
	p.buf[p.pos] |= byte(v << p.offset)
	p.total += uint64(length)

	offset := uint(p.offset) + length
	if offset < 8 {
		p.offset = uint8(offset)
		return nil
	}

	p.offset = uint8(offset - 8)
	if err := p.advance(); err != nil {
		return err
	}
	if free < length {
		p.buf[p.pos] = byte(v >> free)
	}

	return nil
}

func (p *Packer) writeBits(data []byte, length uint) error {
	remainder := length % 8
	whole := length / 8

	if uint(len(data)) < whole || (remainder > 0 && uint(len(data)) == whole) {
		return &InsufficientDataError{Expected: length, Passed: uint(len(data)) * 8}
	}

	if p.offset == 0 {
		if p.pos+int(whole) < len(p.buf) {
			copy(p.buf[p.pos:], data[:whole])
			p.pos += int(whole)
			p.total += uint64(whole) * 8
		} else {
			// The bytes wouldn't fit into the current buffer anyway, so flush
			// and pass them through.
			if err := p.flush(); err != nil {
				return err
			}
			chunk := make([]byte, whole)
			copy(chunk, data)
			p.total += uint64(whole) * 8
			p.logger.Debug("passing through aligned bytes", zap.Int("chunk_size", len(chunk)))
			if err := p.emit(chunk); err != nil {
				return err
			}
		}
	} else {
		for _, b := range data[:whole] {
			if err := p.writeByte(b); err != nil {
				return err
			}
		}
	}

	if remainder > 0 {
		return p.writeUnsigned(uint64(data[whole]), remainder)
	}

	return nil
}

func (p *Packer) align(boundaryBytes uint) error {
	if boundaryBytes == 0 {
		boundaryBytes = 1
	}
	if boundaryBytes > MaxAlign {
		return fmt.Errorf("%w: maximum boundary align size is %d, given: %d", ErrInvalidArgument, MaxAlign, boundaryBytes)
	}

	boundary := uint64(boundaryBytes) * 8
	if valid := p.total % boundary; valid > 0 {
		return p.writeBits(zeros[:], uint(boundary-valid))
	}

	return nil
}

// advance moves to the next byte, flushing when the staging buffer is full.
func (p *Packer) advance() error {
	p.pos++
	if p.pos == len(p.buf) {
		return p.flush()
	}
	return nil
}

func (p *Packer) flush() error {
	chunk := p.buf[:p.pos:p.pos]

	// Start a fresh buffer, carrying over the partial byte that isn't emitted yet.
	buf := make([]byte, len(p.buf))
	if p.pos < len(p.buf) {
		buf[0] = p.buf[p.pos]
	}
	p.buf = buf
	p.pos = 0

	p.logger.Debug("flushing staging buffer",
		zap.Int("chunk_size", len(chunk)),
		zap.Uint64("total_bits", p.total),
	)
	return p.emit(chunk)
}

func (p *Packer) emit(chunk []byte) error {
	if err := p.sink.Accept(chunk); err != nil {
		p.err = fmt.Errorf("sink accept: %w", err)
		return p.err
	}
	return nil
}
