// Package script reads a line-oriented description of bit-level writes and
// applies it to a bitstream.Packer.
//
// One operation per line; '#' starts a comment. Numbers use Go literal syntax
// (0x, 0b, 0o prefixes or decimal):
//
//	byte <v>             write a whole byte
//	uint <len> <v>       write up to 8 bits
//	be <len> <v>         write an integer, Big-Endian
//	le <len> <v>         write an integer, Little-Endian
//	bit <0|1>            write a single bit
//	bits <len> <hex>     write len bits from hex encoded bytes, LSB first
//	items <len> <v>...   write fixed-size items, Big-Endian
//	align [n]            pad with zeros to an n bytes boundary (default 1)
//	flush                hand complete bytes to the output
//	end                  end the stream
package script

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spacemeshos/bitpack/bitstream"
)

var ErrSyntax = errors.New("syntax error")

type Kind int

const (
	Byte Kind = 1 + iota
	Unsigned
	BigEndian
	LittleEndian
	Bit
	Bits
	Items
	Align
	Flush
	End
)

var kinds = []string{
	"byte",
	"uint",
	"be",
	"le",
	"bit",
	"bits",
	"items",
	"align",
	"flush",
	"end",
}

func (k Kind) String() string {
	if k < Byte || k > End {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kinds[k-1]
}

// Op is a single parsed operation.
type Op struct {
	Line   int
	Kind   Kind
	Length uint
	Value  uint64
	Data   []byte
	Values []uint64
}

// Parse reads all operations from r.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++

		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		op, err := parseOp(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		op.Line = line
		ops = append(ops, op)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	return ops, nil
}

func parseOp(fields []string) (Op, error) {
	keyword, args := strings.ToLower(fields[0]), fields[1:]

	var kind Kind
	for i, k := range kinds {
		if k == keyword {
			kind = Kind(i + 1)
		}
	}
	if kind == 0 {
		return Op{}, fmt.Errorf("%w: unknown operation %q", ErrSyntax, fields[0])
	}
	op := Op{Kind: kind}

	var err error
	switch kind {
	case Byte:
		if err = expectArgs(args, 1, 1); err != nil {
			return op, err
		}
		op.Value, err = parseNumber(args[0], 8)

	case Bit:
		if err = expectArgs(args, 1, 1); err != nil {
			return op, err
		}
		op.Value, err = parseNumber(args[0], 1)

	case Unsigned, BigEndian, LittleEndian:
		if err = expectArgs(args, 2, 2); err != nil {
			return op, err
		}
		if op.Length, err = parseLength(args[0]); err != nil {
			return op, err
		}
		op.Value, err = parseNumber(args[1], 64)

	case Bits:
		if err = expectArgs(args, 2, 2); err != nil {
			return op, err
		}
		if op.Length, err = parseLength(args[0]); err != nil {
			return op, err
		}
		op.Data, err = hex.DecodeString(strings.TrimPrefix(strings.ToLower(args[1]), "0x"))
		if err != nil {
			err = fmt.Errorf("%w: invalid hex data %q", ErrSyntax, args[1])
		}

	case Items:
		if err = expectArgs(args, 2, -1); err != nil {
			return op, err
		}
		if op.Length, err = parseLength(args[0]); err != nil {
			return op, err
		}
		op.Values = make([]uint64, len(args)-1)
		for i, arg := range args[1:] {
			if op.Values[i], err = parseNumber(arg, 64); err != nil {
				return op, err
			}
		}

	case Align:
		if err = expectArgs(args, 0, 1); err != nil {
			return op, err
		}
		op.Length = 1
		if len(args) == 1 {
			op.Length, err = parseLength(args[0])
		}

	case Flush, End:
		err = expectArgs(args, 0, 0)
	}

	return op, err
}

// expectArgs checks the number of arguments; hi < 0 means unbounded.
func expectArgs(args []string, lo, hi int) error {
	if len(args) < lo || (hi >= 0 && len(args) > hi) {
		return fmt.Errorf("%w: unexpected number of arguments (%d)", ErrSyntax, len(args))
	}
	return nil
}

func parseNumber(s string, bitSize int) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, bitSize)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid number %q", ErrSyntax, s)
	}
	return v, nil
}

func parseLength(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid length %q", ErrSyntax, s)
	}
	return uint(v), nil
}

// Ends reports whether the last operation ends the stream.
func Ends(ops []Op) bool {
	return len(ops) > 0 && ops[len(ops)-1].Kind == End
}

// Run applies ops to p, in order, and stops at the first failure.
func Run(p *bitstream.Packer, ops []Op) error {
	for _, op := range ops {
		if err := apply(p, op); err != nil {
			return fmt.Errorf("line %d: %s: %w", op.Line, op.Kind, err)
		}
	}
	return nil
}

func apply(p *bitstream.Packer, op Op) error {
	switch op.Kind {
	case Byte:
		return p.WriteByte(byte(op.Value))
	case Unsigned:
		return p.WriteUnsigned(op.Value, op.Length)
	case BigEndian:
		return p.WriteUnsignedBE(op.Value, op.Length)
	case LittleEndian:
		return p.WriteUnsignedLE(op.Value, op.Length)
	case Bit:
		return p.WriteBit(op.Value == 1)
	case Bits:
		return p.WriteBits(op.Data, op.Length)
	case Items:
		iw, err := bitstream.NewItemWriter(p, op.Length)
		if err != nil {
			return err
		}
		for _, v := range op.Values {
			if err := iw.WriteUintBE(v); err != nil {
				return err
			}
		}
		return nil
	case Align:
		return p.Align(op.Length)
	case Flush:
		return p.Flush()
	case End:
		return p.End()
	}
	return fmt.Errorf("unsupported operation %s", op.Kind)
}
