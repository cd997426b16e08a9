package persistence

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/spacemeshos/bitpack/bitstream"
)

const (
	// OwnerReadWriteExec is a standard owner read / write / exec file permission.
	OwnerReadWriteExec = 0o700

	// OwnerReadWrite is a standard owner read / write file permission.
	OwnerReadWrite = 0o600
)

// FileSink writes the stream to a file through a buffered writer.
type FileSink struct {
	name   string
	file   *os.File
	buf    *bufio.Writer
	logger *zap.Logger
	size   uint64
}

// A compile time check to ensure that FileSink fully implements the Sink interface.
var _ bitstream.Sink = (*FileSink)(nil)

// NewFileSink creates (or truncates) filename, creating its directory if needed.
func NewFileSink(filename string, logger *zap.Logger) (*FileSink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(filename), OwnerReadWriteExec); err != nil {
		return nil, fmt.Errorf("dir creation failure: %w", err)
	}

	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, OwnerReadWrite)
	if err != nil {
		return nil, err
	}
	logger.Info("created output file", zap.String("filename", filename))

	return &FileSink{
		name:   filename,
		file:   f,
		buf:    bufio.NewWriter(f),
		logger: logger,
	}, nil
}

func (s *FileSink) Accept(chunk []byte) error {
	if s.buf == nil {
		return fmt.Errorf("failed to write: %w", os.ErrClosed)
	}
	n, err := s.buf.Write(chunk)
	s.size += uint64(n)
	if err != nil {
		return fmt.Errorf("failed to write: %w", err)
	}
	return nil
}

// End flushes the buffered data and closes the file. The file is closed even
// if the flush fails.
func (s *FileSink) End() error {
	if s.file == nil {
		return fmt.Errorf("failed to close: %w", os.ErrClosed)
	}
	flushErr := s.buf.Flush()
	s.buf = nil

	s.logger.Info("closing file",
		zap.String("filename", s.name),
		zap.Uint64("size_in_bytes", s.size),
	)

	closeErr := s.file.Close()
	s.file = nil
	if flushErr != nil {
		return fmt.Errorf("failed to flush disk writer: %w", flushErr)
	}
	return closeErr
}

// Remove closes the file if it is still open, dropping any buffered data, and
// deletes it.
func (s *FileSink) Remove() error {
	if s.file != nil {
		s.buf = nil
		_ = s.file.Close()
		s.file = nil
	}

	s.logger.Info("removing file", zap.String("filename", s.name))
	if err := os.Remove(s.name); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// Name returns the name of the file being written.
func (s *FileSink) Name() string {
	if s.file == nil {
		return ""
	}
	return s.file.Name()
}
