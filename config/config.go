package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"code.cloudfoundry.org/bytefmt"
	"github.com/spacemeshos/smutil"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/bitpack/bitstream"
)

const (
	MinCapacity = 1
	MaxCapacity = 64 << 20

	// StdOutput is the Output value for writing to standard output.
	StdOutput = "-"
)

const (
	DefaultConfigDirName  = ".bitpack"
	DefaultConfigFileName = "config.toml"
	DefaultLogLevel       = "info"
)

var (
	DefaultCapacity   = bytefmt.ByteSize(bitstream.DefaultCapacity)
	DefaultConfigFile = filepath.Join(smutil.GetUserHomeDirectory(), DefaultConfigDirName, DefaultConfigFileName)
)

type Config struct {
	// Capacity is the staging buffer size, either a plain number of bytes or
	// a human readable size such as "4K".
	Capacity string `mapstructure:"capacity"`
	Output   string `mapstructure:"output"`

	Compress bool `mapstructure:"compress"`
	Digest   bool `mapstructure:"digest"`
	Metadata bool `mapstructure:"metadata"`
	Hex      bool `mapstructure:"hex"`
	Stats    bool `mapstructure:"stats"`

	LogLevel string `mapstructure:"log-level"`
}

func DefaultConfig() *Config {
	return &Config{
		Capacity: DefaultCapacity,
		Output:   StdOutput,
		LogLevel: DefaultLogLevel,
	}
}

// CapacityBytes returns the staging buffer size in bytes.
func (cfg *Config) CapacityBytes() (int, error) {
	size, err := strconv.ParseUint(cfg.Capacity, 10, 64)
	if err != nil {
		size, err = bytefmt.ToBytes(cfg.Capacity)
		if err != nil {
			return 0, fmt.Errorf("invalid `Capacity` %q: %w", cfg.Capacity, err)
		}
	}

	if size < MinCapacity {
		return 0, fmt.Errorf("invalid `Capacity`; expected: >= %d, given: %d", MinCapacity, size)
	}
	if size > MaxCapacity {
		return 0, fmt.Errorf("invalid `Capacity`; expected: <= %s, given: %s", bytefmt.ByteSize(MaxCapacity), bytefmt.ByteSize(size))
	}

	return int(size), nil
}

// Level returns the parsed log level.
func (cfg *Config) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return level, fmt.Errorf("invalid `LogLevel`: %w", err)
	}
	return level, nil
}

func (cfg *Config) Validate() error {
	if _, err := cfg.CapacityBytes(); err != nil {
		return err
	}

	if _, err := cfg.Level(); err != nil {
		return err
	}

	if cfg.Output == "" {
		return errors.New("invalid `Output`; expected: a file path or " + strconv.Quote(StdOutput))
	}

	if cfg.Metadata && cfg.Output == StdOutput {
		return errors.New("invalid `Metadata`; the metadata file requires a file `Output`")
	}

	if cfg.Hex && cfg.Output != StdOutput {
		return errors.New("invalid `Hex`; hex dumps are only written to standard output")
	}

	return nil
}

// Canonicalize expands the output path, unless writing to standard output.
func (cfg *Config) Canonicalize() {
	if cfg.Output != StdOutput && cfg.Output != "" {
		cfg.Output = smutil.GetCanonicalPath(cfg.Output)
	}
}
