package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/bitpack/bitstream"
	"github.com/spacemeshos/bitpack/config"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	cfg := config.DefaultConfig()
	req.NoError(cfg.Validate())

	capacity, err := cfg.CapacityBytes()
	req.NoError(err)
	req.Equal(bitstream.DefaultCapacity, capacity)

	level, err := cfg.Level()
	req.NoError(err)
	req.Equal(zapcore.InfoLevel, level)
}

func TestCapacityBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		capacity string
		expected int
		wantErr  bool
	}{
		{capacity: "1", expected: 1},
		{capacity: "3", expected: 3},
		{capacity: "1024", expected: 1024},
		{capacity: "4K", expected: 4 << 10},
		{capacity: "2MB", expected: 2 << 20},
		{capacity: "64M", expected: config.MaxCapacity},
		{capacity: "0", wantErr: true},
		{capacity: "65M", wantErr: true},
		{capacity: "1G", wantErr: true},
		{capacity: "lots", wantErr: true},
		{capacity: "", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.capacity, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Capacity = tc.capacity
			capacity, err := cfg.CapacityBytes()
			if tc.wantErr {
				require.Error(t, err)
				require.Error(t, cfg.Validate())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, capacity)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.LogLevel = "loud"
	require.ErrorContains(t, cfg.Validate(), "LogLevel")

	cfg = config.DefaultConfig()
	cfg.Output = ""
	require.ErrorContains(t, cfg.Validate(), "Output")

	cfg = config.DefaultConfig()
	cfg.Metadata = true
	require.ErrorContains(t, cfg.Validate(), "Metadata")
	cfg.Output = "out.bin"
	require.NoError(t, cfg.Validate())

	cfg.Hex = true
	require.ErrorContains(t, cfg.Validate(), "Hex")
}

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Canonicalize()
	require.Equal(t, config.StdOutput, cfg.Output)
}
