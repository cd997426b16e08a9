package cmd

import (
	"fmt"
	"os"

	"github.com/spacemeshos/smutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/bitpack/config"
)

const defaultConfigFileHint = "$HOME/" + config.DefaultConfigDirName + "/" + config.DefaultConfigFileName

// loadConfig builds the config from the defaults, then the config file, then
// the command line flags, each overriding the previous one.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	vip := viper.New()
	if err := vip.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if err := loadConfigFile(vip, vip.GetString("config")); err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	if err := vip.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Canonicalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(vip *viper.Viper, fileLocation string) error {
	if fileLocation == "" {
		// The default config file is optional.
		if _, err := os.Stat(config.DefaultConfigFile); err != nil {
			return nil
		}
		fileLocation = config.DefaultConfigFile
	}

	vip.SetConfigFile(smutil.GetCanonicalPath(fileLocation))
	if err := vip.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// newLogger builds a console logger. Logs go to standard error, since
// standard output may carry the packed stream.
func newLogger(level zapcore.Level) (*zap.Logger, error) {
	zapCfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(level),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			NameKey:        "N",
			MessageKey:     "M",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeName:     zapcore.FullNameEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize zap logger: %w", err)
	}
	return logger, nil
}
