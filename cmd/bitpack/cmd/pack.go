package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"

	"code.cloudfoundry.org/bytefmt"
	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spacemeshos/bitpack/bitstream"
	"github.com/spacemeshos/bitpack/config"
	"github.com/spacemeshos/bitpack/internal/script"
	"github.com/spacemeshos/bitpack/persistence"
	"github.com/spacemeshos/bitpack/sink"
)

func newPackCmd() *cobra.Command {
	var printConfig bool

	cmd := &cobra.Command{
		Use:   "pack [script]",
		Short: "Pack a script of bit-level writes",
		Long: `Pack reads a script of write operations (from the given file, or standard input)
and writes the packed stream. One operation per line, '#' starts a comment:

	byte <v>             write a whole byte
	uint <len> <v>       write up to 8 bits
	be <len> <v>         write an integer, Big-Endian
	le <len> <v>         write an integer, Little-Endian
	bit <0|1>            write a single bit
	bits <len> <hex>     write len bits from hex encoded bytes, LSB first
	items <len> <v>...   write fixed-size items, Big-Endian
	align [n]            pad with zeros to an n bytes boundary (default 1)
	flush                hand complete bytes to the output
	end                  end the stream (implied at the end of the script)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if printConfig {
				spew.Fdump(cmd.OutOrStdout(), cfg)
				return nil
			}

			return runPack(cmd, cfg, args)
		},
	}

	addPackFlags(cmd.Flags(), config.DefaultConfig())
	cmd.Flags().BoolVar(&printConfig, "print-config", false, "print the used config and exit")

	return cmd
}

func addPackFlags(flags *pflag.FlagSet, def *config.Config) {
	flags.StringP("capacity", "c", def.Capacity, "staging buffer size, in bytes or human readable (e.g. 4K)")
	flags.StringP("output", "o", def.Output, `output file, "-" for standard output`)
	flags.Bool("compress", def.Compress, "zstd compress the output")
	flags.Bool("digest", def.Digest, "print the SHA-256 of the packed stream to standard error")
	flags.Bool("metadata", def.Metadata, "write a metadata file next to the output file")
	flags.Bool("hex", def.Hex, "write a hex dump instead of raw bytes")
	flags.Bool("stats", def.Stats, "print a summary to standard error")
}

func runPack(cmd *cobra.Command, cfg *config.Config, args []string) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger, err := newLogger(level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	ops, err := script.Parse(in)
	if err != nil {
		return err
	}

	out, err := openOutput(cmd.OutOrStdout(), cfg, logger)
	if err != nil {
		return err
	}

	// Until the stream ends successfully, a failure ends the sink chain and
	// removes a partially written output file.
	var s bitstream.Sink = out
	completed := false
	defer func() {
		if !completed {
			discard(s, out, logger)
		}
	}()

	if cfg.Compress {
		z, err := sink.NewZstd(s)
		if err != nil {
			return err
		}
		s = z
	}
	digest := sink.NewDigest(s)
	counter := sink.NewCounter(digest)
	s = counter

	capacity, err := cfg.CapacityBytes()
	if err != nil {
		return err
	}
	p, err := bitstream.NewPacker(counter,
		bitstream.WithCapacity(capacity),
		bitstream.WithLogger(logger.Named("packer")),
	)
	if err != nil {
		return err
	}

	if err := script.Run(p, ops); err != nil {
		return err
	}
	if !script.Ends(ops) {
		if err := p.End(); err != nil {
			return err
		}
	}
	completed = true

	logger.Info("packing completed",
		zap.Uint64("total_bits", p.TotalBits()),
		zap.String("size", bytefmt.ByteSize(counter.Bytes())),
		zap.Int("chunks", counter.Chunks()),
	)

	if cfg.Digest {
		fmt.Fprintf(cmd.ErrOrStderr(), "sha256: %x\n", digest.Sum())
	}

	if cfg.Metadata {
		err := persistence.PersistMetadata(cfg.Output, &persistence.Metadata{
			Version:    persistence.MetadataVersion,
			TotalBits:  p.TotalBits(),
			TotalBytes: counter.Bytes(),
			Chunks:     uint64(counter.Chunks()),
			Capacity:   uint64(capacity),
			Compressed: cfg.Compress,
			Digest:     digest.Sum(),
		})
		if err != nil {
			return fmt.Errorf("failed to persist metadata: %w", err)
		}
	}

	if cfg.Stats {
		printStats(cmd.ErrOrStderr(), p, counter, capacity)
	}

	return nil
}

// discard ends an incomplete sink chain and deletes the output file, if any.
// The chain may already be ended, in which case End only reports it.
func discard(s, out bitstream.Sink, logger *zap.Logger) {
	if err := s.End(); err != nil {
		logger.Debug("ending incomplete stream", zap.Error(err))
	}

	if f, ok := out.(*persistence.FileSink); ok {
		if err := f.Remove(); err != nil {
			logger.Warn("failed to remove incomplete output", zap.Error(err))
		}
	}
}

func openOutput(stdout io.Writer, cfg *config.Config, logger *zap.Logger) (bitstream.Sink, error) {
	if cfg.Output != config.StdOutput {
		return persistence.NewFileSink(cfg.Output, logger.Named("output"))
	}
	if cfg.Hex {
		return sink.NewWriter(hex.Dumper(stdout), true), nil
	}
	return sink.NewWriter(stdout, false), nil
}

func printStats(w io.Writer, p *bitstream.Packer, counter *sink.Counter, capacity int) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Total bits", "Size", "Chunks", "Largest chunk", "Capacity"})
	table.SetBorder(true)
	table.Append([]string{
		strconv.FormatUint(p.TotalBits(), 10),
		bytefmt.ByteSize(counter.Bytes()),
		strconv.Itoa(counter.Chunks()),
		bytefmt.ByteSize(uint64(counter.Largest())),
		bytefmt.ByteSize(uint64(capacity)),
	})
	table.Render()
}
