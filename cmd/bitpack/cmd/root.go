package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/spacemeshos/bitpack/config"
)

var (
	// Version is the version of the binary, set by main.
	Version string

	// Commit is the commit hash of the binary, set by main.
	Commit string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bitpack",
		Short: "Pack bit-granular fields into a byte stream",
		Long: `bitpack packs values of arbitrary bit width, LSB first, into a byte stream.
The values are described by a script of write operations, see "bitpack pack --help".`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "path to configuration file (default is "+defaultConfigFileHint+")")
	cmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error, dpanic, panic, fatal)")

	cmd.AddCommand(newPackCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
