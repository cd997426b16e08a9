package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of bitpack",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if Commit == "" {
				fmt.Fprintln(cmd.OutOrStdout(), Version)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", Version, Commit)
		},
	}
}
