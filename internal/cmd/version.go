package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	uvuVersion = "dev"
	uvuCommit  = "none"
	uvuDate    = "unknown"
)

// SetVersion records build information for `uvu version` and backup metadata.
func SetVersion(version, commit, date string) {
	uvuVersion = version
	uvuCommit = commit
	uvuDate = date
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "uvu version %s (commit %s, built %s)\n", uvuVersion, uvuCommit, uvuDate)
			return err
		},
	}
}
