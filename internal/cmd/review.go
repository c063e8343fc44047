package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamancini/uvu/internal/interactive"
)

// runReview runs the interactive review session.
func runReview(cmd *cobra.Command) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	if !interactive.IsTerminal(cmd.InOrStdin()) && !quiet {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Warning: stdin is not a terminal, reading commands line by line")
	}

	service := NewReviewService(settings, projectDir, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	return service.Run(cmd.Context(), ReviewOptions{
		CreateBackup: settings.Backup.Enabled,
		SkipGitCheck: skipGitCheck,
		Quiet:        quiet,
	})
}
