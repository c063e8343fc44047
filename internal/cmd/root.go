package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/adamancini/uvu/internal/logging"
	"github.com/adamancini/uvu/internal/output"
)

var (
	// Global flags
	projectDir   string
	configPath   string
	uvBinary     string
	verbose      bool
	quiet        bool
	noBackup     bool
	skipGitCheck bool
)

// Execute runs the uvu command tree under ctx.
func Execute(ctx context.Context, version, commit, date string) error {
	SetVersion(version, commit, date)
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "uvu",
		Short: "Interactively review and apply uv dependency upgrades",
		Long: `uvu walks through the outdated direct dependencies of a uv project.

For each package it shows the current and latest version with a link to its
release information, then asks what to do:

  y  upgrade now (uv add name==latest)
  n  skip
  p  go back to the previous package
  q  quit

Only dependencies declared in pyproject.toml are offered. Upgrades that uv
cannot resolve are reported and can be retried or skipped.`,
		Version:       uvuVersion,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(cmd.ErrOrStderr(), verbose, quiet)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "C", ".", "Project directory containing pyproject.toml")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to settings file")
	rootCmd.PersistentFlags().StringVar(&uvBinary, "uv", "", "Path to the uv executable")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noBackup, "no-backup", false, "Skip snapshotting pyproject.toml and uv.lock before upgrading")
	rootCmd.PersistentFlags().BoolVar(&skipGitCheck, "skip-git-check", false, "Skip the uncommitted-changes check")

	// Add subcommands
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newBackupCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// registerOutputFlag adds --output/-o with shell completion to cmd.
func registerOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", "text", "Output format: text, json, yaml")
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return output.Formats(), cobra.ShellCompDirectiveNoFileComp
	})
}
