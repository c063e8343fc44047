package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adamancini/uvu/internal/output"
	"github.com/adamancini/uvu/internal/render"
	"github.com/adamancini/uvu/internal/review"
	"github.com/adamancini/uvu/internal/uv"
)

func newListCmd() *cobra.Command {
	var (
		outputFormat string
		showCommands bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List outdated direct dependencies without prompting",
		Long: `List prints the packages the review would offer, in the same order.

Use --commands to print the uv commands that would upgrade every package.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return err
			}

			settings, err := loadSettings()
			if err != nil {
				return err
			}

			service := NewReviewService(settings, projectDir, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			direct, err := service.DirectNames()
			if err != nil {
				return err
			}
			candidates, err := service.Candidates(cmd.Context(), direct)
			if err != nil {
				return err
			}

			w := output.NewWriter(cmd.OutOrStdout(), format)
			if showCommands {
				return w.Write(newUpgradeCommands(uv.NewClient(settings.UVBinary, ""), candidates))
			}
			return w.Write(candidateList(candidates))
		},
	}

	registerOutputFlag(cmd, &outputFormat)
	cmd.Flags().BoolVar(&showCommands, "commands", false, "Print uv commands instead of a table")

	return cmd
}

// candidateList renders as a table in text output.
type candidateList []review.Candidate

func (l candidateList) Text() string {
	if len(l) == 0 {
		return upToDateText + "\n"
	}
	return render.Table(l)
}

// UpgradeCommand is one uv invocation that applies an upgrade.
type UpgradeCommand struct {
	Package string `json:"package" yaml:"package"`
	From    string `json:"from" yaml:"from"`
	To      string `json:"to" yaml:"to"`
	Command string `json:"command" yaml:"command"`
}

type upgradeCommands []UpgradeCommand

// commandFormatter renders the shell command for an upgrade.
type commandFormatter interface {
	AddCommand(name, version string) string
}

func newUpgradeCommands(f commandFormatter, candidates []review.Candidate) upgradeCommands {
	cmds := make(upgradeCommands, 0, len(candidates))
	for _, c := range candidates {
		cmds = append(cmds, UpgradeCommand{
			Package: c.Name,
			From:    c.CurrentVersion,
			To:      c.LatestVersion,
			Command: f.AddCommand(c.Name, c.LatestVersion),
		})
	}
	return cmds
}

func (c upgradeCommands) Text() string {
	if len(c) == 0 {
		return "# No commands needed - all direct dependencies are up to date\n"
	}

	var b strings.Builder
	for _, cmd := range c {
		fmt.Fprintf(&b, "# Upgrade %s %s -> %s\n%s\n", cmd.Package, cmd.From, cmd.To, cmd.Command)
	}
	return b.String()
}
