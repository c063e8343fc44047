package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/adamancini/uvu/internal/backup"
	"github.com/adamancini/uvu/internal/interactive"
	"github.com/adamancini/uvu/internal/output"
)

const timeLayout = "2006-01-02 15:04:05"

// newBackupManager is replaced in tests.
var newBackupManager = func() (*backup.Manager, error) {
	return backup.NewManager(uvuVersion)
}

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "List and restore manifest snapshots",
		Long: `Backup manages the snapshots uvu takes before applying upgrades.

A snapshot is taken before the first upgrade of each review session and holds
copies of pyproject.toml and uv.lock plus the upgrades applied afterwards.
Snapshots are stored in ~/.cache/uvu/backups/ (or $XDG_CACHE_HOME/uvu/backups/).

Use 'uvu backup restore latest' to undo the last session.`,
	}

	cmd.AddCommand(newBackupListCmd())
	cmd.AddCommand(newBackupRestoreCmd())
	cmd.AddCommand(newBackupDeleteCmd())
	cmd.AddCommand(newBackupPruneCmd())

	return cmd
}

func newBackupListCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			return runBackupList(cmd.OutOrStdout(), format)
		},
	}

	registerOutputFlag(cmd, &outputFormat)
	return cmd
}

func newBackupRestoreCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore pyproject.toml and uv.lock from a snapshot",
		Long: `Restore copies a snapshot's files back to where they were taken from.

Use 'latest' as the ID to restore the most recent snapshot. Run 'uv sync'
afterwards to bring the environment in line with the restored lock file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompter := interactive.NewPrompterWithIO(cmd.InOrStdin(), cmd.OutOrStdout())
			return runBackupRestore(cmd.Context(), cmd.OutOrStdout(), prompter, args[0], yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}

func newBackupDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupDelete(cmd.OutOrStdout(), args[0])
		},
	}
}

func newBackupPruneCmd() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove old snapshots",
		Long: `Prune deletes old snapshots, keeping only the most recent N.

By default, keeps the 30 most recent snapshots.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupPrune(cmd.OutOrStdout(), keep)
		},
	}

	cmd.Flags().IntVar(&keep, "keep", backup.DefaultKeepCount, "Number of snapshots to keep")

	return cmd
}

// snapshotList renders as a table in text output.
type snapshotList struct {
	dir   string
	infos []backup.Info
}

func (l snapshotList) Text() string {
	if len(l.infos) == 0 {
		return fmt.Sprintf("No backups found.\nBackup directory: %s\n", l.dir)
	}

	rows := [][]string{{"ID", "CREATED", "UPGRADES", "PROJECT", "NOTE"}}
	for _, b := range l.infos {
		note := b.Note
		if note == "" {
			note = "-"
		}
		rows = append(rows, []string{
			b.ID,
			b.CreatedAt.Local().Format(timeLayout),
			fmt.Sprintf("%d", b.Upgrades),
			b.ProjectDir,
			note,
		})
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Backups stored in %s:\n\n", l.dir)
	writeColumns(&sb, rows)
	return sb.String()
}

// writeColumns writes rows with each column padded to its widest cell.
func writeColumns(w io.Writer, rows [][]string) {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if n := runewidth.StringWidth(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
				continue
			}
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		_, _ = fmt.Fprintln(w, strings.Join(cells, "  "))
	}
}

// runBackupList lists all snapshots.
func runBackupList(out io.Writer, format output.Format) error {
	manager, err := newBackupManager()
	if err != nil {
		return err
	}

	infos, err := manager.List()
	if err != nil {
		return err
	}

	w := output.NewWriter(out, format)
	if format == output.FormatText {
		return w.Write(snapshotList{dir: manager.BackupDir(), infos: infos})
	}
	return w.Write(infos)
}

// confirmer asks a yes/no question.
type confirmer interface {
	Confirm(ctx context.Context, question string) bool
}

// runBackupRestore restores a snapshot after confirmation.
func runBackupRestore(ctx context.Context, out io.Writer, prompter confirmer, id string, skipConfirm bool) error {
	manager, err := newBackupManager()
	if err != nil {
		return err
	}

	snap, err := manager.Get(id)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "Restoring from backup: %s\n", snap.ID)
	_, _ = fmt.Fprintf(out, "Created: %s\n", snap.CreatedAt.Local().Format(timeLayout))
	if snap.Note != "" {
		_, _ = fmt.Fprintf(out, "Note: %s\n", snap.Note)
	}

	if len(snap.Upgrades) > 0 {
		_, _ = fmt.Fprintln(out, "\nUpgrades to undo:")
		for _, u := range snap.Upgrades {
			_, _ = fmt.Fprintf(out, "  - %s: %s → %s\n", u.Name, u.OldVersion, u.NewVersion)
		}
	}

	_, _ = fmt.Fprintln(out, "\nFiles to overwrite:")
	for _, f := range snap.Files {
		_, _ = fmt.Fprintf(out, "  - %s\n", f.Path)
	}
	_, _ = fmt.Fprintln(out)

	if !skipConfirm && !prompter.Confirm(ctx, "Proceed?") {
		_, _ = fmt.Fprintln(out, "Restore cancelled.")
		return nil
	}

	if _, err := manager.Restore(snap.ID); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	_, _ = fmt.Fprintln(out, "Restored successfully. Run 'uv sync' to update the environment.")
	return nil
}

// runBackupDelete deletes a snapshot.
func runBackupDelete(out io.Writer, id string) error {
	manager, err := newBackupManager()
	if err != nil {
		return err
	}

	if err := manager.Delete(id); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "Backup deleted: %s\n", id)
	return nil
}

// runBackupPrune removes old snapshots.
func runBackupPrune(out io.Writer, keep int) error {
	manager, err := newBackupManager()
	if err != nil {
		return err
	}

	result, err := manager.Prune(keep)
	if err != nil {
		return err
	}

	if len(result.Deleted) == 0 {
		_, _ = fmt.Fprintf(out, "No backups to prune. Keeping %d backups.\n", result.Kept)
		return nil
	}

	_, _ = fmt.Fprintf(out, "Pruned %d backup(s), keeping %d:\n", len(result.Deleted), result.Kept)
	for _, b := range result.Deleted {
		_, _ = fmt.Fprintf(out, "  - %s (%s)\n", b.ID, b.CreatedAt.Local().Format(timeLayout))
	}
	return nil
}
