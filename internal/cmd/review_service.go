// Package cmd contains the CLI command implementations.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/adamancini/uvu/internal/backup"
	"github.com/adamancini/uvu/internal/config"
	"github.com/adamancini/uvu/internal/git"
	"github.com/adamancini/uvu/internal/interactive"
	"github.com/adamancini/uvu/internal/manifest"
	"github.com/adamancini/uvu/internal/render"
	"github.com/adamancini/uvu/internal/review"
	"github.com/adamancini/uvu/internal/uv"
)

const (
	scanningText = "🔍 Scanning for updates..."
	upToDateText = "✅ All direct dependencies are up to date!"
)

// ReviewOptions configures review behavior.
type ReviewOptions struct {
	CreateBackup bool // Snapshot the manifest before the first upgrade
	SkipGitCheck bool // Skip the uncommitted-changes warning
	Quiet        bool // Suppress progress messages
}

// OutdatedLister queries the environment for outdated packages.
type OutdatedLister interface {
	ListOutdated(ctx context.Context) ([]uv.Package, error)
}

// Snapshotter stores manifest snapshots.
type Snapshotter interface {
	Create(manifestPath, note string) (*backup.Snapshot, error)
	RecordUpgrades(id string, upgrades []backup.Upgrade) error
	Prune(keep int) (*backup.PruneResult, error)
}

// StatusChecker reports uncommitted changes to files.
type StatusChecker interface {
	Check(dir string, paths ...string) (*git.Result, error)
}

// ReviewService orchestrates the review workflow: manifest, outdated query,
// candidate resolution, then the interactive loop.
type ReviewService struct {
	settings     *config.Settings
	manifestPath string
	lister       OutdatedLister
	loop         *review.Loop
	snapshots    Snapshotter
	gitChecker   StatusChecker
	out          io.Writer
	errOut       io.Writer

	snapshot *backup.Snapshot
}

// ReviewDeps are the collaborators of a ReviewService.
type ReviewDeps struct {
	Lister     OutdatedLister
	Applier    review.Applier
	URLs       review.URLResolver
	Prompter   review.Prompter
	Screen     review.Screen
	Renderer   review.Renderer
	Snapshots  Snapshotter
	GitChecker StatusChecker
	Out        io.Writer
	ErrOut     io.Writer
}

// NewReviewService creates a review service with default dependencies.
func NewReviewService(settings *config.Settings, projectDir string, in io.Reader, out, errOut io.Writer) *ReviewService {
	manifestPath := manifest.Resolve(projectDir, settings.Manifest)
	client := newUVClient(settings, filepath.Dir(manifestPath))

	var snapshots Snapshotter
	if mgr, err := backup.NewManager(uvuVersion); err != nil {
		logger.Warnf("backups disabled: %v", err)
	} else {
		snapshots = mgr
	}

	return NewReviewServiceWithDeps(settings, projectDir, ReviewDeps{
		Lister:     client,
		Applier:    client,
		URLs:       newURLResolver(settings, client),
		Prompter:   interactive.NewPrompterWithIO(in, out),
		Screen:     interactive.NewScreenWithIO(out),
		Renderer:   render.Renderer{},
		Snapshots:  snapshots,
		GitChecker: git.NewChecker(),
		Out:        out,
		ErrOut:     errOut,
	})
}

// NewReviewServiceWithDeps creates a review service with custom dependencies (for testing).
func NewReviewServiceWithDeps(settings *config.Settings, projectDir string, deps ReviewDeps) *ReviewService {
	s := &ReviewService{
		settings:     settings,
		manifestPath: manifest.Resolve(projectDir, settings.Manifest),
		lister:       deps.Lister,
		snapshots:    deps.Snapshots,
		gitChecker:   deps.GitChecker,
		out:          deps.Out,
		errOut:       deps.ErrOut,
	}
	s.loop = &review.Loop{
		Prompter: deps.Prompter,
		Applier:  deps.Applier,
		URLs:     deps.URLs,
		Screen:   deps.Screen,
		Renderer: deps.Renderer,
		Out:      deps.Out,
	}
	return s
}

// ManifestPath returns the pyproject.toml the service reads.
func (s *ReviewService) ManifestPath() string {
	return s.manifestPath
}

// DirectNames reads the manifest and returns the direct dependency names.
func (s *ReviewService) DirectNames() (manifest.NameSet, error) {
	m, err := manifest.Load(s.manifestPath)
	if err != nil {
		return nil, err
	}

	names := m.DirectNames(s.settings.ManifestOptions())
	logger.Debugf("%d direct dependencies in %s", len(names), s.manifestPath)
	return names, nil
}

// Candidates returns the outdated direct dependencies, in query order.
func (s *ReviewService) Candidates(ctx context.Context, direct manifest.NameSet) ([]review.Candidate, error) {
	outdated, err := s.lister.ListOutdated(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query outdated packages: %w", err)
	}

	candidates := review.Resolve(outdated, direct)
	logger.Debugf("%d outdated packages, %d direct", len(outdated), len(candidates))
	return candidates, nil
}

// CheckGit warns when the manifest or lock file has uncommitted changes.
func (s *ReviewService) CheckGit() []string {
	if s.gitChecker == nil {
		return nil
	}

	dir := filepath.Dir(s.manifestPath)
	result, err := s.gitChecker.Check(dir, s.manifestPath, filepath.Join(dir, backup.LockFileName))
	if err != nil {
		if !errors.Is(err, git.ErrNotRepository) {
			logger.Debugf("git check skipped: %v", err)
		}
		return nil
	}

	return result.Warnings
}

// EnsureSnapshot snapshots the manifest once per session. Failures are
// reported and never stop the upgrade.
func (s *ReviewService) EnsureSnapshot() {
	if s.snapshot != nil || s.snapshots == nil {
		return
	}

	snap, err := s.snapshots.Create(s.manifestPath, "Auto (review)")
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Warning: failed to create backup: %v\n", err)
		return
	}
	s.snapshot = snap
	logger.Debugf("backup created: %s", snap.ID)

	if result, err := s.snapshots.Prune(s.settings.Backup.Keep); err != nil {
		logger.Warnf("failed to prune backups: %v", err)
	} else if len(result.Deleted) > 0 {
		logger.Debugf("pruned %d old backups", len(result.Deleted))
	}
}

// RecordHistory stores the session history in this session's snapshot.
func (s *ReviewService) RecordHistory(history []review.HistoryEntry) {
	if s.snapshot == nil {
		return
	}

	upgrades := make([]backup.Upgrade, 0, len(history))
	for _, h := range history {
		upgrades = append(upgrades, backup.Upgrade{Name: h.Name, OldVersion: h.OldVersion, NewVersion: h.NewVersion})
	}

	if err := s.snapshots.RecordUpgrades(s.snapshot.ID, upgrades); err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Warning: failed to record upgrades in backup %s: %v\n", s.snapshot.ID, err)
	}
}

// Run executes the complete review workflow.
func (s *ReviewService) Run(ctx context.Context, opts ReviewOptions) error {
	// 1. Read direct dependencies
	direct, err := s.DirectNames()
	if err != nil {
		return err
	}

	// 2. Query and resolve
	if !opts.Quiet {
		_, _ = fmt.Fprintln(s.out, scanningText)
	}
	candidates, err := s.Candidates(ctx, direct)
	if err != nil {
		return err
	}

	if len(candidates) == 0 {
		if !opts.Quiet {
			_, _ = fmt.Fprintln(s.out, upToDateText)
		}
		return nil
	}

	// 3. Warn about uncommitted manifest changes
	if !opts.SkipGitCheck {
		for _, w := range s.CheckGit() {
			_, _ = fmt.Fprintf(s.errOut, "Warning: %s\n", w)
		}
	}

	// 4. Review
	if opts.CreateBackup {
		s.loop.BeforeApply = func(review.Candidate) { s.EnsureSnapshot() }
	}

	history, err := s.loop.Run(ctx, candidates)
	s.RecordHistory(history)

	return err
}
