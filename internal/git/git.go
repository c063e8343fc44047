// Package git reports uncommitted changes to the project's manifest files.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	logger "github.com/sirupsen/logrus"
)

// ErrNotRepository is returned when the project is not inside a git worktree.
var ErrNotRepository = errors.New("not a git repository")

// Level represents the severity of a file's git status.
type Level string

const (
	LevelOK      Level = "ok"      // Committed and unchanged
	LevelWarning Level = "warning" // Uncommitted or untracked changes
)

// Status represents the git status of one file.
type Status struct {
	Path    string // Absolute path to the file
	RelPath string // Path relative to the worktree root
	Level   Level
	Message string
}

// Result holds the status of every checked file.
type Result struct {
	Root     string
	Files    []Status
	Warnings []string
}

// HasWarnings returns true if any checked file has uncommitted changes.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Checker inspects worktrees with go-git, no git binary required.
type Checker struct{}

// NewChecker creates a new Checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Check reports the status of paths in the worktree containing dir.
// Paths that neither exist nor are tracked are skipped.
func (c *Checker) Check(dir string, paths ...string) (*Result, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	repo, err := gogit.PlainOpenWithOptions(absDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// bare repositories have no worktree to check
		return nil, ErrNotRepository
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read worktree status: %w", err)
	}

	root := wt.Filesystem.Root()
	result := &Result{Root: root}

	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		resolved, err := resolvePath(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		rel, err := filepath.Rel(realRoot, resolved)
		if err != nil {
			return nil, fmt.Errorf("%s is outside the worktree: %w", p, err)
		}
		rel = filepath.ToSlash(rel)

		st := Status{Path: abs, RelPath: rel, Level: LevelOK, Message: "clean"}

		fs, tracked := status[rel]
		switch {
		case tracked && fs.Worktree == gogit.Untracked:
			st.Level = LevelWarning
			st.Message = "is untracked"
		case tracked && (fs.Worktree != gogit.Unmodified || fs.Staging != gogit.Unmodified):
			st.Level = LevelWarning
			st.Message = "has uncommitted changes"
		case !tracked:
			if _, err := os.Stat(abs); os.IsNotExist(err) {
				logger.Debugf("git check: %s does not exist, skipping", rel)
				continue
			}
		}

		if st.Level == LevelWarning {
			result.Warnings = append(result.Warnings, rel+" "+st.Message)
		}
		result.Files = append(result.Files, st)
	}

	return result, nil
}

// resolvePath evaluates symlinks in path. A missing file is resolved through
// its parent directory so deleted files still map into the worktree.
func resolvePath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	dir, err := filepath.EvalSymlinks(filepath.Dir(path))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(path)), nil
}
