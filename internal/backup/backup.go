// Package backup snapshots pyproject.toml and uv.lock before upgrades.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// LockFileName is the uv lock file captured alongside the manifest.
const LockFileName = "uv.lock"

// metadataFile holds snapshot metadata inside each snapshot directory.
const metadataFile = "snapshot.json"

// idLayout formats snapshot IDs from their creation time.
const idLayout = "2006-01-02-150405"

// Snapshot is a copy of a project's manifest files taken before upgrading.
type Snapshot struct {
	ID         string     `json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	ProjectDir string     `json:"project_dir"`
	Note       string     `json:"note,omitempty"`
	UVUVersion string     `json:"uvu_version"`
	Files      []File     `json:"files"`
	Upgrades   []Upgrade  `json:"upgrades,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// File is one captured file: Name inside the snapshot, Path where it came from.
type File struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Upgrade records a package upgrade applied after the snapshot was taken.
type Upgrade struct {
	Name       string `json:"name"`
	OldVersion string `json:"old_version"`
	NewVersion string `json:"new_version"`
}

// Info provides summary information about a snapshot for listing.
type Info struct {
	ID         string    `json:"id" yaml:"id"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	ProjectDir string    `json:"project_dir" yaml:"project_dir"`
	Note       string    `json:"note,omitempty" yaml:"note,omitempty"`
	Files      int       `json:"files" yaml:"files"`
	Upgrades   int       `json:"upgrades" yaml:"upgrades"`
}

// Manager handles snapshot operations.
type Manager struct {
	backupDir  string
	uvuVersion string
	now        func() time.Time
}

// NewManager creates a manager using the default backup directory.
func NewManager(version string) (*Manager, error) {
	backupDir, err := getBackupDir()
	if err != nil {
		return nil, err
	}
	return NewManagerWithDir(backupDir, version), nil
}

// NewManagerWithDir creates a manager with a custom directory (for testing).
func NewManagerWithDir(backupDir, version string) *Manager {
	return &Manager{
		backupDir:  backupDir,
		uvuVersion: version,
		now:        time.Now,
	}
}

// getBackupDir returns the default backup directory path.
func getBackupDir() (string, error) {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheDir, "uvu", "backups"), nil
}

// BackupDir returns the backup directory path.
func (m *Manager) BackupDir() string {
	return m.backupDir
}

// Create snapshots manifestPath and the uv.lock next to it, if any.
func (m *Manager) Create(manifestPath, note string) (*Snapshot, error) {
	manifestPath, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	if _, err := os.Stat(manifestPath); err != nil {
		return nil, fmt.Errorf("cannot snapshot %s: %w", manifestPath, err)
	}

	if err := os.MkdirAll(m.backupDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := m.now()
	id, dir, err := m.reserve(now)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:         id,
		CreatedAt:  now,
		ProjectDir: filepath.Dir(manifestPath),
		Note:       note,
		UVUVersion: m.uvuVersion,
	}

	sources := []string{manifestPath}
	lockPath := filepath.Join(snap.ProjectDir, LockFileName)
	if _, err := os.Stat(lockPath); err == nil {
		sources = append(sources, lockPath)
	}

	for _, src := range sources {
		name := filepath.Base(src)
		if err := copyFile(src, filepath.Join(dir, name)); err != nil {
			_ = os.RemoveAll(dir)
			return nil, fmt.Errorf("failed to copy %s: %w", name, err)
		}
		snap.Files = append(snap.Files, File{Name: name, Path: src})
	}

	if err := m.save(snap); err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}

	return snap, nil
}

// reserve creates a fresh snapshot directory for t, suffixing the ID when
// another snapshot was taken in the same second.
func (m *Manager) reserve(t time.Time) (string, string, error) {
	base := t.Format(idLayout)
	id := base
	for n := 2; ; n++ {
		dir := filepath.Join(m.backupDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

// RecordUpgrades stores the upgrades applied since snapshot id was taken.
func (m *Manager) RecordUpgrades(id string, upgrades []Upgrade) error {
	snap, err := m.Get(id)
	if err != nil {
		return err
	}

	finished := m.now()
	snap.Upgrades = upgrades
	snap.FinishedAt = &finished

	return m.save(snap)
}

// List returns all snapshots sorted by creation time (newest first).
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	snapshots := []Info{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		snap, err := m.load(entry.Name())
		if err != nil {
			continue
		}

		snapshots = append(snapshots, Info{
			ID:         snap.ID,
			CreatedAt:  snap.CreatedAt,
			ProjectDir: snap.ProjectDir,
			Note:       snap.Note,
			Files:      len(snap.Files),
			Upgrades:   len(snap.Upgrades),
		})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
	})

	return snapshots, nil
}

// Get retrieves a snapshot by ID. Use "latest" to get the most recent one.
func (m *Manager) Get(id string) (*Snapshot, error) {
	if id == "latest" {
		snapshots, err := m.List()
		if err != nil {
			return nil, err
		}
		if len(snapshots) == 0 {
			return nil, fmt.Errorf("no backups found")
		}
		id = snapshots[0].ID
	}

	return m.load(id)
}

// Restore copies the files of snapshot id back to where they were taken from.
func (m *Manager) Restore(id string) (*Snapshot, error) {
	snap, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(m.backupDir, snap.ID)
	for _, f := range snap.Files {
		if err := copyFile(filepath.Join(dir, f.Name), f.Path); err != nil {
			return nil, fmt.Errorf("failed to restore %s: %w", f.Path, err)
		}
	}

	return snap, nil
}

// Delete removes a snapshot by ID.
func (m *Manager) Delete(id string) error {
	if !validID(id) {
		return fmt.Errorf("invalid backup id: %q", id)
	}
	dir := filepath.Join(m.backupDir, id)

	if _, err := os.Stat(filepath.Join(dir, metadataFile)); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", id)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}

	return nil
}

// load reads and parses the metadata of snapshot id.
func (m *Manager) load(id string) (*Snapshot, error) {
	if !validID(id) {
		return nil, fmt.Errorf("invalid backup id: %q", id)
	}

	data, err := os.ReadFile(filepath.Join(m.backupDir, id, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("backup not found: %s", id)
		}
		return nil, fmt.Errorf("failed to read backup metadata: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse backup metadata: %w", err)
	}

	return &snap, nil
}

// save writes the metadata of snap.
func (m *Manager) save(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}

	path := filepath.Join(m.backupDir, snap.ID, metadataFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup metadata: %w", err)
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}

// validID reports whether id names an entry directly inside the backup dir.
func validID(id string) bool {
	return id != "" && id != "." && id != ".." && filepath.Base(id) == id
}
