// Package manifest reads a project's declared direct dependencies.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DefaultFileName is the manifest uvu reads when none is configured.
const DefaultFileName = "pyproject.toml"

// ErrManifestNotFound is returned when the manifest file does not exist.
var ErrManifestNotFound = errors.New("manifest not found")

// NotFoundError reports a missing manifest and matches ErrManifestNotFound.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found in %s", filepath.Base(e.Path), filepath.Dir(e.Path))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrManifestNotFound
}

// Options selects which dependency tables contribute direct names.
type Options struct {
	IncludeOptional bool     // [project.optional-dependencies]
	IncludeGroups   bool     // [dependency-groups]
	Exclude         []string // names never treated as direct
}

// Manifest is the parsed subset of pyproject.toml that uvu cares about.
type Manifest struct {
	Path                 string
	Dependencies         []string
	OptionalDependencies map[string][]string
	DependencyGroups     map[string][]string
}

// Resolve returns the manifest path for a project directory.
// An absolute name is returned unchanged.
func Resolve(projectDir, name string) string {
	if name == "" {
		name = DefaultFileName
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(projectDir, name)
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path

	return m, nil
}

// ReadDirectDependencies returns the raw dependency strings declared in
// [project].dependencies.
func ReadDirectDependencies(path string) ([]string, error) {
	m, err := Load(path)
	if err != nil {
		return nil, err
	}
	return m.Dependencies, nil
}

// Declared returns every dependency string selected by opts, in file order.
// Optional and group tables are walked in sorted key order.
func (m *Manifest) Declared(opts Options) []string {
	declared := append([]string(nil), m.Dependencies...)

	if opts.IncludeOptional {
		for _, extra := range sortedKeys(m.OptionalDependencies) {
			declared = append(declared, m.OptionalDependencies[extra]...)
		}
	}
	if opts.IncludeGroups {
		for _, group := range sortedKeys(m.DependencyGroups) {
			declared = append(declared, m.DependencyGroups[group]...)
		}
	}

	return declared
}

// DirectNames returns the normalized direct dependency name set.
func (m *Manifest) DirectNames(opts Options) NameSet {
	names := NewNameSet(m.Declared(opts)...)
	for _, ex := range opts.Exclude {
		names.Remove(ex)
	}
	return names
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
