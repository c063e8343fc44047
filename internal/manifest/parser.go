package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// constraintOperators are the characters that start a version constraint.
const constraintOperators = "<>=!~"

// nameTerminators end a requirement name even without a constraint:
// extras, environment markers, direct references and whitespace.
const nameTerminators = "[;@ \t"

// rawPyproject is an intermediate representation for decoding.
// Dependency groups may contain include tables, so their items stay untyped.
type rawPyproject struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	DependencyGroups map[string][]interface{} `toml:"dependency-groups"`
}

func parse(content []byte) (*Manifest, error) {
	var raw rawPyproject
	if err := toml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("TOML parse error: %w", err)
	}

	m := &Manifest{
		Dependencies:         raw.Project.Dependencies,
		OptionalDependencies: raw.Project.OptionalDependencies,
		DependencyGroups:     make(map[string][]string, len(raw.DependencyGroups)),
	}
	if m.OptionalDependencies == nil {
		m.OptionalDependencies = make(map[string][]string)
	}

	for group, items := range raw.DependencyGroups {
		var deps []string
		for _, item := range items {
			// {include-group = "..."} tables are not requirements
			if s, ok := item.(string); ok {
				deps = append(deps, s)
			}
		}
		m.DependencyGroups[group] = deps
	}

	return m, nil
}

// ExtractName returns the package name of a requirement string: the part
// before the first constraint operator, trimmed and lowercased.
func ExtractName(requirement string) string {
	name := requirement
	if i := strings.IndexAny(name, constraintOperators); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// normalizeName extracts the name and drops extras and markers,
// so "uvicorn[standard]>=0.30" becomes "uvicorn".
func normalizeName(requirement string) string {
	name := strings.TrimSpace(ExtractName(requirement))
	if i := strings.IndexAny(name, nameTerminators); i >= 0 {
		name = name[:i]
	}
	return name
}

// NameSet is a case-insensitive set of package names.
type NameSet map[string]struct{}

// NewNameSet builds a set from requirement strings. Empty names are dropped.
func NewNameSet(requirements ...string) NameSet {
	s := make(NameSet, len(requirements))
	for _, r := range requirements {
		if name := normalizeName(r); name != "" {
			s[name] = struct{}{}
		}
	}
	return s
}

// Contains reports whether name, lowercased, is in the set.
func (s NameSet) Contains(name string) bool {
	_, ok := s[strings.ToLower(name)]
	return ok
}

// Remove deletes name from the set.
func (s NameSet) Remove(name string) {
	delete(s, strings.ToLower(strings.TrimSpace(name)))
}

// Sorted returns the names in lexical order.
func (s NameSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
