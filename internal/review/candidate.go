// Package review implements the interactive upgrade review session.
package review

import (
	"strings"

	"golang.org/x/mod/semver"

	"github.com/adamancini/uvu/internal/types"
	"github.com/adamancini/uvu/internal/uv"
)

// Candidate is an outdated direct dependency eligible for review.
type Candidate struct {
	Name           string `json:"name" yaml:"name"`
	CurrentVersion string `json:"current_version" yaml:"current_version"`
	LatestVersion  string `json:"latest_version" yaml:"latest_version"`
}

// Bump classifies the current to latest transition.
func (c Candidate) Bump() types.Bump {
	return ClassifyBump(c.CurrentVersion, c.LatestVersion)
}

// HistoryEntry records one upgrade applied during the session.
type HistoryEntry struct {
	Name       string `json:"name" yaml:"name"`
	OldVersion string `json:"old_version" yaml:"old_version"`
	NewVersion string `json:"new_version" yaml:"new_version"`
}

// NameSet reports direct dependency membership (case-insensitive).
type NameSet interface {
	Contains(name string) bool
}

// Resolve keeps the outdated packages that are direct dependencies,
// preserving the query order.
func Resolve(outdated []uv.Package, direct NameSet) []Candidate {
	candidates := make([]Candidate, 0, len(outdated))
	for _, p := range outdated {
		if !direct.Contains(strings.ToLower(p.Name)) {
			continue
		}
		candidates = append(candidates, Candidate{
			Name:           p.Name,
			CurrentVersion: p.Version,
			LatestVersion:  p.LatestVersion,
		})
	}
	return candidates
}

// ClassifyBump compares two versions as semver when both parse as such.
// Python-only forms like "2.0rc1" yield BumpOther.
func ClassifyBump(from, to string) types.Bump {
	a, b := "v"+from, "v"+to
	if !semver.IsValid(a) || !semver.IsValid(b) {
		return types.BumpOther
	}

	switch {
	case semver.Major(a) != semver.Major(b):
		return types.BumpMajor
	case semver.MajorMinor(a) != semver.MajorMinor(b):
		return types.BumpMinor
	default:
		return types.BumpPatch
	}
}
