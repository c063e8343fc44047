// Package render turns review state into terminal text.
//
// Every function here is pure: it takes a snapshot and returns a string.
// Colors come from Lip Gloss and degrade to plain text when the output is
// not a terminal or NO_COLOR is set.
package render

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	Cyan  = lipgloss.Color("6")
	Green = lipgloss.Color("2")
	Blue  = lipgloss.Color("4")
	Red   = lipgloss.Color("9")
	Gray  = lipgloss.Color("8")
	Amber = lipgloss.Color("3")
)

var (
	// TitleStyle is the application title.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Cyan)

	// SectionStyle introduces the history and change log.
	SectionStyle = lipgloss.NewStyle().Bold(true).Foreground(Green)

	// HeadingStyle is a bold heading without color.
	HeadingStyle = lipgloss.NewStyle().Bold(true)

	// MutedStyle is for secondary text and old versions in the history.
	MutedStyle = lipgloss.NewStyle().Foreground(Gray)

	// PackageStyle highlights package names.
	PackageStyle = lipgloss.NewStyle().Bold(true).Foreground(Blue)

	// OldVersionStyle is the version being replaced.
	OldVersionStyle = lipgloss.NewStyle().Foreground(Red)

	// NewVersionStyle is the version being installed.
	NewVersionStyle = lipgloss.NewStyle().Bold(true).Foreground(Green)

	// URLStyle renders links.
	URLStyle = lipgloss.NewStyle().Underline(true).Foreground(Blue)

	// BreakingStyle flags major version bumps.
	BreakingStyle = lipgloss.NewStyle().Bold(true).Foreground(Amber)
)
