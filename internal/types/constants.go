// Package types provides type-safe constants for uvu.
//
// This package centralizes the enumerated values used throughout the codebase,
// replacing magic strings with typed constants that provide validation methods.
package types

import (
	"fmt"
	"strings"
)

// Command is a single review-loop command entered by the user.
type Command string

const (
	// CommandUpgrade applies the latest version of the focused package.
	CommandUpgrade Command = "y"
	// CommandSkip moves on without changing anything.
	CommandSkip Command = "n"
	// CommandBack returns to the previous package.
	CommandBack Command = "p"
	// CommandQuit ends the session immediately.
	CommandQuit Command = "q"
)

// AllCommands returns every recognized command in prompt order.
func AllCommands() []Command {
	return []Command{CommandUpgrade, CommandSkip, CommandBack, CommandQuit}
}

// String returns the string representation of the Command.
func (c Command) String() string {
	return string(c)
}

// ParseCommand maps raw user input to a Command.
// Input is trimmed and lowercased. Anything that is not y, p or q
// (including the empty line) is a skip.
func ParseCommand(input string) Command {
	switch Command(strings.ToLower(strings.TrimSpace(input))) {
	case CommandUpgrade:
		return CommandUpgrade
	case CommandBack:
		return CommandBack
	case CommandQuit:
		return CommandQuit
	default:
		return CommandSkip
	}
}

// Bump classifies the distance between two versions.
type Bump string

const (
	// BumpMajor indicates the major component changed.
	BumpMajor Bump = "major"
	// BumpMinor indicates the minor component changed.
	BumpMinor Bump = "minor"
	// BumpPatch indicates only the patch component changed.
	BumpPatch Bump = "patch"
	// BumpOther is used when either version is not semver-like.
	BumpOther Bump = "other"
)

// AllBumps returns all bump kinds, most significant first.
func AllBumps() []Bump {
	return []Bump{BumpMajor, BumpMinor, BumpPatch, BumpOther}
}

// Validate checks if the Bump is a valid value.
func (b Bump) Validate() error {
	switch b {
	case BumpMajor, BumpMinor, BumpPatch, BumpOther:
		return nil
	case "":
		return fmt.Errorf("bump kind is required")
	default:
		return fmt.Errorf("invalid bump kind '%s' (must be major, minor, patch, or other)", b)
	}
}

// String returns the string representation of the Bump.
func (b Bump) String() string {
	return string(b)
}

// IsBreaking returns true if the bump likely contains breaking changes.
func (b Bump) IsBreaking() bool {
	return b == BumpMajor
}
