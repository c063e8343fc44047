// Package uv wraps the uv package manager CLI.
package uv

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner is an interface for running external commands.
// This allows for mocking in tests.
type Runner interface {
	// Run executes name with args in dir and returns its stdout.
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// DefaultRunner uses os/exec to run commands.
type DefaultRunner struct{}

// Run executes a command in dir. On a non-zero exit the returned error is an
// *exec.ExitError carrying the command's stderr.
func (r *DefaultRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Output()
}

// CommandError reports a failed uv invocation.
type CommandError struct {
	Command string // full command line
	Output  string // stderr, when available
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Command, e.Err)
	if e.Output != "" {
		msg += "\nOutput: " + e.Output
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func newCommandError(command string, err error) *CommandError {
	ce := &CommandError{Command: command, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		ce.Output = strings.TrimSpace(string(exitErr.Stderr))
	}
	return ce
}

// ParseError reports uv output that could not be understood.
type ParseError struct {
	Command string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse output of %s: %v", e.Command, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
