// Package interactive provides terminal prompts for the review loop.
package interactive

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/adamancini/uvu/internal/types"
)

// Prompter reads review commands from a line-oriented input.
// Reads give up when their context is cancelled, so a signal can end a
// session that is waiting for input.
type Prompter struct {
	in    io.Reader
	out   io.Writer
	start sync.Once
	lines chan string
}

// NewPrompter creates a prompter with stdin/stdout.
func NewPrompter() *Prompter {
	return NewPrompterWithIO(os.Stdin, os.Stdout)
}

// NewPrompterWithIO creates a prompter with custom input/output (for testing).
func NewPrompterWithIO(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:    in,
		out:   out,
		lines: make(chan string),
	}
}

// IsTerminal reports whether r is a terminal (TTY).
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// scan feeds input lines to p.lines until end of input.
func (p *Prompter) scan() {
	defer close(p.lines)
	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		p.lines <- scanner.Text()
	}
}

// readLine returns the next input line. ok is false at end of input or
// when ctx is done.
func (p *Prompter) readLine(ctx context.Context) (line string, ok bool) {
	if ctx.Err() != nil {
		return "", false
	}
	p.start.Do(func() { go p.scan() })

	select {
	case <-ctx.Done():
		return "", false
	case line, ok = <-p.lines:
		return line, ok
	}
}

// ReadCommand displays prompt and reads one command.
// End of input and cancellation quit so the session cannot hang.
func (p *Prompter) ReadCommand(ctx context.Context, prompt string) types.Command {
	_, _ = fmt.Fprint(p.out, prompt)

	line, ok := p.readLine(ctx)
	if !ok {
		_, _ = fmt.Fprintln(p.out)
		return types.CommandQuit
	}
	return types.ParseCommand(line)
}

// Acknowledge displays msg and waits for Enter.
func (p *Prompter) Acknowledge(ctx context.Context, msg string) {
	_, _ = fmt.Fprint(p.out, msg)
	if _, ok := p.readLine(ctx); !ok {
		_, _ = fmt.Fprintln(p.out)
	}
}

// Confirm asks a yes/no question. Only "y" or "yes" confirm.
func (p *Prompter) Confirm(ctx context.Context, question string) bool {
	_, _ = fmt.Fprintf(p.out, "%s [y/n] ", question)
	line, ok := p.readLine(ctx)
	if !ok {
		return false
	}
	switch normalize(line) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// normalize lowercases and trims a line of input.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
