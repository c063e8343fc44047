package review

import (
	"context"
	"fmt"
	"io"

	logger "github.com/sirupsen/logrus"

	"github.com/adamancini/uvu/internal/types"
)

// PromptText is shown after every dashboard.
const PromptText = "\n[y] Upgrade | [n] Skip | [p] Back | [q] Quit: "

// FailureText is shown when an upgrade could not be applied.
const FailureText = "\n❌ Upgrade failed (dependency conflict). Press Enter to continue..."

// Prompter reads user decisions.
type Prompter interface {
	// ReadCommand shows prompt and returns the parsed command.
	// End of input and cancellation of ctx are CommandQuit.
	ReadCommand(ctx context.Context, prompt string) types.Command
	// Acknowledge shows msg and blocks until the user presses Enter
	// or ctx is done.
	Acknowledge(ctx context.Context, msg string)
}

// Applier applies a single upgrade.
type Applier interface {
	Add(ctx context.Context, name, version string) error
}

// URLResolver finds a release-information URL. It never fails.
type URLResolver interface {
	LookupURL(ctx context.Context, name string) string
}

// Screen clears the terminal between renders.
type Screen interface {
	Clear()
}

// Renderer turns session state into text.
type Renderer interface {
	Dashboard(s Snapshot) string
	Summary(history []HistoryEntry) string
}

// Loop drives a Session with user input and external collaborators.
type Loop struct {
	Prompter Prompter
	Applier  Applier
	URLs     URLResolver
	Screen   Screen
	Renderer Renderer
	Out      io.Writer

	// BeforeApply, when set, runs before every upgrade attempt.
	BeforeApply func(c Candidate)
}

// Run reviews candidates until the cursor leaves the list or the user quits,
// then renders the final summary. When ctx is cancelled no further command
// is applied; the summary is still rendered and ctx.Err() is returned along
// with the history so far.
func (l *Loop) Run(ctx context.Context, candidates []Candidate) ([]HistoryEntry, error) {
	session := NewSession(candidates)

	for !session.Finished() && ctx.Err() == nil {
		current, _ := session.Current()
		url := l.URLs.LookupURL(ctx, current.Name)

		l.Screen.Clear()
		_, _ = fmt.Fprint(l.Out, l.Renderer.Dashboard(session.Snapshot(url)))

		cmd := l.Prompter.ReadCommand(ctx, PromptText)
		if ctx.Err() != nil {
			break
		}
		logger.Debugf("command %q at %d/%d (%s)", cmd, session.Cursor()+1, session.Len(), current.Name)

		err := session.Step(cmd, func(c Candidate) error {
			return l.apply(ctx, c)
		})
		if err != nil && ctx.Err() == nil {
			logger.Debugf("upgrade of %s failed: %v", current.Name, err)
			l.Prompter.Acknowledge(ctx, FailureText)
		}
	}

	history := session.History()
	l.Screen.Clear()
	_, _ = fmt.Fprint(l.Out, l.Renderer.Summary(history))

	return history, ctx.Err()
}

func (l *Loop) apply(ctx context.Context, c Candidate) error {
	if l.BeforeApply != nil {
		l.BeforeApply(c)
	}
	_, _ = fmt.Fprintf(l.Out, "\n🚀 Installing %s %s...\n", c.Name, c.LatestVersion)
	return l.Applier.Add(ctx, c.Name, c.LatestVersion)
}
