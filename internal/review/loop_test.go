package review

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/adamancini/uvu/internal/types"
)

type scriptedPrompter struct {
	inputs       []string
	prompts      int
	acknowledged []string

	// onPrompt, when set, runs before the n-th (1-based) command is returned.
	onPrompt func(n int)
}

func (p *scriptedPrompter) ReadCommand(ctx context.Context, prompt string) types.Command {
	p.prompts++
	if p.onPrompt != nil {
		p.onPrompt(p.prompts)
	}
	if len(p.inputs) == 0 {
		return types.CommandQuit
	}
	in := p.inputs[0]
	p.inputs = p.inputs[1:]
	return types.ParseCommand(in)
}

func (p *scriptedPrompter) Acknowledge(ctx context.Context, msg string) {
	p.acknowledged = append(p.acknowledged, msg)
}

type fakeApplier struct {
	calls []string
	fail  map[string]int // name -> remaining failures
}

func (a *fakeApplier) Add(ctx context.Context, name, version string) error {
	a.calls = append(a.calls, name+"=="+version)
	if a.fail[name] > 0 {
		a.fail[name]--
		return errors.New("no solution found")
	}
	return nil
}

type countingURLs struct {
	lookups []string
}

func (u *countingURLs) LookupURL(ctx context.Context, name string) string {
	u.lookups = append(u.lookups, name)
	return "https://pypi.org/project/" + name + "/"
}

type countingScreen struct{ clears int }

func (s *countingScreen) Clear() { s.clears++ }

type plainRenderer struct{}

func (plainRenderer) Dashboard(s Snapshot) string {
	return fmt.Sprintf("[%d/%d] %s %s\n", s.Position, s.Total, s.Current.Name, s.URL)
}

func (plainRenderer) Summary(history []HistoryEntry) string {
	if len(history) == 0 {
		return "nothing upgraded\n"
	}
	var b strings.Builder
	for _, h := range history {
		fmt.Fprintf(&b, "%s %s->%s\n", h.Name, h.OldVersion, h.NewVersion)
	}
	return b.String()
}

type loopFixture struct {
	loop     *Loop
	prompter *scriptedPrompter
	applier  *fakeApplier
	urls     *countingURLs
	screen   *countingScreen
	out      *bytes.Buffer
}

func newLoopFixture(inputs ...string) *loopFixture {
	f := &loopFixture{
		prompter: &scriptedPrompter{inputs: inputs},
		applier:  &fakeApplier{fail: map[string]int{}},
		urls:     &countingURLs{},
		screen:   &countingScreen{},
		out:      &bytes.Buffer{},
	}
	f.loop = &Loop{
		Prompter: f.prompter,
		Applier:  f.applier,
		URLs:     f.urls,
		Screen:   f.screen,
		Renderer: plainRenderer{},
		Out:      f.out,
	}
	return f
}

func TestLoopSingleUpgrade(t *testing.T) {
	f := newLoopFixture("y")
	candidates := []Candidate{{Name: "requests", CurrentVersion: "2.0", LatestVersion: "2.31"}}

	history, err := f.loop.Run(context.Background(), candidates)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []HistoryEntry{{Name: "requests", OldVersion: "2.0", NewVersion: "2.31"}}
	if !reflect.DeepEqual(history, want) {
		t.Errorf("history = %+v, want %+v", history, want)
	}
	if !reflect.DeepEqual(f.applier.calls, []string{"requests==2.31"}) {
		t.Errorf("applier calls = %v", f.applier.calls)
	}
	if !strings.HasSuffix(f.out.String(), "requests 2.0->2.31\n") {
		t.Errorf("summary missing from output:\n%s", f.out.String())
	}
	if f.prompter.prompts != 1 {
		t.Errorf("prompts = %d, want 1", f.prompter.prompts)
	}
	// one clear per iteration plus one for the summary
	if f.screen.clears != 2 {
		t.Errorf("clears = %d, want 2", f.screen.clears)
	}
}

func TestLoopQuitAtStart(t *testing.T) {
	f := newLoopFixture("q")
	candidates := []Candidate{{Name: "a"}, {Name: "b"}}

	history, err := f.loop.Run(context.Background(), candidates)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(history) != 0 {
		t.Errorf("history = %+v, want empty", history)
	}
	if len(f.applier.calls) != 0 {
		t.Errorf("applier should not be called, got %v", f.applier.calls)
	}
	if !strings.HasSuffix(f.out.String(), "nothing upgraded\n") {
		t.Errorf("expected nothing-upgraded summary, got:\n%s", f.out.String())
	}
}

func TestLoopFailedUpgradeRetries(t *testing.T) {
	f := newLoopFixture("y", "y")
	f.applier.fail["flask"] = 1
	candidates := []Candidate{{Name: "flask", CurrentVersion: "2.0.0", LatestVersion: "3.0.0"}}

	history, err := f.loop.Run(context.Background(), candidates)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(f.prompter.acknowledged) != 1 || f.prompter.acknowledged[0] != FailureText {
		t.Errorf("acknowledged = %v", f.prompter.acknowledged)
	}
	if len(f.applier.calls) != 2 {
		t.Errorf("applier calls = %v, want 2 attempts", f.applier.calls)
	}
	if len(history) != 1 {
		t.Errorf("history = %+v, want one entry", history)
	}
}

func TestLoopFailedUpgradeThenSkip(t *testing.T) {
	f := newLoopFixture("y", "n")
	f.applier.fail["flask"] = 5
	candidates := []Candidate{{Name: "flask", CurrentVersion: "2.0.0", LatestVersion: "3.0.0"}}

	history, err := f.loop.Run(context.Background(), candidates)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(history) != 0 {
		t.Errorf("history = %+v, want empty", history)
	}
}

func TestLoopURLLookedUpEveryIteration(t *testing.T) {
	f := newLoopFixture("n", "p", "n", "n")
	candidates := []Candidate{{Name: "a"}, {Name: "b"}}

	if _, err := f.loop.Run(context.Background(), candidates); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"a", "b", "a", "b"}
	if !reflect.DeepEqual(f.urls.lookups, want) {
		t.Errorf("lookups = %v, want %v", f.urls.lookups, want)
	}
}

func TestLoopEOFQuits(t *testing.T) {
	f := newLoopFixture("y")
	candidates := []Candidate{{Name: "a", LatestVersion: "2"}, {Name: "b", LatestVersion: "2"}, {Name: "c", LatestVersion: "2"}}

	history, err := f.loop.Run(context.Background(), candidates)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(history) != 1 {
		t.Errorf("history = %+v, want one entry", history)
	}
	if f.prompter.prompts != 2 {
		t.Errorf("prompts = %d, want 2", f.prompter.prompts)
	}
}

func TestLoopBeforeApply(t *testing.T) {
	f := newLoopFixture("y", "y")
	var seen []string
	f.loop.BeforeApply = func(c Candidate) { seen = append(seen, c.Name) }

	candidates := []Candidate{{Name: "a"}, {Name: "b"}}
	if _, err := f.loop.Run(context.Background(), candidates); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !reflect.DeepEqual(seen, []string{"a", "b"}) {
		t.Errorf("BeforeApply saw %v", seen)
	}
}

func TestLoopCancelled(t *testing.T) {
	f := newLoopFixture("n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.loop.Run(ctx, []Candidate{{Name: "a"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if f.prompter.prompts != 0 {
		t.Error("cancelled loop should not prompt")
	}
	if !strings.HasSuffix(f.out.String(), "nothing upgraded\n") {
		t.Errorf("summary missing after cancellation:\n%s", f.out.String())
	}
}

func TestLoopCancelledWhilePrompting(t *testing.T) {
	f := newLoopFixture("y", "y", "y")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.prompter.onPrompt = func(n int) {
		if n == 2 {
			cancel()
		}
	}
	candidates := []Candidate{
		{Name: "a", CurrentVersion: "1", LatestVersion: "2"},
		{Name: "b", CurrentVersion: "1", LatestVersion: "2"},
		{Name: "c", CurrentVersion: "1", LatestVersion: "2"},
	}

	history, err := f.loop.Run(ctx, candidates)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}

	want := []HistoryEntry{{Name: "a", OldVersion: "1", NewVersion: "2"}}
	if !reflect.DeepEqual(history, want) {
		t.Errorf("history = %+v, want %+v", history, want)
	}
	if !reflect.DeepEqual(f.applier.calls, []string{"a==2"}) {
		t.Errorf("applier calls = %v, the command read during cancellation must not run", f.applier.calls)
	}
	if len(f.prompter.acknowledged) != 0 {
		t.Errorf("acknowledged = %v, want none", f.prompter.acknowledged)
	}
	if !strings.HasSuffix(f.out.String(), "a 1->2\n") {
		t.Errorf("summary missing after cancellation:\n%s", f.out.String())
	}
}

type cancellingApplier struct {
	cancel context.CancelFunc
	calls  int
}

func (a *cancellingApplier) Add(ctx context.Context, name, version string) error {
	a.calls++
	a.cancel()
	return ctx.Err()
}

func TestLoopCancelledDuringUpgrade(t *testing.T) {
	f := newLoopFixture("y", "y")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	applier := &cancellingApplier{cancel: cancel}
	f.loop.Applier = applier

	history, err := f.loop.Run(ctx, []Candidate{{Name: "a", LatestVersion: "2"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if len(history) != 0 || applier.calls != 1 {
		t.Errorf("history = %+v, calls = %d", history, applier.calls)
	}
	if len(f.prompter.acknowledged) != 0 {
		t.Errorf("interrupted upgrade reported as a conflict: %v", f.prompter.acknowledged)
	}
}

func TestLoopDashboardShowsProgress(t *testing.T) {
	f := newLoopFixture("n", "n")
	candidates := []Candidate{{Name: "a"}, {Name: "b"}}

	if _, err := f.loop.Run(context.Background(), candidates); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := f.out.String()
	for _, want := range []string{"[1/2] a", "[2/2] b"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
