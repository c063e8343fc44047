package review

import (
	"github.com/adamancini/uvu/internal/types"
)

// Session owns the candidate list, the cursor and the upgrade history for
// one invocation. The candidate list never changes after creation and the
// history is append-only.
type Session struct {
	candidates []Candidate
	cursor     int
	history    []HistoryEntry
	quit       bool
}

// NewSession starts a session at the first candidate.
func NewSession(candidates []Candidate) *Session {
	return &Session{
		candidates: append([]Candidate(nil), candidates...),
	}
}

// Len returns the number of candidates.
func (s *Session) Len() int {
	return len(s.candidates)
}

// Cursor returns the index of the focused candidate.
func (s *Session) Cursor() int {
	return s.cursor
}

// Finished reports whether the session left the Reviewing state.
func (s *Session) Finished() bool {
	return s.quit || s.cursor < 0 || s.cursor >= len(s.candidates)
}

// Current returns the focused candidate. ok is false once finished.
func (s *Session) Current() (c Candidate, ok bool) {
	if s.Finished() {
		return Candidate{}, false
	}
	return s.candidates[s.cursor], true
}

// History returns a copy of the applied upgrades in the order accepted.
func (s *Session) History() []HistoryEntry {
	return append([]HistoryEntry(nil), s.history...)
}

// Snapshot captures what the dashboard shows for the current state.
func (s *Session) Snapshot(url string) Snapshot {
	current, _ := s.Current()
	return Snapshot{
		Position: s.cursor + 1,
		Total:    len(s.candidates),
		History:  s.History(),
		Current:  current,
		URL:      url,
	}
}

// Step applies one command. For CommandUpgrade, apply is called with the
// focused candidate; on error the session is unchanged and the error is
// returned so the caller can report it.
func (s *Session) Step(cmd types.Command, apply func(Candidate) error) error {
	current, ok := s.Current()
	if !ok {
		return nil
	}

	switch cmd {
	case types.CommandUpgrade:
		if err := apply(current); err != nil {
			return err
		}
		s.history = append(s.history, HistoryEntry{
			Name:       current.Name,
			OldVersion: current.CurrentVersion,
			NewVersion: current.LatestVersion,
		})
		s.cursor++
	case types.CommandBack:
		if s.cursor > 0 {
			s.cursor--
		}
	case types.CommandQuit:
		s.quit = true
	default:
		s.cursor++
	}

	return nil
}

// Snapshot is an immutable view of a session for rendering.
type Snapshot struct {
	Position int // 1-based
	Total    int
	History  []HistoryEntry
	Current  Candidate
	URL      string
}
