package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/adamancini/uvu/internal/review"
)

const (
	// Title heads every dashboard.
	Title = "UV INTERACTIVE UPGRADER"

	dashboardRule = 55
	summaryRule   = 45

	// nameColumn is the display width of names in the change log.
	nameColumn = 18
)

// Renderer implements review.Renderer with the package functions.
type Renderer struct{}

// Dashboard implements review.Renderer.
func (Renderer) Dashboard(s review.Snapshot) string {
	return Dashboard(s)
}

// Summary implements review.Renderer.
func (Renderer) Summary(history []review.HistoryEntry) string {
	return Summary(history)
}

// Dashboard renders the per-iteration view: progress, the session history,
// then the focused candidate.
func Dashboard(s review.Snapshot) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(Title) + "\n")
	fmt.Fprintf(&b, "Progress: [%d/%d]\n", s.Position, s.Total)

	if len(s.History) > 0 {
		b.WriteString("\n" + SectionStyle.Render("Session Upgrades:") + "\n")
		for _, h := range s.History {
			fmt.Fprintf(&b, "  ✓ %s: %s → %s\n",
				h.Name, MutedStyle.Render(h.OldVersion), NewVersionStyle.Render(h.NewVersion))
		}
	} else {
		b.WriteString("\n" + MutedStyle.Render("No upgrades performed yet.") + "\n")
	}

	b.WriteString("\n" + rule(dashboardRule) + "\n")

	c := s.Current
	fmt.Fprintf(&b, "Current Package: %s\n", PackageStyle.Render(c.Name))
	fmt.Fprintf(&b, "Update: %s  ➜  %s%s\n",
		OldVersionStyle.Render(c.CurrentVersion), NewVersionStyle.Render(c.LatestVersion), bumpLabel(c))
	fmt.Fprintf(&b, "Release Info: %s\n", URLStyle.Render(s.URL))
	b.WriteString(rule(dashboardRule) + "\n")

	return b.String()
}

// Summary renders the final change log.
func Summary(history []review.HistoryEntry) string {
	var b strings.Builder

	b.WriteString("✨ " + SectionStyle.Render("Update Session Finished") + "\n")

	if len(history) == 0 {
		b.WriteString("\nNo packages were upgraded.\n")
		return b.String()
	}

	b.WriteString("\n" + HeadingStyle.Render("Final Change Log:") + "\n")
	b.WriteString(rule(summaryRule) + "\n")
	for _, h := range history {
		fmt.Fprintf(&b, "  • %s : %s → %s\n",
			PackageStyle.Render(PadName(h.Name)),
			OldVersionStyle.Render(h.OldVersion),
			NewVersionStyle.Render(h.NewVersion))
	}
	b.WriteString(rule(summaryRule) + "\n")

	return b.String()
}

// PadName left-aligns name in the change log column by display width.
// Longer names are not truncated.
func PadName(name string) string {
	return runewidth.FillRight(name, nameColumn)
}

func bumpLabel(c review.Candidate) string {
	bump := c.Bump()
	label := fmt.Sprintf("  (%s)", bump)
	if bump.IsBreaking() {
		return BreakingStyle.Render(label)
	}
	return MutedStyle.Render(label)
}

func rule(width int) string {
	return strings.Repeat("─", width)
}
