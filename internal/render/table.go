package render

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/adamancini/uvu/internal/review"
)

var tableHeader = []string{"NAME", "CURRENT", "LATEST", "BUMP"}

// Table renders candidates as aligned columns for `uvu list`.
func Table(candidates []review.Candidate) string {
	rows := [][]string{tableHeader}
	for _, c := range candidates {
		rows = append(rows, []string{c.Name, c.CurrentVersion, c.LatestVersion, c.Bump().String()})
	}

	widths := make([]int, len(tableHeader))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
				continue
			}
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		b.WriteString(strings.Join(cells, "  ") + "\n")
	}

	return b.String()
}
