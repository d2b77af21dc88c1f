// Package render formats Hydra records for the terminal: aligned tables with
// coloured icons, and JSON.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	dimStyle  = lipgloss.NewStyle().Faint(true)
	boldStyle = lipgloss.NewStyle().Bold(true)
	cellStyle = lipgloss.NewStyle().PaddingRight(1)
)

// Dim renders s in a faint colour, used for links.
func Dim(s string) string {
	return dimStyle.Render(s)
}

// Bold renders s in bold.
func Bold(s string) string {
	return boldStyle.Render(s)
}

// Table aligns rows into columns separated by a single space. With short
// set, only the first row is rendered.
func Table(rows [][]string, short bool) string {
	if short && len(rows) > 1 {
		rows = rows[:1]
	}
	if len(rows) == 0 {
		return ""
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			return cellStyle
		}).
		Rows(rows...)

	lines := strings.Split(t.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}
