package render

import (
	"fmt"
	"strings"

	"github.com/bryango/hydra-check/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func deref[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// BuildRow formats a build as table cells: the icon with the status, then
// the job, the derivation name, the date and the link.
func BuildRow(b model.BuildStatus) []string {
	icon := b.Icon.Render()
	if b.IsPlaceholder() {
		return []string{fmt.Sprintf("%s %s", icon, b.Status)}
	}

	var status string
	switch {
	case !b.Evals:
		status = fmt.Sprintf("%s %s", icon, b.Status)
	case !b.Success:
		status = fmt.Sprintf("%s (%s)", icon, b.Status)
	default:
		status = icon
	}

	row := []string{status}
	if b.JobName != nil {
		row = append(row, *b.JobName)
	}
	if !b.Evals {
		return row
	}
	date, _, _ := strings.Cut(deref(b.Timestamp), "T")
	return append(row, deref(b.Name), date, Dim(deref(b.BuildURL)))
}

// BuildRows formats every build of builds.
func BuildRows(builds []model.BuildStatus) [][]string {
	rows := make([][]string, 0, len(builds))
	for _, b := range builds {
		rows = append(rows, BuildRow(b))
	}
	return rows
}

// EvalRow formats an evaluation as table cells: the icon with the input
// changes, the relative time, the job counts, the delta and the link.
func EvalRow(e model.EvalStatus) []string {
	description := e.Status
	if e.InputChanges != nil {
		description = *e.InputChanges
	}
	row := []string{fmt.Sprintf("%s %s", e.Icon.Render(), description)}
	if e.URL == nil {
		return row
	}

	count := func(icon model.StatusIcon, n *uint64) string {
		return fmt.Sprintf("%s %d", icon.Render(), deref(n))
	}
	queued := count(model.IconQueued, e.Queued)
	if deref(e.Queued) != 0 {
		queued = Bold(queued)
	}

	delta := "Δ " + deref(e.Delta)
	switch {
	case strings.HasPrefix(deref(e.Delta), "+"):
		delta = positiveStyle.Render(delta)
	case strings.HasPrefix(deref(e.Delta), "-"):
		delta = negativeStyle.Render(delta)
	}

	return append(row,
		deref(e.Relative),
		count(model.IconSucceeded, e.Succeeded),
		count(model.IconFailed, e.Failed),
		queued,
		delta,
		Dim(*e.URL),
	)
}

// EvalRows formats every evaluation of evals.
func EvalRows(evals []model.EvalStatus) [][]string {
	rows := make([][]string, 0, len(evals))
	for _, e := range evals {
		rows = append(rows, EvalRow(e))
	}
	return rows
}

// InputRow formats an input as table cells: name, type, value, revision.
func InputRow(in model.EvalInput) []string {
	return []string{
		deref(in.Name),
		deref(in.InputType),
		deref(in.Value),
		deref(in.Revision),
	}
}

// InputBlock formats an input as aligned "key: value" lines, leaving out
// empty cells.
func InputBlock(in model.EvalInput) string {
	fields := []struct {
		key   string
		value *string
	}{
		{"name", in.Name},
		{"type", in.InputType},
		{"value", in.Value},
		{"revision", in.Revision},
		{"store_path", in.StorePath},
	}
	var rows [][]string
	for _, f := range fields {
		if f.value != nil {
			rows = append(rows, []string{f.key + ":", *f.value})
		}
	}
	return Table(rows, false)
}

// ChangeRow formats an input change as table cells.
func ChangeRow(c model.EvalInputChanges) []string {
	row := []string{Bold(c.Input), c.Description}
	if c.URL != nil {
		row = append(row, Dim(*c.URL))
	}
	return row
}
