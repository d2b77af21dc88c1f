package hydra

// This file contains the row classification for builds tables: which rows
// are builds, which are queued placeholders, and which are Hydra's own
// "show more" links.

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bryango/hydra-check/model"
	"github.com/bryango/hydra-check/soup"
)

// QueuedStatus is the status text of a build that has not run yet.
const QueuedStatus = "Queued: no build has been attempted for this package yet (still queued)"

// RowError is returned for a row that does not have any of the expected
// shapes. It carries the raw markup of the row so that a change of the
// page layout can be diagnosed.
type RowError struct {
	// Context names what was being parsed, e.g. "package hello.x86_64-linux"
	Context string
	Row     string
	Err     error
}

func (e *RowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error while parsing Hydra status for %s: %v: %s", e.Context, e.Err, e.Row)
	}
	return fmt.Sprintf("error while parsing Hydra status for %s: %s", e.Context, e.Row)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func newRowError(context string, row *goquery.Selection, err error) *RowError {
	return &RowError{
		Context: context,
		Row:     soup.Describe(row),
		Err:     err,
	}
}

// IsSkippableRow reports whether row is one of Hydra's "all results" or
// "full list" links rather than data.
func IsSkippableRow(row *goquery.Selection) (bool, error) {
	cell, err := soup.Find(row, "td")
	if err != nil {
		return false, err
	}
	link, err := soup.Find(cell, "a")
	if err != nil {
		return false, err
	}
	href, err := soup.TryAttr(link, "href")
	if err != nil {
		return false, err
	}
	return strings.HasSuffix(href, "/all") || strings.Contains(href, "full=1"), nil
}

// skipOrFail is called for rows of unexpected shape. It returns nil when the
// row can be skipped, and a *RowError otherwise.
func skipOrFail(context string, row *goquery.Selection, cells int) error {
	skippable, err := IsSkippableRow(row)
	if err == nil && skippable {
		return nil
	}
	if err == nil {
		err = fmt.Errorf("unexpected number of columns: %d", cells)
	}
	return newRowError(context, row, err)
}

// BuildTable describes the columns of a builds table.
type BuildTable struct {
	// Context names the table in error messages
	Context string
	// WithJobName is set for tables with a job column between the timestamp
	// and the name, as found on evaluation pages.
	WithJobName bool
}

func (t BuildTable) columns() int {
	if t.WithJobName {
		return 6
	}
	return 5
}

// Parse extracts one BuildStatus per build row of tbody, in table order.
func (t BuildTable) Parse(tbody *goquery.Selection) ([]model.BuildStatus, error) {
	builds := []model.BuildStatus{}
	for _, row := range soup.FindAll(tbody, "tr") {
		cells := soup.FindAll(row, "td")
		if len(cells) != t.columns() {
			if err := skipOrFail(t.Context, row, len(cells)); err != nil {
				return nil, err
			}
			continue
		}

		var job *goquery.Selection
		if t.WithJobName {
			job = cells[3]
			cells = append(cells[:3], cells[4:]...)
		}

		build, err := parseBuildRow(cells[0], cells[1], cells[2], cells[3], cells[4])
		if err != nil {
			return nil, newRowError(t.Context, row, err)
		}
		if job != nil {
			build.JobName = ptr(collapseSpace(soup.Text(job)))
		}
		builds = append(builds, build)
	}
	return builds, nil
}

func parseBuildRow(status, build, timestamp, name, arch *goquery.Selection) (model.BuildStatus, error) {
	// queued builds show a label instead of a status image
	if span, err := soup.Find(status, "span"); err == nil {
		text := strings.TrimSpace(soup.Text(span))
		msg := QueuedStatus
		if text != "Queued" {
			msg = fmt.Sprintf("Unknown Hydra status: %s", text)
		}
		return model.BuildStatus{
			Icon:   model.IconQueued,
			Status: msg,
		}, nil
	}

	img, err := soup.Find(status, "img")
	if err != nil {
		return model.BuildStatus{}, err
	}
	statusText, err := soup.TryAttr(img, "title")
	if err != nil {
		return model.BuildStatus{}, err
	}

	link, err := soup.Find(build, "a")
	if err != nil {
		return model.BuildStatus{}, err
	}
	buildURL, err := soup.TryAttr(link, "href")
	if err != nil {
		return model.BuildStatus{}, err
	}

	timeElem, err := soup.Find(timestamp, "time")
	if err != nil {
		return model.BuildStatus{}, err
	}
	datetime, err := soup.TryAttr(timeElem, "datetime")
	if err != nil {
		return model.BuildStatus{}, err
	}

	tt, err := soup.Find(arch, "tt")
	if err != nil {
		return model.BuildStatus{}, err
	}

	success := statusText == "Succeeded"
	return model.BuildStatus{
		Icon:      buildIcon(statusText),
		Success:   success,
		Status:    statusText,
		Timestamp: ptr(datetime),
		BuildID:   ptr(strings.TrimSpace(soup.Text(link))),
		BuildURL:  ptr(buildURL),
		Name:      ptr(strings.TrimSpace(soup.Text(name))),
		Arch:      ptr(strings.TrimSpace(soup.Text(tt))),
		Evals:     true,
	}, nil
}

// buildIcon maps the status of a finished build to an icon. Everything
// that is neither a success nor a cancellation, e.g. "Aborted" or
// "Dependency failed", counts as a failure.
func buildIcon(status string) model.StatusIcon {
	switch status {
	case "Succeeded":
		return model.IconSucceeded
	case "Cancelled":
		return model.IconCancelled
	default:
		return model.IconFailed
	}
}

func ptr[T any](v T) *T {
	return &v
}
