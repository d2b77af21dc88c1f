package hydra

// This file contains the parsers for the tables of jobset and evaluation
// pages: the evaluation list, the inputs and the input changes.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bryango/hydra-check/model"
	"github.com/bryango/hydra-check/soup"
)

// ParseEvals extracts one EvalStatus per row of a jobset's evaluation list.
func ParseEvals(context string, tbody *goquery.Selection) ([]model.EvalStatus, error) {
	evals := []model.EvalStatus{}
	for _, row := range soup.FindAll(tbody, "tr") {
		cells := soup.FindAll(row, "td")
		if len(cells) != 7 {
			if err := skipOrFail(context, row, len(cells)); err != nil {
				return nil, err
			}
			continue
		}
		eval, err := parseEvalRow(cells)
		if err != nil {
			return nil, newRowError(context, row, err)
		}
		evals = append(evals, eval)
	}
	return evals, nil
}

func parseEvalRow(cells []*goquery.Selection) (model.EvalStatus, error) {
	evalID, timestamp, inputChanges := cells[0], cells[1], cells[2]

	link, err := soup.Find(evalID, "a")
	if err != nil {
		return model.EvalStatus{}, err
	}
	url, err := soup.TryAttr(link, "href")
	if err != nil {
		return model.EvalStatus{}, err
	}
	id, err := strconv.ParseUint(strings.TrimSpace(soup.Text(evalID)), 10, 64)
	if err != nil {
		return model.EvalStatus{}, fmt.Errorf("invalid evaluation id: %w", err)
	}

	timeElem, err := soup.Find(timestamp, "time")
	if err != nil {
		return model.EvalStatus{}, err
	}
	datetime, err := soup.TryAttr(timeElem, "datetime")
	if err != nil {
		return model.EvalStatus{}, err
	}
	unixText, err := soup.TryAttr(timeElem, "data-timestamp")
	if err != nil {
		return model.EvalStatus{}, err
	}
	unix, err := strconv.ParseUint(strings.TrimSpace(unixText), 10, 64)
	if err != nil {
		return model.EvalStatus{}, fmt.Errorf("invalid timestamp: %w", err)
	}

	var status string
	if span, err := soup.Find(inputChanges, "span"); err == nil {
		status = strings.TrimSpace(soup.Text(span))
	}
	tt, err := soup.Find(inputChanges, "tt")
	if err != nil {
		return model.EvalStatus{}, err
	}
	changes := soup.Text(inputChanges)
	if status != "" {
		changes = strings.Replace(changes, status, "", 1)
	}

	var counts [3]uint64
	for i, cell := range cells[3:6] {
		counts[i], err = ParseCount(soup.Text(cell))
		if err != nil {
			return model.EvalStatus{}, err
		}
	}
	succeeded, failed, queued := counts[0], counts[1], counts[2]

	var delta *string
	if text := strings.TrimSpace(soup.Text(cells[6])); text != "" {
		delta = ptr(text)
	}

	finished := queued == 0
	icon := model.IconQueued
	if finished {
		icon = model.IconSucceeded
	}

	return model.EvalStatus{
		Icon:         icon,
		Finished:     ptr(finished),
		ID:           ptr(id),
		URL:          ptr(url),
		Datetime:     ptr(datetime),
		Relative:     ptr(strings.TrimSpace(soup.Text(timeElem))),
		Timestamp:    ptr(unix),
		Status:       status,
		ShortRev:     ptr(strings.TrimSpace(soup.Text(tt))),
		InputChanges: ptr(collapseSpace(changes)),
		Succeeded:    ptr(succeeded),
		Failed:       ptr(failed),
		Queued:       ptr(queued),
		Delta:        delta,
	}, nil
}

// ParseCount parses a job count cell. Hydra leaves the cell empty when the
// count is zero.
func ParseCount(text string) (uint64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid job count %q: %w", text, err)
	}
	return n, nil
}

// ParseInputs extracts the rows of an inputs table. truncated is set when
// the table ended with a link to the full list.
func ParseInputs(context string, tbody *goquery.Selection) (inputs []model.EvalInput, truncated bool, err error) {
	inputs = []model.EvalInput{}
	for _, row := range soup.FindAll(tbody, "tr") {
		cells := soup.FindAll(row, "td")
		if len(cells) != 5 {
			if err := skipOrFail(context, row, len(cells)); err != nil {
				return nil, false, err
			}
			truncated = true
			continue
		}
		var texts [5]*string
		for i, cell := range cells {
			if text := strings.TrimSpace(soup.Text(cell)); text != "" {
				texts[i] = ptr(text)
			}
		}
		inputs = append(inputs, model.EvalInput{
			Name:      texts[0],
			InputType: texts[1],
			Value:     texts[2],
			Revision:  texts[3],
			StorePath: texts[4],
		})
	}
	return inputs, truncated, nil
}

var (
	rev1Pattern     = regexp.MustCompile(`(?:^|[?&;])rev1=([0-9A-Za-z]+)`)
	rev2Pattern     = regexp.MustCompile(`(?:^|[?&;])rev2=([0-9A-Za-z]+)`)
	shortRevPattern = regexp.MustCompile(`\b([0-9a-fA-F]{6,40}) to ([0-9a-fA-F]{6,40})\b`)
)

// ParseInputChanges extracts the rows of the table listing how the inputs
// changed from the previous evaluation.
func ParseInputChanges(context string, tbody *goquery.Selection) ([]model.EvalInputChanges, error) {
	changes := []model.EvalInputChanges{}
	for _, row := range soup.FindAll(tbody, "tr") {
		cells := soup.FindAll(row, "td")
		if len(cells) != 2 {
			if err := skipOrFail(context, row, len(cells)); err != nil {
				return nil, err
			}
			continue
		}
		change := model.EvalInputChanges{
			Input:       collapseSpace(soup.Text(cells[0])),
			Description: collapseSpace(soup.Text(cells[1])),
		}
		if link, err := soup.Find(cells[1], "a"); err == nil {
			if href, err := soup.TryAttr(link, "href"); err == nil {
				change.URL = ptr(href)
				change.Revs = DiffRevs(href)
			}
		}
		change.ShortRevs = ShortRevs(change.Description)
		changes = append(changes, change)
	}
	return changes, nil
}

// DiffRevs reads the rev1 and rev2 query parameters of a diff link, in any
// order. It returns nil unless both are present.
func DiffRevs(url string) *model.RevPair {
	rev1 := rev1Pattern.FindStringSubmatch(url)
	rev2 := rev2Pattern.FindStringSubmatch(url)
	if rev1 == nil || rev2 == nil {
		return nil
	}
	return &model.RevPair{rev1[1], rev2[1]}
}

// ShortRevs reads an "<rev> to <rev>" pair from a change description.
func ShortRevs(description string) *model.RevPair {
	m := shortRevPattern.FindStringSubmatch(description)
	if m == nil {
		return nil
	}
	return &model.RevPair{m[1], m[2]}
}
