package hydra

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bryango/hydra-check/model"
)

// EvalSpec identifies an evaluation, optionally filtered to matching jobs.
type EvalSpec struct {
	// ID is zero when Latest is set
	ID     uint64
	Latest bool
	Filter string
}

// ParseEvalSpec parses "ID", "ID/filter", "latest" or "latest/filter".
func ParseEvalSpec(spec string) (EvalSpec, error) {
	idPart, filter, _ := strings.Cut(strings.TrimSpace(spec), "/")
	if idPart == "" || idPart == "latest" {
		return EvalSpec{Latest: true, Filter: filter}, nil
	}
	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil {
		return EvalSpec{}, fmt.Errorf("evaluation should be identified by a number, not '%s'", idPart)
	}
	return EvalSpec{ID: id, Filter: filter}, nil
}

func (s EvalSpec) String() string {
	id := "latest"
	if !s.Latest {
		id = strconv.FormatUint(s.ID, 10)
	}
	if s.Filter != "" {
		return id + "/" + s.Filter
	}
	return id
}

// EvalReport holds the details of a single evaluation, e.g.
// https://hydra.nixos.org/eval/1809297?filter=hello.
type EvalReport struct {
	Details model.EvalDetails
}

// NewEvalReport prepares the report of evaluation id. A non-empty filter
// restricts the listed jobs to those matching it.
func NewEvalReport(host string, id uint64, filter string) *EvalReport {
	u := fmt.Sprintf("%s/eval/%d", strings.TrimSuffix(host, "/"), id)
	d := model.EvalDetails{
		ID:  id,
		URL: u,
	}
	if filter != "" {
		d.URL = u + "?filter=" + url.QueryEscape(filter)
		d.Filter = &filter
	}
	r := &EvalReport{Details: d}
	r.reset()
	return r
}

func (r *EvalReport) reset() {
	d := &r.Details
	d.Inputs = []model.EvalInput{}
	d.Changes = []model.EvalInputChanges{}
	for _, bucket := range d.Buckets() {
		*bucket.Builds = []model.BuildStatus{}
	}
}

func (r *EvalReport) URL() string {
	return r.Details.URL
}

func (r *EvalReport) FinishWithError(msg string) {
	r.reset()
	r.Details.Error = &msg
}

// Fetch retrieves the evaluation page and parses its inputs, the changes
// from the previous evaluation and every group of builds. Missing or
// unreadable build groups are logged and left empty.
func (r *EvalReport) Fetch(ctx context.Context, c *Client) error {
	doc, err := fetchDocument(ctx, c, r)
	if err != nil {
		return err
	}
	what := fmt.Sprintf("eval %d", r.Details.ID)

	inputs, changes, ok, err := readInputsSection(c, doc, r, "div#tabs-inputs", what)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	r.Details.Inputs = inputs
	r.Details.Changes = changes

	for _, bucket := range r.Details.Buckets() {
		section := "div#tabs-" + bucket.Name
		tbody, err := LocateTable(doc, r.URL(), section)
		if err != nil {
			// Hydra leaves out the tab of an empty group
			c.logger.Debug().Err(err).Str("section", section).Str("url", r.URL()).Msg("no builds listed in section")
			continue
		}
		table := BuildTable{
			Context:     fmt.Sprintf("%s (%s)", what, bucket.Name),
			WithJobName: true,
		}
		builds, err := table.Parse(tbody)
		if err != nil {
			c.logger.Warn().Err(err).Str("section", section).Msg("failed to read builds of evaluation")
			continue
		}
		*bucket.Builds = builds
	}
	return nil
}

// Success reports whether the page could be read and no job started
// failing in this evaluation.
func (r *EvalReport) Success() bool {
	return r.Details.Error == nil && len(r.Details.NowFail) == 0
}

// readInputsSection reads the inputs table of section. When the section has
// more than one table, the first one lists the changes from the previous
// evaluation; reading it is best effort.
func readInputsSection(c *Client, doc *goquery.Document, r Report, section, what string) (
	inputs []model.EvalInput, changes []model.EvalInputChanges, ok bool, err error,
) {
	if _, ok := locateTable(doc, r, section); !ok {
		return nil, nil, false, nil
	}
	tables := LocateTables(doc, section)

	inputs, truncated, err := ParseInputs(what, tables[len(tables)-1])
	if err != nil {
		return nil, nil, false, err
	}
	if truncated {
		c.logger.Info().Msgf("it appears that the result is truncated; for more information, please visit: %s", r.URL())
	}

	changes = []model.EvalInputChanges{}
	if len(tables) > 1 {
		parsed, err := ParseInputChanges(what+" (changes)", tables[0])
		if err != nil {
			c.logger.Warn().Err(err).Str("url", r.URL()).Msg("failed to read input changes")
		} else {
			changes = parsed
		}
	}
	return inputs, changes, true, nil
}
