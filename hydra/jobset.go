package hydra

import (
	"context"
	"fmt"
	"strings"

	"github.com/bryango/hydra-check/model"
)

// JobsetReport holds the recent evaluations of a jobset, e.g.
// https://hydra.nixos.org/jobset/nixpkgs/trunk/evals.
type JobsetReport struct {
	Jobset string
	url    string
	// Evaluations, most recent first
	Evals []model.EvalStatus
}

func NewJobsetReport(host, jobset string) *JobsetReport {
	return &JobsetReport{
		Jobset: jobset,
		url:    fmt.Sprintf("%s/jobset/%s/evals", strings.TrimSuffix(host, "/"), jobset),
		Evals:  []model.EvalStatus{},
	}
}

func (r *JobsetReport) URL() string {
	return r.url
}

func (r *JobsetReport) FinishWithError(msg string) {
	r.Evals = []model.EvalStatus{model.NewEvalPlaceholder(msg)}
}

// Fetch retrieves and parses the evaluation list.
func (r *JobsetReport) Fetch(ctx context.Context, c *Client) error {
	doc, err := fetchDocument(ctx, c, r)
	if err != nil {
		return err
	}
	tbody, ok := locateTable(doc, r, "")
	if !ok {
		return nil
	}
	evals, err := ParseEvals(fmt.Sprintf("jobset '%s'", r.Jobset), tbody)
	if err != nil {
		return err
	}
	r.Evals = evals
	return nil
}

// Success reports whether the most recent evaluation has finished.
func (r *JobsetReport) Success() bool {
	return len(r.Evals) > 0 && r.Evals[0].Icon == model.IconSucceeded
}

// LatestID returns the id of the most recent evaluation.
func (r *JobsetReport) LatestID() (uint64, error) {
	for _, eval := range r.Evals {
		if eval.ID != nil {
			return *eval.ID, nil
		}
	}
	if len(r.Evals) > 0 && r.Evals[0].Icon == model.IconWarning {
		return 0, fmt.Errorf("no evaluation found for jobset '%s': %s", r.Jobset, r.Evals[0].Status)
	}
	return 0, fmt.Errorf("no evaluation found for jobset '%s'", r.Jobset)
}
