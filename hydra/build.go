package hydra

import (
	"context"

	"github.com/bryango/hydra-check/model"
)

// BuildReport holds the inputs of a single build page, e.g.
// https://hydra.nixos.org/job/nixpkgs/trunk/hello.x86_64-linux/latest-finished.
type BuildReport struct {
	url    string
	Inputs []model.EvalInput
}

func NewBuildReport(url string) *BuildReport {
	return &BuildReport{
		url:    url,
		Inputs: []model.EvalInput{},
	}
}

func (r *BuildReport) URL() string {
	return r.url
}

func (r *BuildReport) FinishWithError(msg string) {
	r.Inputs = []model.EvalInput{{Name: ptr(model.IconWarning.Glyph()), Value: ptr(msg)}}
}

// Fetch retrieves the build page and parses its inputs.
func (r *BuildReport) Fetch(ctx context.Context, c *Client) error {
	doc, err := fetchDocument(ctx, c, r)
	if err != nil {
		return err
	}
	inputs, _, ok, err := readInputsSection(c, doc, r, "div#tabs-buildinputs", "build "+r.url)
	if err != nil || !ok {
		return err
	}
	r.Inputs = inputs
	return nil
}
