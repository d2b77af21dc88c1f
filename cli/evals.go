package cli

// This file reports the details of evaluations.

import (
	"fmt"
	"io"

	"github.com/bryango/hydra-check/hydra"
	"github.com/bryango/hydra-check/model"
	"github.com/bryango/hydra-check/render"
	"github.com/urfave/cli/v2"
	"github.com/wk8/go-ordered-map/v2"
)

// expandEvalSpecs applies every package as a filter to each evaluation
// given without one.
func expandEvalSpecs(specs []hydra.EvalSpec, packages []string) (expanded []hydra.EvalSpec, unused bool) {
	unused = len(packages) > 0
	for _, spec := range specs {
		if spec.Filter != "" || len(packages) == 0 {
			expanded = append(expanded, spec)
			continue
		}
		unused = false
		for _, pkg := range packages {
			filtered := spec
			filtered.Filter = pkg
			expanded = append(expanded, filtered)
		}
	}
	return expanded, unused
}

// latestEval caches the id of the most recent evaluation of the jobset.
type latestEval struct {
	id  uint64
	err error
	ok  bool
}

// resolveLatest fetches the evaluation list of the jobset at most once.
func (a *App) resolveLatest(ctx *cli.Context, client *hydra.Client, q *query, cache *latestEval) (uint64, error) {
	if !cache.ok {
		a.logger.Info().Msgf("querying the latest evaluation of --jobset '%s'", q.jobset)
		report := hydra.NewJobsetReport(q.host, q.jobset)
		if err := report.Fetch(ctx.Context, client); err != nil {
			cache.err = err
		} else {
			cache.id, cache.err = report.LatestID()
		}
		cache.ok = true
	}
	return cache.id, cache.err
}

func (a *App) checkEvals(ctx *cli.Context, client *hydra.Client, q *query) (bool, error) {
	stdout := ctx.App.Writer
	specs, unused := expandEvalSpecs(q.evals, q.packages)
	if unused {
		a.logger.Warn().Strs("packages", q.packages).Msg("every --eval carries its own filter, ignoring packages")
	}

	success := true
	all := orderedmap.New[string, model.EvalDetails]()
	var latest latestEval

	for idx, spec := range specs {
		if spec.Latest {
			id, err := a.resolveLatest(ctx, client, q, &latest)
			if err != nil {
				return false, err
			}
			spec = hydra.EvalSpec{ID: id, Filter: spec.Filter}
		}

		report := hydra.NewEvalReport(q.host, spec.ID, spec.Filter)
		if q.urlOnly {
			fmt.Fprintln(stdout, report.URL())
			continue
		}

		if !q.json {
			if idx > 0 {
				fmt.Fprintln(stdout)
			}
			title := fmt.Sprintf("Evaluation %s", render.Bold(fmt.Sprint(spec.ID)))
			if spec.Filter != "" {
				title += fmt.Sprintf(" filtered by '%s'", render.Bold(spec.Filter))
			}
			fmt.Fprintf(stdout, "%s %s\n", title, render.Dim("@ "+report.URL()))
		}

		if err := report.Fetch(ctx.Context, client); err != nil {
			return false, err
		}
		if !report.Success() {
			success = false
		}

		details := report.Details
		if !q.json {
			printEvalDetails(stdout, &details, q.short)
			continue
		}
		if q.short {
			for _, bucket := range details.Buckets() {
				if len(*bucket.Builds) > 1 {
					*bucket.Builds = (*bucket.Builds)[:1]
				}
			}
		}
		all.Set(spec.String(), details)
	}

	if q.json && !q.urlOnly {
		out, err := render.JSON(all)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(stdout, out)
	}
	return success, nil
}

func printEvalDetails(w io.Writer, d *model.EvalDetails, short bool) {
	if d.Error != nil {
		fmt.Fprintf(w, "%s %s\n", model.IconWarning.Render(), *d.Error)
		return
	}

	if !short {
		rows := make([][]string, 0, len(d.Inputs))
		for _, input := range d.Inputs {
			rows = append(rows, render.InputRow(input))
		}
		fmt.Fprintf(w, "\n%s\n%s\n", render.Bold("Inputs:"), render.Table(rows, false))
	}

	if len(d.Changes) > 0 {
		rows := make([][]string, 0, len(d.Changes))
		for _, change := range d.Changes {
			rows = append(rows, render.ChangeRow(change))
		}
		fmt.Fprintf(w, "\n%s\n%s\n", render.Bold("Changes:"), render.Table(rows, false))
	}

	for _, bucket := range d.Buckets() {
		builds := *bucket.Builds
		if len(builds) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n%s\n",
			render.Bold(fmt.Sprintf("%s (%d):", bucket.Title, len(builds))),
			render.Table(render.BuildRows(builds), short),
		)
	}
}
