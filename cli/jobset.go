package cli

// This file reports the recent evaluations of a jobset.

import (
	"fmt"

	"github.com/bryango/hydra-check/hydra"
	"github.com/bryango/hydra-check/render"
	"github.com/urfave/cli/v2"
)

func (a *App) checkJobset(ctx *cli.Context, client *hydra.Client, q *query) (bool, error) {
	stdout := ctx.App.Writer
	report := hydra.NewJobsetReport(q.host, q.jobset)
	if q.urlOnly {
		fmt.Fprintln(stdout, report.URL())
		return true, nil
	}

	if err := report.Fetch(ctx.Context, client); err != nil {
		return false, err
	}

	if q.json {
		evals := report.Evals
		if q.short && len(evals) > 1 {
			evals = evals[:1]
		}
		out, err := render.JSON(evals)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(stdout, out)
		return report.Success(), nil
	}

	fmt.Fprintf(stdout, "Evaluations of jobset %s %s\n", render.Bold(q.jobset), render.Dim("@ "+report.URL()))
	fmt.Fprintln(stdout, render.Table(render.EvalRows(report.Evals), q.short))
	return report.Success(), nil
}
