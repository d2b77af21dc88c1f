package cli

// This file reports the recent builds of packages.

import (
	"context"
	"fmt"
	"io"

	"github.com/bryango/hydra-check/hydra"
	"github.com/bryango/hydra-check/model"
	"github.com/bryango/hydra-check/render"
	"github.com/urfave/cli/v2"
	"github.com/wk8/go-ordered-map/v2"
)

func (a *App) checkPackages(ctx *cli.Context, client *hydra.Client, q *query) (bool, error) {
	stdout := ctx.App.Writer
	success := true
	all := orderedmap.New[string, []model.BuildStatus]()

	for idx, pkg := range q.packages {
		report := hydra.NewPackageReport(q.host, q.jobset, pkg, q.more)
		if q.urlOnly {
			fmt.Fprintln(stdout, report.URL())
			continue
		}

		// print the title first, then fetch
		if !q.json {
			if idx > 0 && !q.short {
				fmt.Fprintln(stdout)
			}
			fmt.Fprintf(stdout, "Build Status for %s on jobset %s\n", render.Bold(pkg), render.Bold(q.jobset))
			if !q.short {
				fmt.Fprintln(stdout, render.Dim(report.URL()))
			}
		}

		if err := report.Fetch(ctx.Context, client); err != nil {
			return false, err
		}
		if !report.Success() {
			success = false
		}

		if q.json {
			builds := report.Builds
			if q.short && len(builds) > 1 {
				builds = builds[:1]
			}
			all.Set(pkg, builds)
			continue
		}

		fmt.Fprintln(stdout, render.Table(render.BuildRows(report.Builds), q.short))
		if !report.Success() {
			a.showLatestFinished(ctx.Context, client, q, report, stdout, ctx.App.ErrWriter)
		}
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

// showLatestFinished points to the job's other pages and prints the inputs
// of the latest successful build from a finished evaluation.
func (a *App) showLatestFinished(ctx context.Context, client *hydra.Client, q *query, report *hydra.PackageReport, stdout, stderr io.Writer) {
	base := report.BaseURL()
	if q.short {
		a.logger.Info().Msgf("latest build failed, check out: %s", report.URL())
	} else {
		fmt.Fprintf(stderr, "\n%s\n", render.Bold("Links:"))
		fmt.Fprintf(stderr, "%s (all builds)\n", render.Dim("🔗 "+base+"/all"))
		fmt.Fprintf(stderr, "%s (latest successful build)\n", render.Dim("🔗 "+base+"/latest"))
		fmt.Fprintf(stderr, "%s (latest success from a finished eval)\n", render.Dim("🔗 "+base+"/latest-finished"))
		fmt.Fprintln(stderr)
	}

	a.logger.Info().Msg("showing inputs for the latest success from a finished eval...")
	build := hydra.NewBuildReport(base + "/latest-finished")
	if err := build.Fetch(ctx, client); err != nil {
		a.logger.Warn().Err(err).Str("url", build.URL()).Msg("failed to fetch the latest finished build")
		return
	}
	for _, input := range build.Inputs {
		if q.short {
			if input.Name != nil && input.Revision != nil {
				fmt.Fprintf(stdout, "%s: %s\n", *input.Name, *input.Revision)
			}
			continue
		}
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, render.InputBlock(input))
	}
}
