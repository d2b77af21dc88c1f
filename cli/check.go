package cli

import (
	"github.com/bryango/hydra-check/hydra"
	"github.com/urfave/cli/v2"
)

// check is the default action: it resolves the query, then reports on
// evaluations, packages or the jobset, in that order of precedence.
func (a *App) check(ctx *cli.Context) error {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}
	client := hydra.NewClient(a.logger, timeout(ctx, cfg), a.userAgent())

	q, err := a.resolveQuery(ctx, cfg, client)
	if err != nil {
		return err
	}

	var success bool
	switch {
	case len(q.evals) > 0:
		success, err = a.checkEvals(ctx, client, q)
	case len(q.packages) > 0:
		success, err = a.checkPackages(ctx, client, q)
	case ctx.NArg() > 0:
		// every package was rejected during name resolution
		return ErrUnsuccessful
	default:
		success, err = a.checkJobset(ctx, client, q)
	}
	if err != nil {
		return err
	}
	if !success {
		return ErrUnsuccessful
	}
	return nil
}
