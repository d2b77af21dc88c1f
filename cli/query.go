package cli

// This file resolves command line flags and the config file into a query.

import (
	"fmt"
	"time"

	"github.com/bryango/hydra-check/channel"
	"github.com/bryango/hydra-check/config"
	"github.com/bryango/hydra-check/hydra"
	"github.com/urfave/cli/v2"
)

// query is the fully resolved request of a single invocation.
type query struct {
	host   string
	jobset string
	arch   string

	packages []string
	evals    []hydra.EvalSpec

	urlOnly bool
	json    bool
	short   bool
	more    bool
}

func (a *App) loadConfig(ctx *cli.Context) (config.File, error) {
	path := ctx.String("config")
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			a.logger.Debug().Err(err).Msg("no config directory")
			return config.File{}, nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	a.logger.Debug().Str("path", path).Msg("loaded config")
	return cfg, nil
}

func timeout(ctx *cli.Context, cfg config.File) time.Duration {
	if !ctx.IsSet("timeout") && cfg.Timeout != "" {
		return cfg.TimeoutDuration()
	}
	return ctx.Duration("timeout")
}

// setting returns the flag's value when given on the command line, then the
// config file's value, then the flag's default.
func setting(ctx *cli.Context, name, fromConfig string) string {
	if ctx.IsSet(name) || fromConfig == "" {
		return ctx.String(name)
	}
	return fromConfig
}

func (a *App) resolveQuery(ctx *cli.Context, cfg config.File, client *hydra.Client) (*query, error) {
	if ctx.IsSet("jobset") && ctx.IsSet("channel") {
		return nil, fmt.Errorf("--jobset cannot be used together with --channel")
	}

	q := &query{
		host:    setting(ctx, "host", cfg.Host),
		urlOnly: ctx.Bool("url"),
		json:    ctx.Bool("json"),
		short:   ctx.Bool("short"),
		more:    ctx.Bool("more"),
	}
	for _, raw := range ctx.StringSlice("eval") {
		spec, err := hydra.ParseEvalSpec(raw)
		if err != nil {
			return nil, err
		}
		q.evals = append(q.evals, spec)
	}

	resolver := channel.NewResolver(a.logger, client)
	q.arch = resolver.Arch(setting(ctx, "arch", cfg.Arch), ctx.IsSet("arch") || cfg.Arch != "")

	q.jobset = ctx.String("jobset")
	if q.jobset == "" {
		jobset, err := resolver.Jobset(ctx.Context, setting(ctx, "channel", cfg.Channel), q.arch)
		if err != nil {
			return nil, err
		}
		q.jobset = jobset
	}

	if len(q.evals) > 0 {
		// packages act as evaluation filters and are used verbatim
		q.packages = ctx.Args().Slice()
	} else {
		q.packages = resolver.Packages(ctx.Args().Slice(), q.jobset, q.arch)
	}
	return q, nil
}
