package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bryango/hydra-check/config"
	"github.com/bryango/hydra-check/hydra"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const AppName = config.AppName

// ErrUnsuccessful is returned when a queried item's most recent record is
// not a success. It carries no message of its own.
var ErrUnsuccessful = errors.New("latest status is not a success")

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {
	app := &App{
		logger: newLogger(os.Stderr),
		cli: &cli.App{
			Name:      AppName,
			Usage:     "Check hydra for the build status of a package",
			ArgsUsage: "[PACKAGES...]",
			Description: `Check hydra.nixos.org for build status of packages, evaluations and jobsets.

Channels can be:
  unstable      - alias for nixos/trunk-combined (on NixOS) or nixpkgs/trunk
  master        - alias for nixpkgs/trunk (default for other architectures)
  staging-next  - alias for nixpkgs/staging-next
  stable        - the current stable release, e.g. nixos/release-24.05
  24.05         - alias for nixos/release-24.05

Usually using the above as --channel arguments, should fit most use-cases.
However, you can use a verbatim jobset name such as:
  nixpkgs/nixpkgs-24.05-darwin

Jobset names can be constructed with the project name (e.g. nixos/ or nixpkgs/)
followed by a branch name. The available jobsets can be found at:
  https://hydra.nixos.org/project/nixos
  https://hydra.nixos.org/project/nixpkgs`,
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "url",
					Usage: "Only print the hydra build url, then exit",
				},
				&cli.BoolFlag{
					Name:  "json",
					Usage: "Output json",
				},
				&cli.BoolFlag{
					Name:    "short",
					Aliases: []string{"s"},
					Usage:   "Write only the latest build even if last build failed",
				},
				&cli.StringFlag{
					Name:    "arch",
					Aliases: []string{"a"},
					Usage:   "System architecture to check, e.g. x86_64-linux (default: the running system)",
				},
				&cli.StringFlag{
					Name:    "channel",
					Aliases: []string{"c"},
					Usage:   "Channel to check packages for",
					Value:   "unstable",
				},
				&cli.StringFlag{
					Name:  "jobset",
					Usage: "Specify jobset to check packages for",
				},
				&cli.StringSliceFlag{
					Name:    "eval",
					Aliases: []string{"e"},
					Usage:   "Print information about a specific evaluation, as ID, ID/filter or latest",
				},
				&cli.BoolFlag{
					Name:  "more",
					Usage: "Print more builds, including those not yet finished",
				},
				&cli.BoolFlag{
					Name:    "quiet",
					Aliases: []string{"q"},
					Usage:   "Print only essential outputs",
				},
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
				&cli.DurationFlag{
					Name:  "timeout",
					Usage: "Timeout of each request to hydra",
					Value: hydra.DefaultTimeout,
				},
				&cli.StringFlag{
					Name:    "host",
					Usage:   "Hydra instance to query",
					Value:   hydra.DefaultHost,
					EnvVars: []string{"HYDRA_CHECK_HOST_URL"},
				},
				&cli.StringFlag{
					Name:    "config",
					Usage:   "Path of the config file (default: $XDG_CONFIG_HOME/hydra-check/config.yaml)",
					EnvVars: []string{"HYDRA_CHECK_CONFIG"},
				},
			},
		},
	}
	app.cli.Before = app.before
	app.cli.Action = app.check
	return app
}

// newLogger writes "level: message" lines without timestamps.
func newLogger(w io.Writer) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		PartsOrder: []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatLevel: func(i interface{}) string {
			return fmt.Sprintf("%s:", i)
		},
	}
	return zerolog.New(out).Level(zerolog.InfoLevel)
}

func (a *App) before(ctx *cli.Context) error {
	switch {
	case ctx.Bool("verbose"):
		a.logger = a.logger.Level(zerolog.DebugLevel)
	case ctx.Bool("quiet"):
		a.logger = a.logger.Level(zerolog.WarnLevel)
	}
	return nil
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if len(commit) >= 8 && commit != "none" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}

func (a *App) userAgent() string {
	if a.cli.Version == "" {
		return AppName
	}
	return AppName + "/" + a.cli.Version
}
