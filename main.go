package main

import (
	"errors"
	"log"
	"os"

	"github.com/bryango/hydra-check/cli"
)

// Version information, set by goreleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	c := cli.New()
	c.SetVersion(version, commit, date)
	err := c.Run(os.Args)
	if errors.Is(err, cli.ErrUnsuccessful) {
		os.Exit(1)
	}
	if err != nil {
		log.SetFlags(0)
		log.Fatalf("error: %v", err)
	}
}
