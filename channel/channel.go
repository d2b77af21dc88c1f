// Package channel turns the user-facing channel, arch and package names into
// the jobset and job names Hydra understands.
package channel

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// KnownArchitectures are the systems nixpkgs builds on Hydra.
var KnownArchitectures = []string{
	"x86_64-linux",
	"aarch64-linux",
	"x86_64-darwin",
	"aarch64-darwin",
}

const (
	trunk    = "nixpkgs/trunk"
	combined = "nixos/trunk-combined"
)

var (
	releaseVersion = regexp.MustCompile(`^[0-9]+\.[0-9]+$`)
	nixosRelease   = regexp.MustCompile(`^nixos-[0-9]+\.[0-9]+`)
	nixpkgsRelease = regexp.MustCompile(`^nixpkgs-[0-9]+\.[0-9]+`)
)

// Fetcher retrieves and parses an HTML page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

type Resolver struct {
	logger  zerolog.Logger
	fetcher Fetcher

	manualURL string
	isNixOS   func() bool
	goos      string
	goarch    string
}

func NewResolver(logger zerolog.Logger, fetcher Fetcher) *Resolver {
	return &Resolver{
		logger:    logger,
		fetcher:   fetcher,
		manualURL: StableManualURL,
		isNixOS:   onNixOS,
		goos:      runtime.GOOS,
		goarch:    runtime.GOARCH,
	}
}

func onNixOS() bool {
	_, err := os.Stat("/etc/NIXOS")
	return err == nil
}

func isKnownArch(arch string) bool {
	for _, known := range KnownArchitectures {
		if arch == known {
			return true
		}
	}
	return false
}

// HostArch returns the Nix system name of the running machine.
func (r *Resolver) HostArch() string {
	cpu := r.goarch
	switch cpu {
	case "amd64":
		cpu = "x86_64"
	case "arm64":
		cpu = "aarch64"
	case "386":
		cpu = "i686"
	}
	return cpu + "-" + r.goos
}

// Arch returns the architecture to query. An explicitly given arch is kept
// as is, even when empty, so that packages can carry their own suffix.
func (r *Resolver) Arch(arch string, explicit bool) string {
	if !explicit {
		arch = r.HostArch()
		r.logger.Info().Msgf("assuming --arch '%s'", arch)
	}
	if arch != "" && !isKnownArch(arch) {
		r.logger.Warn().
			Strs("known", KnownArchitectures).
			Msgf("unknown --arch '%s', consider specifying one of the known architectures", arch)
	}
	return arch
}

// Jobset maps a channel alias to a jobset name. Unknown channels are taken
// to be jobset names already.
func (r *Resolver) Jobset(ctx context.Context, channel, arch string) (string, error) {
	var jobset string
	switch {
	case channel == "master" || channel == "nixpkgs-unstable":
		jobset = trunk
	case channel == "nixos-unstable":
		jobset = combined
	case channel == "nixos-unstable-small":
		jobset = "nixos/unstable-small"
	case channel == "unstable":
		jobset = trunk
		if r.isNixOS() {
			jobset = combined
		}
	case channel == "stable":
		version, err := r.StableVersion(ctx)
		if err != nil {
			return "", fmt.Errorf("could not fetch the stable release version number, please specify '--channel' or '--jobset' explicitly: %w", err)
		}
		if strings.HasSuffix(arch, "darwin") {
			jobset = fmt.Sprintf("nixpkgs/nixpkgs-%s-darwin", version)
		} else {
			jobset = "nixos/release-" + version
		}
	case strings.HasPrefix(channel, "staging-next"):
		jobset = "nixpkgs/" + channel
	case releaseVersion.MatchString(channel):
		jobset = "nixos/release-" + channel
	case nixosRelease.MatchString(channel):
		jobset = strings.Replace(channel, "nixos", "nixos/release", 1)
	case nixpkgsRelease.MatchString(channel):
		jobset = strings.Replace(channel, "nixpkgs", "nixpkgs/nixpkgs", 1)
	default:
		jobset = channel
	}
	r.logger.Info().Msgf("--channel '%s' implies --jobset '%s'", channel, jobset)
	return jobset, nil
}

// PackageName returns the job name of pkg on jobset. Packages without a
// known arch suffix get arch appended. Jobs on nixos/ jobsets live under the
// nixpkgs. attribute unless the name is already qualified.
func (r *Resolver) PackageName(pkg, jobset, arch string) string {
	suffix := ""
	hasKnownSuffix := false
	for _, known := range KnownArchitectures {
		if strings.HasSuffix(pkg, "."+known) {
			hasKnownSuffix = true
			break
		}
	}
	switch {
	case hasKnownSuffix:
	case arch == "":
		r.logger.Warn().Msgf(
			"unknown architecture for package %s, consider specifying an arch suffix explicitly, such as 'gimp.x86_64-linux', or provide a non-empty '--arch'",
			pkg,
		)
	default:
		suffix = "." + arch
	}

	if strings.HasPrefix(pkg, "nixpkgs.") || strings.HasPrefix(pkg, "nixos.") {
		return pkg + suffix
	}
	if strings.HasPrefix(jobset, "nixos/") {
		return "nixpkgs." + pkg + suffix
	}
	return pkg + suffix
}

// Packages resolves every package name, dropping the python3Packages
// aliases Hydra does not build.
func (r *Resolver) Packages(packages []string, jobset, arch string) []string {
	out := make([]string, 0, len(packages))
	for _, pkg := range packages {
		if strings.HasPrefix(pkg, "python3Packages") || strings.HasPrefix(pkg, "python3.pkgs") {
			r.logger.Error().Msgf("instead of '%s', you want python3xPackages... (e.g. python311Packages)", pkg)
			continue
		}
		out = append(out, r.PackageName(pkg, jobset, arch))
	}
	return out
}
