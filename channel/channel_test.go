package channel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/bryango/hydra-check/hydra"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const manualHTML = `<html><body data-nixpkgs-channels='[{"channel":"unstable","version":"24.11"},{"channel":"stable","version":"24.05"},{"channel":"deprecated","version":"23.11"}]'><p>manual</p></body></html>`

type fakeFetcher struct {
	html  string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (*goquery.Document, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(f.html))
}

func newTestResolver(f Fetcher, nixos bool) *Resolver {
	r := NewResolver(zerolog.Nop(), f)
	r.isNixOS = func() bool { return nixos }
	return r
}

func TestJobset(t *testing.T) {
	for _, tc := range []struct {
		channel string
		nixos   bool
		want    string
	}{
		{channel: "master", want: "nixpkgs/trunk"},
		{channel: "nixpkgs-unstable", want: "nixpkgs/trunk"},
		{channel: "nixos-unstable", want: "nixos/trunk-combined"},
		{channel: "nixos-unstable-small", want: "nixos/unstable-small"},
		{channel: "unstable", want: "nixpkgs/trunk"},
		{channel: "unstable", nixos: true, want: "nixos/trunk-combined"},
		{channel: "staging-next", want: "nixpkgs/staging-next"},
		{channel: "staging-next-24.05", want: "nixpkgs/staging-next-24.05"},
		{channel: "24.05", want: "nixos/release-24.05"},
		{channel: "nixos-23.05", want: "nixos/release-23.05"},
		{channel: "nixos-23.11-small", want: "nixos/release-23.11-small"},
		{channel: "nixpkgs-24.05-darwin", want: "nixpkgs/nixpkgs-24.05-darwin"},
		{channel: "nixpkgs/staging", want: "nixpkgs/staging"},
	} {
		t.Run(tc.channel, func(t *testing.T) {
			f := &fakeFetcher{}
			r := newTestResolver(f, tc.nixos)
			jobset, err := r.Jobset(context.Background(), tc.channel, "x86_64-linux")
			require.NoError(t, err)
			require.Equal(t, tc.want, jobset)
			require.Zero(t, f.calls)
		})
	}
}

func TestJobsetStable(t *testing.T) {
	f := &fakeFetcher{html: manualHTML}
	r := newTestResolver(f, false)

	jobset, err := r.Jobset(context.Background(), "stable", "x86_64-linux")
	require.NoError(t, err)
	require.Equal(t, "nixos/release-24.05", jobset)

	jobset, err = r.Jobset(context.Background(), "stable", "aarch64-darwin")
	require.NoError(t, err)
	require.Equal(t, "nixpkgs/nixpkgs-24.05-darwin", jobset)
}

func TestJobsetStableErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		f    *fakeFetcher
		msg  string
	}{
		{name: "fetch", f: &fakeFetcher{err: errors.New("offline")}, msg: "offline"},
		{name: "no attribute", f: &fakeFetcher{html: `<html><body></body></html>`}, msg: "failed to read current channels"},
		{name: "bad json", f: &fakeFetcher{html: `<html><body data-nixpkgs-channels="{"></body></html>`}, msg: "failed to decode"},
		{name: "no stable", f: &fakeFetcher{html: `<html><body data-nixpkgs-channels='[{"channel":"unstable","version":"24.11"}]'></body></html>`}, msg: "could not find 'stable'"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestResolver(tc.f, false).Jobset(context.Background(), "stable", "x86_64-linux")
			require.ErrorContains(t, err, "please specify '--channel' or '--jobset' explicitly")
			require.ErrorContains(t, err, tc.msg)
		})
	}
}

func TestStableVersionOverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(manualHTML))
	}))
	t.Cleanup(server.Close)

	r := NewResolver(zerolog.Nop(), hydra.NewClient(zerolog.Nop(), hydra.DefaultTimeout, "hydra-check/test"))
	r.manualURL = server.URL + "/manual/nixpkgs/stable/"

	version, err := r.StableVersion(context.Background())
	require.NoError(t, err)
	require.Equal(t, "24.05", version)
}

func TestHostArch(t *testing.T) {
	for _, tc := range []struct {
		goos, goarch, want string
	}{
		{"linux", "amd64", "x86_64-linux"},
		{"linux", "arm64", "aarch64-linux"},
		{"darwin", "arm64", "aarch64-darwin"},
		{"linux", "riscv64", "riscv64-linux"},
	} {
		r := newTestResolver(&fakeFetcher{}, false)
		r.goos, r.goarch = tc.goos, tc.goarch
		require.Equal(t, tc.want, r.HostArch())
		require.Equal(t, tc.want, r.Arch("", false))
	}

	r := newTestResolver(&fakeFetcher{}, false)
	require.Equal(t, "", r.Arch("", true))
	require.Equal(t, "i686-linux", r.Arch("i686-linux", true))
}

func TestPackageName(t *testing.T) {
	r := newTestResolver(&fakeFetcher{}, false)
	for _, tc := range []struct {
		pkg, jobset, arch, want string
	}{
		{"hello", "nixpkgs/trunk", "x86_64-linux", "hello.x86_64-linux"},
		{"hello", "nixos/trunk-combined", "x86_64-linux", "nixpkgs.hello.x86_64-linux"},
		{"nixos.tests.foo", "nixos/trunk-combined", "x86_64-linux", "nixos.tests.foo.x86_64-linux"},
		{"nixpkgs.hello", "nixos/trunk-combined", "aarch64-linux", "nixpkgs.hello.aarch64-linux"},
		{"hello.aarch64-darwin", "nixpkgs/trunk", "x86_64-linux", "hello.aarch64-darwin"},
		{"hello", "nixpkgs/trunk", "", "hello"},
	} {
		require.Equal(t, tc.want, r.PackageName(tc.pkg, tc.jobset, tc.arch))
	}
}

func TestPackagesDropsPythonAliases(t *testing.T) {
	r := newTestResolver(&fakeFetcher{}, false)
	got := r.Packages([]string{"hello", "python3Packages.requests", "python3.pkgs.numpy", "python311Packages.requests"}, "nixpkgs/trunk", "x86_64-linux")
	require.Equal(t, []string{"hello.x86_64-linux", "python311Packages.requests.x86_64-linux"}, got)
}

func TestPackageNameProperties(t *testing.T) {
	r := newTestResolver(&fakeFetcher{}, false)
	properties := gopter.NewProperties(nil)

	properties.Property("resolved names carry exactly one known arch suffix", prop.ForAll(
		func(pkg string, arch string) bool {
			name := r.PackageName(pkg, "nixpkgs/trunk", arch)
			return name == pkg+"."+arch && r.PackageName(name, "nixpkgs/trunk", arch) == name
		},
		gen.Identifier(),
		gen.OneConstOf("x86_64-linux", "aarch64-linux", "x86_64-darwin", "aarch64-darwin"),
	))

	properties.Property("nixos jobsets qualify bare names", prop.ForAll(
		func(pkg string) bool {
			return strings.HasPrefix(r.PackageName(pkg, "nixos/release-24.05", "x86_64-linux"), "nixpkgs.")
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
