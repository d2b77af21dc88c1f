package hydra

import (
	"context"
	"fmt"
	"strings"

	"github.com/bryango/hydra-check/model"
)

// PackageReport holds the recent builds of a single job, e.g.
// https://hydra.nixos.org/job/nixpkgs/trunk/hello.x86_64-linux.
type PackageReport struct {
	Package string
	Jobset  string
	url     string
	// Builds, most recent first
	Builds []model.BuildStatus
}

// NewPackageReport prepares the report of pkg on jobset. With more set, the
// full build history is requested, which is a lot slower.
func NewPackageReport(host, jobset, pkg string, more bool) *PackageReport {
	url := fmt.Sprintf("%s/job/%s/%s", strings.TrimSuffix(host, "/"), jobset, pkg)
	if more {
		url += "/all"
	}
	return &PackageReport{
		Package: pkg,
		Jobset:  jobset,
		url:     url,
		Builds:  []model.BuildStatus{},
	}
}

func (r *PackageReport) URL() string {
	return r.url
}

// BaseURL is the URL of the job page without the /all suffix.
func (r *PackageReport) BaseURL() string {
	return strings.TrimSuffix(r.url, "/all")
}

func (r *PackageReport) FinishWithError(msg string) {
	r.Builds = []model.BuildStatus{model.NewBuildPlaceholder(msg)}
}

// Fetch retrieves and parses the job page.
func (r *PackageReport) Fetch(ctx context.Context, c *Client) error {
	doc, err := fetchDocument(ctx, c, r)
	if err != nil {
		return err
	}
	tbody, ok := locateTable(doc, r, "")
	if !ok {
		return nil
	}
	table := BuildTable{Context: "package " + r.Package}
	builds, err := table.Parse(tbody)
	if err != nil {
		return err
	}
	r.Builds = builds
	return nil
}

// Success reports whether the most recent build succeeded.
func (r *PackageReport) Success() bool {
	return len(r.Builds) > 0 && r.Builds[0].Success
}
