package channel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bryango/hydra-check/soup"
)

// StableManualURL is the nixpkgs manual page announcing the supported channels.
const StableManualURL = "https://nixos.org/manual/nixpkgs/stable/"

// Version is one entry of the manual's channel list.
type Version struct {
	Status  string `json:"channel"`
	Version string `json:"version"`
}

// Versions reads the currently supported channels from the nixpkgs manual.
func (r *Resolver) Versions(ctx context.Context) ([]Version, error) {
	r.logger.Info().Msg("fetching the latest version of Nixpkgs from nixos.org")
	doc, err := r.fetcher.Fetch(ctx, r.manualURL)
	if err != nil {
		return nil, err
	}
	body, err := soup.Find(doc.Selection, "body")
	if err != nil {
		return nil, fmt.Errorf("failed to read <body> of the Nixpkgs manual: %w", err)
	}
	spec, err := soup.TryAttr(body, "data-nixpkgs-channels")
	if err != nil {
		return nil, fmt.Errorf("failed to read current channels from the Nixpkgs manual: %w", err)
	}
	var versions []Version
	if err := json.Unmarshal([]byte(spec), &versions); err != nil {
		return nil, fmt.Errorf("failed to decode channels from the Nixpkgs manual: %w", err)
	}
	return versions, nil
}

// StableVersion returns the release number of the current stable channel,
// e.g. "24.05".
func (r *Resolver) StableVersion(ctx context.Context) (string, error) {
	versions, err := r.Versions(ctx)
	if err != nil {
		return "", err
	}
	for _, v := range versions {
		if v.Status == "stable" {
			return v.Version, nil
		}
	}
	return "", fmt.Errorf("could not find 'stable' from supported channels: %+v", versions)
}
