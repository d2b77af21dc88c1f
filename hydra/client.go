// Package hydra reads build, jobset and evaluation reports from the HTML
// pages of a Hydra instance, e.g. https://hydra.nixos.org.
package hydra

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// DefaultHost is the public Hydra instance of the NixOS project.
const DefaultHost = "https://hydra.nixos.org"

// DefaultTimeout bounds every single request.
const DefaultTimeout = 30 * time.Second

// StatusError is returned for responses outside of the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP status %s for url (%s)", e.Status, e.URL)
}

// Client fetches Hydra pages. Each call to Fetch is a single GET request,
// without retries or caching.
type Client struct {
	logger    zerolog.Logger
	http      *http.Client
	userAgent string
}

// NewClient creates a client whose requests time out after timeout.
func NewClient(logger zerolog.Logger, timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		logger:    logger,
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch retrieves url and parses the body as HTML, whatever the declared
// content type.
func (c *Client) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug().Str("url", url).Msgf("fetching: %s", c.curlCommand(url))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document from %s: %w", url, err)
	}
	return doc, nil
}

// curlCommand returns an equivalent shell command, for debugging.
func (c *Client) curlCommand(url string) string {
	parts := []string{"curl", "-L"}
	if c.userAgent != "" {
		parts = append(parts, "-A", shellescape.Quote(c.userAgent))
	}
	parts = append(parts, shellescape.Quote(url))
	return strings.Join(parts, " ")
}
