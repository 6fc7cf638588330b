// Package apiclient downloads documentation exports from the Factorio API site
// and its mirrors.
package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/emenda-labs/factdiff/pkg/docversion"
)

const (
	// DefaultBaseURL is the official documentation site.
	DefaultBaseURL    = "https://lua-api.factorio.com"
	httpClientTimeout = 30 * time.Second
	defaultUserAgent  = "factdiff/0.1.0"
	maxBodySize       = 64 * 1024 * 1024
	statusNotFound    = http.StatusNotFound
	statusGone        = http.StatusGone
)

// Stage export file names.
const (
	RuntimeExport   = "runtime-api.json"
	PrototypeExport = "prototype-api.json"
)

// Client downloads JSON exports from a chain of documentation hosts.
type Client struct {
	httpClient *http.Client
	userAgent  string
	bases      []string
	log        logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request traces.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a Client. baseURLs is a comma- or pipe-separated list of
// hosts tried in order; an empty value means DefaultBaseURL.
func NewClient(baseURLs string, opts ...Option) *Client {
	if strings.TrimSpace(baseURLs) == "" {
		baseURLs = DefaultBaseURL
	}

	replacer := strings.NewReplacer("|", ",")
	parts := strings.Split(replacer.Replace(baseURLs), ",")
	bases := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimRight(strings.TrimSpace(p), "/")
		if trimmed != "" {
			bases = append(bases, trimmed)
		}
	}

	c := &Client{
		httpClient: &http.Client{Timeout: httpClientTimeout},
		userAgent:  defaultUserAgent,
		bases:      bases,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURLs returns the host chain in the order it is tried.
func (c *Client) BaseURLs() []string {
	return append([]string(nil), c.bases...)
}

// DownloadExport fetches the named export (see RuntimeExport) for version, which
// is either a release number or "latest". Hosts answering 404 or 410 are skipped
// in favour of the next one in the chain.
func (c *Client) DownloadExport(ctx context.Context, version, export string) ([]byte, error) {
	if version != docversion.Latest && !docversion.IsValid(version) {
		return nil, fmt.Errorf("invalid documentation version %q", version)
	}

	for i, base := range c.bases {
		exportURL, err := url.JoinPath(base, version, export)
		if err != nil {
			return nil, fmt.Errorf("building URL from %s: %w", base, err)
		}

		data, tryNext, fetchErr := c.fetch(ctx, exportURL)
		if fetchErr == nil {
			return data, nil
		}

		if tryNext && i < len(c.bases)-1 {
			c.log.WithError(fetchErr).Debugf("apiclient: trying next host after %s", base)
			continue
		}

		return nil, fetchErr
	}

	return nil, fmt.Errorf("%s for version %s not found on any host", export, version)
}

// fetch performs a single HTTP GET for the given URL.
// It returns (data, tryNext, error).
func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("requesting %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"url":     rawURL,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("apiclient: response")

	if resp.StatusCode == statusNotFound || resp.StatusCode == statusGone {
		return nil, true, fmt.Errorf("host returned %d for %s", resp.StatusCode, rawURL)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, false, fmt.Errorf("reading response body from %s: %w", rawURL, err)
	}
	if len(data) > maxBodySize {
		return nil, false, fmt.Errorf("response from %s exceeds maximum size of %d bytes", rawURL, maxBodySize)
	}

	return data, false, nil
}
