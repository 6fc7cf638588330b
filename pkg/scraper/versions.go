// Package scraper reads the documentation site's index page to discover which
// API versions are published.
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sync"

	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"

	"github.com/emenda-labs/factdiff/pkg/docversion"
)

const userAgent = "factdiff-scraper/0.1.0"

// versionLinkRe matches index links such as "/1.1.110/" or "1.1.110/index.html".
var versionLinkRe = regexp.MustCompile(`(?:^|/)(\d+\.\d+\.\d+)(?:/|$)`)

// ScrapeVersions visits the index page at baseURL and returns every version it
// links to, newest first.
func ScrapeVersions(ctx context.Context, baseURL string, log logrus.FieldLogger) ([]string, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing index URL %s: %w", baseURL, err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("index URL %s has no host", baseURL)
	}

	c := colly.NewCollector(
		colly.AllowedDomains(u.Hostname()),
		colly.StdlibContext(ctx),
	)
	c.UserAgent = userAgent

	var (
		mu       sync.Mutex
		found    []string
		visitErr error
	)

	c.OnError(func(r *colly.Response, err error) {
		log.WithError(err).WithField("status", r.StatusCode).Debugf("scraper: request %s failed", r.Request.URL)
		mu.Lock()
		visitErr = fmt.Errorf("fetching %s: status %d: %w", r.Request.URL, r.StatusCode, err)
		mu.Unlock()
	})

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		m := versionLinkRe.FindStringSubmatch(e.Attr("href"))
		if m == nil {
			return
		}
		mu.Lock()
		found = append(found, m[1])
		mu.Unlock()
	})

	if err := c.Visit(u.String()); err != nil {
		if visitErr != nil {
			return nil, visitErr
		}
		return nil, fmt.Errorf("failed to visit index page %s: %w", u, err)
	}
	c.Wait()

	if visitErr != nil {
		return nil, visitErr
	}

	versions := docversion.SortNewestFirst(found)
	if len(versions) == 0 {
		return nil, fmt.Errorf("no versions found on %s", u)
	}

	log.WithField("count", len(versions)).Debug("scraper: versions found")
	return versions, nil
}
