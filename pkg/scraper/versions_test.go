package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexPage = `<!DOCTYPE html>
<html><body>
<h1>Factorio API Docs</h1>
<ul>
  <li><a href="/latest/">Latest version</a></li>
  <li><a href="/2.0.7/">2.0.7</a></li>
  <li><a href="/1.1.110/">1.1.110</a></li>
  <li><a href="1.1.9/index.html">1.1.9</a></li>
  <li><a href="/1.1.110/classes.html">duplicate</a></li>
  <li><a href="https://factorio.com/">Factorio</a></li>
</ul>
</body></html>`

func TestScrapeVersions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(indexPage))
	}))
	defer srv.Close()

	versions, err := ScrapeVersions(context.Background(), srv.URL+"/", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"2.0.7", "1.1.110", "1.1.9"}, versions)
}

func TestScrapeVersions_Errors(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>nothing here</body></html>`))
	}))
	defer empty.Close()

	_, err := ScrapeVersions(context.Background(), empty.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no versions found")

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer broken.Close()

	_, err = ScrapeVersions(context.Background(), broken.URL, nil)
	require.Error(t, err)

	_, err = ScrapeVersions(context.Background(), "not a url", nil)
	require.Error(t, err)
}
