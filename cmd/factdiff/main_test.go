package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fcolor "github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emenda-labs/factdiff/core/cli"
)

var (
	oldFixture = filepath.Join("..", "..", "drivers", "factorio", "testdata", "old", "runtime-api.json")
	newFixture = filepath.Join("..", "..", "drivers", "factorio", "testdata", "new", "runtime-api.json")

	oldPrototypeFixture = filepath.Join("..", "..", "drivers", "factorio", "testdata", "old", "prototype-api.json")
	newPrototypeFixture = filepath.Join("..", "..", "drivers", "factorio", "testdata", "new", "prototype-api.json")
)

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_NoDifferences(t *testing.T) {
	code, stdout, stderr := runCLI(t, "diff", "--source", oldFixture, "--target", oldFixture, "--format", "summary")
	assert.Equal(t, cli.ExitOK, code, stderr)
	assert.Contains(t, stdout, "=> no differences")
	assert.Contains(t, stderr, "no differences")
}

func TestRun_Differences(t *testing.T) {
	code, stdout, stderr := runCLI(t, "diff", "--source", oldFixture, "--target", newFixture)
	assert.Equal(t, cli.ExitDifferences, code, stderr)
	assert.NotContains(t, stderr, "✗", "differences are not reported as an error")

	var decoded struct {
		Source struct {
			Version string `json:"version"`
		} `json:"source"`
		Changes struct {
			Collections []struct {
				Name string `json:"name"`
			} `json:"collections"`
		} `json:"changes"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	assert.Equal(t, "1.1.100", decoded.Source.Version)

	var names []string
	for _, c := range decoded.Changes.Collections {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"classes", "events", "defines", "global_functions"}, names)
}

func TestRun_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	code, stdout, _ := runCLI(t, "diff", "-s", oldFixture, "-t", newFixture, "-f", "yaml", "-o", path, "--ignore-types")
	assert.Equal(t, cli.ExitDifferences, code)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: LuaSurface")
	assert.NotContains(t, string(data), "\x1b[")
}

func TestRun_SchemaMismatch(t *testing.T) {
	data, err := os.ReadFile(oldFixture)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	delete(doc, "concepts")
	trimmed, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "runtime-api.json")
	require.NoError(t, os.WriteFile(path, trimmed, 0o600))

	code, _, stderr := runCLI(t, "diff", "--source", oldFixture, "--target", path)
	assert.Equal(t, cli.ExitSchemaMismatch, code)
	assert.Contains(t, stderr, "schema mismatch at concepts")
}

func TestRun_Errors(t *testing.T) {
	code, _, stderr := runCLI(t, "diff", "--source", filepath.Join(t.TempDir(), "missing.json"), "--target", oldFixture)
	assert.Equal(t, cli.ExitError, code)
	assert.Contains(t, stderr, "loading source")

	code, _, stderr = runCLI(t, "diff")
	assert.Equal(t, cli.ExitError, code)
	assert.Contains(t, stderr, "--source is required")
}

func TestRun_DowngradeWarning(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	code, _, stderr := runCLI(t, "diff", "--source", "1.1.110", "--target", "1.1.100", "--base-url", srv.URL)
	assert.Equal(t, cli.ExitError, code)
	assert.Contains(t, stderr, "target version 1.1.100 is older than source version 1.1.110")
}

func TestRun_Versions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><a href="/1.1.100/">a</a><a href="/2.0.7/">b</a><a href="/1.1.110/">c</a></body></html>`))
	}))
	defer srv.Close()

	code, stdout, stderr := runCLI(t, "versions", "--base-url", srv.URL, "--limit", "2")
	require.Equal(t, cli.ExitOK, code, stderr)
	assert.Equal(t, []string{"2.0.7", "1.1.110"}, strings.Fields(stdout))
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	assert.Equal(t, cli.ExitOK, code)
	assert.Contains(t, stdout, version)
}

func TestRun_PrototypeStage(t *testing.T) {
	code, stdout, stderr := runCLI(t, "diff", "--stage", "prototype", "-s", oldPrototypeFixture, "-t", newPrototypeFixture, "-f", "summary")
	assert.Equal(t, cli.ExitDifferences, code, stderr)
	assert.Contains(t, stdout, "factorio @ 1.1.100: prototype -> factorio @ 1.1.110: prototype")
	assert.Contains(t, stdout, "=> 1 prototypes changed (+0 -0 ~1)")
	assert.Contains(t, stdout, "=> 2 types changed (+0 -0 ~2)")

	code, _, stderr = runCLI(t, "diff", "-s", oldFixture, "-t", newPrototypeFixture)
	assert.Equal(t, cli.ExitSchemaMismatch, code)
	assert.Contains(t, stderr, "schema mismatch at stage")
}

func TestRun_PrototypeStageRemote(t *testing.T) {
	oldData, err := os.ReadFile(oldPrototypeFixture)
	require.NoError(t, err)
	newData, err := os.ReadFile(newPrototypeFixture)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/1.1.100/prototype-api.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(oldData)
	})
	mux.HandleFunc("/1.1.110/prototype-api.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(newData)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	code, stdout, stderr := runCLI(t, "diff", "--stage", "prototype", "-s", "1.1.100", "-t", "1.1.110", "--base-url", srv.URL, "-f", "summary")
	assert.Equal(t, cli.ExitDifferences, code, stderr)
	assert.Contains(t, stdout, "prototypes changed")
}

func TestRun_NoColorCoversStatusLines(t *testing.T) {
	saved := fcolor.NoColor
	t.Cleanup(func() { fcolor.NoColor = saved })

	fcolor.NoColor = false
	_, _, stderr := runCLI(t, "diff", "-s", oldFixture, "-t", oldFixture)
	assert.Contains(t, stderr, "\x1b[", "status lines are coloured by default")

	fcolor.NoColor = false
	_, _, stderr = runCLI(t, "diff", "-s", oldFixture, "-t", oldFixture, "--no-color")
	assert.NotContains(t, stderr, "\x1b[")

	fcolor.NoColor = false
	t.Setenv("FACTDIFF_NO_COLOR", "true")
	_, _, stderr = runCLI(t, "diff", "-s", oldFixture, "-t", newFixture)
	assert.NotContains(t, stderr, "\x1b[")
}

type failingCloser struct {
	bytes.Buffer
}

func (f *failingCloser) Close() error { return errors.New("disk full") }

func TestRun_OutputCloseError(t *testing.T) {
	saved := createOutput
	t.Cleanup(func() { createOutput = saved })

	var out *failingCloser
	createOutput = func(string) (io.WriteCloser, error) {
		out = &failingCloser{}
		return out, nil
	}

	code, _, stderr := runCLI(t, "diff", "-s", oldFixture, "-t", newFixture, "-o", filepath.Join(t.TempDir(), "report.json"))
	assert.Equal(t, cli.ExitError, code)
	assert.Contains(t, stderr, "closing output file: disk full")
	require.NotNil(t, out)
	assert.Contains(t, out.String(), `"collections"`)
}
