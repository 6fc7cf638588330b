// Package report renders a change set for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/emenda-labs/factdiff/core/changeset"
	"github.com/emenda-labs/factdiff/core/docmodel"
)

// Format selects the rendering.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatText    Format = "text"
	FormatSummary Format = "summary"
)

// Formats lists every supported format in help-text order.
var Formats = []Format{FormatJSON, FormatYAML, FormatText, FormatSummary}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, known := range Formats {
		names[i] = string(known)
	}
	return "", fmt.Errorf("unknown format %q: want one of %s", s, strings.Join(names, ", "))
}

// DocumentInfo identifies one side of the comparison.
type DocumentInfo struct {
	Application string         `json:"application"`
	Stage       docmodel.Stage `json:"stage"`
	Version     string         `json:"version"`
	APIVersion  int            `json:"api_version"`
}

// InfoOf extracts the header of a document.
func InfoOf(d *docmodel.Document) DocumentInfo {
	if d == nil {
		return DocumentInfo{}
	}
	return DocumentInfo{
		Application: d.Application,
		Stage:       d.Stage,
		Version:     d.ApplicationVersion,
		APIVersion:  d.APIVersion,
	}
}

// Report is what gets rendered: both headers and the change set between them.
type Report struct {
	Source  DocumentInfo         `json:"source"`
	Target  DocumentInfo         `json:"target"`
	Changes *changeset.ChangeSet `json:"changes"`
}

// Options tune the human-readable formats.
type Options struct {
	// Color enables ANSI colours in the text format.
	Color bool
}

// Write renders r in format f.
func Write(w io.Writer, f Format, r Report, opts Options) error {
	if r.Changes == nil {
		r.Changes = &changeset.ChangeSet{Collections: []changeset.Collection{}}
	}

	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding json report: %w", err)
		}
		return nil

	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing yaml report: %w", err)
		}
		return nil

	case FormatText:
		return writeText(w, r, opts)

	case FormatSummary:
		return writeSummary(w, r)
	}

	return fmt.Errorf("unknown format %q", f)
}
