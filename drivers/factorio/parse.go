package factorio

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/emenda-labs/factdiff/core/docmodel"
	"github.com/emenda-labs/factdiff/pkg/apiclient"
)

// ErrUnsupportedStage is returned for exports other than the runtime and
// prototype APIs.
var ErrUnsupportedStage = errors.New("unsupported documentation stage")

// ExportName returns the file name the documentation site publishes a stage as.
func ExportName(stage docmodel.Stage) string {
	if stage == docmodel.StagePrototype {
		return apiclient.PrototypeExport
	}
	return apiclient.RuntimeExport
}

// ParseDocument decodes a runtime-api.json or prototype-api.json export.
// Collections missing from the export stay nil so the engine can detect shape
// mismatches.
func ParseDocument(data []byte) (*docmodel.Document, error) {
	var doc docmodel.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding API export: %w", err)
	}

	if _, err := docmodel.ParseStage(string(doc.Stage)); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStage, doc.Stage)
	}

	return &doc, nil
}
