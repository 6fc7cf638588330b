package driver

import (
	"context"

	"github.com/emenda-labs/factdiff/core/docmodel"
)

// Loader is the interface each documentation source must implement to feed the
// diff engine.
type Loader interface {
	// Load resolves a reference (a local file, an archive member, a published
	// version or "latest") and returns the parsed document.
	Load(ctx context.Context, ref string) (*docmodel.Document, error)
}

// VersionLister enumerates the documentation versions a source can serve.
type VersionLister interface {
	// ListVersions returns the available versions, newest first.
	ListVersions(ctx context.Context) ([]string, error)
}
