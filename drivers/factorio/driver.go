// Package factorio loads Factorio API documentation (the runtime or the prototype
// export) from local files, zip archives, or the documentation site.
package factorio

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/emenda-labs/factdiff/core/docmodel"
	"github.com/emenda-labs/factdiff/core/driver"
	"github.com/emenda-labs/factdiff/pkg/apiclient"
	"github.com/emenda-labs/factdiff/pkg/archive"
	"github.com/emenda-labs/factdiff/pkg/scraper"
)

var (
	_ driver.Loader        = (*Driver)(nil)
	_ driver.VersionLister = (*Driver)(nil)
)

// Driver implements driver.Loader and driver.VersionLister for the Factorio docs.
type Driver struct {
	client *apiclient.Client
	log    logrus.FieldLogger
	stage  docmodel.Stage
}

// Option configures a Driver.
type Option func(*Driver)

// WithStage selects which export is fetched for remote references and read from
// archives without an explicit member. Local JSON files carry their own stage.
func WithStage(stage docmodel.Stage) Option {
	return func(d *Driver) { d.stage = stage }
}

// NewDriver creates a Driver, loading the runtime stage unless WithStage is
// given. A nil client means apiclient.NewClient("") and a nil logger the logrus
// standard logger.
func NewDriver(client *apiclient.Client, log logrus.FieldLogger, opts ...Option) *Driver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if client == nil {
		client = apiclient.NewClient("", apiclient.WithLogger(log))
	}
	d := &Driver{client: client, log: log, stage: docmodel.StageRuntime}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Load resolves ref and parses the export it points to.
func (d *Driver) Load(ctx context.Context, ref string) (*docmodel.Document, error) {
	r, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}

	data, err := d.read(ctx, r)
	if err != nil {
		return nil, err
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", r, err)
	}

	d.log.WithFields(logrus.Fields{
		"ref":        r.String(),
		"stage":      doc.Stage,
		"version":    doc.ApplicationVersion,
		"api":        doc.APIVersion,
		"classes":    len(doc.Classes),
		"concepts":   len(doc.Concepts),
		"prototypes": len(doc.Prototypes),
		"types":      len(doc.Types),
	}).Debug("factorio: document loaded")

	return doc, nil
}

func (d *Driver) read(ctx context.Context, r Reference) ([]byte, error) {
	switch r.Kind {
	case RefFile:
		data, err := os.ReadFile(r.Path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", r.Path, err)
		}
		return data, nil

	case RefArchive:
		zipData, err := os.ReadFile(r.Path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", r.Path, err)
		}
		member := r.Member
		if member == "" {
			member = ExportName(d.stage)
		}
		data, err := archive.ReadMember(zipData, member)
		if err != nil {
			return nil, fmt.Errorf("extracting %s from %s: %w", member, r.Path, err)
		}
		return data, nil

	case RefRemote:
		data, err := d.client.DownloadExport(ctx, r.Version, ExportName(d.stage))
		if err != nil {
			return nil, fmt.Errorf("downloading %s API %s: %w", d.stage, r.Version, err)
		}
		return data, nil
	}

	return nil, fmt.Errorf("unhandled reference kind %q", r.Kind)
}

// LoadPair loads the source and target documents concurrently. The first
// failure cancels the other load.
func (d *Driver) LoadPair(ctx context.Context, source, target string) (old, new *docmodel.Document, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		doc, err := d.Load(gctx, source)
		if err != nil {
			return fmt.Errorf("loading source %s: %w", source, err)
		}
		old = doc
		return nil
	})

	g.Go(func() error {
		doc, err := d.Load(gctx, target)
		if err != nil {
			return fmt.Errorf("loading target %s: %w", target, err)
		}
		new = doc
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return old, new, nil
}

// ListVersions scrapes the index page of the first documentation host.
func (d *Driver) ListVersions(ctx context.Context) ([]string, error) {
	bases := d.client.BaseURLs()
	if len(bases) == 0 {
		return nil, fmt.Errorf("no documentation host configured")
	}
	versions, err := scraper.ScrapeVersions(ctx, bases[0]+"/", d.log)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	return versions, nil
}
