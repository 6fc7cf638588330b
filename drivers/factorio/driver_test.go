package factorio

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emenda-labs/factdiff/core/changeset"
	"github.com/emenda-labs/factdiff/core/diff"
	"github.com/emenda-labs/factdiff/core/docmodel"
	"github.com/emenda-labs/factdiff/pkg/apiclient"
)

func fixture(t *testing.T, side string) string {
	t.Helper()
	return filepath.Join("testdata", side, "runtime-api.json")
}

func prototypeFixture(t *testing.T, side string) string {
	t.Helper()
	return filepath.Join("testdata", side, "prototype-api.json")
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	return log
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		in   string
		want Reference
	}{
		{"latest", Reference{Kind: RefRemote, Version: "latest"}},
		{"LATEST", Reference{Kind: RefRemote, Version: "latest"}},
		{"1.1.110", Reference{Kind: RefRemote, Version: "1.1.110"}},
		{"v2.0.7", Reference{Kind: RefRemote, Version: "2.0.7"}},
		{"docs/runtime-api.json", Reference{Kind: RefFile, Path: "docs/runtime-api.json"}},
		{"docs.zip", Reference{Kind: RefArchive, Path: "docs.zip"}},
		{"docs.zip:1.1.110/runtime-api.json", Reference{Kind: RefArchive, Path: "docs.zip", Member: "1.1.110/runtime-api.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRef(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "   ", "docs.zip:", "runtime-api.yaml", "1.1.x", "./1.1.110"} {
		_, err := ParseRef(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseDocument(t *testing.T) {
	data, err := os.ReadFile(fixture(t, "old"))
	require.NoError(t, err)

	doc, err := ParseDocument(data)
	require.NoError(t, err)

	assert.Equal(t, "1.1.100", doc.ApplicationVersion)
	assert.Equal(t, 4, doc.APIVersion)
	require.Len(t, doc.Classes, 2)
	require.Len(t, doc.Classes[0].Operators, 1)
	assert.Equal(t, docmodel.OperatorAttribute, doc.Classes[0].Operators[0].Form)
	assert.Equal(t, "union", string(doc.Concepts[1].Type.Kind))
	assert.Len(t, doc.Defines[1].Subkeys, 1)
}

func TestParseDocument_Errors(t *testing.T) {
	_, err := ParseDocument([]byte(`{"stage":"settings","classes":[]}`))
	assert.ErrorIs(t, err, ErrUnsupportedStage)

	_, err = ParseDocument([]byte(`{"classes":[]}`))
	assert.ErrorIs(t, err, ErrUnsupportedStage)

	_, err = ParseDocument([]byte(`{"stage":`))
	assert.Error(t, err)
}

func TestExportName(t *testing.T) {
	assert.Equal(t, apiclient.RuntimeExport, ExportName(docmodel.StageRuntime))
	assert.Equal(t, apiclient.PrototypeExport, ExportName(docmodel.StagePrototype))
}

func TestParseDocument_Prototype(t *testing.T) {
	data, err := os.ReadFile(prototypeFixture(t, "old"))
	require.NoError(t, err)

	doc, err := ParseDocument(data)
	require.NoError(t, err)

	assert.Equal(t, docmodel.StagePrototype, doc.Stage)
	assert.Nil(t, doc.Classes)
	require.Len(t, doc.Prototypes, 3)
	require.Len(t, doc.Types, 3)

	entity := doc.Prototypes[0]
	assert.True(t, entity.Abstract)
	assert.Equal(t, "PrototypeBase", entity.Parent)
	require.Len(t, entity.Properties, 2)
	assert.Equal(t, "FileName", entity.Properties[0].Type.Name)

	utility := doc.Prototypes[2]
	require.NotNil(t, utility.InstanceLimit)
	assert.Equal(t, uint64(1), *utility.InstanceLimit)
	require.NotNil(t, utility.CustomProperties)
	assert.Equal(t, "AnyBasic", utility.CustomProperties.ValueType.Name)

	assert.Equal(t, "tuple[double, double]", doc.Types[1].Type.String())
	assert.Equal(t, docmodel.TypeStructPrototype, doc.Types[0].Type.Kind)
	assert.Equal(t, "Calculated automatically", doc.Prototypes[1].Properties[1].Default)
}

func TestLoad_File(t *testing.T) {
	d := NewDriver(nil, quietLogger())
	doc, err := d.Load(context.Background(), fixture(t, "new"))
	require.NoError(t, err)
	assert.Equal(t, "1.1.110", doc.ApplicationVersion)

	_, err = d.Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoad_Archive(t *testing.T) {
	data, err := os.ReadFile(fixture(t, "old"))
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("1.1.100/runtime-api.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	zipPath := filepath.Join(t.TempDir(), "docs.zip")
	require.NoError(t, os.WriteFile(zipPath, buf.Bytes(), 0o644))

	d := NewDriver(nil, quietLogger())

	doc, err := d.Load(context.Background(), zipPath)
	require.NoError(t, err)
	assert.Equal(t, "1.1.100", doc.ApplicationVersion)

	doc, err = d.Load(context.Background(), zipPath+":1.1.100/runtime-api.json")
	require.NoError(t, err)
	assert.Equal(t, "1.1.100", doc.ApplicationVersion)

	_, err = d.Load(context.Background(), zipPath+":prototype-api.json")
	assert.Error(t, err)
}

func TestLoad_ArchiveStageDefault(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, src := range []string{fixture(t, "old"), prototypeFixture(t, "old")} {
		data, err := os.ReadFile(src)
		require.NoError(t, err)
		f, err := zw.Create("1.1.100/" + filepath.Base(src))
		require.NoError(t, err)
		_, err = f.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	zipPath := filepath.Join(t.TempDir(), "docs.zip")
	require.NoError(t, os.WriteFile(zipPath, buf.Bytes(), 0o644))

	doc, err := NewDriver(nil, quietLogger()).Load(context.Background(), zipPath)
	require.NoError(t, err)
	assert.Equal(t, docmodel.StageRuntime, doc.Stage)

	doc, err = NewDriver(nil, quietLogger(), WithStage(docmodel.StagePrototype)).Load(context.Background(), zipPath)
	require.NoError(t, err)
	assert.Equal(t, docmodel.StagePrototype, doc.Stage)
	assert.Len(t, doc.Prototypes, 3)
}

func newDocServer(t *testing.T) *httptest.Server {
	t.Helper()
	oldData, err := os.ReadFile(fixture(t, "old"))
	require.NoError(t, err)
	newData, err := os.ReadFile(fixture(t, "new"))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/1.1.100/runtime-api.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(oldData)
	})
	mux.HandleFunc("/latest/runtime-api.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(newData)
	})
	for path, src := range map[string]string{
		"/1.1.100/prototype-api.json": prototypeFixture(t, "old"),
		"/latest/prototype-api.json":  prototypeFixture(t, "new"),
	} {
		data, err := os.ReadFile(src)
		require.NoError(t, err)
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(data)
		})
	}
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><a href="/1.1.100/">1.1.100</a><a href="/1.1.110/">1.1.110</a></body></html>`))
	})
	return httptest.NewServer(mux)
}

func TestLoadPair_Remote(t *testing.T) {
	srv := newDocServer(t)
	defer srv.Close()

	d := NewDriver(apiclient.NewClient(srv.URL), quietLogger())
	old, new, err := d.LoadPair(context.Background(), "1.1.100", "latest")
	require.NoError(t, err)
	assert.Equal(t, "1.1.100", old.ApplicationVersion)
	assert.Equal(t, "1.1.110", new.ApplicationVersion)

	_, _, err = d.LoadPair(context.Background(), "1.1.100", "9.9.9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading target 9.9.9")
}

func TestLoadPair_RemotePrototype(t *testing.T) {
	srv := newDocServer(t)
	defer srv.Close()

	d := NewDriver(apiclient.NewClient(srv.URL), quietLogger(), WithStage(docmodel.StagePrototype))
	old, new, err := d.LoadPair(context.Background(), "1.1.100", "latest")
	require.NoError(t, err)
	assert.Equal(t, docmodel.StagePrototype, old.Stage)
	assert.Equal(t, "1.1.110", new.ApplicationVersion)
	assert.Len(t, new.Prototypes, 3)
}

func TestListVersions(t *testing.T) {
	srv := newDocServer(t)
	defer srv.Close()

	d := NewDriver(apiclient.NewClient(srv.URL), quietLogger())
	versions, err := d.ListVersions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1.1.110", "1.1.100"}, versions)
}

func TestFixtureDiff(t *testing.T) {
	d := NewDriver(nil, quietLogger())
	old, new, err := d.LoadPair(context.Background(), fixture(t, "old"), fixture(t, "new"))
	require.NoError(t, err)

	cs, err := diff.Diff(old, new, diff.Options{})
	require.NoError(t, err)

	counts := map[string]changeset.Counts{}
	for _, c := range cs.Counts() {
		counts[c.Collection] = c
	}
	assert.Equal(t, changeset.Counts{Collection: "classes", Added: 1, Removed: 1, Modified: 1}, counts["classes"])
	assert.Equal(t, changeset.Counts{Collection: "events", Added: 1}, counts["events"])
	assert.Equal(t, changeset.Counts{Collection: "defines", Modified: 1}, counts["defines"])
	assert.Equal(t, changeset.Counts{Collection: "global_functions", Added: 1}, counts["global_functions"])
	assert.NotContains(t, counts, "concepts", "reordered union options must not count as a change")

	entity, ok := cs.Find(changeset.CollectionClasses, "LuaEntity")
	require.True(t, ok)
	attrs := entity.Nested.Modified("attributes")
	require.Len(t, attrs, 2)
	assert.Equal(t, "name", attrs[0].Name)
	assert.Equal(t, "health", attrs[1].Name)

	destroy := entity.Nested.Modified("methods")
	require.Len(t, destroy, 1)
	added := destroy[0].Nested.Added("parameters")
	require.Len(t, added, 1)
	assert.Equal(t, "player", added[0].Name)

	cs, err = diff.Diff(old, new, diff.Options{IgnoreTypeAnnotations: true})
	require.NoError(t, err)
	entity, ok = cs.Find(changeset.CollectionClasses, "LuaEntity")
	require.True(t, ok)
	attrs = entity.Nested.Modified("attributes")
	require.Len(t, attrs, 1)
	assert.Equal(t, "name", attrs[0].Name)
}

func TestFixtureDiff_Prototype(t *testing.T) {
	d := NewDriver(nil, quietLogger(), WithStage(docmodel.StagePrototype))
	old, new, err := d.LoadPair(context.Background(), prototypeFixture(t, "old"), prototypeFixture(t, "new"))
	require.NoError(t, err)

	cs, err := diff.Diff(old, new, diff.Options{})
	require.NoError(t, err)

	counts := map[string]changeset.Counts{}
	for _, c := range cs.Counts() {
		counts[c.Collection] = c
	}
	assert.Equal(t, changeset.Counts{Collection: "prototypes", Modified: 1}, counts["prototypes"])
	assert.Equal(t, changeset.Counts{Collection: "types", Modified: 2}, counts["types"])
	assert.Equal(t, changeset.Counts{Collection: "defines", Modified: 1}, counts["defines"])

	entity, ok := cs.Find(changeset.CollectionPrototypes, "EntityPrototype")
	require.True(t, ok)
	props := entity.Nested
	require.Len(t, props.Removed("properties"), 1)
	assert.Equal(t, "flags", props.Removed("properties")[0].Name)
	require.Len(t, props.Added("properties"), 1)
	assert.Equal(t, "hidden", props.Added("properties")[0].Name)
	require.Len(t, props.Modified("properties"), 1)
	assert.Equal(t, "icon", props.Modified("properties")[0].Name)

	cs, err = diff.Diff(old, new, diff.Options{IgnoreTypeAnnotations: true})
	require.NoError(t, err)
	types := cs.Modified(changeset.CollectionTypes)
	require.Len(t, types, 1)
	assert.Equal(t, "Color", types[0].Name)

	runtimeDoc, err := NewDriver(nil, quietLogger()).Load(context.Background(), fixture(t, "old"))
	require.NoError(t, err)
	_, err = diff.Diff(runtimeDoc, new, diff.Options{})
	assert.ErrorIs(t, err, diff.ErrSchemaMismatch)
}
