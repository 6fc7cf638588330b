package archive

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestReadMember(t *testing.T) {
	data := buildZip(t, map[string]string{
		"1.1.110/runtime-api.json":   `{"stage":"runtime"}`,
		"1.1.110/prototype-api.json": `{"stage":"prototype"}`,
	})

	got, err := ReadMember(data, "1.1.110/prototype-api.json")
	require.NoError(t, err)
	assert.Equal(t, `{"stage":"prototype"}`, string(got))

	got, err = ReadMember(data, "runtime-api.json")
	require.NoError(t, err)
	assert.Equal(t, `{"stage":"runtime"}`, string(got))
}

func TestReadMember_Errors(t *testing.T) {
	_, err := ReadMember([]byte("not a zip"), "x")
	require.Error(t, err)

	data := buildZip(t, map[string]string{
		"a/runtime-api.json": "{}",
		"b/runtime-api.json": "{}",
	})

	_, err = ReadMember(data, "missing.json")
	assert.ErrorIs(t, err, ErrMemberNotFound)

	_, err = ReadMember(data, "runtime-api.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestUnsafePath(t *testing.T) {
	for name, want := range map[string]bool{
		"runtime-api.json":  false,
		"a/b/c.json":        false,
		"../evil.json":      true,
		"a/../../evil.json": true,
		"/etc/passwd":       true,
		`dir\runtime.json`:  true,
	} {
		assert.Equal(t, want, unsafePath(name), name)
	}
}
