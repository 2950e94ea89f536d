package document_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/goxpath/pkg/document"
)

const smallXML = `<r><a>1</a></r>`

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func zstded(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDecompress(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"plain", []byte(smallXML)},
		{"gzip", gzipped(t, smallXML)},
		{"zstd", zstded(t, smallXML)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := document.Decompress(bytes.NewReader(tt.input))
			require.NoError(t, err)
			defer rc.Close()
			out, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, smallXML, string(out))
		})
	}
}

func TestDecompressShortInput(t *testing.T) {
	rc, err := document.Decompress(strings.NewReader("<"))
	require.NoError(t, err)
	out, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "<", string(out))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	files := map[string][]byte{
		"plain.xml":      []byte(smallXML),
		"packed.xml.gz":  gzipped(t, smallXML),
		"packed.xml.zst": zstded(t, smallXML),
	}
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o600))
	}

	for name := range files {
		t.Run(name, func(t *testing.T) {
			doc, err := document.Load(filepath.Join(dir, name))
			require.NoError(t, err)
			r, ok := doc.DocumentElement()
			require.True(t, ok)
			assert.Equal(t, "r", r.Name())
			assert.Equal(t, "1", r.StringValue())
		})
	}
}

func TestLoadHTMLByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html.gz")
	require.NoError(t, os.WriteFile(path, gzipped(t, "<title>Hi</title><p>unclosed"), 0o600))

	doc, err := document.Load(path)
	require.NoError(t, err)
	html, ok := doc.DocumentElement()
	require.True(t, ok)
	assert.Equal(t, "html", html.Name())
	assert.Equal(t, "Hiunclosed", html.StringValue())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := document.Load(filepath.Join(dir, "missing.xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.xml")

	bad := filepath.Join(dir, "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte("<a>"), 0o600))
	_, err = document.Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load "+bad)
}
