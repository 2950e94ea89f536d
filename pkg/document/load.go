package document

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Load opens and parses the document stored at path. Gzip and zstd
// compressed files are detected by their magic bytes. Files ending in .html
// or .htm (before any compression suffix) are parsed as HTML unless
// WithHTML is given explicitly.
func Load(path string, opts ...ParseOption) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	if isHTMLPath(path) {
		opts = append([]ParseOption{WithHTML(true)}, opts...)
	}

	doc, err := Read(f, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return doc, nil
}

// Read parses a document from r, decompressing it first when needed.
func Read(r io.Reader, opts ...ParseOption) (*Document, error) {
	rc, err := Decompress(r)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Parse(rc, opts...)
}

// Decompress returns a reader yielding the plain content of r, undoing gzip
// or zstd compression when the stream starts with the matching magic bytes.
func Decompress(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, errors.Wrap(err, "read input")
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip stream")
		}
		return zr, nil
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "open zstd stream")
		}
		return zr.IOReadCloser(), nil
	default:
		return io.NopCloser(br), nil
	}
}

func isHTMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".gz" || ext == ".zst" {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
	}
	return ext == ".html" || ext == ".htm"
}
