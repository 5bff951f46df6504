package testkit

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Gzip compresses s into a gzip member for fixtures
func Gzip(t *testing.T, s string) []byte {
	t.Helper()
	return compress(t, "gzip", s, func(w io.Writer) (io.WriteCloser, error) { return gzip.NewWriter(w), nil })
}

// Zstd compresses s into a single zstd frame
func Zstd(t *testing.T, s string) []byte {
	t.Helper()
	return compress(t, "zstd", s, func(w io.Writer) (io.WriteCloser, error) { return zstd.NewWriter(w) })
}

// XZ compresses s into an xz stream
func XZ(t *testing.T, s string) []byte {
	t.Helper()
	return compress(t, "xz", s, func(w io.Writer) (io.WriteCloser, error) { return xz.NewWriter(w) })
}

func compress(t *testing.T, name, s string, open func(io.Writer) (io.WriteCloser, error)) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw, err := open(&buf)
	if err != nil {
		t.Fatalf("%s writer: %v", name, err)
	}
	if _, err := io.WriteString(zw, s); err != nil {
		t.Fatalf("%s write: %v", name, err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("%s close: %v", name, err)
	}
	return buf.Bytes()
}

// WriteFile writes b to name under a per-test temp dir and returns the path
func WriteFile(t *testing.T, name string, b []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, b, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return p
}
