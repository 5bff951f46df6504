package compound

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	perr "chemload/internal/platform/errors"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression selects the decompression layer
type Compression string

// Supported compressions
const (
	CompressionAuto Compression = "auto"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionXZ   Compression = "xz"
	CompressionNone Compression = "none"
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicXZ   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// ParseCompression maps a name (or file extension) onto a Compression
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return CompressionAuto, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	case "xz":
		return CompressionXZ, nil
	case "none", "plain", "raw":
		return CompressionNone, nil
	}
	return "", perr.InvalidArgf("compound: unknown compression %q", s)
}

// sniff reports the compression the leading bytes of br announce
func sniff(br *bufio.Reader) (Compression, error) {
	head, err := br.Peek(len(magicXZ))
	if err != nil && err != io.EOF {
		return "", err
	}
	switch {
	case bytes.HasPrefix(head, magicGzip):
		return CompressionGzip, nil
	case bytes.HasPrefix(head, magicZstd):
		return CompressionZstd, nil
	case bytes.HasPrefix(head, magicXZ):
		return CompressionXZ, nil
	case len(head) == 0:
		return "", perr.IOf("compound: empty stream is not a compressed file")
	}
	return "", perr.IOf("compound: unrecognized compression magic % x", head[:min(len(head), 4)])
}

// decompress wraps r in the layer c selects
// the returned closer releases decoder resources and never closes r
func decompress(r io.Reader, c Compression) (io.Reader, io.Closer, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	if c == CompressionAuto {
		var err error
		if c, err = sniff(br); err != nil {
			if perr.IsCode(err, perr.ErrorCodeIO) {
				return nil, nil, err
			}
			return nil, nil, perr.Wrap(err, perr.ErrorCodeIO, "compound: read header")
		}
	}

	switch c {
	case CompressionGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, perr.Wrap(err, perr.ErrorCodeIO, "compound: invalid gzip stream")
		}
		return gz, gz, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, perr.Wrap(err, perr.ErrorCodeIO, "compound: invalid zstd stream")
		}
		return zr, closerFunc(func() error { zr.Close(); return nil }), nil
	case CompressionXZ:
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, nil, perr.Wrap(err, perr.ErrorCodeIO, "compound: invalid xz stream")
		}
		return xr, nopCloser{}, nil
	case CompressionNone:
		return br, nopCloser{}, nil
	}
	return nil, nil, perr.InvalidArgf("compound: unknown compression %q", c)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
