package compound

import (
	"io"
	"io/fs"
	"os"

	perr "chemload/internal/platform/errors"
)

// Source names a byte stream the Reader can open once per pass
type Source struct {
	name string
	open func() (io.ReadCloser, error)
}

// File reads from a path on disk
func File(path string) Source {
	return Source{name: path, open: func() (io.ReadCloser, error) { return os.Open(path) }}
}

// FS reads name from fsys, e.g. an embed.FS bundled with the binary
func FS(fsys fs.FS, name string) Source {
	return Source{name: name, open: func() (io.ReadCloser, error) { return fsys.Open(name) }}
}

// Stream wraps a caller supplied stream; it can be opened once
func Stream(name string, rc io.ReadCloser) Source {
	used := false
	return Source{name: name, open: func() (io.ReadCloser, error) {
		if used {
			return nil, perr.IOf("compound: stream %s already consumed", name)
		}
		used = true
		return rc, nil
	}}
}

// Name returns the display name of the source
func (s Source) Name() string { return s.name }

// IsZero reports whether s was never initialised
func (s Source) IsZero() bool { return s.open == nil }

func (s Source) acquire() (io.ReadCloser, error) {
	if s.open == nil {
		return nil, perr.IOf("compound: no source")
	}
	rc, err := s.open()
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeIO) {
			return nil, err
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "compound: open %s", s.name)
	}
	return rc, nil
}
