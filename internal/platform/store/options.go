package store

import (
	perr "chemload/internal/platform/errors"
	"chemload/internal/platform/logger"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients and the sql tracer,
// tagged with the backend it serves once Open knows it
func WithLogger(log *logger.Logger) Option {
	return func(s *Store) error {
		if log == nil {
			return perr.InvalidArgf("store: nil logger")
		}
		s.Log = *log
		return nil
	}
}
