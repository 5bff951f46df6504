// Package store provides a unified interface to the SQL backends the loader can target
package store

import (
	"context"

	perr "chemload/internal/platform/errors"
	"chemload/internal/platform/logger"
)

// Store is the facade over the configured backend
// zero value is safe but does nothing
type Store struct {
	// Log is the logger used by subclients
	// zero means a no op zerolog logger
	Log logger.Logger

	// Driver is the normalized driver name, empty when no backend is open
	Driver string

	// DB is the sql seam, nil when no backend is configured
	DB TxRunner
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Stmt is a statement prepared once and executed many times
type Stmt interface {
	Exec(ctx context.Context, args ...any) (CommandTag, error)
	Close() error
}

// Preparer is implemented by queriers that can prepare server side
// use Prepare to get a Stmt from any RowQuerier
type Preparer interface {
	Prepare(ctx context.Context, sql string) (Stmt, error)
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open constructs a Store for cfg.Driver
// an empty driver yields a Store with no backend
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	// defaults for zero logger to avoid nil checks
	s.Log = s.Log.With().Logger()

	if cfg.Driver == "" {
		return s, nil
	}
	driver, err := NormalizeDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}

	var db TxRunner
	switch driver {
	case DriverPostgres:
		db, err = openPG(ctx, cfg, s)
	case DriverClickHouse:
		db, err = openCH(ctx, cfg, s)
	default:
		db, err = openSQL(ctx, driver, cfg, s)
	}
	if err != nil {
		return nil, err
	}
	s.Driver = driver
	s.DB = db
	s.Log = s.Log.With().Str("driver", driver).Logger()
	return s, nil
}

// Ping checks the configured backend answers
// backends without a native ping get a SELECT 1 round trip
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return perr.New(perr.ErrorCodeInvalidArgument, "store: no backend configured")
	}
	if p, ok := s.DB.(Pinger); ok {
		return p.Ping(ctx)
	}
	_, err := Scalar[int64](ctx, s.DB, "SELECT 1")
	return err
}

// Close closes the backend gracefully
// a nil backend is ignored
func (s *Store) Close(_ context.Context) error {
	if s == nil {
		return nil
	}
	if c, ok := s.DB.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
