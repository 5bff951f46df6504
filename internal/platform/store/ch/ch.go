// Package ch opens clickhouse through the clickhouse-go database/sql bridge
package ch

import (
	"context"
	"database/sql"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// Config configures the clickhouse client
type Config struct {
	DSN      string
	Role     string // reported in client info, e.g. "load"
	Tag      string // build tag reported in client info
	MaxConns int
}

// Options parses cfg into clickhouse options with client info attached
func Options(cfg Config) (*clickhouse.Options, error) {
	opts, err := clickhouse.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}
	opts.ClientInfo = BuildClientInfo(cfg.Role, cfg.Tag)
	if cfg.MaxConns > 0 {
		opts.MaxOpenConns = cfg.MaxConns
	}
	return opts, nil
}

// Open returns a *sql.DB backed by the native clickhouse protocol
// inserts prepared inside a tx are sent as one block on commit
func Open(_ context.Context, cfg Config) (*sql.DB, error) {
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	return clickhouse.OpenDB(opts), nil
}
