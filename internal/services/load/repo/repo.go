// Package repo provides sql access for compound writes
package repo

import (
	"context"

	"chemload/internal/adapters/ingest/compound"
	"chemload/internal/modkit/repokit"
	perr "chemload/internal/platform/errors"
	"chemload/internal/platform/store"
	"chemload/internal/services/load/dialect"
	"chemload/internal/services/load/domain"
)

type (
	// SQL is a binder for domain.CompoundRepo over any supported dialect
	SQL struct {
		Dialect dialect.Dialect
		Layout  compound.Layout
	}
	queries struct {
		q      repokit.Queryer
		d      dialect.Dialect
		layout compound.Layout
		stmt   store.Stmt
	}
)

// NewSQL returns a binder for domain.CompoundRepo
func NewSQL(d dialect.Dialect, layout compound.Layout) repokit.Binder[domain.CompoundRepo] {
	return SQL{Dialect: d, Layout: layout}
}

// Bind implements repokit.Binder
func (b SQL) Bind(q repokit.Queryer) domain.CompoundRepo {
	return &queries{q: q, d: b.Dialect, layout: b.Layout}
}

// Prepare readies the insert statement for table
func (r *queries) Prepare(ctx context.Context, table string) error {
	if r.stmt != nil {
		_ = r.stmt.Close()
		r.stmt = nil
	}
	st, err := store.Prepare(ctx, r.q, r.d.InsertSQL(table))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInsert, "prepare insert into %s", table)
	}
	r.stmt = st
	return nil
}

// Insert writes one record
func (r *queries) Insert(ctx context.Context, rec domain.Record) error {
	if r.stmt == nil {
		return perr.Newf(perr.ErrorCodeInsert, "insert before prepare")
	}
	key := rec.Key(r.layout)
	if _, err := r.stmt.Exec(ctx, key, rec.Structure); err != nil {
		if perr.IsDuplicateKey(err) {
			return perr.Wrapf(err, perr.ErrorCodeInsert, "duplicate id %v on line %d", key, rec.Line)
		}
		return perr.AttachFieldFromPg(perr.Wrapf(err, perr.ErrorCodeInsert, "insert line %d", rec.Line))
	}
	return nil
}

// Close releases the prepared statement
func (r *queries) Close() error {
	if r.stmt == nil {
		return nil
	}
	err := r.stmt.Close()
	r.stmt = nil
	return err
}
