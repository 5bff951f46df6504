package store

import (
	"context"
)

// Scalar queries the first row, first column into T
func Scalar[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (T, error) {
	var zero T
	r := q.QueryRow(ctx, sql, args...)
	var v T
	if err := r.Scan(&v); err != nil {
		return zero, err
	}
	return v, nil
}

// Prepare returns a Stmt for sql on q
// queriers without server side prepare get a Stmt that runs q.Exec each time
func Prepare(ctx context.Context, q RowQuerier, sql string) (Stmt, error) {
	if p, ok := q.(Preparer); ok {
		return p.Prepare(ctx, sql)
	}
	return execStmt{q: q, sql: sql}, nil
}

type execStmt struct {
	q   RowQuerier
	sql string
}

func (s execStmt) Exec(ctx context.Context, args ...any) (CommandTag, error) {
	return s.q.Exec(ctx, s.sql, args...)
}

func (execStmt) Close() error { return nil }
