package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"chemload/internal/platform/store/sqltrace"
)

// sqlConn is the surface *sql.DB and *sql.Tx share
type sqlConn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// dbAdapter wraps *sql.DB and implements RowQuerier + TxRunner + Preparer
// it serves every database/sql backend (sqlite, sqlserver, mysql, clickhouse)
type dbAdapter struct {
	db *sql.DB
	sqlQuerier
}

func newDBAdapter(db *sql.DB, tracer sqltrace.QueryTracer, slowMs int) *dbAdapter {
	return &dbAdapter{db: db, sqlQuerier: sqlQuerier{c: db, tracer: tracer, slowMs: slowMs}}
}

// NewSQL wraps an already opened *sql.DB as a TxRunner
// the adapter owns db and closes it on Close
func NewSQL(db *sql.DB, tracer sqltrace.QueryTracer, slowMs int) TxRunner {
	return newDBAdapter(db, tracer, slowMs)
}

func (a *dbAdapter) Ping(ctx context.Context) error {
	if a == nil || a.db == nil {
		return errors.New("sql: nil adapter")
	}
	return a.db.PingContext(ctx)
}

func (a *dbAdapter) Close() error { return a.db.Close() }

func (a *dbAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	q := sqlQuerier{c: tx, tracer: a.tracer, slowMs: a.slowMs}
	if err := fn(q); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// sqlQuerier runs statements on a pool or a tx
type sqlQuerier struct {
	c      sqlConn
	tracer sqltrace.QueryTracer
	slowMs int
}

func (q sqlQuerier) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	start := time.Now()
	res, err := q.c.ExecContext(ctx, query, args...)
	q.emit(ctx, query, args, start, err)
	return result{r: res}, err
}

func (q sqlQuerier) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := q.c.QueryContext(ctx, query, args...)
	q.emit(ctx, query, args, start, err)
	if err != nil {
		return nil, err
	}
	return sqlRows{r: rs}, nil
}

func (q sqlQuerier) QueryRow(ctx context.Context, query string, args ...any) Row {
	start := time.Now()
	r := q.c.QueryRowContext(ctx, query, args...)
	return sqlRow{
		r: r,
		after: func(scanErr error) {
			q.emit(ctx, query, args, start, scanErr)
		},
	}
}

// Prepare prepares on the underlying pool or tx
// clickhouse batches every Exec of a tx-bound statement until commit
func (q sqlQuerier) Prepare(ctx context.Context, query string) (Stmt, error) {
	start := time.Now()
	st, err := q.c.PrepareContext(ctx, query)
	q.emit(ctx, "PREPARE "+query, nil, start, err)
	if err != nil {
		return nil, err
	}
	return &sqlStmt{s: st, q: q, sql: query}, nil
}

func (q sqlQuerier) emit(ctx context.Context, query string, args []any, start time.Time, err error) {
	if q.tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	q.tracer.OnQuery(ctx, sqltrace.QueryEvent{
		SQL:       query,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      sqltrace.IsSlow(elapsedUS, q.slowMs),
	})
}

type sqlStmt struct {
	s   *sql.Stmt
	q   sqlQuerier
	sql string
}

func (s *sqlStmt) Exec(ctx context.Context, args ...any) (CommandTag, error) {
	start := time.Now()
	res, err := s.s.ExecContext(ctx, args...)
	s.q.emit(ctx, s.sql, args, start, err)
	return result{r: res}, err
}

func (s *sqlStmt) Close() error { return s.s.Close() }

// adapters for database/sql to our tiny Row/Rows/CommandTag

type sqlRow struct {
	r     *sql.Row
	after func(error)
}

func (x sqlRow) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type sqlRows struct{ r *sql.Rows }

func (x sqlRows) Next() bool            { return x.r.Next() }
func (x sqlRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x sqlRows) Err() error            { return x.r.Err() }
func (x sqlRows) Close()                { _ = x.r.Close() }
func (x sqlRows) Columns() []string {
	cols, err := x.r.Columns()
	if err != nil {
		return nil
	}
	return cols
}

// result wraps sql.Result; drivers that cannot count report -1
type result struct{ r sql.Result }

func (t result) RowsAffected() int64 {
	if t.r == nil {
		return -1
	}
	n, err := t.r.RowsAffected()
	if err != nil {
		return -1
	}
	return n
}

func (t result) String() string { return fmt.Sprintf("ROWS %d", t.RowsAffected()) }
