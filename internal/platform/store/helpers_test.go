package store

import (
	"context"
	"errors"
	"testing"
)

type cmdTag string

func (c cmdTag) String() string      { return string(c) }
func (c cmdTag) RowsAffected() int64 { return 1 }

type fakeRowQuerier struct {
	execSQL  []string
	execArgs [][]any
	execErr  error

	qrErr error
}

func (f *fakeRowQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	return cmdTag("INSERT 0 1"), f.execErr
}

func (f *fakeRowQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return nil, errors.New("not used")
}

func (f *fakeRowQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return &fakeRow{err: f.qrErr}
}

type fakeRow struct{ err error }

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) > 0 {
		switch p := dest[0].(type) {
		case *int64:
			*p = 42
		case *string:
			*p = "ok"
		}
	}
	return nil
}

// preparingQuerier records that Prepare was chosen over the exec fallback
type preparingQuerier struct {
	fakeRowQuerier
	prepared string
}

func (p *preparingQuerier) Prepare(_ context.Context, sql string) (Stmt, error) {
	p.prepared = sql
	return execStmt{q: &p.fakeRowQuerier, sql: sql}, nil
}

func TestScalar_OK(t *testing.T) {
	t.Parallel()

	q := &fakeRowQuerier{}
	n, err := Scalar[int64](context.Background(), q, "SELECT count(*) FROM sqlite_master WHERE upper(name) = ?", "T")
	if err != nil {
		t.Fatalf("Scalar error: %v", err)
	}
	if n != 42 {
		t.Fatalf("Scalar = %d, want 42", n)
	}

	s, err := Scalar[string](context.Background(), q, "SELECT 'ok'")
	if err != nil || s != "ok" {
		t.Fatalf("Scalar[string] = %q, %v", s, err)
	}
}

func TestScalar_ScanError(t *testing.T) {
	t.Parallel()

	q := &fakeRowQuerier{qrErr: errors.New("scan failed")}
	if _, err := Scalar[int64](context.Background(), q, "x"); err == nil {
		t.Fatalf("expected scan error")
	}
}

func TestPrepare_FallbackExecsEachTime(t *testing.T) {
	t.Parallel()

	q := &fakeRowQuerier{}
	st, err := Prepare(context.Background(), q, "INSERT INTO T (id, structure) VALUES (?, ?)")
	if err != nil {
		t.Fatalf("Prepare error: %v", err)
	}
	defer func() { _ = st.Close() }()

	for _, rec := range [][]any{{"1", "CCO"}, {"2", "CCN"}} {
		if _, err := st.Exec(context.Background(), rec...); err != nil {
			t.Fatalf("Exec error: %v", err)
		}
	}
	if len(q.execSQL) != 2 || q.execSQL[1] != "INSERT INTO T (id, structure) VALUES (?, ?)" {
		t.Fatalf("exec calls = %#v", q.execSQL)
	}
	if q.execArgs[1][0] != "2" || q.execArgs[1][1] != "CCN" {
		t.Fatalf("args = %#v", q.execArgs[1])
	}
}

func TestPrepare_UsesPreparer(t *testing.T) {
	t.Parallel()

	q := &preparingQuerier{}
	st, err := Prepare(context.Background(), q, "INSERT")
	if err != nil {
		t.Fatalf("Prepare error: %v", err)
	}
	if q.prepared != "INSERT" {
		t.Fatalf("Preparer not used")
	}
	if _, err := st.Exec(context.Background(), 1); err != nil {
		t.Fatalf("Exec error: %v", err)
	}
}

func TestPrepare_FallbackPropagatesExecError(t *testing.T) {
	t.Parallel()

	q := &fakeRowQuerier{execErr: errors.New("exec failed")}
	st, _ := Prepare(context.Background(), q, "INSERT")
	if _, err := st.Exec(context.Background()); err == nil {
		t.Fatalf("expected exec error")
	}
}
