package repo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"chemload/internal/adapters/ingest/compound"
	"chemload/internal/modkit/repokit"
	perr "chemload/internal/platform/errors"
	"chemload/internal/platform/store"
	"chemload/internal/services/load/dialect"

	"github.com/DATA-DOG/go-sqlmock"
)

func mustDialect(t *testing.T, name string) dialect.Dialect {
	t.Helper()
	d, err := dialect.For(name)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestRepo_PreparesOnceAndInsertsInOrder(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	const ins = "INSERT INTO T (id, structure) VALUES ($1, $2)"
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(ins)
	prep.ExpectExec().WithArgs("aspirin", "CC(=O)OC1=CC=CC=C1C(=O)O").WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs("ethanol", "CCO").WillReturnResult(sqlmock.NewResult(0, 1))
	prep.WillBeClosed()
	mock.ExpectCommit()

	ctx := context.Background()
	b := NewSQL(mustDialect(t, "postgres"), compound.LayoutStructureID)
	err = store.NewSQL(db, nil, 0).Tx(ctx, func(q repokit.Queryer) error {
		r := repokit.MustBind(b, q)
		defer func() { _ = r.Close() }()
		if err := r.Prepare(ctx, "T"); err != nil {
			return err
		}
		for _, rec := range []compound.Record{
			{Structure: "CC(=O)OC1=CC=CC=C1C(=O)O", Identifier: "aspirin", Line: 1},
			{Structure: "CCO", Identifier: "ethanol", Line: 2},
		} {
			if err := r.Insert(ctx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRepo_InsertErrorCarriesLine(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	boom := errors.New("value too long")
	mock.ExpectPrepare("INSERT INTO T (id, structure) VALUES (?, ?)").
		ExpectExec().WithArgs("x", "C").WillReturnError(boom)

	ctx := context.Background()
	r := NewSQL(mustDialect(t, "sqlite"), compound.LayoutStructureID).Bind(store.NewSQL(db, nil, 0))
	if err := r.Prepare(ctx, "T"); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	err = r.Insert(ctx, compound.Record{Structure: "C", Identifier: "x", Line: 7})
	if !perr.IsCode(err, perr.ErrorCodeInsert) || !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if e, _ := perr.As(err); e.Message() != "insert line 7" {
		t.Fatalf("message = %q", e.Message())
	}
}

func TestRepo_PrepareError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectPrepare("INSERT INTO T (id, structure) VALUES (@p1, @p2)").WillReturnError(errors.New("no table"))

	r := NewSQL(mustDialect(t, "sqlserver"), compound.LayoutStructureID).Bind(store.NewSQL(db, nil, 0))
	if err := r.Prepare(context.Background(), "T"); !perr.IsCode(err, perr.ErrorCodeInsert) {
		t.Fatalf("err = %v", err)
	}
}

func TestRepo_InsertBeforePrepare(t *testing.T) {
	t.Parallel()

	r := NewSQL(mustDialect(t, "sqlite"), compound.LayoutStructureID).Bind(&nopQ{})
	if err := r.Insert(context.Background(), compound.Record{}); !perr.IsCode(err, perr.ErrorCodeInsert) {
		t.Fatalf("err = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close without stmt: %v", err)
	}
}

func TestRepo_SQLite_NumericLayout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := store.Open(ctx, store.Config{Driver: "sqlite", Name: filepath.Join(t.TempDir(), "repo.db")})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s.Close(ctx) }()

	if _, err := s.DB.Exec(ctx, "CREATE TABLE T (id INTEGER NOT NULL PRIMARY KEY, structure VARCHAR(1000) NOT NULL)"); err != nil {
		t.Fatal(err)
	}

	rec, err := compound.ParseLine(compound.LayoutIDStructure, 1, "42 c1ccccc1")
	if err != nil {
		t.Fatal(err)
	}
	err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
		r := NewSQL(mustDialect(t, "sqlite"), compound.LayoutIDStructure).Bind(q)
		defer func() { _ = r.Close() }()
		if err := r.Prepare(ctx, "T"); err != nil {
			return err
		}
		return r.Insert(ctx, rec)
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	got, err := store.Scalar[string](ctx, s.DB, "SELECT structure FROM T WHERE id = ?", int64(42))
	if err != nil || got != "c1ccccc1" {
		t.Fatalf("row = %q, %v", got, err)
	}
}

type nopQ struct{}

func (nopQ) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (nopQ) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (nopQ) QueryRow(context.Context, string, ...any) store.Row { return nil }
