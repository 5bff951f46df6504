package errors

import (
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pg(code, col, constraint string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		ColumnName:     col,
		ConstraintName: constraint,
	}
}

func TestPgPredicates(t *testing.T) {
	wrapped := fmt.Errorf("drop: %w", pg("42P01", "", ""))
	if !IsPgUndefinedTable(wrapped) {
		t.Fatalf("42P01 should be undefined table")
	}
	if !IsPgDuplicateKey(pg("23505", "", "")) {
		t.Fatalf("23505 should be duplicate key")
	}
	if IsPgDuplicateKey(stderrs.New("x")) {
		t.Fatalf("foreign error is not a duplicate key")
	}
}

func TestAttachFieldFromPg(t *testing.T) {
	// prefer ColumnName when present
	withCol := AttachFieldFromPg(Wrap(pg("23502", "structure", ""), ErrorCodeInsert, "oops"))
	e, ok := As(withCol)
	if !ok || e.Field() != "structure" {
		t.Fatalf("AttachFieldFromPg column name failed: %+v", e)
	}

	// fallback to last token of constraint
	wrapped := Wrap(pg("23505", "", "compounds_id"), ErrorCodeInsert, "dup")
	e2, ok := As(AttachFieldFromPg(wrapped))
	if !ok || e2.Field() != "id" {
		t.Fatalf("AttachFieldFromPg constraint token failed: %+v", e2)
	}

	// primary key constraint names carry no column -> unchanged
	wrapped2 := Wrap(pg("23505", "", "compounds_pkey"), ErrorCodeInsert, "dup")
	if out := AttachFieldFromPg(wrapped2); out != wrapped2 {
		t.Fatalf("AttachFieldFromPg should return input when token is 'pkey'")
	}

	// non-pg error should be returned as-is
	other := Wrap(stderrs.New("x"), ErrorCodeDB, "wrap")
	if out := AttachFieldFromPg(other); out != other {
		t.Fatalf("AttachFieldFromPg changed non-pg error")
	}
}
