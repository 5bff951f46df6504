package errors

// Postgres specifics: SQLSTATE predicates and field extraction from pgx errors

import (
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrUniqueViolation = "23505"
	pgErrUndefinedTable  = "42P01"
)

// ExtractPgError returns (*pgconn.PgError, true) if the root cause is a PgError
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether err is a Postgres error with the given SQLSTATE
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// IsPgUndefinedTable reports whether err is "relation does not exist"
func IsPgUndefinedTable(err error) bool { return IsSQLState(err, pgErrUndefinedTable) }

// IsPgDuplicateKey reports whether err is a unique violation
func IsPgDuplicateKey(err error) bool { return IsSQLState(err, pgErrUniqueViolation) }

// AttachFieldFromPg names the offending column on err when Postgres reports one.
// ColumnName wins, then the last token of ConstraintName unless that is key or pkey
func AttachFieldFromPg(err error) error {
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return err
	}
	if col := strings.TrimSpace(pgErr.ColumnName); col != "" {
		return WithField(err, col)
	}
	c := strings.TrimSpace(pgErr.ConstraintName)
	if i := strings.LastIndex(c, "_"); i >= 0 {
		c = c[i+1:]
	}
	if c == "" || c == "key" || c == "pkey" {
		return err
	}
	return WithField(err, c)
}
