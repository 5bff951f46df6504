package errors

// Cross-driver helpers for the non-Postgres backends the loader can target

import (
	stderrs "errors"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/go-sql-driver/mysql"
	mssql "github.com/microsoft/go-mssqldb"
)

const (
	mssqlCannotDropMissing = 3701
	mssqlInvalidObjectName = 208
	mssqlUniqueIndex       = 2601
	mssqlPrimaryKey        = 2627

	mysqlBadTable  = 1051
	mysqlNoSuchTab = 1146
	mysqlDupEntry  = 1062

	chUnknownTable = 60
)

// IsUndefinedTable reports whether err means the table does not exist,
// for any of the supported drivers
func IsUndefinedTable(err error) bool {
	if err == nil {
		return false
	}
	if IsPgUndefinedTable(err) {
		return true
	}

	var msErr mssql.Error
	if stderrs.As(err, &msErr) {
		return msErr.Number == mssqlCannotDropMissing || msErr.Number == mssqlInvalidObjectName
	}

	var myErr *mysql.MySQLError
	if stderrs.As(err, &myErr) {
		return myErr.Number == mysqlBadTable || myErr.Number == mysqlNoSuchTab
	}

	var chErr *clickhouse.Exception
	if stderrs.As(err, &chErr) {
		return chErr.Code == chUnknownTable
	}

	// sqlite reports SQLITE_ERROR for everything; the message is the only signal
	return strings.Contains(strings.ToLower(Root(err).Error()), "no such table")
}

// IsDuplicateKey reports whether err is a primary key or unique violation.
// ClickHouse enforces neither, so it never reports one
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if IsPgDuplicateKey(err) {
		return true
	}

	var msErr mssql.Error
	if stderrs.As(err, &msErr) {
		return msErr.Number == mssqlUniqueIndex || msErr.Number == mssqlPrimaryKey
	}

	var myErr *mysql.MySQLError
	if stderrs.As(err, &myErr) {
		return myErr.Number == mysqlDupEntry
	}

	return strings.Contains(Root(err).Error(), "UNIQUE constraint failed")
}
