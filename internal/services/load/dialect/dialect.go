// Package dialect renders the handful of statements the loader issues for each backend
package dialect

import (
	"fmt"
	"strconv"

	"chemload/internal/platform/store"
	"chemload/internal/services/load/domain"
)

// Dialect is the per-driver SQL surface
// table names reaching it are already normalized identifiers
type Dialect struct {
	name          string
	existsSQL     string
	placeholder   func(n int) string
	text          func(n int) string
	bigint        string
	tableSuffix   string
	transactional bool
	bareInsert    bool // batch insert without a VALUES clause
	asyncCommit   string
}

var dialects = map[string]Dialect{
	store.DriverPostgres: {
		name:          store.DriverPostgres,
		existsSQL:     `SELECT count(*) FROM information_schema.tables WHERE table_schema = current_schema() AND upper(table_name) = $1`,
		placeholder:   func(n int) string { return "$" + strconv.Itoa(n) },
		text:          varchar("VARCHAR"),
		bigint:        "BIGINT",
		transactional: true,
		asyncCommit:   "SET LOCAL synchronous_commit TO OFF",
	},
	store.DriverSQLite: {
		name:          store.DriverSQLite,
		existsSQL:     `SELECT count(*) FROM sqlite_master WHERE type = 'table' AND upper(name) = ?`,
		placeholder:   question,
		text:          varchar("VARCHAR"),
		bigint:        "INTEGER",
		transactional: true,
	},
	store.DriverSQLServer: {
		name:          store.DriverSQLServer,
		existsSQL:     `SELECT count(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE = 'BASE TABLE' AND upper(TABLE_NAME) = @p1`,
		placeholder:   func(n int) string { return "@p" + strconv.Itoa(n) },
		text:          varchar("NVARCHAR"),
		bigint:        "BIGINT",
		transactional: true,
	},
	store.DriverMySQL: {
		name:        store.DriverMySQL,
		existsSQL:   `SELECT count(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND upper(table_name) = ?`,
		placeholder: question,
		text:        varchar("VARCHAR"),
		bigint:      "BIGINT",
	},
	store.DriverClickHouse: {
		name:        store.DriverClickHouse,
		existsSQL:   `SELECT toInt64(count()) FROM system.tables WHERE database = currentDatabase() AND upper(name) = ?`,
		placeholder: question,
		text:        func(int) string { return "String" },
		bigint:      "Int64",
		tableSuffix: " ENGINE = MergeTree ORDER BY id",
		bareInsert:  true,
	},
}

func question(int) string { return "?" }

func varchar(kw string) func(int) string {
	return func(n int) string { return fmt.Sprintf("%s(%d)", kw, n) }
}

// For returns the dialect for a driver name or alias
func For(driver string) (Dialect, error) {
	d, err := store.NormalizeDriver(driver)
	if err != nil {
		return Dialect{}, err
	}
	return dialects[d], nil
}

// Name is the normalized driver name
func (d Dialect) Name() string { return d.name }

// TransactionalDDL reports whether DROP and CREATE roll back with the tx
func (d Dialect) TransactionalDDL() bool { return d.transactional }

// ExistsSQL counts tables matching one upper-cased name parameter
func (d Dialect) ExistsSQL() string { return d.existsSQL }

// DropSQL drops table
func (d Dialect) DropSQL(table string, ifExists bool) string {
	if ifExists {
		return "DROP TABLE IF EXISTS " + table
	}
	return "DROP TABLE " + table
}

// CreateSQL creates the two-column table described by def
func (d Dialect) CreateSQL(def domain.TableDef) string {
	def = def.WithDefaults()
	idType := d.text(def.IDLength)
	if def.NumericID {
		idType = d.bigint
	}
	if d.tableSuffix != "" {
		return fmt.Sprintf("CREATE TABLE %s (id %s, structure %s)%s",
			def.Name, idType, d.text(def.StructureLength), d.tableSuffix)
	}
	return fmt.Sprintf("CREATE TABLE %s (id %s NOT NULL PRIMARY KEY, structure %s NOT NULL)",
		def.Name, idType, d.text(def.StructureLength))
}

// InsertSQL is the parameterized single-row insert
func (d Dialect) InsertSQL(table string) string {
	if d.bareInsert {
		return "INSERT INTO " + table + " (id, structure)"
	}
	return fmt.Sprintf("INSERT INTO %s (id, structure) VALUES (%s, %s)", table, d.placeholder(1), d.placeholder(2))
}

// TxSetup lists statements to run first in the load tx
// only postgres has a tx scoped async commit switch
func (d Dialect) TxSetup(asyncCommit bool) []string {
	if !asyncCommit || d.asyncCommit == "" {
		return nil
	}
	return []string{d.asyncCommit}
}
