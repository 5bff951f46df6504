// Package domain holds the load pipeline types and ports
package domain

import (
	"regexp"
	"strings"
	"time"

	"chemload/internal/adapters/ingest/compound"
	perr "chemload/internal/platform/errors"
)

type (
	// Record is one parsed source line
	Record = compound.Record
	// Source is a byte stream the pipeline reads once
	Source = compound.Source
	// ReadStats are the reader counters
	ReadStats = compound.Stats
	// Layout selects which side of a line holds the identifier
	Layout = compound.Layout
)

// Result describes a successful load (or check)
type Result struct {
	LoadID        string
	Table         string
	RecordsLoaded int
	Lines         int
	Bytes         int64
	Digest        uint64
	Elapsed       time.Duration
}

// TableDef is the two-column destination layout
type TableDef struct {
	Name            string
	NumericID       bool // BIGINT id instead of VARCHAR
	IDLength        int
	StructureLength int
}

// Default column bounds
const (
	DefaultIDLength        = 64
	DefaultStructureLength = 1000
	maxTableName           = 63
)

// WithDefaults fills zero lengths
func (d TableDef) WithDefaults() TableDef {
	if d.IDLength <= 0 {
		d.IDLength = DefaultIDLength
	}
	if d.StructureLength <= 0 {
		d.StructureLength = DefaultStructureLength
	}
	return d
}

var tableNameRe = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

// NormalizeTable trims and upper-cases name and checks it is a plain SQL identifier
// names are interpolated into DDL unquoted, so anything else is rejected
func NormalizeTable(name string) (string, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		return "", perr.InvalidArgf("table name is required")
	}
	if len(n) > maxTableName {
		return "", perr.InvalidArgf("table name %q longer than %d characters", n, maxTableName)
	}
	if !tableNameRe.MatchString(n) {
		return "", perr.InvalidArgf("table name %q is not a plain identifier", name)
	}
	return n, nil
}
