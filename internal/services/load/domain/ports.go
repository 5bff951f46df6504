package domain

import (
	"context"

	"chemload/internal/modkit/repokit"
)

// LoaderPort is the public port of the load module
type LoaderPort interface {
	Load(ctx context.Context, table string, src Source) (Result, error)
	Check(ctx context.Context, src Source) (Result, error)
}

// SchemaPort guarantees an existing, empty destination table
type SchemaPort interface {
	EnsureTable(ctx context.Context, q repokit.Queryer, name string) error
}

// CompoundRepo writes records into one table inside a tx
type CompoundRepo interface {
	// Prepare readies the insert for table; call once before Insert
	Prepare(ctx context.Context, table string) error
	Insert(ctx context.Context, rec Record) error
	Close() error
}

// ReaderPort is the record reader interface
type ReaderPort interface {
	Next() (Record, error)
	Close() error
	Stats() ReadStats
}

// ReaderFactory opens a ReaderPort over a source
type ReaderFactory interface {
	Open(src Source) (ReaderPort, error)
}

// Reporter receives progress messages
// implementations should not panic; the loader recovers if they do
type Reporter interface {
	Notify(msg string)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(msg string)

// Notify calls f(msg)
func (f ReporterFunc) Notify(msg string) { f(msg) }

// Ports are the collaborators a host may inject into the load module
// zero fields fall back to what the module options select
type Ports struct {
	Reporter Reporter
}
