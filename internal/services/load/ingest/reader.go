// Package ingest adapts the compound reader to the load domain
package ingest

import (
	"chemload/internal/adapters/ingest/compound"
	"chemload/internal/services/load/domain"
)

// readerFactory adapts compound.Open to domain.ReaderFactory
type readerFactory struct{ opts compound.Options }

// NewReaderFactory returns a factory that opens every source with opts
func NewReaderFactory(opts compound.Options) domain.ReaderFactory { return readerFactory{opts: opts} }

func (f readerFactory) Open(src domain.Source) (domain.ReaderPort, error) {
	r, err := compound.Open(src, f.opts)
	if err != nil {
		return nil, err
	}
	// domain types alias the compound ones, so *compound.Reader fits as is
	return r, nil
}
