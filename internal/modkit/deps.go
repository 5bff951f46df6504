// Package modkit provides module wiring and core deps
package modkit

import (
	"chemload/internal/modkit/repokit"
	"chemload/internal/platform/config"
	"chemload/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	// DB is the configured backend; nil for modules that never touch a database
	DB repokit.TxRunner
	// Driver is the normalized driver name of DB
	Driver string
}

// HasDB reports whether a backend is wired; modules without one run read-only paths
func (d Deps) HasDB() bool { return d.DB != nil }
