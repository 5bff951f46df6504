// Package module provides the load module implementation
package module

import (
	"chemload/internal/adapters/ingest/compound"
	"chemload/internal/modkit"
	"chemload/internal/modkit/repokit"
	perr "chemload/internal/platform/errors"
	"chemload/internal/platform/logger"
	"chemload/internal/services/load/dialect"
	"chemload/internal/services/load/domain"
	"chemload/internal/services/load/ingest"
	"chemload/internal/services/load/repo"
	"chemload/internal/services/load/schema"
	"chemload/internal/services/load/service"
)

// Ports defines the load module ports
type Ports struct {
	Loader domain.LoaderPort
}

// Module implements the load module
type Module struct {
	name  string
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New constructs the load module using config from deps.Cfg
func New(deps modkit.Deps, mods ...modkit.Option) (*Module, error) {
	return NewWithOptions(deps, FromConfig(deps.Cfg), mods...)
}

// NewWithOptions wires the adapters and the service from explicit options
// deps.DB may be nil, in which case only Check works
// modkit.WithPorts(domain.Ports{...}) overrides the configured reporter
func NewWithOptions(deps modkit.Deps, opts Options, mods ...modkit.Option) (*Module, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	b := modkit.Build("load", mods...)

	rep := reporterFor(opts.Progress)
	if in, ok := b.Ports.(domain.Ports); ok && in.Reporter != nil {
		rep = in.Reporter
	}

	layout := compound.Layout(opts.Layout)
	reader := ingest.NewReaderFactory(opts.ReaderOptions())
	cfg := service.Config{ProgressEvery: opts.ProgressEvery}

	var (
		sch    domain.SchemaPort
		binder repokit.Binder[domain.CompoundRepo]
	)
	if deps.HasDB() {
		d, err := dialect.For(deps.Driver)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "load module")
		}
		sch = schema.New(d, domain.TableDef{
			NumericID:       layout.NumericID(),
			IDLength:        opts.IDLength,
			StructureLength: opts.StructureLength,
		}, opts.AtomicDDL)
		binder = repo.NewSQL(d, layout)
		cfg.TxSetup = d.TxSetup(opts.AsyncCommit)
	}

	svc := service.New(deps.DB, sch, binder, reader, rep, cfg)

	m := &Module{name: b.Name, deps: deps, opts: opts}
	m.ports = Ports{Loader: svc}
	return m, nil
}

func reporterFor(kind string) domain.Reporter {
	switch kind {
	case "log":
		return service.LogReporter{Log: logger.Named("progress")}
	case "none":
		return service.NopReporter{}
	default:
		return service.StdoutReporter()
	}
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Options returns the options the module was built with
func (m *Module) Options() Options { return m.opts }
