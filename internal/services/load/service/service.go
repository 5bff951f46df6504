// Package service provides the compound load pipeline
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"chemload/internal/adapters/ingest/compound"
	"chemload/internal/modkit/repokit"
	perr "chemload/internal/platform/errors"
	"chemload/internal/platform/logger"
	"chemload/internal/services/load/domain"

	"github.com/google/uuid"
)

// DefaultProgressEvery is the notification cadence in records
const DefaultProgressEvery = 1000

// Config holds configuration options for the loader
type Config struct {
	ProgressEvery int // <=0 -> DefaultProgressEvery

	// TxSetup statements run first inside the load transaction
	TxSetup []string
}

// Loader implements domain.LoaderPort
type Loader struct {
	DB       repokit.TxRunner
	Schema   domain.SchemaPort
	Binder   repokit.Binder[domain.CompoundRepo] // binds q -> domain.CompoundRepo
	Reader   domain.ReaderFactory
	Reporter domain.Reporter
	Cfg      Config

	// OnState observes every state transition
	OnState func(from, to State)

	newID func() string
	now   func() time.Time
}

var _ domain.LoaderPort = (*Loader)(nil)

// New constructs a Loader; a nil reporter prints to stdout
func New(
	db repokit.TxRunner,
	schema domain.SchemaPort,
	binder repokit.Binder[domain.CompoundRepo],
	reader domain.ReaderFactory,
	reporter domain.Reporter,
	cfg Config,
) *Loader {
	if reporter == nil {
		reporter = StdoutReporter()
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = DefaultProgressEvery
	}
	return &Loader{
		DB:       db,
		Schema:   schema,
		Binder:   binder,
		Reader:   reader,
		Reporter: reporter,
		Cfg:      cfg,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// run tracks one call through the state machine
type run struct {
	l     *Loader
	ctx   context.Context
	state State
}

func (r *run) to(next State) {
	prev := r.state
	r.state = next
	ev := logger.C(r.ctx).Debug()
	if next.Terminal() {
		ev = logger.C(r.ctx).Info()
	}
	ev.Str("from", prev.String()).Str("to", next.String()).Msg("load state")
	if r.l.OnState != nil {
		r.l.OnState(prev, next)
	}
}

func (r *run) abort(le *LoadError) *LoadError {
	r.to(Aborted)
	logger.C(r.ctx).Error().Err(le.Err).
		Str("phase", string(le.Phase)).
		Int("line", le.Line).
		Int("loaded", le.Loaded).
		Msg("load aborted")
	return le
}

// Load recreates table and fills it from src inside one transaction
func (l *Loader) Load(ctx context.Context, table string, src domain.Source) (domain.Result, error) {
	name, err := domain.NormalizeTable(table)
	if err != nil {
		return domain.Result{}, err
	}
	if l.DB == nil {
		return domain.Result{}, perr.InvalidArgf("load %s: no database configured", name)
	}

	loadID := l.id()
	ctx = logger.WithLoad(ctx, loadID, name)
	start := l.clock()
	r := &run{l: l, ctx: ctx, state: Idle}
	logger.C(ctx).Info().Str("source", src.Name()).Msg("load starting")

	if err := l.Schema.EnsureTable(ctx, l.DB, name); err != nil {
		return domain.Result{}, r.abort(newLoadError(PhaseSchema, name, 0, 0, err))
	}
	r.to(SchemaReady)

	rd, err := l.Reader.Open(src)
	if err != nil {
		return domain.Result{}, r.abort(newLoadError(PhaseOpen, name, 0, 0, err))
	}
	defer func() {
		if err := rd.Close(); err != nil {
			logger.C(ctx).Debug().Err(err).Msg("reader close")
		}
	}()
	r.to(Streaming)

	var loaded, line int
	var done bool
	phase := PhaseInsert // begin and tx setup failures land here
	txErr := l.tx().Tx(ctx, func(q repokit.Queryer) error {
		repo, err := repokit.Bind(l.Binder, q)
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()

		if err := repo.Prepare(ctx, name); err != nil {
			return err
		}
		for {
			if err := ctx.Err(); err != nil {
				phase = PhaseCanceled
				return err
			}
			rec, err := rd.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				phase, line = readPhase(err)
				return err
			}
			if err := repo.Insert(ctx, rec); err != nil {
				line = rec.Line
				return err
			}
			loaded++
			if loaded%l.every() == 0 {
				l.notify(ctx, fmt.Sprintf("loaded %d compounds", loaded))
			}
		}
		done = true
		return nil
	})
	if txErr != nil {
		if done {
			phase = PhaseCommit
		}
		return domain.Result{}, r.abort(newLoadError(phase, name, line, loaded, txErr))
	}
	r.to(Committed)

	res := l.result(loadID, name, loaded, rd.Stats(), start)
	l.notify(ctx, fmt.Sprintf("Finished: loaded %d compounds", loaded))
	logger.C(ctx).Info().
		Int("records", res.RecordsLoaded).
		Int("lines", res.Lines).
		Int64("bytes", res.Bytes).
		Str("digest", fmt.Sprintf("%016x", res.Digest)).
		Dur("elapsed", res.Elapsed).
		Msg("load committed")
	return res, nil
}

// Check parses src end to end without touching a database
func (l *Loader) Check(ctx context.Context, src domain.Source) (domain.Result, error) {
	loadID := l.id()
	ctx = logger.WithLoad(ctx, loadID, "")
	start := l.clock()

	rd, err := l.Reader.Open(src)
	if err != nil {
		return domain.Result{}, newLoadError(PhaseOpen, "", 0, 0, err)
	}
	defer func() { _ = rd.Close() }()

	parsed := 0
	for {
		if err := ctx.Err(); err != nil {
			return domain.Result{}, newLoadError(PhaseCanceled, "", 0, parsed, err)
		}
		_, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			phase, line := readPhase(err)
			return domain.Result{}, newLoadError(phase, "", line, parsed, err)
		}
		parsed++
		if parsed%l.every() == 0 {
			l.notify(ctx, fmt.Sprintf("parsed %d compounds", parsed))
		}
	}

	l.notify(ctx, fmt.Sprintf("Finished: parsed %d compounds", parsed))
	res := l.result(loadID, "", parsed, rd.Stats(), start)
	logger.C(ctx).Info().
		Int("records", res.RecordsLoaded).
		Str("digest", fmt.Sprintf("%016x", res.Digest)).
		Msg("check complete")
	return res, nil
}

func (l *Loader) every() int {
	if l.Cfg.ProgressEvery <= 0 {
		return DefaultProgressEvery
	}
	return l.Cfg.ProgressEvery
}

func (l *Loader) id() string {
	if l.newID == nil {
		return uuid.NewString()
	}
	return l.newID()
}

func (l *Loader) clock() time.Time {
	if l.now == nil {
		return time.Now()
	}
	return l.now()
}

func (l *Loader) tx() repokit.TxRunner {
	if len(l.Cfg.TxSetup) == 0 {
		return l.DB
	}
	hooks := make([]repokit.BeginHook, 0, len(l.Cfg.TxSetup))
	for _, stmt := range l.Cfg.TxSetup {
		hooks = append(hooks, repokit.ExecHook(stmt))
	}
	return repokit.WithBeginHooks(l.DB, hooks...)
}

func (l *Loader) result(id, table string, n int, st domain.ReadStats, start time.Time) domain.Result {
	return domain.Result{
		LoadID:        id,
		Table:         table,
		RecordsLoaded: n,
		Lines:         st.Lines,
		Bytes:         st.Bytes,
		Digest:        st.Digest,
		Elapsed:       l.clock().Sub(start),
	}
}

// readPhase tells a malformed line apart from a failing stream
func readPhase(err error) (Phase, int) {
	var pe *compound.ParseError
	if errors.As(err, &pe) {
		return PhaseParse, pe.Line
	}
	return PhaseRead, 0
}
