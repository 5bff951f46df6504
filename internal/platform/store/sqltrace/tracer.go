// Package sqltrace logs SQL statements issued through the store adapters
package sqltrace

import (
	"context"

	"chemload/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one executed statement
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives an event for every statement an adapter runs
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer returns a tracer that ALWAYS prints SQL when LogSQL=true,
// independent of the process-wide root level
// component is the driver name and ends up as the component field
func Tracer(root logger.Logger, component string) QueryTracer {
	if component == "" {
		component = "sql"
	}
	ll := root.Level(zerolog.DebugLevel).With().Str("component", component).Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	elapsedMs := float64(ev.ElapsedUS) / 1000.0
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}

	evt.Float64("elapsed_ms", elapsedMs).
		Bool("slow", ev.Slow).
		Str("sql", Compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("sql query")
}

// IsSlow reports whether elapsedUS crossed the slowMs threshold; negative disables
func IsSlow(elapsedUS int64, slowMs int) bool {
	return slowMs >= 0 && elapsedUS >= int64(slowMs)*1000
}

// Compact folds runs of whitespace into one space so statements log on one line
func Compact(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		if r == '\n' || r == '\t' || r == '\r' || r == ' ' {
			if !space {
				out = append(out, ' ')
				space = true
			}
			continue
		}
		space = false
		out = append(out, r)
	}
	return string(out)
}
