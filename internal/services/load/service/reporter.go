package service

import (
	"context"
	"fmt"
	"io"
	"os"

	"chemload/internal/platform/logger"
	"chemload/internal/services/load/domain"
)

// WriterReporter prints each message on its own line
type WriterReporter struct{ W io.Writer }

// Notify implements domain.Reporter
func (r WriterReporter) Notify(msg string) { _, _ = fmt.Fprintln(r.W, msg) }

// StdoutReporter is the reporter used when none is configured
func StdoutReporter() domain.Reporter { return WriterReporter{W: os.Stdout} }

// LogReporter sends progress through zerolog at info level
type LogReporter struct{ Log *logger.Logger }

// Notify implements domain.Reporter
func (r LogReporter) Notify(msg string) {
	l := r.Log
	if l == nil {
		l = logger.Named("progress")
	}
	l.Info().Msg(msg)
}

// NopReporter drops every message
type NopReporter struct{}

// Notify implements domain.Reporter
func (NopReporter) Notify(string) {}

// notify shields the pipeline from a panicking reporter
func (l *Loader) notify(ctx context.Context, msg string) {
	if l.Reporter == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.C(ctx).Warn().Interface("panic", r).Str("msg", msg).Msg("progress reporter panicked")
		}
	}()
	l.Reporter.Notify(msg)
}
