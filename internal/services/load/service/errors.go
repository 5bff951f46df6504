package service

import (
	"fmt"

	perr "chemload/internal/platform/errors"
)

// Phase names the pipeline step a load failed in
type Phase string

// Phases
const (
	PhaseSchema   Phase = "schema"
	PhaseOpen     Phase = "open"
	PhaseRead     Phase = "read"
	PhaseParse    Phase = "parse"
	PhaseInsert   Phase = "insert"
	PhaseCommit   Phase = "commit"
	PhaseCanceled Phase = "canceled"
)

// Code is the error code a cause without one is filed under
func (p Phase) Code() perr.ErrorCode {
	switch p {
	case PhaseSchema:
		return perr.ErrorCodeSchema
	case PhaseOpen, PhaseRead:
		return perr.ErrorCodeIO
	case PhaseParse:
		return perr.ErrorCodeParse
	case PhaseInsert, PhaseCommit:
		return perr.ErrorCodeInsert
	case PhaseCanceled:
		return perr.ErrorCodeUnavailable
	default:
		return perr.ErrorCodeUnknown
	}
}

// LoadError is the single error a failed Load or Check returns
type LoadError struct {
	Phase  Phase
	Table  string
	Line   int // 0 when the failure is not tied to a line
	Loaded int // records inserted before the failure, all rolled back
	Err    error
}

func newLoadError(phase Phase, table string, line, loaded int, err error) *LoadError {
	if perr.CodeOf(err) == perr.ErrorCodeUnknown {
		err = perr.Wrap(err, phase.Code(), string(phase)+" failed")
	}
	return &LoadError{Phase: phase, Table: table, Line: line, Loaded: loaded, Err: err}
}

// Error implements error
func (e *LoadError) Error() string {
	target := e.Table
	if target == "" {
		target = "source"
	}
	if e.Line > 0 {
		return fmt.Sprintf("load %s: %s at line %d after %d records: %v", target, e.Phase, e.Line, e.Loaded, e.Err)
	}
	return fmt.Sprintf("load %s: %s after %d records: %v", target, e.Phase, e.Loaded, e.Err)
}

// Unwrap exposes the cause to errors.Is and errors.As
func (e *LoadError) Unwrap() error { return e.Err }
