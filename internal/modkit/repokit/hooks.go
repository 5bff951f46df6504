package repokit

import (
	"context"

	perr "chemload/internal/platform/errors"
)

// BeginHook runs at the start of a transaction with the tx bound Queryer
type BeginHook func(ctx context.Context, q Queryer) error

// ExecHook returns a BeginHook that executes one session statement,
// e.g. "SET LOCAL synchronous_commit TO OFF"
func ExecHook(stmt string) BeginHook {
	return func(ctx context.Context, q Queryer) error {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeDB, "tx setup %q", stmt)
		}
		return nil
	}
}

// WithBeginHooks wraps a TxRunner and runs hooks before fn inside the same tx
// with no hooks inner is returned as is
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	if len(hooks) == 0 {
		return inner
	}
	return hookedTx{TxRunner: inner, hooks: hooks}
}

// hookedTx delegates everything but Tx to the embedded runner
type hookedTx struct {
	TxRunner
	hooks []BeginHook
}

// Tx starts a tx on the inner runner then runs all hooks before fn
func (h hookedTx) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, hk := range h.hooks {
			if err := hk(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}
