package repokit

import (
	"context"
	"time"

	perr "chemload/internal/platform/errors"
)

// DefaultPingTimeout bounds Ping when ctx has no deadline
const DefaultPingTimeout = 5 * time.Second

// Pinger is anything that can report readiness
type Pinger interface {
	Ping(context.Context) error
}

// Ping checks a dependency answers within DefaultPingTimeout (or ctx's own deadline)
func Ping(ctx context.Context, name string, p Pinger) error {
	if p == nil {
		return perr.Newf(perr.ErrorCodeUnavailable, "%s: nil dependency", name)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultPingTimeout)
		defer cancel()
	}
	if err := p.Ping(ctx); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s ping failed", name)
	}
	return nil
}
