// Package pacer inserts fixed delays between external calls so the backfill
// stays under the tracker, embedding and vector store quotas.
package pacer

import (
	"context"
	"time"
)

// Pacer waits for a duration before the next external call
type Pacer interface {
	Wait(ctx context.Context, d time.Duration) error
}

// Func adapts a plain function to Pacer
type Func func(ctx context.Context, d time.Duration) error

// Wait calls f
func (f Func) Wait(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// Sleeper blocks on the wall clock
type Sleeper struct{}

// Wait sleeps for d or until ctx is done
func (Sleeper) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Noop never waits. Only cancellation is reported.
type Noop struct{}

// Wait returns immediately
func (Noop) Wait(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}
