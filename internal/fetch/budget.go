// Package fetch provides the shared request budget and the
// retry/backoff policy used by every outbound platform call.
package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
)

// Budget bounds concurrent in-flight requests and enforces a
// requests-per-window ceiling. It is the only piece of shared mutable
// state in the pipeline and is safe for concurrent use.
type Budget struct {
	slots     *semaphore.Weighted
	perWindow int
	window    time.Duration

	mu      sync.Mutex
	used    int
	resetAt time.Time
}

// NewBudget constructs a Budget. Non-positive limits are a
// configuration error.
func NewBudget(maxInFlight, perWindow int, window time.Duration) (*Budget, error) {
	if maxInFlight <= 0 {
		return nil, fmt.Errorf("%w: max in-flight must be positive, got %d", entities.ErrConfiguration, maxInFlight)
	}
	if perWindow <= 0 {
		return nil, fmt.Errorf("%w: requests per window must be positive, got %d", entities.ErrConfiguration, perWindow)
	}
	if window <= 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %s", entities.ErrConfiguration, window)
	}
	return &Budget{
		slots:     semaphore.NewWeighted(int64(maxInFlight)),
		perWindow: perWindow,
		window:    window,
	}, nil
}

// Acquire blocks until both a concurrency slot and a rate-window token
// are available, or ctx is done. On success the caller owns one slot
// and must call Release.
func (b *Budget) Acquire(ctx context.Context) error {
	if err := b.slots.Acquire(ctx, 1); err != nil {
		return err
	}
	if err := b.waitToken(ctx); err != nil {
		b.slots.Release(1)
		return err
	}
	return nil
}

// Release returns the concurrency slot. Window tokens are not returned;
// their accounting resets at the window boundary.
func (b *Budget) Release() {
	b.slots.Release(1)
}

func (b *Budget) waitToken(ctx context.Context) error {
	for {
		b.mu.Lock()
		now := time.Now()
		if !now.Before(b.resetAt) {
			b.used = 0
			b.resetAt = now.Add(b.window)
		}
		if b.used < b.perWindow {
			b.used++
			b.mu.Unlock()
			return nil
		}
		wait := b.resetAt.Sub(now)
		b.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
