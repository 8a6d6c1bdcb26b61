package worker

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Gate is the admission control in front of the rewriting service: a
// semaphore bounds the number of in-flight calls and a rate limiter spaces
// them out. Callers queueing beyond the bound simply wait; there is no drop
// policy.
type Gate struct {
	limiter *rate.Limiter
	sem     *semaphore.Weighted
}

// NewGate creates a gate allowing requestsPerSecond with the given burst and
// at most maxInFlight concurrent calls
func NewGate(requestsPerSecond float64, burst int, maxInFlight int64) *Gate {
	if burst <= 0 {
		burst = 1
	}
	if maxInFlight <= 0 {
		maxInFlight = 1
	}

	return &Gate{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		sem:     semaphore.NewWeighted(maxInFlight),
	}
}

// Acquire blocks until a slot and a rate token are available, or the context
// is done. Every successful Acquire must be paired with Release.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	if err := g.limiter.Wait(ctx); err != nil {
		g.sem.Release(1)
		return err
	}
	return nil
}

// Release frees a slot acquired with Acquire
func (g *Gate) Release() {
	g.sem.Release(1)
}

// TryAcquire reports whether a slot and a rate token were immediately
// available, acquiring them if so
func (g *Gate) TryAcquire() bool {
	if !g.sem.TryAcquire(1) {
		return false
	}
	if !g.limiter.Allow() {
		g.sem.Release(1)
		return false
	}
	return true
}
