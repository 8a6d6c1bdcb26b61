package worker

import (
	"context"
	"testing"
	"time"
)

func TestGate_AcquireRelease(t *testing.T) {
	g := NewGate(100, 10, 2)

	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}

	// Third acquire must block until a release
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := g.Acquire(ctx); err == nil {
		t.Fatal("third Acquire succeeded past the in-flight bound")
	}

	g.Release()
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire after Release failed: %v", err)
	}
	g.Release()
	g.Release()
}

func TestGate_TryAcquire(t *testing.T) {
	g := NewGate(100, 10, 1)

	if !g.TryAcquire() {
		t.Fatal("TryAcquire failed on an empty gate")
	}
	if g.TryAcquire() {
		t.Fatal("TryAcquire succeeded past the in-flight bound")
	}

	g.Release()
	if !g.TryAcquire() {
		t.Fatal("TryAcquire failed after Release")
	}
	g.Release()
}

func TestGate_CancelledContext(t *testing.T) {
	g := NewGate(100, 10, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.Acquire(ctx); err == nil {
		t.Fatal("Acquire succeeded with cancelled context")
	}

	// The failed acquire must not leak the slot
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("slot leaked by failed Acquire: %v", err)
	}
	g.Release()
}

func TestGate_RateLimiting(t *testing.T) {
	// 1 rps, burst 1: the second acquire must wait roughly a second, so a
	// short deadline makes it fail.
	g := NewGate(1, 1, 10)

	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := g.Acquire(ctx); err == nil {
		t.Fatal("second Acquire ignored the rate limit")
	}
}

func TestGate_ZeroBoundsClamped(t *testing.T) {
	g := NewGate(100, 0, 0)
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed on clamped gate: %v", err)
	}
	g.Release()
}
