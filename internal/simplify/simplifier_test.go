package simplify

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lexplain/lexplain/internal/cache"
	"github.com/lexplain/lexplain/internal/model"
	"github.com/lexplain/lexplain/internal/worker"
)

// fakeRewriter is a scriptable Rewriter for tests
type fakeRewriter struct {
	text  string
	err   error
	delay time.Duration
	calls atomic.Int64
}

func (f *fakeRewriter) Name() string { return "fake" }

func (f *fakeRewriter) Rewrite(ctx context.Context, req RewriteRequest) (*RewriteResult, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &RewriteResult{Text: f.text, Model: "fake-model"}, nil
}

func TestSimplifier_RemoteSuccess(t *testing.T) {
	rw := &fakeRewriter{text: "You must pay $100 in 30 days."}
	s := NewSimplifier(Options{Rewriter: rw})

	got := s.Simplify(context.Background(), "The Buyer shall remit $100 within 30 days.", "simple", "en")

	if got.Source != model.SimplifiedByService {
		t.Errorf("Source = %q, want %q", got.Source, model.SimplifiedByService)
	}
	if got.Text != "You must pay $100 in 30 days." {
		t.Errorf("Text = %q", got.Text)
	}
	if got.ReductionPct < 0 {
		t.Errorf("ReductionPct negative: %v", got.ReductionPct)
	}
	if got.OriginalWords != 8 {
		t.Errorf("OriginalWords = %d, want 8", got.OriginalWords)
	}
}

func TestSimplifier_FallbackOnError(t *testing.T) {
	rw := &fakeRewriter{err: errors.New("service unavailable")}
	s := NewSimplifier(Options{Rewriter: rw})

	got := s.Simplify(context.Background(), "The Buyer shall pay.", "simple", "en")

	if got.Source != model.SimplifiedByFallback {
		t.Errorf("Source = %q, want %q", got.Source, model.SimplifiedByFallback)
	}
	if got.Text != "The Buyer must pay." {
		t.Errorf("Text = %q, want fallback rewrite", got.Text)
	}
}

func TestSimplifier_FallbackOnEmptyResponse(t *testing.T) {
	rw := &fakeRewriter{text: "   "}
	s := NewSimplifier(Options{Rewriter: rw})

	got := s.Simplify(context.Background(), "The Buyer shall pay.", "simple", "en")

	if got.Source != model.SimplifiedByFallback {
		t.Errorf("Source = %q, want fallback on blank rewrite", got.Source)
	}
}

func TestSimplifier_FallbackOnTimeout(t *testing.T) {
	rw := &fakeRewriter{text: "never delivered", delay: 200 * time.Millisecond}
	s := NewSimplifier(Options{Rewriter: rw})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	got := s.Simplify(ctx, "The Buyer shall pay.", "simple", "en")

	if got.Source != model.SimplifiedByFallback {
		t.Errorf("Source = %q, want fallback on timeout", got.Source)
	}
	if got.Text == "" {
		t.Error("fallback produced empty text")
	}
}

func TestSimplifier_NoRewriterUsesFallback(t *testing.T) {
	s := NewSimplifier(Options{})

	if s.Remote() {
		t.Error("Remote() = true with no rewriter")
	}

	got := s.Simplify(context.Background(), "The Seller shall deliver forthwith.", "simple", "en")
	if got.Source != model.SimplifiedByFallback {
		t.Errorf("Source = %q, want fallback", got.Source)
	}
	if got.Text != "The Seller must deliver immediately." {
		t.Errorf("Text = %q", got.Text)
	}
}

func TestSimplifier_CacheHitSkipsRewriter(t *testing.T) {
	rw := &fakeRewriter{text: "Pay quickly."}
	s := NewSimplifier(Options{
		Rewriter: rw,
		Cache:    cache.NewMemoryCache(time.Minute, time.Minute),
		CacheTTL: time.Minute,
	})

	text := "The Buyer shall remit payment forthwith."
	first := s.Simplify(context.Background(), text, "simple", "en")
	second := s.Simplify(context.Background(), text, "simple", "en")

	if rw.calls.Load() != 1 {
		t.Errorf("rewriter called %d times, want 1", rw.calls.Load())
	}
	// The hit restores the full simplification, stats included
	if first != second {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestSimplifier_CacheKeyedByLevelAndLanguage(t *testing.T) {
	rw := &fakeRewriter{text: "Pay quickly."}
	s := NewSimplifier(Options{
		Rewriter: rw,
		Cache:    cache.NewMemoryCache(time.Minute, time.Minute),
	})

	text := "The Buyer shall remit payment."
	s.Simplify(context.Background(), text, "simple", "en")
	s.Simplify(context.Background(), text, "moderate", "en")

	if rw.calls.Load() != 2 {
		t.Errorf("rewriter called %d times, want 2 (distinct levels)", rw.calls.Load())
	}
}

func TestSimplifier_GateCancelledContextFallsBack(t *testing.T) {
	rw := &fakeRewriter{text: "rewritten"}
	s := NewSimplifier(Options{
		Rewriter: rw,
		Gate:     worker.NewGate(1, 1, 1),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := s.Simplify(ctx, "The Buyer shall pay.", "simple", "en")
	if got.Source != model.SimplifiedByFallback {
		t.Errorf("Source = %q, want fallback when admission fails", got.Source)
	}
}

func TestMeasure_ReductionNeverNegative(t *testing.T) {
	got := measure("short", "a much longer rewrite than the original", model.SimplifiedByService)
	if got.ReductionPct != 0 {
		t.Errorf("ReductionPct = %v, want 0 for a growing rewrite", got.ReductionPct)
	}
}

func TestMeasure_Reduction(t *testing.T) {
	// 20 chars down to 10 chars: 50.0%
	got := measure("aaaaaaaaaaaaaaaaaaaa", "aaaaaaaaaa", model.SimplifiedByFallback)
	if got.ReductionPct != 50.0 {
		t.Errorf("ReductionPct = %v, want 50.0", got.ReductionPct)
	}
}

func TestBuildPrompt_Defaults(t *testing.T) {
	prompt := BuildPrompt(RewriteRequest{Text: "The Buyer shall pay."})
	for _, want := range []string{"simple", "en", "The Buyer shall pay."} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestNewRewriter_UnknownProvider(t *testing.T) {
	if _, err := NewRewriter(Config{Provider: "clippy"}); err == nil {
		t.Fatal("Expected error for unknown provider")
	}
}

func TestNewRewriter_EmptyProviderDisabled(t *testing.T) {
	rw, err := NewRewriter(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rw != nil {
		t.Error("empty provider should return nil rewriter")
	}
}
