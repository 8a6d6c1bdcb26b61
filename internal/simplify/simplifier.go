package simplify

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/lexplain/lexplain/internal/cache"
	"github.com/lexplain/lexplain/internal/model"
	"github.com/lexplain/lexplain/internal/worker"
)

// Simplifier rewrites clause text in plain language. The primary path
// delegates to the configured Rewriter under admission control and a bounded
// timeout; the local fallback covers every failure, so Simplify itself never
// fails and never blocks indefinitely.
type Simplifier struct {
	rewriter Rewriter // nil disables the remote path
	fallback *Fallback
	gate     *worker.Gate
	store    cache.Cache // nil disables caching
	cacheTTL time.Duration
}

// Options configures a Simplifier
type Options struct {
	Rewriter Rewriter
	Gate     *worker.Gate
	Cache    cache.Cache
	CacheTTL time.Duration
}

// NewSimplifier creates a simplifier. Zero-value options yield a purely
// local, deterministic simplifier.
func NewSimplifier(opts Options) *Simplifier {
	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	return &Simplifier{
		rewriter: opts.Rewriter,
		fallback: NewFallback(),
		gate:     opts.Gate,
		store:    opts.Cache,
		cacheTTL: ttl,
	}
}

// Remote reports whether a rewriting service is configured
func (s *Simplifier) Remote() bool {
	return s.rewriter != nil
}

// Simplify rewrites one clause. On any rewriter failure the local fallback
// is used; worst case the original text comes back with reduction 0.
func (s *Simplifier) Simplify(ctx context.Context, text, targetLevel, language string) model.Simplification {
	key := cache.Key(text, targetLevel, language)
	if s.store != nil {
		if cached, found := s.store.Get(key); found {
			return cached
		}
	}

	simplified, source := s.rewrite(ctx, text, targetLevel, language)
	result := measure(text, simplified, source)

	if s.store != nil {
		_ = s.store.Set(key, result, s.cacheTTL)
	}

	return result
}

// rewrite runs the remote path when available and falls back locally
func (s *Simplifier) rewrite(ctx context.Context, text, targetLevel, language string) (string, string) {
	if s.rewriter == nil {
		return s.fallback.Simplify(text), model.SimplifiedByFallback
	}

	if s.gate != nil {
		if err := s.gate.Acquire(ctx); err != nil {
			return s.fallback.Simplify(text), model.SimplifiedByFallback
		}
		defer s.gate.Release()
	}

	resp, err := s.rewriter.Rewrite(ctx, RewriteRequest{
		Text:        text,
		TargetLevel: targetLevel,
		Language:    language,
	})
	if err != nil || resp == nil || strings.TrimSpace(resp.Text) == "" {
		return s.fallback.Simplify(text), model.SimplifiedByFallback
	}

	return strings.TrimSpace(resp.Text), model.SimplifiedByService
}

// measure computes the simplification stats. The reduction ratio is
// 1 - len(simplified)/len(original) as a percentage, clamped to >= 0 — a
// rewrite that grows the text reports 0, never a negative ratio.
func measure(original, simplified, source string) model.Simplification {
	reduction := 0.0
	if len(original) > 0 {
		reduction = (1 - float64(len(simplified))/float64(len(original))) * 100
	}
	if reduction < 0 {
		reduction = 0
	}
	reduction = math.Round(reduction*10) / 10

	return model.Simplification{
		Text:            simplified,
		Source:          source,
		ReductionPct:    reduction,
		OriginalWords:   len(strings.Fields(original)),
		SimplifiedWords: len(strings.Fields(simplified)),
	}
}
