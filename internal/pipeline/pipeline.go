package pipeline

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/lexplain/lexplain/internal/cache"
	"github.com/lexplain/lexplain/internal/classify"
	"github.com/lexplain/lexplain/internal/extract"
	"github.com/lexplain/lexplain/internal/model"
	"github.com/lexplain/lexplain/internal/risk"
	"github.com/lexplain/lexplain/internal/segment"
	"github.com/lexplain/lexplain/internal/simplify"
	"github.com/lexplain/lexplain/internal/worker"
)

// Analyzer orchestrates the clause pipeline: segment once, then classify,
// extract, score and simplify every clause, and aggregate the document
// result. An Analyzer is immutable after construction and safe for
// concurrent use across documents.
type Analyzer struct {
	cfg        *model.Config
	segmenter  *segment.Segmenter
	classifier *classify.Classifier
	extractor  *extract.Extractor
	scorer     *risk.Scorer
	simplifier *simplify.Simplifier
}

// Request is one document-level analysis request
type Request struct {
	Text        string
	TargetLevel string // Defaults to the configured default level
	Language    string // Defaults to the configured default language
}

// Clauses whose text limits liability count as mitigation for the
// cross-clause high-risk warning.
var mitigationRe = regexp.MustCompile(`(?i)limitation\s+of\s+liability|liability\s+(?:is\s+|shall\s+be\s+)?(?:limited|capped)|liability\s+cap|not\s+exceed`)

// NewAnalyzer creates an analyzer from configuration. A rewriter
// construction failure disables the remote path rather than failing the
// analyzer; the local fallback still covers simplification.
func NewAnalyzer(cfg *model.Config) *Analyzer {
	rewriter, err := simplify.NewRewriter(simplify.Config{
		Provider:  cfg.Rewriter.Provider,
		Model:     cfg.Rewriter.Model,
		APIKey:    cfg.Rewriter.APIKey,
		BaseURL:   cfg.Rewriter.BaseURL,
		Timeout:   cfg.Rewriter.Timeout,
		MaxTokens: cfg.Rewriter.MaxTokens,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: rewriting service disabled: %v\n", err)
		rewriter = nil
	}

	var gate *worker.Gate
	if rewriter != nil {
		gate = worker.NewGate(cfg.Rewriter.RequestsPerSecond, cfg.Rewriter.Burst, cfg.Rewriter.MaxInFlight)
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	return &Analyzer{
		cfg:        cfg,
		segmenter:  segment.NewSegmenter(),
		classifier: classify.Default(),
		extractor:  extract.NewExtractor(),
		scorer:     risk.NewScorer(),
		simplifier: simplify.NewSimplifier(simplify.Options{
			Rewriter: rewriter,
			Gate:     gate,
			Cache:    store,
			CacheTTL: cfg.Cache.TTL,
		}),
	}
}

// Analyze runs the full pipeline for one document. It returns a
// ValidationError for rejected requests, ErrNoClauses on pipeline
// exhaustion, and the context error on cancellation; a cancelled analysis
// is discarded wholesale, never returned partially.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*model.DocumentResult, error) {
	level, language, err := a.validate(&req)
	if err != nil {
		return nil, err
	}

	text := segment.ScrubHTML(req.Text)

	spans := a.segmenter.Segment(text)
	if len(spans) == 0 {
		return nil, ErrNoClauses
	}

	clauses := make([]model.AnalyzedClause, len(spans))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency.ClauseWorkers)

	for i, span := range spans {
		i, span := i, span
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			clauses[i] = a.analyzeClause(gctx, span, level, language)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return a.aggregate(clauses, level, language), nil
}

// AnalyzeText is the string-argument convenience used by batch processing
func (a *Analyzer) AnalyzeText(ctx context.Context, text, targetLevel, language string) (*model.DocumentResult, error) {
	return a.Analyze(ctx, Request{Text: text, TargetLevel: targetLevel, Language: language})
}

// validate applies the request bounds and defaults
func (a *Analyzer) validate(req *Request) (level, language string, err error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", "", &ValidationError{Reason: "text is empty"}
	}
	// The bound is in characters, not bytes: a multibyte document must not
	// be rejected early.
	if utf8.RuneCountInString(req.Text) > a.cfg.Analysis.MaxChars {
		return "", "", &ValidationError{
			Reason: fmt.Sprintf("text exceeds %d characters", a.cfg.Analysis.MaxChars),
		}
	}

	level = req.TargetLevel
	if level == "" {
		level = a.cfg.Analysis.DefaultLevel
	}
	if !containsString(a.cfg.Analysis.Levels, level) {
		return "", "", &ValidationError{Reason: fmt.Sprintf("unsupported target level %q", level)}
	}

	language = req.Language
	if language == "" {
		language = a.cfg.Analysis.DefaultLanguage
	}
	if !containsString(a.cfg.Analysis.Languages, language) {
		return "", "", &ValidationError{Reason: fmt.Sprintf("unsupported language %q", language)}
	}

	return level, language, nil
}

// analyzeClause runs the per-clause stages. A panic in any stage is isolated
// to the clause: it comes back as general type, zero entities, a minimum
// risk assessment and a processing_failed warning, and the rest of the
// document continues.
func (a *Analyzer) analyzeClause(ctx context.Context, span model.ClauseSpan, level, language string) (clause model.AnalyzedClause) {
	defer func() {
		if r := recover(); r != nil {
			failed := a.scorer.Minimum()
			failed.Warnings = []string{model.WarnProcessingFailed}
			clause = model.AnalyzedClause{
				Span:     span,
				Type:     model.ClauseGeneral,
				Entities: model.KeyEntities{},
				Risk:     failed,
				Simplified: model.Simplification{
					Text:            span.Text,
					Source:          model.SimplifiedByFallback,
					OriginalWords:   len(strings.Fields(span.Text)),
					SimplifiedWords: len(strings.Fields(span.Text)),
				},
			}
		}
	}()

	clauseType := a.classifier.Classify(span.Text)
	entities := a.extractor.Extract(span.Text)
	assessment := a.scorer.Assess(clauseType, entities, span.Text)
	simplified := a.simplifier.Simplify(ctx, span.Text, level, language)

	return model.AnalyzedClause{
		Span:       span,
		Type:       clauseType,
		Entities:   entities,
		Risk:       assessment,
		Simplified: simplified,
	}
}

// aggregate assembles the document result from the per-clause analyses,
// already in original clause order
func (a *Analyzer) aggregate(clauses []model.AnalyzedClause, level, language string) *model.DocumentResult {
	var summaryParts []string
	risksDetected := 0
	scoreSum := 0
	fallbackUsed := false
	highRisk := false
	mitigated := false

	for _, clause := range clauses {
		if s := strings.TrimSpace(clause.Simplified.Text); s != "" {
			summaryParts = append(summaryParts, s)
		}
		if clause.Risk.Level == model.RiskMedium || clause.Risk.Level == model.RiskHigh {
			risksDetected++
		}
		if clause.Risk.Level == model.RiskHigh {
			highRisk = true
		}
		if mitigationRe.MatchString(clause.Span.Text) {
			mitigated = true
		}
		if clause.Simplified.Source == model.SimplifiedByFallback {
			fallbackUsed = true
		}
		scoreSum += clause.Risk.Score
	}

	avg := 0.0
	if len(clauses) > 0 {
		avg = float64(scoreSum) / float64(len(clauses))
	}

	var warnings []string
	if highRisk && !mitigated {
		warnings = append(warnings, model.WarnUnmitigatedHighRisk)
	}
	if len(clauses) > 0 && risksDetected*2 > len(clauses) {
		warnings = append(warnings, model.WarnHighRiskDensity)
	}
	if fallbackUsed && a.simplifier.Remote() {
		warnings = append(warnings, model.WarnRewriteFallbackUsed)
	}

	return &model.DocumentResult{
		Summary:       strings.Join(summaryParts, " "),
		Clauses:       clauses,
		Warnings:      warnings,
		RisksDetected: risksDetected,
		AvgRiskScore:  avg,
		Language:      language,
		TargetLevel:   level,
		AnalyzedAt:    time.Now().UTC(),
	}
}

func containsString(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}
