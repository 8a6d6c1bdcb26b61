package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lexplain/lexplain/internal/classify"
	"github.com/lexplain/lexplain/internal/extract"
	"github.com/lexplain/lexplain/internal/model"
	"github.com/lexplain/lexplain/internal/risk"
	"github.com/lexplain/lexplain/internal/segment"
	"github.com/lexplain/lexplain/internal/simplify"
)

func newTestAnalyzer() *Analyzer {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	return NewAnalyzer(cfg)
}

func TestAnalyze_EmptyTextRejected(t *testing.T) {
	a := newTestAnalyzer()

	for _, text := range []string{"", "   \n\t  "} {
		_, err := a.Analyze(context.Background(), Request{Text: text})
		if err == nil {
			t.Fatalf("Analyze(%q) succeeded, want validation error", text)
		}
		if !IsValidation(err) {
			t.Errorf("Analyze(%q) error = %v, want ValidationError", text, err)
		}
	}
}

func TestAnalyze_OversizeTextRejected(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Analysis.MaxChars = 100
	a := NewAnalyzer(cfg)

	_, err := a.Analyze(context.Background(), Request{Text: strings.Repeat("a ", 100)})
	if !IsValidation(err) {
		t.Fatalf("error = %v, want ValidationError for oversize text", err)
	}
}

func TestAnalyze_LengthBoundCountsCharacters(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Analysis.MaxChars = 40
	a := NewAnalyzer(cfg)

	// 30 characters but 60 bytes: within the bound
	text := strings.Repeat("é", 30)
	if len(text) <= cfg.Analysis.MaxChars {
		t.Fatalf("fixture too short to distinguish bytes from characters: %d bytes", len(text))
	}
	if _, err := a.Analyze(context.Background(), Request{Text: text}); err != nil {
		t.Errorf("multibyte text within the character bound rejected: %v", err)
	}

	// 41 characters: over the bound
	over := strings.Repeat("é", 41)
	if _, err := a.Analyze(context.Background(), Request{Text: over}); !IsValidation(err) {
		t.Errorf("error = %v, want ValidationError past the character bound", err)
	}
}

func TestAnalyze_UnsupportedLevelAndLanguage(t *testing.T) {
	a := newTestAnalyzer()

	_, err := a.Analyze(context.Background(), Request{Text: "Some text.", TargetLevel: "telepathic"})
	if !IsValidation(err) {
		t.Fatalf("error = %v, want ValidationError for unknown level", err)
	}

	_, err = a.Analyze(context.Background(), Request{Text: "Some text.", Language: "tlh"})
	if !IsValidation(err) {
		t.Fatalf("error = %v, want ValidationError for unknown language", err)
	}
}

func TestAnalyze_PaymentClause(t *testing.T) {
	a := newTestAnalyzer()

	result, err := a.Analyze(context.Background(), Request{
		Text: "The Buyer shall pay the Seller $1000 within 30 days of delivery.",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Clauses) != 1 {
		t.Fatalf("got %d clauses, want 1", len(result.Clauses))
	}
	clause := result.Clauses[0]

	if clause.Type != model.ClausePaymentObligation {
		t.Errorf("Type = %s, want %s", clause.Type, model.ClausePaymentObligation)
	}
	if clause.Entities.Party1 != "buyer" || clause.Entities.Party2 != "seller" {
		t.Errorf("parties = %q/%q, want buyer/seller", clause.Entities.Party1, clause.Entities.Party2)
	}
	if clause.Entities.Amount != "$1000" {
		t.Errorf("Amount = %q, want $1000", clause.Entities.Amount)
	}
	if clause.Entities.Deadline != "30 days" {
		t.Errorf("Deadline = %q, want 30 days", clause.Entities.Deadline)
	}
	if clause.Risk.Level != model.RiskMedium {
		t.Errorf("risk level = %s (score %d), want medium", clause.Risk.Level, clause.Risk.Score)
	}
	if clause.Simplified.Text == "" {
		t.Error("no simplified text")
	}
	if strings.Contains(strings.ToLower(clause.Simplified.Text), "shall") {
		t.Errorf("simplified text still contains shall: %q", clause.Simplified.Text)
	}
	if !strings.Contains(clause.Simplified.Text, "$1000") || !strings.Contains(clause.Simplified.Text, "30 days") {
		t.Errorf("simplification altered amounts or deadlines: %q", clause.Simplified.Text)
	}
}

func TestAnalyze_IndemnificationClause(t *testing.T) {
	a := newTestAnalyzer()

	result, err := a.Analyze(context.Background(), Request{
		Text: "The Contractor shall indemnify the Client against all claims arising from the work.",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	clause := result.Clauses[0]
	if clause.Type != model.ClauseLiability {
		t.Errorf("Type = %s, want %s", clause.Type, model.ClauseLiability)
	}
	if clause.Risk.Level != model.RiskHigh {
		t.Errorf("risk level = %s (score %d), want high", clause.Risk.Level, clause.Risk.Score)
	}
	if !containsString(clause.Risk.Warnings, model.WarnIndemnification) {
		t.Errorf("warnings = %v, want %s", clause.Risk.Warnings, model.WarnIndemnification)
	}
	if clause.Risk.Recommendation == "" {
		t.Error("high-risk clause carries no recommendation")
	}
}

func TestAnalyze_GeneralClauseLowRisk(t *testing.T) {
	a := newTestAnalyzer()

	result, err := a.Analyze(context.Background(), Request{
		Text: "This document was printed on recycled paper.",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	clause := result.Clauses[0]
	if clause.Type != model.ClauseGeneral {
		t.Errorf("Type = %s, want %s", clause.Type, model.ClauseGeneral)
	}
	if clause.Risk.Level != model.RiskLow {
		t.Errorf("risk level = %s (score %d), want low", clause.Risk.Level, clause.Risk.Score)
	}
}

func TestAnalyze_MultiClauseDocument(t *testing.T) {
	a := newTestAnalyzer()

	text := "The Buyer shall pay $500 in fees. " +
		"The Supplier may terminate without cause. " +
		"The parties agree to cooperate."

	result, err := a.Analyze(context.Background(), Request{Text: text})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Clauses) != 3 {
		t.Fatalf("got %d clauses, want 3", len(result.Clauses))
	}

	// Original document order, regardless of concurrent completion order
	for i, clause := range result.Clauses {
		if clause.Span.Index != i+1 {
			t.Errorf("clause %d has span index %d, want %d", i, clause.Span.Index, i+1)
		}
	}
	if result.Clauses[0].Type != model.ClausePaymentObligation {
		t.Errorf("clause 0 type = %s, want payment_obligation", result.Clauses[0].Type)
	}
	if result.Clauses[1].Type != model.ClauseTermination {
		t.Errorf("clause 1 type = %s, want termination", result.Clauses[1].Type)
	}

	// Medium payment clause plus high termination clause
	if result.RisksDetected != 2 {
		t.Errorf("RisksDetected = %d, want 2", result.RisksDetected)
	}

	wantAvg := float64(result.Clauses[0].Risk.Score+result.Clauses[1].Risk.Score+result.Clauses[2].Risk.Score) / 3
	if result.AvgRiskScore != wantAvg {
		t.Errorf("AvgRiskScore = %v, want %v", result.AvgRiskScore, wantAvg)
	}

	if result.Summary == "" {
		t.Error("empty document summary")
	}
}

func TestAnalyze_DocumentWarnings(t *testing.T) {
	a := newTestAnalyzer()

	// An unmitigated high-risk clause in a mostly risky document
	result, err := a.Analyze(context.Background(), Request{
		Text: "The Vendor shall indemnify the Customer against unlimited liability. The Customer shall pay $10,000 in fees.",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if !containsString(result.Warnings, model.WarnUnmitigatedHighRisk) {
		t.Errorf("warnings = %v, want %s", result.Warnings, model.WarnUnmitigatedHighRisk)
	}
	if !containsString(result.Warnings, model.WarnHighRiskDensity) {
		t.Errorf("warnings = %v, want %s", result.Warnings, model.WarnHighRiskDensity)
	}
}

func TestAnalyze_MitigatedHighRisk(t *testing.T) {
	a := newTestAnalyzer()

	result, err := a.Analyze(context.Background(), Request{
		Text: "The Vendor shall indemnify the Customer against all claims. " +
			"The total liability shall be limited to the fees paid.",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if containsString(result.Warnings, model.WarnUnmitigatedHighRisk) {
		t.Errorf("warnings = %v, liability cap should suppress %s", result.Warnings, model.WarnUnmitigatedHighRisk)
	}
}

func TestAnalyze_HTMLInputScrubbed(t *testing.T) {
	a := newTestAnalyzer()

	result, err := a.Analyze(context.Background(), Request{
		Text: "<html><body><p>The Buyer shall pay the fee.</p><script>var x = 1;</script></body></html>",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	for _, clause := range result.Clauses {
		if strings.Contains(clause.Span.Text, "<p>") || strings.Contains(clause.Span.Text, "var x") {
			t.Errorf("markup or script leaked into clause: %q", clause.Span.Text)
		}
	}
}

func TestAnalyze_DefaultsApplied(t *testing.T) {
	a := newTestAnalyzer()

	result, err := a.Analyze(context.Background(), Request{Text: "The parties agree."})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.TargetLevel != "simple" {
		t.Errorf("TargetLevel = %q, want simple", result.TargetLevel)
	}
	if result.Language != "en" {
		t.Errorf("Language = %q, want en", result.Language)
	}
	if result.AnalyzedAt.IsZero() {
		t.Error("AnalyzedAt not set")
	}
}

func TestAnalyze_ClauseFailureIsolated(t *testing.T) {
	// A scorer whose trigger panics on every clause: the document must
	// still complete, with each affected clause degraded to general type,
	// minimum risk and a processing_failed warning.
	panicking := risk.NewScorerWith(
		risk.DefaultBaseScores(),
		[]risk.Trigger{{
			Warning: model.WarnNumericsPresent,
			Points:  5,
			Entity:  func(model.KeyEntities) bool { panic("malformed clause") },
		}},
		risk.DefaultThresholds(),
	)

	a := &Analyzer{
		cfg:        model.DefaultConfig(),
		segmenter:  segment.NewSegmenter(),
		classifier: classify.Default(),
		extractor:  extract.NewExtractor(),
		scorer:     panicking,
		simplifier: simplify.NewSimplifier(simplify.Options{}),
	}

	result, err := a.Analyze(context.Background(), Request{
		Text: "The Buyer shall pay $500 in fees. The Supplier may terminate without cause.",
	})
	if err != nil {
		t.Fatalf("Analyze failed instead of isolating the clause failure: %v", err)
	}

	if len(result.Clauses) != 2 {
		t.Fatalf("got %d clauses, want 2", len(result.Clauses))
	}
	for i, clause := range result.Clauses {
		if clause.Type != model.ClauseGeneral {
			t.Errorf("clause %d type = %s, want %s", i, clause.Type, model.ClauseGeneral)
		}
		if clause.Risk.Score != 0 || clause.Risk.Level != model.RiskLow {
			t.Errorf("clause %d risk = %d/%s, want minimum", i, clause.Risk.Score, clause.Risk.Level)
		}
		if len(clause.Risk.Warnings) != 1 || clause.Risk.Warnings[0] != model.WarnProcessingFailed {
			t.Errorf("clause %d warnings = %v, want [%s]", i, clause.Risk.Warnings, model.WarnProcessingFailed)
		}
		if clause.Simplified.Text != clause.Span.Text {
			t.Errorf("clause %d simplified text altered on failure: %q", i, clause.Simplified.Text)
		}
	}
	if result.RisksDetected != 0 {
		t.Errorf("RisksDetected = %d, want 0 for minimum-risk clauses", result.RisksDetected)
	}
}

func TestAnalyze_MarkupOnlyInput(t *testing.T) {
	a := newTestAnalyzer()

	// Scrubbing leaves nothing to segment; this is pipeline exhaustion,
	// not a validation failure and not an empty success.
	result, err := a.Analyze(context.Background(), Request{
		Text: "<div><script>var x = 1;</script></div>",
	})
	if !errors.Is(err, ErrNoClauses) {
		t.Fatalf("error = %v, want ErrNoClauses", err)
	}
	if IsValidation(err) {
		t.Error("markup-only input misreported as a validation failure")
	}
	if result != nil {
		t.Error("exhausted pipeline returned a result")
	}
}

func TestAnalyze_CancelledContext(t *testing.T) {
	a := newTestAnalyzer()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := a.Analyze(ctx, Request{Text: "The Buyer shall pay the fee. The Seller shall deliver."})
	if err == nil {
		t.Fatal("Analyze succeeded with cancelled context")
	}
	if result != nil {
		t.Error("cancelled analysis returned a partial result")
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := newTestAnalyzer()

	text := "The Buyer shall pay $500 in fees. The Supplier may terminate without cause. If the goods are defective, the Seller shall replace them."

	first, err := a.Analyze(context.Background(), Request{Text: text})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		next, err := a.Analyze(context.Background(), Request{Text: text})
		if err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
		if len(next.Clauses) != len(first.Clauses) {
			t.Fatalf("run %d clause count %d != %d", i, len(next.Clauses), len(first.Clauses))
		}
		for j := range next.Clauses {
			if next.Clauses[j].Type != first.Clauses[j].Type ||
				next.Clauses[j].Risk.Score != first.Clauses[j].Risk.Score ||
				next.Clauses[j].Simplified.Text != first.Clauses[j].Simplified.Text {
				t.Errorf("run %d clause %d differs from first run", i, j)
			}
		}
	}
}

func TestResponse_Shape(t *testing.T) {
	a := newTestAnalyzer()

	result, err := a.Analyze(context.Background(), Request{
		Text: "The Buyer shall pay $500 in fees. The parties agree to cooperate.",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	resp := result.Response()
	if len(resp.Clauses) != len(result.Clauses) {
		t.Fatalf("response has %d clauses, result has %d", len(resp.Clauses), len(result.Clauses))
	}
	for i, c := range resp.Clauses {
		wantID := fmt.Sprintf("clause_%d", i+1)
		if c.ID != wantID {
			t.Errorf("clause %d ID = %q, want %q", i, c.ID, wantID)
		}
		if c.Warnings == nil {
			t.Errorf("clause %d warnings slice is nil", i)
		}
	}
	if resp.Warnings == nil {
		t.Error("document warnings slice is nil")
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Reason: "text is empty"}
	if !strings.Contains(err.Error(), "text is empty") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !IsValidation(err) {
		t.Error("IsValidation failed on a ValidationError")
	}
	if IsValidation(ErrNoClauses) {
		t.Error("IsValidation matched a non-validation error")
	}
}
