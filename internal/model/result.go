package model

import (
	"fmt"
	"time"
)

// Simplification is the plain-language rewrite of one clause
type Simplification struct {
	Text            string  `json:"text"`
	Source          string  `json:"source"` // "service" or "fallback"
	ReductionPct    float64 `json:"reduction_pct"`
	OriginalWords   int     `json:"original_words"`
	SimplifiedWords int     `json:"simplified_words"`
}

// Simplification sources
const (
	SimplifiedByService  = "service"
	SimplifiedByFallback = "fallback"
)

// AnalyzedClause is the complete analysis of one clause: the span, exactly
// one type, the mined entities, one risk assessment and the rewrite.
// It is assembled once per pipeline run and never mutated afterwards.
type AnalyzedClause struct {
	Span       ClauseSpan     `json:"span"`
	Type       ClauseType     `json:"type"`
	Entities   KeyEntities    `json:"key_entities"`
	Risk       RiskAssessment `json:"risk"`
	Simplified Simplification `json:"simplified"`
}

// DocumentResult is the aggregate outcome of analyzing one document.
// Constructed per analysis call; nothing here is persisted by the core.
type DocumentResult struct {
	Summary       string           `json:"summary"`
	Clauses       []AnalyzedClause `json:"clauses"`
	Warnings      []string         `json:"warnings"` // Document-level, cross-clause
	RisksDetected int              `json:"risks_detected"`
	AvgRiskScore  float64          `json:"avg_risk_score"`
	Language      string           `json:"language"`
	TargetLevel   string           `json:"target_level"`
	AnalyzedAt    time.Time        `json:"analyzed_at"`
}

// Response is the wire shape of an analysis result
type Response struct {
	Summary  string           `json:"summary"`
	Clauses  []ClauseResponse `json:"clauses"`
	Warnings []string         `json:"warnings"`
}

// ClauseResponse is the wire shape of one analyzed clause
type ClauseResponse struct {
	ID             string      `json:"id"` // "clause_N"
	Type           ClauseType  `json:"type"`
	OriginalText   string      `json:"original_text"`
	SimplifiedText string      `json:"simplified_text"`
	RiskLevel      RiskLevel   `json:"risk_level"`
	KeyEntities    KeyEntities `json:"key_entities"`
	Warnings       []string    `json:"warnings"`
}

// Response shapes the result for callers. Warning slices are always non-nil
// so they serialize as [] rather than null.
func (r *DocumentResult) Response() Response {
	clauses := make([]ClauseResponse, len(r.Clauses))
	for i, c := range r.Clauses {
		warnings := c.Risk.Warnings
		if warnings == nil {
			warnings = []string{}
		}
		clauses[i] = ClauseResponse{
			ID:             fmt.Sprintf("clause_%d", c.Span.Index),
			Type:           c.Type,
			OriginalText:   c.Span.Text,
			SimplifiedText: c.Simplified.Text,
			RiskLevel:      c.Risk.Level,
			KeyEntities:    c.Entities,
			Warnings:       warnings,
		}
	}

	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return Response{
		Summary:  r.Summary,
		Clauses:  clauses,
		Warnings: warnings,
	}
}
