package model

// RiskLevel is the heuristic severity classification of a clause
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskAssessment is the scored risk of a single clause.
// Score is always within [0, 100] and Level is derived from Score via the
// configured thresholds, never set independently.
type RiskAssessment struct {
	Score          int       `json:"score"`
	Level          RiskLevel `json:"level"`
	Warnings       []string  `json:"warnings,omitempty"`
	Recommendation string    `json:"recommendation,omitempty"`
}

// Clause-level warning codes
const (
	WarnNumericsPresent         = "numerics_present"
	WarnTimeSensitive           = "time_sensitive"
	WarnConditionalClause       = "conditional_clause"
	WarnMonetaryAmount          = "monetary_amount"
	WarnUnlimitedLiability      = "unlimited_liability"
	WarnIndemnification         = "indemnification"
	WarnTerminationWithoutCause = "termination_without_cause"
	WarnProcessingFailed        = "processing_failed"
)

// Document-level warning codes (cross-clause conditions, distinct from any
// single clause's warnings)
const (
	WarnUnmitigatedHighRisk = "unmitigated_high_risk"
	WarnHighRiskDensity     = "high_risk_density"
	WarnRewriteFallbackUsed = "rewrite_fallback_used"
)
