package risk

import (
	"regexp"

	"github.com/lexplain/lexplain/internal/model"
)

// Thresholds maps a clamped score to a risk level. The mapping is a single
// configuration table: score < Medium is low, score < High is medium,
// everything else is high.
type Thresholds struct {
	Medium int
	High   int
}

// DefaultThresholds returns the standard thresholds: <40 low, 40-69 medium,
// >=70 high
func DefaultThresholds() Thresholds {
	return Thresholds{Medium: 40, High: 70}
}

// Level derives the risk level from a score
func (t Thresholds) Level(score int) model.RiskLevel {
	switch {
	case score >= t.High:
		return model.RiskHigh
	case score >= t.Medium:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// Trigger is one risk-amplifying signal: a warning code, the points it adds,
// and the recommendation attached when it is the dominant trigger. Text
// triggers carry a pattern; entity triggers carry a predicate over the mined
// entities.
type Trigger struct {
	Warning        string
	Points         int
	Recommendation string
	Pattern        *regexp.Regexp
	Entity         func(model.KeyEntities) bool
}

// DefaultTriggers returns the built-in trigger table in evaluation order
func DefaultTriggers() []Trigger {
	return []Trigger{
		{
			Warning:        model.WarnUnlimitedLiability,
			Points:         25,
			Recommendation: "Negotiate a liability cap before signing.",
			Pattern:        regexp.MustCompile(`(?i)unlimited\s+liability|liability\s+without\s+limit|uncapped\s+liability`),
		},
		{
			Warning:        model.WarnIndemnification,
			Points:         25,
			Recommendation: "Review the scope of the indemnity with counsel.",
			Pattern:        regexp.MustCompile(`(?i)\bindemnif(?:y|ies|ied|ication)\b|hold\s+harmless`),
		},
		{
			Warning:        model.WarnTerminationWithoutCause,
			Points:         20,
			Recommendation: "Clarify notice periods and termination triggers.",
			Pattern:        regexp.MustCompile(`(?i)terminat\w*\s+(?:without\s+cause|at\s+will|without\s+notice)|\bat.will\s+termination\b`),
		},
		{
			Warning:        model.WarnMonetaryAmount,
			Points:         10,
			Recommendation: "Confirm the amount, currency and payment mechanics.",
			Entity:         func(e model.KeyEntities) bool { return e.Amount != "" },
		},
		{
			Warning:        model.WarnTimeSensitive,
			Points:         10,
			Recommendation: "Calendar the deadline; missing it may have consequences.",
			Entity:         func(e model.KeyEntities) bool { return e.Deadline != "" },
		},
		{
			Warning: model.WarnNumericsPresent,
			Points:  5,
			Entity:  func(e model.KeyEntities) bool { return len(e.Numerics) > 0 },
		},
		{
			Warning:        model.WarnConditionalClause,
			Points:         5,
			Recommendation: "Check whether the conditions are within your control.",
			Entity:         func(e model.KeyEntities) bool { return e.Conditions },
		},
	}
}

// DefaultBaseScores returns the per-type base score table
func DefaultBaseScores() map[model.ClauseType]int {
	return map[model.ClauseType]int{
		model.ClauseLiability:         50,
		model.ClauseTermination:       50,
		model.ClausePaymentObligation: 35,
		model.ClauseWarranty:          30,
		model.ClauseConfidentiality:   30,
		model.ClauseCondition:         30,
		model.ClauseGeneralObligation: 25,
		model.ClauseGeneral:           15,
		model.ClauseDefinition:        5,
	}
}

// Scorer computes a clause risk assessment from its type, entities and text.
// All tables are fixed at construction; scoring is deterministic.
type Scorer struct {
	base       map[model.ClauseType]int
	triggers   []Trigger
	thresholds Thresholds
}

// NewScorer creates a scorer with the default tables
func NewScorer() *Scorer {
	return NewScorerWith(DefaultBaseScores(), DefaultTriggers(), DefaultThresholds())
}

// NewScorerWith creates a scorer with custom tables
func NewScorerWith(base map[model.ClauseType]int, triggers []Trigger, thresholds Thresholds) *Scorer {
	return &Scorer{base: base, triggers: triggers, thresholds: thresholds}
}

// Assess scores one clause. The score starts from the per-type base, adds
// fixed increments per triggered signal, and is clamped to [0, 100]. Warning
// codes are emitted once per triggered signal; the recommendation comes from
// the dominant trigger (most points, table order breaking ties).
func (s *Scorer) Assess(clauseType model.ClauseType, entities model.KeyEntities, text string) model.RiskAssessment {
	score := s.base[clauseType]

	var warnings []string
	seen := make(map[string]bool)
	recommendation := ""
	dominant := 0

	for _, trigger := range s.triggers {
		fired := false
		if trigger.Pattern != nil && trigger.Pattern.MatchString(text) {
			fired = true
		}
		if trigger.Entity != nil && trigger.Entity(entities) {
			fired = true
		}
		if !fired {
			continue
		}

		score += trigger.Points
		if !seen[trigger.Warning] {
			seen[trigger.Warning] = true
			warnings = append(warnings, trigger.Warning)
		}
		if trigger.Recommendation != "" && trigger.Points > dominant {
			dominant = trigger.Points
			recommendation = trigger.Recommendation
		}
	}

	score = clamp(score)

	return model.RiskAssessment{
		Score:          score,
		Level:          s.thresholds.Level(score),
		Warnings:       warnings,
		Recommendation: recommendation,
	}
}

// Minimum returns the lowest possible assessment, used when clause
// processing fails and the clause must still carry a valid result
func (s *Scorer) Minimum() model.RiskAssessment {
	return model.RiskAssessment{
		Score: 0,
		Level: s.thresholds.Level(0),
	}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
