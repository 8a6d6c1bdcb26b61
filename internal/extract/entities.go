package extract

import (
	"regexp"
	"strings"

	"github.com/lexplain/lexplain/internal/model"
)

// Extractor mines structured entities from clause text. All patterns are
// compiled once at construction; extraction is pure and never fails — absent
// fields are simply omitted from the result.
type Extractor struct {
	amounts    []*regexp.Regexp
	deadline   *regexp.Regexp
	parties    *regexp.Regexp
	conditions *regexp.Regexp
	numerics   *regexp.Regexp
}

// Role nouns recognized as contract parties. Longer roles precede their
// prefixes so "subcontractor" never reports as "contractor".
const partyRoles = `subcontractor|contractor|purchaser|buyer|seller|vendor|lessor|lessee|customer|client|employer|employee|licensor|licensee|borrower|lender|provider|recipient|parties|party`

// NewExtractor creates a new entity extractor
func NewExtractor() *Extractor {
	return &Extractor{
		amounts: []*regexp.Regexp{
			regexp.MustCompile(`\$\s?\d[\d,]*(?:\.\d{2})?`),                     // $1000, $1,000.00
			regexp.MustCompile(`(?i)\d[\d,]*(?:\.\d{2})?\s?(?:USD|EUR|GBP|INR)`), // 1000 USD
			regexp.MustCompile(`(?i)(?:USD|EUR|GBP|INR)\s?\d[\d,]*(?:\.\d{2})?`), // USD 1000
		},
		deadline:   regexp.MustCompile(`(?i)\b\d+\s+(?:day|week|month|year)s?\b`),
		parties:    regexp.MustCompile(`(?i)\b(?:the\s+)?(` + partyRoles + `)\b`),
		conditions: regexp.MustCompile(`(?i)\b(?:if|unless|provided\s+that|except\s+that|subject\s+to|contingent|conditional|in\s+the\s+event|should)\b`),
		numerics:   regexp.MustCompile(`\b\d+(?:,\d{3})*(?:\.\d+)?\b`),
	}
}

// Extract mines KeyEntities from a single clause
func (e *Extractor) Extract(text string) model.KeyEntities {
	entities := model.KeyEntities{}
	if text == "" {
		return entities
	}

	entities.Amount = e.firstAmount(text)

	if loc := e.deadline.FindString(text); loc != "" {
		entities.Deadline = loc
	}

	parties := e.extractParties(text)
	if len(parties) >= 1 {
		entities.Party1 = parties[0]
	}
	if len(parties) >= 2 {
		entities.Party2 = parties[1]
	}

	entities.Conditions = e.conditions.MatchString(text)
	entities.Numerics = e.numerics.FindAllString(text, -1)

	return entities
}

// firstAmount returns the earliest currency-marked token across all amount
// patterns
func (e *Extractor) firstAmount(text string) string {
	best := ""
	bestPos := -1
	for _, pattern := range e.amounts {
		loc := pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if bestPos == -1 || loc[0] < bestPos {
			bestPos = loc[0]
			best = text[loc[0]:loc[1]]
		}
	}
	return best
}

// extractParties returns up to two distinct role nouns in order of first
// appearance, lowercased
func (e *Extractor) extractParties(text string) []string {
	var found []string
	seen := make(map[string]bool)

	for _, match := range e.parties.FindAllStringSubmatch(text, -1) {
		role := strings.ToLower(match[1])
		if seen[role] {
			continue
		}
		seen[role] = true
		found = append(found, role)
		if len(found) == 2 {
			break
		}
	}
	return found
}
