package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lexplain/lexplain/internal/model"
)

// Rule associates a keyword set with a clause type. Rules are evaluated in
// slice order, top to bottom, case-insensitively; the first rule with any
// keyword match wins. Keywords are regular-expression fragments matched on
// word boundaries.
type Rule struct {
	Type     model.ClauseType
	Keywords []string
}

// DefaultRules returns the built-in rule table, highest priority first.
// Precedence: liability > termination > payment_obligation >
// confidentiality > warranty > definition > condition > general_obligation.
// A clause containing both "indemnify" and "shall" therefore classifies as
// liability, not general_obligation.
func DefaultRules() []Rule {
	return []Rule{
		{Type: model.ClauseLiability, Keywords: []string{
			`liab(?:le|ility|ilities)`,
			`indemnif(?:y|ies|ied|ication)`,
			`hold\s+harmless`,
			`damages?`,
			`losses`,
		}},
		{Type: model.ClauseTermination, Keywords: []string{
			`terminat(?:e|es|ed|ion)`,
			`cancel(?:led|lation)?`,
			`expir(?:e|es|ation|y)`,
			`end\s+this\s+(?:agreement|contract)`,
		}},
		{Type: model.ClausePaymentObligation, Keywords: []string{
			`pay(?:ment|ments|able|s)?`,
			`invoices?`,
			`fees?`,
			`charges?`,
			`price`,
			`compensat\w+`,
			`remunerat\w+`,
		}},
		{Type: model.ClauseConfidentiality, Keywords: []string{
			`confidential(?:ity)?`,
			`non-disclosure`,
			`nda`,
			`proprietary`,
			`trade\s+secrets?`,
		}},
		{Type: model.ClauseWarranty, Keywords: []string{
			`warrant(?:s|y|ies|ed)?`,
			`guarantees?`,
			`represent(?:s|ations?)?`,
		}},
		{Type: model.ClauseDefinition, Keywords: []string{
			`means`,
			`defined\s+as`,
			`refers\s+to`,
			`for\s+(?:the\s+)?purposes\s+of`,
		}},
		{Type: model.ClauseCondition, Keywords: []string{
			`if`,
			`unless`,
			`subject\s+to`,
			`contingent\s+upon`,
			`provided\s+that`,
		}},
		{Type: model.ClauseGeneralObligation, Keywords: []string{
			`shall`,
			`must`,
			`required\s+to`,
			`obligat(?:ed|ions?)`,
		}},
	}
}

type compiledRule struct {
	clauseType model.ClauseType
	pattern    *regexp.Regexp
}

// Classifier assigns exactly one clause type per clause text using an
// ordered rule table. The table is configuration data: it is compiled once
// at construction and never changes afterwards, so a Classifier is safe for
// concurrent use.
type Classifier struct {
	rules []compiledRule
}

// New compiles a rule table into a classifier
func New(rules []Rule) (*Classifier, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		if len(rule.Keywords) == 0 {
			return nil, fmt.Errorf("rule for %q has no keywords", rule.Type)
		}
		expr := `(?i)\b(?:` + strings.Join(rule.Keywords, "|") + `)\b`
		pattern, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile rule for %q: %w", rule.Type, err)
		}
		compiled = append(compiled, compiledRule{clauseType: rule.Type, pattern: pattern})
	}
	return &Classifier{rules: compiled}, nil
}

// Default returns a classifier built from DefaultRules
func Default() *Classifier {
	c, err := New(DefaultRules())
	if err != nil {
		// DefaultRules is static and covered by tests; a compile failure
		// here is a programming error.
		panic(err)
	}
	return c
}

// Classify returns the type of the first matching rule, or general when no
// rule matches
func (c *Classifier) Classify(text string) model.ClauseType {
	for _, rule := range c.rules {
		if rule.pattern.MatchString(text) {
			return rule.clauseType
		}
	}
	return model.ClauseGeneral
}
