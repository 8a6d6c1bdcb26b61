package simplify

import (
	"regexp"
	"strings"
)

// substitution maps one legalese pattern to its plain-language equivalent
type substitution struct {
	pattern     *regexp.Regexp
	replacement string
}

// Fallback is the deterministic local rewrite used when the rewriting
// service fails, times out, or is disabled. It never fails: worst case the
// input text comes back unchanged.
type Fallback struct {
	substitutions []substitution
	removals      []*regexp.Regexp
}

// NewFallback creates a fallback rewriter with the built-in tables
func NewFallback() *Fallback {
	sub := func(pattern, replacement string) substitution {
		return substitution{regexp.MustCompile(`(?i)` + pattern), replacement}
	}

	return &Fallback{
		substitutions: []substitution{
			// Doublets and triplets
			sub(`\bnull and void\b`, "void"),
			sub(`\bcease and desist\b`, "stop"),
			sub(`\bterms and conditions\b`, "terms"),
			sub(`\bby and between\b`, "between"),
			sub(`\bdue and payable\b`, "due"),
			sub(`\bsole and exclusive\b`, "sole"),
			sub(`\bforce and effect\b`, "effect"),
			sub(`\bcovenants and agrees\b`, "agrees"),

			// Archaic terms
			sub(`\bhereinafter\b`, "later in this document"),
			sub(`\bherein\b`, "in this document"),
			sub(`\bhereunder\b`, "under this agreement"),
			sub(`\bhereby\b`, ""),
			sub(`\bthereof\b`, "of that"),
			sub(`\bwherein\b`, "where"),
			sub(`\bwhereas\b`, "since"),
			sub(`\baforesaid\b`, "mentioned above"),
			sub(`\bforthwith\b`, "immediately"),

			// Complex verbs and connectives
			sub(`\bin the event that\b`, "if"),
			sub(`\bin the event of\b`, "if"),
			sub(`\bprovided that\b`, "except"),
			sub(`\bsubject to\b`, "depending on"),
			sub(`\bpursuant to\b`, "under"),
			sub(`\bin accordance with\b`, "following"),
			sub(`\bwith respect to\b`, "about"),
			sub(`\bprior to\b`, "before"),
			sub(`\bsubsequent to\b`, "after"),
			sub(`\bcommence\b`, "start"),
			sub(`\bshall not\b`, "must not"),
			sub(`\bshall\b`, "must"),
			sub(`\bin order to\b`, "to"),
			sub(`\bfor the purpose of\b`, "for"),

			// Legal nouns
			sub(`\bindemnification\b`, "compensation"),
			sub(`\bindemnify\b`, "compensate"),
			sub(`\bremuneration\b`, "payment"),
			sub(`\bobligation\b`, "duty"),
			sub(`\bliabilities\b`, "responsibilities"),
			sub(`\bliability\b`, "responsibility"),
		},
		removals: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bincluding,? without limitation,?\b`),
			regexp.MustCompile(`(?i)\bwithout limitation\b`),
			regexp.MustCompile(`(?i)\bany and all\b`),
			regexp.MustCompile(`(?i)\bwhatsoever\b`),
			regexp.MustCompile(`(?i)\bof any kind\b`),
			regexp.MustCompile(`(?i)\bin any manner\b`),
		},
	}
}

// Simplify applies the substitution and removal tables and normalizes
// whitespace. Deterministic: same input, same output.
func (f *Fallback) Simplify(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	result := strings.TrimSpace(text)

	for _, s := range f.substitutions {
		result = s.pattern.ReplaceAllString(result, s.replacement)
	}
	for _, pattern := range f.removals {
		result = pattern.ReplaceAllString(result, "")
	}

	return normalizeWhitespace(result)
}

var (
	multiSpaceRe   = regexp.MustCompile(` {2,}`)
	spacePunctRe   = regexp.MustCompile(`\s+([.,;:!?])`)
	multiNewlineRe = regexp.MustCompile(`\n{3,}`)
)

// normalizeWhitespace cleans up the debris substitutions leave behind
func normalizeWhitespace(text string) string {
	text = multiSpaceRe.ReplaceAllString(text, " ")
	text = spacePunctRe.ReplaceAllString(text, "$1")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = multiNewlineRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
