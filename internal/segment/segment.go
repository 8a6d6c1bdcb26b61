package segment

import (
	"regexp"
	"sort"
	"unicode"

	"github.com/lexplain/lexplain/internal/model"
)

// Segmenter splits raw legal text into an ordered sequence of clause spans.
// Segmentation is pure: the same input always yields the same spans in the
// same order.
type Segmenter struct {
	terminators *regexp.Regexp
	markers     *regexp.Regexp
}

// Strong clause boundaries: sentence terminators and semicolons followed by
// whitespace, plus explicit section/clause markers at line starts.
var (
	terminatorRe = regexp.MustCompile(`[.!?;][ \t\n]`)
	markerRe     = regexp.MustCompile(`(?im)^[ \t]*(?:\d+\.[ \t]+|\([a-z]\)[ \t]+|\([ivx]+\)[ \t]+|(?:clause|section|article|paragraph)[ \t]+\d+)`)
)

// NewSegmenter creates a new segmenter
func NewSegmenter() *Segmenter {
	return &Segmenter{
		terminators: terminatorRe,
		markers:     markerRe,
	}
}

// Segment splits text into ordered, non-overlapping, non-empty spans.
// Offsets point back into the input. A text without any boundary marker
// yields exactly one span equal to the whole trimmed input; whitespace-only
// input yields no spans.
func (s *Segmenter) Segment(text string) []model.ClauseSpan {
	start, end, ok := trimBounds(text, 0, len(text))
	if !ok {
		return nil
	}

	cuts := s.boundaries(text, start, end)

	var spans []model.ClauseSpan
	prev := start
	for _, cut := range append(cuts, end) {
		if spanStart, spanEnd, ok := trimBounds(text, prev, cut); ok {
			if hasContent(text[spanStart:spanEnd]) {
				spans = append(spans, model.ClauseSpan{
					Index:       len(spans) + 1,
					Text:        text[spanStart:spanEnd],
					StartOffset: spanStart,
					EndOffset:   spanEnd,
				})
			}
		}
		prev = cut
	}

	// Defensive fallback: every non-empty input yields at least one clause.
	if len(spans) == 0 {
		spans = []model.ClauseSpan{{
			Index:       1,
			Text:        text[start:end],
			StartOffset: start,
			EndOffset:   end,
		}}
	}

	return spans
}

// boundaries returns sorted, deduplicated cut positions strictly inside
// (start, end)
func (s *Segmenter) boundaries(text string, start, end int) []int {
	var cuts []int

	// Cut after each sentence terminator
	for _, loc := range s.terminators.FindAllStringIndex(text, -1) {
		cuts = append(cuts, loc[0]+1)
	}

	// Cut before each explicit section/clause marker
	for _, loc := range s.markers.FindAllStringIndex(text, -1) {
		cuts = append(cuts, loc[0])
	}

	sort.Ints(cuts)

	var unique []int
	last := -1
	for _, cut := range cuts {
		if cut <= start || cut >= end || cut == last {
			continue
		}
		unique = append(unique, cut)
		last = cut
	}
	return unique
}

// trimBounds narrows [start, end) to exclude surrounding whitespace
func trimBounds(text string, start, end int) (int, int, bool) {
	for start < end && unicode.IsSpace(rune(text[start])) {
		start++
	}
	for end > start && unicode.IsSpace(rune(text[end-1])) {
		end--
	}
	return start, end, start < end
}

// hasContent reports whether the fragment carries any letter or digit,
// filtering out fragments that are pure punctuation or numbering debris
func hasContent(fragment string) bool {
	for _, r := range fragment {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
