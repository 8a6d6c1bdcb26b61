package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lexplain/lexplain/internal/model"
)

// Renderer writes analysis results as JSON and Markdown reports
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the caller-facing response shape to a file, or to
// stdout when path is empty
func (r *Renderer) RenderJSON(result *model.DocumentResult, path string) error {
	data, err := json.MarshalIndent(result.Response(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	return writeOut(path, append(data, '\n'))
}

// RenderMarkdown writes a human-readable report to a file, or to stdout
// when path is empty
func (r *Renderer) RenderMarkdown(result *model.DocumentResult, path string) error {
	var b strings.Builder

	b.WriteString("# Clause Analysis Report\n\n")
	fmt.Fprintf(&b, "Analyzed: %s  \n", result.AnalyzedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Clauses: %d | Risks detected: %d | Average risk score: %.1f/100\n\n",
		len(result.Clauses), result.RisksDetected, result.AvgRiskScore)

	b.WriteString("## Plain-Language Summary\n\n")
	b.WriteString(result.Summary)
	b.WriteString("\n\n")

	if len(result.Warnings) > 0 {
		b.WriteString("## Document Warnings\n\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "- `%s`\n", w)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Clauses\n\n")
	b.WriteString("| # | Type | Risk | Score | Warnings |\n")
	b.WriteString("|---|------|------|-------|----------|\n")
	for _, c := range result.Clauses {
		fmt.Fprintf(&b, "| %d | %s | %s | %d | %s |\n",
			c.Span.Index, c.Type, c.Risk.Level, c.Risk.Score, strings.Join(c.Risk.Warnings, ", "))
	}
	b.WriteString("\n")

	for _, c := range result.Clauses {
		fmt.Fprintf(&b, "### Clause %d (%s, %s risk)\n\n", c.Span.Index, c.Type, c.Risk.Level)
		fmt.Fprintf(&b, "**Original:** %s\n\n", c.Span.Text)
		fmt.Fprintf(&b, "**Simplified:** %s\n\n", c.Simplified.Text)
		if c.Risk.Recommendation != "" {
			fmt.Fprintf(&b, "**Recommendation:** %s\n\n", c.Risk.Recommendation)
		}
	}

	if r.includeFooter {
		b.WriteString("---\n")
		b.WriteString("Generated by lexplain. Heuristic analysis, not legal advice.\n")
	}

	return writeOut(path, []byte(b.String()))
}

func writeOut(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// RenderSummary prints a short result overview to stderr
func (r *Renderer) RenderSummary(result *model.DocumentResult) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Clauses:         %d\n", len(result.Clauses))
	fmt.Fprintf(os.Stderr, "  Risks detected:  %d\n", result.RisksDetected)
	fmt.Fprintf(os.Stderr, "  Avg risk score:  %.1f/100\n", result.AvgRiskScore)
	if len(result.Warnings) > 0 {
		fmt.Fprintf(os.Stderr, "  Warnings:        %s\n", strings.Join(result.Warnings, ", "))
	}
	fmt.Fprintf(os.Stderr, "\n")
}
