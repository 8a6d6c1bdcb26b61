package simplify

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Rewriter is the external rewriting service the simplifier delegates to.
// Implementations may fail or time out; callers must degrade to the local
// fallback and never surface rewriter errors as document errors.
type Rewriter interface {
	// Name returns the provider name
	Name() string

	// Rewrite rewrites clause text in plain language
	Rewrite(ctx context.Context, req RewriteRequest) (*RewriteResult, error)
}

// RewriteRequest carries one clause to the rewriting service
type RewriteRequest struct {
	Text        string
	TargetLevel string // e.g. "simple"
	Language    string // e.g. "en"
	MaxTokens   int
}

// RewriteResult is the service's rewrite of one clause
type RewriteResult struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds rewriting-service configuration
type Config struct {
	// Provider name: "openai", "ollama", "" disables the remote path
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout bounds each rewrite call
	Timeout time.Duration

	// MaxTokens limits response length
	MaxTokens int
}

// NewRewriter creates a rewriter based on configuration. An empty provider
// returns (nil, nil): remote rewriting disabled, fallback only.
func NewRewriter(cfg Config) (Rewriter, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIRewriter(cfg)

	case "ollama":
		return NewOllamaRewriter(cfg)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown rewriter provider: %s (supported: openai, ollama)", cfg.Provider)
	}
}

// BuildPrompt constructs the rewriting prompt for one clause
func BuildPrompt(req RewriteRequest) string {
	level := req.TargetLevel
	if level == "" {
		level = "simple"
	}
	language := req.Language
	if language == "" {
		language = "en"
	}

	return fmt.Sprintf(`Rewrite the following legal clause in plain language.

RULES:
1. Keep every amount, date, deadline and party name exactly as written.
2. Do not add obligations, rights or facts that are not in the clause.
3. Target level: %s. Language: %s.
4. Reply with the rewritten clause only, no preamble.

Clause:
%s`, level, language, req.Text)
}

const systemPrompt = "You rewrite legal clauses in plain language without changing their meaning."
