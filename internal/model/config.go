package model

import "time"

// Config holds the full analysis configuration. It is loaded once, treated
// as immutable, and passed into each pipeline run; concurrent document
// analyses share no mutable state through it.
type Config struct {
	Analysis    AnalysisConfig    `yaml:"analysis"`
	Rewriter    RewriterConfig    `yaml:"rewriter"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// AnalysisConfig bounds and defaults for incoming requests
type AnalysisConfig struct {
	MaxChars        int      `yaml:"max_chars"`
	Languages       []string `yaml:"languages"` // Accepted language tags
	Levels          []string `yaml:"levels"`    // Accepted target levels
	DefaultLanguage string   `yaml:"default_language"`
	DefaultLevel    string   `yaml:"default_level"`
}

// RewriterConfig configures the external rewriting service
type RewriterConfig struct {
	Provider          string        `yaml:"provider"` // "openai", "ollama", "" disables
	Model             string        `yaml:"model"`
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxTokens         int           `yaml:"max_tokens"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	MaxInFlight       int64         `yaml:"max_in_flight"` // Admission bound on concurrent calls
}

// CacheConfig configures rewrite result caching
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// ConcurrencyConfig bounds the per-clause and per-document fan-out
type ConcurrencyConfig struct {
	ClauseWorkers   int `yaml:"clause_workers"`
	DocumentWorkers int `yaml:"document_workers"`
}

// OutputConfig controls CLI rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MaxChars:        50000,
			Languages:       []string{"en", "en-US", "en-GB"},
			Levels:          []string{"simple", "moderate", "detailed"},
			DefaultLanguage: "en",
			DefaultLevel:    "simple",
		},
		Rewriter: RewriterConfig{
			Provider:          "", // Disabled by default, local fallback only
			Timeout:           15 * time.Second,
			MaxTokens:         400,
			RequestsPerSecond: 5,
			Burst:             5,
			MaxInFlight:       4,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             1 * time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			ClauseWorkers:   8,
			DocumentWorkers: 4,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
