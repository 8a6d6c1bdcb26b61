package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lexplain/lexplain/internal/model"
	"github.com/lexplain/lexplain/internal/pipeline"
)

var (
	analyzeLevel    string
	analyzeLanguage string
	analyzeJSON     string
	analyzeMD       string
	analyzeProvider string
	analyzeModel    string
	analyzeNoCache  bool
	analyzeTimeout  time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a legal document clause by clause",
	Long: `Analyze reads legal text from a file (or stdin when no file is given),
splits it into clauses, and reports for each clause its type, key entities,
risk assessment, and a plain-language rewrite.

Examples:
  lexplain analyze contract.txt
  lexplain analyze contract.txt --level moderate --json report.json
  cat terms.html | lexplain analyze --md report.md
  lexplain analyze nda.txt --provider openai --model gpt-4o-mini`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeLevel, "level", "", "target reading level (simple, moderate, detailed)")
	analyzeCmd.Flags().StringVar(&analyzeLanguage, "language", "", "document language tag (default: en)")
	analyzeCmd.Flags().StringVar(&analyzeJSON, "json", "", "write JSON report to file (\"-\" for stdout)")
	analyzeCmd.Flags().StringVar(&analyzeMD, "md", "", "write Markdown report to file (\"-\" for stdout)")
	analyzeCmd.Flags().StringVar(&analyzeProvider, "provider", "", "rewriting service provider (openai, ollama; empty for local fallback)")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "rewriting service model name")
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "disable rewrite result caching")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 0, "overall analysis timeout (0 = no limit)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	if analyzeProvider != "" {
		cfg.Rewriter.Provider = analyzeProvider
	}
	if analyzeModel != "" {
		cfg.Rewriter.Model = analyzeModel
	}
	if analyzeNoCache {
		cfg.Cache.Enabled = false
	}

	ctx := context.Background()
	if analyzeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, analyzeTimeout)
		defer cancel()
	}

	analyzer := pipeline.NewAnalyzer(cfg)

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing %d characters (level=%s, language=%s)...\n",
			len(text), orDefault(analyzeLevel, cfg.Analysis.DefaultLevel), orDefault(analyzeLanguage, cfg.Analysis.DefaultLanguage))
	}

	result, err := analyzer.Analyze(ctx, pipeline.Request{
		Text:        text,
		TargetLevel: analyzeLevel,
		Language:    analyzeLanguage,
	})
	if err != nil {
		if pipeline.IsValidation(err) {
			return fmt.Errorf("invalid input: %w", err)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	return renderResult(cfg, result)
}

// readInput reads the document text from the file argument or stdin
func readInput(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}

	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
		return "", fmt.Errorf("no input: pass a file argument or pipe text to stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// renderResult writes the requested report formats; with no format flags the
// human summary goes to stdout
func renderResult(cfg *model.Config, result *model.DocumentResult) error {
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	wrote := false
	if analyzeJSON != "" {
		path := analyzeJSON
		if path == "-" {
			path = ""
		}
		if err := renderer.RenderJSON(result, path); err != nil {
			return fmt.Errorf("writing JSON report: %w", err)
		}
		if path != "" && verbose {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
		}
		wrote = true
	}
	if analyzeMD != "" {
		path := analyzeMD
		if path == "-" {
			path = ""
		}
		if err := renderer.RenderMarkdown(result, path); err != nil {
			return fmt.Errorf("writing Markdown report: %w", err)
		}
		if path != "" && verbose {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
		}
		wrote = true
	}
	if !wrote {
		renderer.RenderSummary(result)
	}
	return nil
}

// loadConfig merges file/env settings over the defaults
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetInt("analysis.max_chars"); v > 0 {
		cfg.Analysis.MaxChars = v
	}
	if v := viper.GetStringSlice("analysis.languages"); len(v) > 0 {
		cfg.Analysis.Languages = v
	}
	if v := viper.GetStringSlice("analysis.levels"); len(v) > 0 {
		cfg.Analysis.Levels = v
	}
	if v := viper.GetString("analysis.default_language"); v != "" {
		cfg.Analysis.DefaultLanguage = v
	}
	if v := viper.GetString("analysis.default_level"); v != "" {
		cfg.Analysis.DefaultLevel = v
	}

	if v := viper.GetString("rewriter.provider"); v != "" {
		cfg.Rewriter.Provider = v
	}
	if v := viper.GetString("rewriter.model"); v != "" {
		cfg.Rewriter.Model = v
	}
	if v := viper.GetString("rewriter.api_key"); v != "" {
		cfg.Rewriter.APIKey = v
	}
	if v := viper.GetString("rewriter.base_url"); v != "" {
		cfg.Rewriter.BaseURL = v
	}
	if v := viper.GetDuration("rewriter.timeout"); v > 0 {
		cfg.Rewriter.Timeout = v
	}
	if v := viper.GetInt("rewriter.max_tokens"); v > 0 {
		cfg.Rewriter.MaxTokens = v
	}
	if v := viper.GetFloat64("rewriter.requests_per_second"); v > 0 {
		cfg.Rewriter.RequestsPerSecond = v
	}
	if v := viper.GetInt("rewriter.burst"); v > 0 {
		cfg.Rewriter.Burst = v
	}
	if v := viper.GetInt64("rewriter.max_in_flight"); v > 0 {
		cfg.Rewriter.MaxInFlight = v
	}

	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if v := viper.GetDuration("cache.ttl"); v > 0 {
		cfg.Cache.TTL = v
	}
	if v := viper.GetDuration("cache.cleanup_interval"); v > 0 {
		cfg.Cache.CleanupInterval = v
	}

	if v := viper.GetInt("concurrency.clause_workers"); v > 0 {
		cfg.Concurrency.ClauseWorkers = v
	}
	if v := viper.GetInt("concurrency.document_workers"); v > 0 {
		cfg.Concurrency.DocumentWorkers = v
	}

	if viper.IsSet("output.include_footer") {
		cfg.Output.IncludeFooter = viper.GetBool("output.include_footer")
	}
	cfg.Output.Verbose = verbose

	// Environment fallback for the API key, matching common provider setup
	if cfg.Rewriter.APIKey == "" {
		cfg.Rewriter.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
