package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage lexplain configuration",
}

// configShowCmd prints the effective configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

// configInitCmd writes a default config file
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to $HOME/.lexplain/config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}

		dir := filepath.Join(home, ".lexplain")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}

		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, remove it first", path)
		}

		if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}

		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

const defaultConfigYAML = `# Lexplain configuration
analysis:
  max_chars: 50000
  languages: [en, en-US, en-GB]
  levels: [simple, moderate, detailed]
  default_language: en
  default_level: simple

rewriter:
  # provider: openai | ollama | "" (local fallback only)
  provider: ""
  model: ""
  # api_key: set here or via OPENAI_API_KEY
  timeout: 15s
  max_tokens: 400
  requests_per_second: 5
  burst: 5
  max_in_flight: 4

cache:
  enabled: true
  ttl: 1h
  cleanup_interval: 10m

concurrency:
  clause_workers: 8
  document_workers: 4

output:
  include_footer: true
`

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
