package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexplain/lexplain/internal/pipeline"
	"github.com/lexplain/lexplain/internal/worker"
)

var (
	batchManifest    string
	batchConcurrency int
	batchOutputDir   string
	batchLevel       string
	batchLanguage    string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [files...]",
	Short: "Analyze multiple documents concurrently",
	Long: `Batch analyzes a set of documents, bounded by --concurrency, and writes
one JSON report per input. Inputs come from file arguments or from a
manifest file listing one path per line (# starts a comment).

Examples:
  lexplain batch contracts/*.txt --output-dir reports/
  lexplain batch --manifest contracts.txt --concurrency 8`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchManifest, "manifest", "", "file listing document paths, one per line")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max documents analyzed at once (default from config)")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", ".", "directory for JSON reports")
	batchCmd.Flags().StringVar(&batchLevel, "level", "", "target reading level for all documents")
	batchCmd.Flags().StringVar(&batchLanguage, "language", "", "language tag for all documents")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && batchManifest == "" {
		return fmt.Errorf("no inputs: pass file arguments or --manifest")
	}

	cfg := loadConfig()
	concurrency := batchConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Concurrency.DocumentWorkers
	}

	analyzer := pipeline.NewAnalyzer(cfg)
	processor := worker.NewBatchProcessor(analyzer, concurrency, batchLevel, batchLanguage)

	ctx := context.Background()

	var outcomes []*worker.DocumentOutcome
	if batchManifest != "" {
		var err error
		outcomes, err = processor.ProcessManifest(ctx, batchManifest)
		if err != nil {
			return fmt.Errorf("reading manifest: %w", err)
		}
	} else {
		outcomes = processor.ProcessPaths(ctx, args)
	}

	if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	var failed int
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", outcome.Path, outcome.Err)
			continue
		}

		out := filepath.Join(batchOutputDir, reportName(outcome.Path))
		if err := renderer.RenderJSON(outcome.Result, out); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s: writing report: %v\n", outcome.Path, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "OK   %s: %d clauses, %d risks, avg %.1f -> %s\n",
			outcome.Path, len(outcome.Result.Clauses), outcome.Result.RisksDetected,
			outcome.Result.AvgRiskScore, out)
	}

	fmt.Fprintf(os.Stderr, "Processed %d documents, %d failed\n", len(outcomes), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(outcomes))
	}
	return nil
}

// reportName maps an input path to its report filename
func reportName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".json"
}
