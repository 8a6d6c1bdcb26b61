package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lexplain/lexplain/internal/model"
)

// DocumentAnalyzer analyzes one document's text
type DocumentAnalyzer interface {
	AnalyzeText(ctx context.Context, text, targetLevel, language string) (*model.DocumentResult, error)
}

// DocumentOutcome is the result of analyzing one document from a batch.
// Exactly one of Result and Err is set.
type DocumentOutcome struct {
	Path   string
	Result *model.DocumentResult
	Err    error
}

// BatchProcessor analyzes multiple documents concurrently. Each document's
// pipeline run is independent; outcomes come back in input order regardless
// of completion order.
type BatchProcessor struct {
	analyzer    DocumentAnalyzer
	concurrency int
	targetLevel string
	language    string
}

// NewBatchProcessor creates a batch processor with the given worker bound
func NewBatchProcessor(analyzer DocumentAnalyzer, concurrency int, targetLevel, language string) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		targetLevel: targetLevel,
		language:    language,
	}
}

// ProcessPaths analyzes the documents at the given paths concurrently
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*DocumentOutcome {
	outcomes := make([]*DocumentOutcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			outcomes[i] = b.processOne(gctx, path)
			return nil
		})
	}

	// Workers never return errors; per-document failures live in the
	// outcome so one bad document cannot abort the batch.
	_ = g.Wait()

	return outcomes
}

func (b *BatchProcessor) processOne(ctx context.Context, path string) *DocumentOutcome {
	outcome := &DocumentOutcome{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		outcome.Err = fmt.Errorf("read document: %w", err)
		return outcome
	}

	result, err := b.analyzer.AnalyzeText(ctx, string(data), b.targetLevel, b.language)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Result = result
	return outcome
}

// ProcessManifest reads document paths from a manifest file and analyzes
// them concurrently
func (b *BatchProcessor) ProcessManifest(ctx context.Context, manifestPath string) ([]*DocumentOutcome, error) {
	paths, err := ReadManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadManifest reads document paths from a file, one per line. Blank lines
// and #-comments are skipped; duplicates are dropped.
func ReadManifest(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
