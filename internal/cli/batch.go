package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ppiankov/originscan/internal/archive"
	"github.com/ppiankov/originscan/internal/extract"
	"github.com/ppiankov/originscan/internal/metrics"
	"github.com/ppiankov/originscan/internal/pipeline"
	"github.com/ppiankov/originscan/internal/worker"
)

var (
	concurrency   int
	outputDir     string
	batchTimeout  time.Duration
	batchArchive  bool
	batchAnalysis analysisFlags
	// noFooter is defined in analyze.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file|directory>",
	Short: "Analyze many documents in parallel",
	Long: `Batch analyzes several documents concurrently:
- Read document paths from a list file (one per line, # comments allowed)
  or walk a directory for supported files
- Analyze documents in parallel with a configurable worker count
- Write a JSON and Markdown report per document

Example:
  originscan batch papers.txt
  originscan batch ./submissions --concurrency 8 --output-dir ./reports
  originscan batch ./submissions --archive`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./originscan-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().BoolVar(&batchArchive, "archive", false, "also store every report in the configured archive")
	batchAnalysis.register(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	target := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	batchAnalysis.apply(cmd, cfg)
	if cmd.Flags().Changed("concurrency") || cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  originscan batch analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", target)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Backend:      %s\n", cfg.Similarity.Backend)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var store archive.Store
	if batchArchive {
		store, err = archive.Open(cfg.Archive)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer func() { _ = store.Close() }()
	}

	analyzer, err := pipeline.NewAnalyzerFromConfig(cfg, logger, metrics.NewRegistry())
	if err != nil {
		return fmt.Errorf("configure analyzer: %w", err)
	}

	processor := worker.NewBatchProcessor(analyzer, cfg.Concurrency.Workers, cfg.Extract.MaxFileBytes)

	fmt.Fprintf(os.Stderr, "⚙️  Analyzing documents...\n\n")
	results, err := processor.ProcessTarget(ctx, target, extract.SupportedExtensions)
	if err != nil {
		return fmt.Errorf("process target: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0
	var totalBytes int64

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		slug := sanitizeFilename(strings.TrimSuffix(filepath.Base(result.Path), filepath.Ext(result.Path)))
		if slug == "" {
			slug = result.Report.ID
		}
		jsonPath := filepath.Join(outputDir, fmt.Sprintf("%03d-%s.json", result.Index+1, slug))
		mdPath := filepath.Join(outputDir, fmt.Sprintf("%03d-%s.md", result.Index+1, slug))

		if err := writeOutputs(renderer, result.Report, jsonPath, mdPath, false); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, err)
			continue
		}
		if store != nil {
			if err := archive.SaveReport(ctx, store, result.Report); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: archive: %v\n", result.Path, err)
			}
		}

		successCount++
		totalBytes += result.Bytes
		fmt.Fprintf(os.Stderr, "✓ %s (score: %d/100, %s risk, %s)\n",
			result.Path,
			result.Report.Summary.OverallScore,
			result.Report.Summary.PlagiarismRisk,
			result.Duration.Round(time.Millisecond))
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d documents\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d (%s read)\n", successCount, humanize.Bytes(uint64(totalBytes)))
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if successCount == 0 && failureCount > 0 {
		return fmt.Errorf("all %d documents failed", failureCount)
	}
	return nil
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename makes s safe to use as a file name
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	s = strings.Trim(s, ".")

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
