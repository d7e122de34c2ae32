package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ppiankov/originscan/internal/metrics"
	"github.com/ppiankov/originscan/internal/pipeline"
)

var (
	outJSON        string
	outMD          string
	analyzeTimeout time.Duration
	noFooter       bool
	analyzeFlags   analysisFlags
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Score the originality of a single document",
	Long: `Analyze extracts the text of a PDF, DOCX, HTML or plain-text paper and:
- Splits it into abstract, introduction, methodology, results, discussion and conclusion
- Compares each section's sentences with the configured similarity backend
- Weights the section scores into one originality score and risk level
- Writes a JSON report and, optionally, a Markdown report

Example:
  originscan analyze paper.pdf
  originscan analyze paper.pdf --json report.json --md report.md
  originscan analyze paper.docx --backend literature --provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path (empty to skip)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeFlags.register(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	analyzeFlags.apply(cmd, cfg)
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	logger := newLogger(cfg)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, use 'originscan batch' instead", path)
	}
	if limit := cfg.Extract.MaxFileBytes; limit > 0 && info.Size() > limit {
		return fmt.Errorf("%s is %s, limit is %s", path, humanize.Bytes(uint64(info.Size())), humanize.Bytes(uint64(limit)))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s (%s)\n", path, humanize.Bytes(uint64(len(data))))
		fmt.Fprintf(os.Stderr, "Backend:   %s\n", cfg.Similarity.Backend)
		fmt.Fprintf(os.Stderr, "Embedder:  %s\n", cfg.Embedding.Provider)
		fmt.Fprintf(os.Stderr, "Timeout:   %v\n", analyzeTimeout)
		fmt.Fprintln(os.Stderr)
	}

	analyzer, err := pipeline.NewAnalyzerFromConfig(cfg, logger, metrics.NewRegistry())
	if err != nil {
		return fmt.Errorf("configure analyzer: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	start := time.Now()
	report, err := analyzer.AnalyzeDocument(ctx, data, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "✓ Scored %d sections in %s\n", len(report.DetailedResults), time.Since(start).Round(time.Millisecond))
		fmt.Fprintf(os.Stderr, "✓ Overall originality: %d/100\n", report.Summary.OverallScore)
		fmt.Fprintln(os.Stderr)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if err := writeOutputs(renderer, report, outJSON, outMD, cfg.Output.Verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	renderer.RenderSummary(cmd.OutOrStdout(), report)
	return nil
}
