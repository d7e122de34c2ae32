package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ppiankov/originscan/internal/archive"
	"github.com/ppiankov/originscan/internal/metrics"
	"github.com/ppiankov/originscan/internal/pipeline"
	"github.com/ppiankov/originscan/internal/server"
)

var (
	serveAddr     string
	serveAnalysis analysisFlags
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis HTTP API",
	Long: `Serve exposes the analysis pipeline over HTTP:
  GET  /api/v1/health
  POST /api/v1/analyses       (multipart form field "file")
  GET  /api/v1/analyses/:id
  GET  /metrics

Reports are stored in the configured archive (memory or sqlite).

Example:
  originscan serve --addr :8080
  ORIGINSCAN_ARCHIVE_DRIVER=sqlite originscan serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	serveAnalysis.register(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	serveAnalysis.apply(cmd, cfg)
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	logger := newLogger(cfg)

	store, err := archive.Open(cfg.Archive)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = store.Close() }()

	registry := metrics.NewRegistry()
	analyzer, err := pipeline.NewAnalyzerFromConfig(cfg, logger, registry)
	if err != nil {
		return fmt.Errorf("configure analyzer: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(cfg.Server, analyzer, store, registry, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "originscan v%s serving on %s (backend: %s, archive: %s)\n",
		version, cfg.Server.Addr, analyzer.Backend(), cfg.Archive.Driver)
	return srv.Run(ctx)
}
