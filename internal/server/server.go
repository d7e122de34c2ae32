// Package server exposes document analysis over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/originscan/internal/archive"
	"github.com/ppiankov/originscan/internal/logging"
	"github.com/ppiankov/originscan/internal/metrics"
	"github.com/ppiankov/originscan/internal/model"
)

// Analyzer runs the analysis pipeline on one uploaded document
type Analyzer interface {
	AnalyzeDocument(ctx context.Context, data []byte, filename string) (*model.Report, error)
}

// Server serves the analysis API
type Server struct {
	cfg      model.ServerConfig
	analyzer Analyzer
	store    archive.Store
	metrics  *metrics.Registry
	logger   *slog.Logger
}

// New creates a server; registry may be nil to disable /metrics
func New(cfg model.ServerConfig, analyzer Analyzer, store archive.Store, registry *metrics.Registry, logger *slog.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if store == nil {
		store = archive.NewMemoryStore()
	}
	return &Server{
		cfg:      cfg,
		analyzer: analyzer,
		store:    store,
		metrics:  registry,
		logger:   logging.OrNop(logger),
	}
}

// Router constructs the gin engine with middleware and routes registered
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(
		RequestID(),
		Logging(s.logger),
		Recovery(s.logger),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	api.POST("/analyses", s.createAnalysis)
	api.GET("/analyses/:id", s.getAnalysis)

	if s.metrics != nil {
		r.GET("/metrics", s.metrics.Handler())
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
