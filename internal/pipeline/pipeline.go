// Package pipeline wires extraction, segmentation, scoring and reporting
// into a single document analysis.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/originscan/internal/cache"
	"github.com/ppiankov/originscan/internal/embed"
	"github.com/ppiankov/originscan/internal/extract"
	"github.com/ppiankov/originscan/internal/literature"
	"github.com/ppiankov/originscan/internal/logging"
	"github.com/ppiankov/originscan/internal/metrics"
	"github.com/ppiankov/originscan/internal/model"
	"github.com/ppiankov/originscan/internal/report"
	"github.com/ppiankov/originscan/internal/score"
	"github.com/ppiankov/originscan/internal/segment"
	"github.com/ppiankov/originscan/internal/similarity"
	"github.com/ppiankov/originscan/internal/worker"
)

// Analyzer orchestrates the complete analysis of one document
type Analyzer struct {
	extractor *extract.Extractor
	segmenter *segment.Segmenter
	scorer    *score.SectionScorer
	metrics   *metrics.Registry
	logger    *slog.Logger
	analysis  model.AnalysisConfig
	backend   similarity.Kind

	now   func() time.Time
	newID func() string
}

// Options wires the optional collaborators of an Analyzer
type Options struct {
	Extractor *extract.Extractor // nil builds one from cfg.Extract
	Segmenter *segment.Segmenter // nil uses the default rules
	Metrics   *metrics.Registry  // nil disables metrics
	Logger    *slog.Logger
}

// NewAnalyzer creates an Analyzer around an already built similarity backend.
// fallback re-scores any section whose backend call fails.
func NewAnalyzer(cfg *model.Config, backend, fallback similarity.Backend, opts Options) *Analyzer {
	logger := logging.OrNop(opts.Logger)

	a := &Analyzer{
		extractor: opts.Extractor,
		segmenter: opts.Segmenter,
		metrics:   opts.Metrics,
		logger:    logger,
		analysis:  cfg.Analysis,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	if a.extractor == nil {
		a.extractor = extract.NewExtractor(cfg.Extract)
	}
	if a.segmenter == nil {
		a.segmenter = segment.NewSegmenter()
	}

	scoreOpts := score.OptionsFromConfig(cfg.Analysis)
	scoreOpts.Logger = logger
	scoreOpts.OnFallback = func(error) {
		if a.metrics != nil {
			a.metrics.IncFallback()
		}
	}
	a.scorer = score.NewSectionScorer(backend, fallback, scoreOpts)
	if backend != nil {
		a.backend = backend.Kind()
	} else {
		a.backend = similarity.KindFallback
	}
	return a
}

// NewAnalyzerFromConfig builds the configured similarity backend with its
// embedder, literature client, corpus and cache, and returns an Analyzer over it
func NewAnalyzerFromConfig(cfg *model.Config, logger *slog.Logger, registry *metrics.Registry) (*Analyzer, error) {
	logger = logging.OrNop(logger)

	kind, err := similarity.ParseKind(cfg.Similarity.Backend)
	if err != nil {
		return nil, err
	}

	fallback := similarity.NewLowConfidenceHeuristic(cfg.Fallback.RandomFlagRate, cfg.Fallback.Seed)
	opts := similarity.Options{
		Threshold: cfg.Similarity.Threshold,
		Fallback:  fallback,
	}

	if kind != similarity.KindFallback {
		c := cache.New(cfg.Cache)
		ttl := cfg.Cache.DiskTTL
		limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

		embedCfg := embed.ConfigFromModel(cfg.Embedding, cfg.HTTP)
		embedCfg.Limiter = limiter
		handle := embed.NewHandleFromConfig(embedCfg)
		namespace := fmt.Sprintf("%s/%s/%d", cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Embedding.Dimension)
		opts.Embedder = embed.NewCachedEmbedder(handle, c, namespace, ttl)

		if kind == similarity.KindEmbedding {
			corpus, err := similarity.LoadCorpus(cfg.Similarity.CorpusPath)
			if err != nil {
				return nil, fmt.Errorf("load corpus: %w", err)
			}
			if len(corpus) == 0 {
				logger.Warn("reference corpus is empty, no sentence will be flagged",
					"path", cfg.Similarity.CorpusPath)
			}
			opts.Corpus = corpus
		}

		if kind == similarity.KindLiterature {
			opts.Searcher = literature.NewClient(cfg.Literature, cfg.HTTP, literature.Options{
				Limiter:  limiter,
				Cache:    c,
				CacheTTL: ttl,
				Logger:   logger,
			})
		}
	}

	backend, err := similarity.NewBackend(kind, opts)
	if err != nil {
		return nil, fmt.Errorf("similarity backend: %w", err)
	}

	logger.Debug("analyzer ready", "backend", kind, "embedding_provider", cfg.Embedding.Provider)
	return NewAnalyzer(cfg, backend, fallback, Options{Metrics: registry, Logger: logger}), nil
}

// Backend returns the configured similarity backend kind
func (a *Analyzer) Backend() similarity.Kind {
	return a.backend
}

// AnalyzeDocument runs the full pipeline on one document.
// Only *model.ExtractionError and *model.ScannedDocumentError are returned;
// every other failure is absorbed into the report.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, data []byte, filename string) (*model.Report, error) {
	start := a.now()
	if a.metrics != nil {
		a.metrics.IncAnalysisStarted()
	}

	rep, err := a.analyze(ctx, data, filename)
	if err != nil {
		if a.metrics != nil {
			a.metrics.IncAnalysisFailed()
		}
		a.logger.Warn("analysis failed", "filename", filename, "error", err)
		return nil, err
	}

	elapsed := a.now().Sub(start)
	if a.metrics != nil {
		a.metrics.ObserveCompleted(rep.Summary.PlagiarismRisk, elapsed)
	}
	a.logger.Info("analysis completed",
		"id", rep.ID,
		"filename", filename,
		"overall_score", rep.Summary.OverallScore,
		"risk", rep.Summary.PlagiarismRisk,
		"duration", elapsed)
	return rep, nil
}

func (a *Analyzer) analyze(ctx context.Context, data []byte, filename string) (*model.Report, error) {
	// 1. Extract text
	content, err := a.extractor.Extract(ctx, data, filename)
	if err != nil {
		return nil, err
	}
	if content.Metadata.IsScanned {
		return nil, &model.ScannedDocumentError{Filename: filename, PageCount: content.Metadata.PageCount}
	}

	// 2. Segment into canonical sections
	sections := a.segmenter.Segment(content.Text)

	var insufficient *model.InsufficientContentError
	if err := segment.Validate(sections, content.Metadata.CharacterCount, a.analysis.MinDocumentChars); errors.As(err, &insufficient) {
		a.logger.Warn("insufficient content, continuing",
			"filename", filename,
			"reason", insufficient.Reason,
			"characters", insufficient.CharacterCount)
	}

	// 3. Score all sections concurrently
	results := a.scorer.ScoreSections(ctx, sections)

	// 4. Aggregate and recommend
	overall, risk := score.Aggregate(results)
	threshold := a.analysis.RecommendBelow
	if threshold <= 0 {
		threshold = score.DefaultRecommendBelow
	}
	recs := score.GenerateRecommendationsBelow(results, threshold)

	// 5. Build report
	rep := report.Build(results, overall, risk, content.Metadata, recs)
	rep.ID = a.newID()
	rep.Filename = filename
	rep.AnalyzedAt = a.now().UTC()
	rep.Backend = string(a.backend)
	return rep, nil
}
