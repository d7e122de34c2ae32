// Package score turns section text into originality scores and aggregates them.
package score

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ppiankov/originscan/internal/logging"
	"github.com/ppiankov/originscan/internal/model"
	"github.com/ppiankov/originscan/internal/segment"
	"github.com/ppiankov/originscan/internal/similarity"
)

// Options tunes sentence selection and backend calls
type Options struct {
	MinSectionChars  int
	MinSentenceChars int
	MaxSentences     int
	Timeout          time.Duration // Per backend call, 0 disables

	Logger *slog.Logger

	// OnFallback is called each time a section is re-scored by the fallback heuristic
	OnFallback func(err error)
}

// OptionsFromConfig maps the analysis config onto scorer options
func OptionsFromConfig(cfg model.AnalysisConfig) Options {
	return Options{
		MinSectionChars:  cfg.MinSectionChars,
		MinSentenceChars: cfg.MinSentenceChars,
		MaxSentences:     cfg.MaxSentences,
		Timeout:          cfg.SectionTimeout,
	}
}

// SectionScorer turns section text into a SectionResult
type SectionScorer struct {
	backend  similarity.Backend
	fallback similarity.Backend
	opts     Options
	logger   *slog.Logger
}

// NewSectionScorer creates a scorer; fallback is used whenever backend fails
func NewSectionScorer(backend, fallback similarity.Backend, opts Options) *SectionScorer {
	if opts.MinSectionChars <= 0 {
		opts.MinSectionChars = 100
	}
	if opts.MinSentenceChars <= 0 {
		opts.MinSentenceChars = 25
	}
	if opts.MaxSentences <= 0 {
		opts.MaxSentences = 50
	}
	if fallback == nil {
		fallback = similarity.NewLowConfidenceHeuristic(0.10, 0)
	}
	if backend == nil {
		backend = fallback
	}

	return &SectionScorer{
		backend:  backend,
		fallback: fallback,
		opts:     opts,
		logger:   logging.OrNop(opts.Logger),
	}
}

// ScoreSection scores one section's text; the caller attaches the section name.
// It always returns a result: backend failures are answered by the fallback.
func (s *SectionScorer) ScoreSection(ctx context.Context, text string) model.SectionResult {
	if utf8.RuneCountInString(text) < s.opts.MinSectionChars {
		return fullScore()
	}

	sentences := segment.CandidateSentences(text, s.opts.MinSentenceChars, s.opts.MaxSentences)
	if len(sentences) == 0 {
		return fullScore()
	}

	analysis, kind, err := s.analyze(ctx, sentences)
	if err != nil {
		s.logger.Error("fallback scoring failed", "error", err)
		r := fullScore()
		r.TotalSentences = len(sentences)
		return r
	}

	return model.SectionResult{
		Score:          clampScore(analysis.Score()),
		FlaggedCount:   len(analysis.Flagged),
		Examples:       analysis.Flagged,
		TotalSentences: analysis.TotalSentences,
		Backend:        string(kind),
	}
}

func (s *SectionScorer) analyze(ctx context.Context, sentences []string) (*similarity.Analysis, similarity.Kind, error) {
	callCtx := ctx
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	analysis, err := s.backend.Analyze(callCtx, sentences)
	if err == nil && analysis != nil {
		return analysis, s.backend.Kind(), nil
	}
	if err == nil {
		err = errors.New("backend returned no analysis")
	}

	backendErr := &model.SimilarityBackendError{Backend: string(s.backend.Kind()), Err: err}
	s.logger.Warn("similarity backend failed, using fallback heuristic", "error", backendErr)
	if s.opts.OnFallback != nil {
		s.opts.OnFallback(backendErr)
	}

	if s.backend == s.fallback {
		return nil, "", backendErr
	}

	analysis, err = s.fallback.Analyze(ctx, sentences)
	if err != nil {
		return nil, "", err
	}
	return analysis, s.fallback.Kind(), nil
}

// ScoreSections scores the six canonical sections concurrently and returns
// the results in canonical order
func (s *SectionScorer) ScoreSections(ctx context.Context, sections model.SectionMap) []model.SectionResult {
	results := make([]model.SectionResult, len(model.CanonicalSections))
	var wg sync.WaitGroup

	for i, name := range model.CanonicalSections {
		wg.Add(1)
		go func(idx int, name model.SectionName, text string) {
			defer wg.Done()

			start := time.Now()
			r := s.ScoreSection(ctx, text)
			r.Section = name
			results[idx] = r

			s.logger.Debug("section scored",
				"section", name,
				"score", r.Score,
				"flagged", r.FlaggedCount,
				"sentences", r.TotalSentences,
				"backend", r.Backend,
				"duration", time.Since(start))
		}(i, name, sections[name])
	}

	wg.Wait()
	return results
}

func fullScore() model.SectionResult {
	return model.SectionResult{Score: 100, Examples: []model.FlaggedExample{}}
}
