package similarity

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/originscan/internal/embed"
	"github.com/ppiankov/originscan/internal/literature"
)

// LiteratureBackend flags sentences that resemble abstracts returned by a literature search
type LiteratureBackend struct {
	searcher  literature.Searcher
	embedder  embed.Embedder
	threshold float64
}

// NewLiteratureBackend creates a backend searching with searcher
func NewLiteratureBackend(searcher literature.Searcher, embedder embed.Embedder, threshold float64) *LiteratureBackend {
	return &LiteratureBackend{searcher: searcher, embedder: embedder, threshold: threshold}
}

// Kind returns KindLiterature
func (b *LiteratureBackend) Kind() Kind {
	return KindLiterature
}

// Analyze searches with the start of the section and compares each sentence with the hits
func (b *LiteratureBackend) Analyze(ctx context.Context, sentences []string) (*Analysis, error) {
	analysis := &Analysis{TotalSentences: len(sentences)}
	if len(sentences) == 0 {
		return analysis, nil
	}

	papers, err := b.searcher.Search(ctx, strings.Join(sentences, " "))
	if err != nil {
		return nil, fmt.Errorf("literature search: %w", err)
	}

	var candidates []literature.Paper
	for _, p := range papers {
		if strings.TrimSpace(p.Summary) != "" {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return analysis, nil
	}

	texts := make([]string, 0, len(sentences)+len(candidates))
	texts = append(texts, sentences...)
	for _, p := range candidates {
		texts = append(texts, p.Summary)
	}

	vectors, err := b.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed sentences: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}

	sentenceVecs, paperVecs := vectors[:len(sentences)], vectors[len(sentences):]
	for i, vec := range sentenceVecs {
		idx, sim := bestMatch(vec, paperVecs)
		if idx >= 0 && sim >= b.threshold {
			p := candidates[idx]
			analysis.Flagged = append(analysis.Flagged, flag(sentences[i], sim, Source{
				Title:   p.Title,
				Authors: p.AuthorList(),
				Year:    p.Year,
				URL:     p.URL,
			}))
		}
	}
	return analysis, nil
}
