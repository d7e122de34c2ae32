package similarity

import (
	"context"
	"fmt"
	"sync"

	"github.com/ppiankov/originscan/internal/embed"
)

// EmbeddingBackend flags sentences whose embedding is close to a reference pattern
type EmbeddingBackend struct {
	embedder  embed.Embedder
	corpus    []Pattern
	threshold float64

	mu      sync.Mutex
	vectors [][]float32
}

// NewEmbeddingBackend creates a backend over a fixed corpus
func NewEmbeddingBackend(embedder embed.Embedder, corpus []Pattern, threshold float64) *EmbeddingBackend {
	return &EmbeddingBackend{embedder: embedder, corpus: corpus, threshold: threshold}
}

// Kind returns KindEmbedding
func (b *EmbeddingBackend) Kind() Kind {
	return KindEmbedding
}

// Analyze embeds every sentence and compares it with the corpus
func (b *EmbeddingBackend) Analyze(ctx context.Context, sentences []string) (*Analysis, error) {
	analysis := &Analysis{TotalSentences: len(sentences)}
	if len(sentences) == 0 {
		return analysis, nil
	}

	vectors, err := b.embedder.Embed(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("embed sentences: %w", err)
	}
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d sentences", len(vectors), len(sentences))
	}

	refs, err := b.corpusVectors(ctx)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return analysis, nil
	}

	for i, vec := range vectors {
		idx, sim := bestMatch(vec, refs)
		if idx >= 0 && sim >= b.threshold {
			analysis.Flagged = append(analysis.Flagged, flag(sentences[i], sim, b.corpus[idx].Source()))
		}
	}
	return analysis, nil
}

// corpusVectors embeds the corpus once; a failed attempt is retried on the next call
func (b *EmbeddingBackend) corpusVectors(ctx context.Context) ([][]float32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.vectors != nil || len(b.corpus) == 0 {
		return b.vectors, nil
	}

	texts := make([]string, len(b.corpus))
	for i, p := range b.corpus {
		texts[i] = p.Text
	}
	vectors, err := b.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d patterns", len(vectors), len(texts))
	}
	b.vectors = vectors
	return vectors, nil
}
