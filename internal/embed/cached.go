package embed

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/originscan/internal/cache"
)

// CachedEmbedder memoizes vectors per text in a cache layer
type CachedEmbedder struct {
	inner Embedder
	cache cache.Cache
	model string
	ttl   time.Duration
}

// NewCachedEmbedder wraps inner; modelName must identify the provider and model
// of inner because it namespaces the cached vectors
func NewCachedEmbedder(inner Embedder, c cache.Cache, modelName string, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: c, model: modelName, ttl: ttl}
}

// Name returns the wrapped provider name
func (e *CachedEmbedder) Name() string {
	return e.inner.Name()
}

// Embed returns cached vectors and embeds only the misses
func (e *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		var vec []float32
		if cache.GetJSON(e.cache, e.key(text), &vec) && len(vec) > 0 {
			vectors[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	fresh, err := e.inner.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}

	if len(fresh) != len(missing) {
		return nil, fmt.Errorf("expected %d vectors, got %d", len(missing), len(fresh))
	}

	for j, vec := range fresh {
		vectors[missingIdx[j]] = vec
		_ = cache.SetJSON(e.cache, e.key(missing[j]), vec, e.ttl)
	}
	return vectors, nil
}

func (e *CachedEmbedder) key(text string) string {
	return cache.Key("embed", e.model, text)
}
