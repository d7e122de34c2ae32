package similarity

import (
	"fmt"

	"github.com/ppiankov/originscan/internal/embed"
	"github.com/ppiankov/originscan/internal/literature"
)

// Options carries the collaborators a backend may need
type Options struct {
	Threshold float64
	Embedder  embed.Embedder
	Searcher  literature.Searcher
	Corpus    []Pattern
	Fallback  *LowConfidenceHeuristic
}

// NewBackend creates the backend named by kind
func NewBackend(kind Kind, opts Options) (Backend, error) {
	switch kind {
	case KindEmbedding, "":
		if opts.Embedder == nil {
			return nil, fmt.Errorf("embedding backend requires an embedder")
		}
		return NewEmbeddingBackend(opts.Embedder, opts.Corpus, opts.Threshold), nil

	case KindLiterature:
		if opts.Embedder == nil || opts.Searcher == nil {
			return nil, fmt.Errorf("literature backend requires an embedder and a searcher")
		}
		return NewLiteratureBackend(opts.Searcher, opts.Embedder, opts.Threshold), nil

	case KindFallback:
		if opts.Fallback == nil {
			return NewLowConfidenceHeuristic(0.10, 0), nil
		}
		return opts.Fallback, nil

	default:
		return nil, fmt.Errorf("unknown similarity backend: %s", kind)
	}
}
