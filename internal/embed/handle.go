package embed

import (
	"context"
	"fmt"
	"sync"
)

// Handle is a lazily initialized, shared embedder.
// The first caller builds the embedder under a lock; concurrent callers wait.
// A failed build is not remembered, so the next call retries.
type Handle struct {
	mu      sync.Mutex
	newFunc func() (Embedder, error)
	current Embedder
}

// NewHandle creates a handle that builds its embedder with newFunc on first use
func NewHandle(newFunc func() (Embedder, error)) *Handle {
	return &Handle{newFunc: newFunc}
}

// NewHandleFromConfig creates a handle around NewEmbedder(config)
func NewHandleFromConfig(config Config) *Handle {
	return NewHandle(func() (Embedder, error) {
		return NewEmbedder(config)
	})
}

// Get returns the shared embedder, building it if needed
func (h *Handle) Get() (Embedder, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current != nil {
		return h.current, nil
	}

	e, err := h.newFunc()
	if err != nil {
		return nil, fmt.Errorf("load embedder: %w", err)
	}
	if e == nil {
		return nil, fmt.Errorf("load embedder: no embedder returned")
	}
	h.current = e
	return e, nil
}

// Name returns the provider name, or "unloaded" before first use
func (h *Handle) Name() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return "unloaded"
	}
	return h.current.Name()
}

// Embed satisfies Embedder by delegating to the shared instance
func (h *Handle) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e, err := h.Get()
	if err != nil {
		return nil, err
	}
	return e.Embed(ctx, texts)
}
