// Package embed turns sentences into vectors for similarity scoring.
package embed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ppiankov/originscan/internal/model"
	"github.com/ppiankov/originscan/internal/util"
	"github.com/ppiankov/originscan/internal/worker"
)

// Embedder defines the interface for sentence-embedding providers
type Embedder interface {
	// Name returns the provider name
	Name() string

	// Embed returns one vector per input text, in input order
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Config holds embedding provider configuration
type Config struct {
	// Provider name: "local", "openai", "ollama", "huggingface"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/HuggingFace
	APIKey string

	// BaseURL for custom endpoints (Ollama, OpenAI-compatible servers)
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// BatchSize caps the number of texts per request
	BatchSize int

	// Dimension of the local hashing embedder
	Dimension int

	UserAgent string

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string

	// Limiter throttles requests to the provider endpoint; nil disables it
	Limiter *worker.Limiter

	// RequestsPerSecond is the endpoint's own budget within Limiter; <= 0 is unlimited
	RequestsPerSecond float64
}

// DefaultConfig returns the offline defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "local",
		Timeout:   30 * time.Second,
		BatchSize: 16,
		Dimension: 256,
	}
}

// ConfigFromModel converts the application config into an embed.Config
func ConfigFromModel(cfg model.EmbeddingConfig, httpCfg model.HTTPConfig) Config {
	return Config{
		Provider:          cfg.Provider,
		Model:             cfg.Model,
		APIKey:            cfg.APIKey,
		BaseURL:           cfg.BaseURL,
		Timeout:           cfg.Timeout,
		BatchSize:         cfg.BatchSize,
		Dimension:         cfg.Dimension,
		UserAgent:         httpCfg.UserAgent,
		HTTPProxy:         httpCfg.HTTPProxy,
		HTTPSProxy:        httpCfg.HTTPSProxy,
		NoProxy:           httpCfg.NoProxy,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return c.Timeout
}

// httpClient builds the outbound client for endpoint with proxy, user agent
// and per-host limiting applied
func (c Config) httpClient(endpoint string) *http.Client {
	client := util.NewHTTPClient(c.timeout(), c.HTTPProxy, c.HTTPSProxy, c.NoProxy)
	client.Transport = util.WithUserAgent(client.Transport, c.UserAgent)
	if c.Limiter != nil {
		if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
			c.Limiter.SetHostRate(u.Host, c.RequestsPerSecond, 0)
		}
		client.Transport = c.Limiter.Transport(client.Transport)
	}
	return client
}

func (c Config) batchSize() int {
	if c.BatchSize <= 0 {
		return 16
	}
	return c.BatchSize
}

// embedInBatches splits texts into batches of size and concatenates the
// vectors returned by fn, checking that every batch is fully answered
func embedInBatches(ctx context.Context, texts []string, size int, fn func(context.Context, []string) ([][]float32, error)) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + size
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := fn(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("expected %d vectors, got %d", end-start, len(batch))
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}
