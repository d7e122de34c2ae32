package embed

import (
	"fmt"
	"strings"
)

// NewEmbedder creates an embedding provider based on configuration
func NewEmbedder(config Config) (Embedder, error) {
	switch strings.ToLower(config.Provider) {
	case "local", "":
		return NewLocalEmbedder(config.Dimension), nil

	case "openai":
		return NewOpenAIEmbedder(config)

	case "ollama":
		return NewOllamaEmbedder(config)

	case "huggingface", "hf":
		return NewHuggingFaceEmbedder(config)

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: local, openai, ollama, huggingface)", config.Provider)
	}
}
