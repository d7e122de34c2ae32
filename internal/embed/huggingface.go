package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultHuggingFaceURL   = "https://api-inference.huggingface.co/pipeline/feature-extraction"
	defaultHuggingFaceModel = "sentence-transformers/all-mpnet-base-v2"
)

// HuggingFaceEmbedder implements Embedder for the inference feature-extraction pipeline
type HuggingFaceEmbedder struct {
	endpoint   string
	httpClient *http.Client
	config     Config
}

type hfRequest struct {
	Inputs  []string  `json:"inputs"`
	Options hfOptions `json:"options"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// NewHuggingFaceEmbedder creates a new HuggingFace embedder
func NewHuggingFaceEmbedder(config Config) (*HuggingFaceEmbedder, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("HuggingFace API token is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultHuggingFaceURL
	}
	modelName := config.Model
	if modelName == "" {
		modelName = defaultHuggingFaceModel
	}

	return &HuggingFaceEmbedder{
		endpoint:   strings.TrimSuffix(baseURL, "/") + "/" + modelName,
		httpClient: config.httpClient(baseURL),
		config:     config,
	}, nil
}

// Name returns the provider name
func (e *HuggingFaceEmbedder) Name() string {
	return "huggingface"
}

// Embed embeds texts with the feature-extraction pipeline
func (e *HuggingFaceEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return embedInBatches(ctx, texts, e.config.batchSize(), e.embedBatch)
}

func (e *HuggingFaceEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(hfRequest{Inputs: texts, Options: hfOptions{WaitForModel: true}})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+e.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HuggingFace API error: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HuggingFace API error (%d): %s", httpResp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var vectors [][]float32
	if err := json.Unmarshal(respBody, &vectors); err != nil {
		return nil, fmt.Errorf("unexpected embedding format: %w", err)
	}
	return vectors, nil
}
