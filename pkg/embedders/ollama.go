package embedders

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"

	"github.com/ragstack/rageval/pkg/config"
	"github.com/ragstack/rageval/pkg/types"
)

// OllamaEmbedder implements embeddings through a local Ollama server
type OllamaEmbedder struct {
	*BaseEmbedder
	config  *config.EmbedderConfig
	client  *resty.Client
	baseURL string
}

// ollamaEmbeddingRequest represents an Ollama embedding request
type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// ollamaEmbeddingResponse represents an Ollama embedding response
type ollamaEmbeddingResponse struct {
	Embedding []float64 `json:"embedding"`
	Model     string    `json:"model"`
}

// NewOllamaEmbedder creates a new Ollama embedder
func NewOllamaEmbedder(cfg *config.EmbedderConfig) (*OllamaEmbedder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	emb := &OllamaEmbedder{
		BaseEmbedder: NewBaseEmbedder(cfg.Model, cfg.Dimension),
		config:       cfg,
		client:       resty.New().SetBaseURL(baseURL),
		baseURL:      baseURL,
	}

	emb.SetMaxLength(2048) // default for most local models
	if cfg.Timeout > 0 {
		emb.SetTimeout(cfg.Timeout)
		emb.client.SetTimeout(cfg.Timeout)
	}

	return emb, nil
}

// Embed generates an embedding for a single text
func (o *OllamaEmbedder) Embed(ctx context.Context, text string) (types.EmbeddingVector, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text")
	}

	var vector types.EmbeddingVector

	err := retry.Do(
		func() error {
			var result ollamaEmbeddingResponse
			resp, err := o.client.R().
				SetContext(ctx).
				SetBody(ollamaEmbeddingRequest{
					Model:  o.config.Model,
					Prompt: o.PreprocessText(text),
				}).
				SetResult(&result).
				Post("/api/embeddings")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("ollama returned status %d: %s", resp.StatusCode(), resp.String())
			}
			if len(result.Embedding) == 0 {
				return fmt.Errorf("empty embedding returned")
			}

			vector = make(types.EmbeddingVector, len(result.Embedding))
			for i, v := range result.Embedding {
				vector[i] = float32(v)
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("ollama embedding failed: %w", err)
	}

	return vector, nil
}

// EmbedBatch generates embeddings for multiple texts. The Ollama API
// takes one prompt per request, so the batch is sequential.
func (o *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([]types.EmbeddingVector, error) {
	if len(texts) == 0 {
		return []types.EmbeddingVector{}, nil
	}

	results := make([]types.EmbeddingVector, len(texts))
	for i, text := range texts {
		vector, err := o.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d: %w", i, err)
		}
		results[i] = vector
	}

	return results, nil
}
