package embedders

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/sashabaranov/go-openai"

	"github.com/ragstack/rageval/pkg/config"
	"github.com/ragstack/rageval/pkg/types"
)

// OpenAIEmbedder implements embeddings through the OpenAI API
type OpenAIEmbedder struct {
	*BaseEmbedder
	config *config.EmbedderConfig
	client *openai.Client
}

// NewOpenAIEmbedder creates a new OpenAI embedder
func NewOpenAIEmbedder(cfg *config.EmbedderConfig) (*OpenAIEmbedder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	dimension := cfg.Dimension
	if dimension == 0 {
		switch cfg.Model {
		case "text-embedding-3-large":
			dimension = 3072
		default:
			dimension = 1536
		}
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	oai := &OpenAIEmbedder{
		BaseEmbedder: NewBaseEmbedder(cfg.Model, dimension),
		config:       cfg,
		client:       openai.NewClientWithConfig(clientConfig),
	}

	oai.SetMaxLength(8191) // OpenAI's max input length
	if cfg.Timeout > 0 {
		oai.SetTimeout(cfg.Timeout)
	}

	return oai, nil
}

// Embed generates an embedding for a single text
func (oai *OpenAIEmbedder) Embed(ctx context.Context, text string) (types.EmbeddingVector, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text")
	}

	embeddings, err := oai.createEmbeddingsWithRetry(ctx, []string{oai.PreprocessText(text)})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	result := embeddings[0]
	if err := oai.ValidateVector(result); err != nil {
		return nil, fmt.Errorf("invalid embedding: %w", err)
	}

	return result, nil
}

// EmbedBatch generates embeddings for multiple texts in one request
func (oai *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([]types.EmbeddingVector, error) {
	if len(texts) == 0 {
		return []types.EmbeddingVector{}, nil
	}

	batchSize := oai.config.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	results := make([]types.EmbeddingVector, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		processed := make([]string, 0, end-start)
		for _, text := range texts[start:end] {
			processed = append(processed, oai.PreprocessText(text))
		}

		embeddings, err := oai.createEmbeddingsWithRetry(ctx, processed)
		if err != nil {
			return nil, fmt.Errorf("OpenAI API error for batch starting at %d: %w", start, err)
		}
		if len(embeddings) != len(processed) {
			return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(processed), len(embeddings))
		}
		results = append(results, embeddings...)
	}

	return results, nil
}

// createEmbeddingsWithRetry calls the embeddings endpoint with bounded retry
func (oai *OpenAIEmbedder) createEmbeddingsWithRetry(ctx context.Context, inputs []string) ([]types.EmbeddingVector, error) {
	var embeddings []types.EmbeddingVector

	err := retry.Do(
		func() error {
			reqCtx, cancel := context.WithTimeout(ctx, oai.GetTimeout())
			defer cancel()

			resp, err := oai.client.CreateEmbeddings(reqCtx, openai.EmbeddingRequest{
				Input: inputs,
				Model: openai.EmbeddingModel(oai.config.Model),
			})
			if err != nil {
				return err
			}

			embeddings = make([]types.EmbeddingVector, len(resp.Data))
			for i, item := range resp.Data {
				embeddings[i] = types.EmbeddingVector(item.Embedding)
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
	)

	return embeddings, err
}
