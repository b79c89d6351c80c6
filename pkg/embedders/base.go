// Package embedders provides embedding provider implementations for RAGEval
package embedders

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ragstack/rageval/pkg/types"
)

// BaseEmbedder provides common functionality for all embedder implementations
type BaseEmbedder struct {
	modelName string
	dimension int
	maxLength int
	timeout   time.Duration
}

// NewBaseEmbedder creates a new base embedder instance
func NewBaseEmbedder(modelName string, dimension int) *BaseEmbedder {
	return &BaseEmbedder{
		modelName: modelName,
		dimension: dimension,
		maxLength: 512,
		timeout:   30 * time.Second,
	}
}

// GetDimension returns the embedding dimension
func (b *BaseEmbedder) GetDimension() int {
	return b.dimension
}

// GetModelName returns the model name
func (b *BaseEmbedder) GetModelName() string {
	return b.modelName
}

// SetMaxLength sets the maximum input length
func (b *BaseEmbedder) SetMaxLength(maxLength int) {
	b.maxLength = maxLength
}

// SetTimeout sets the request timeout
func (b *BaseEmbedder) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// GetTimeout returns the request timeout
func (b *BaseEmbedder) GetTimeout() time.Duration {
	return b.timeout
}

// PreprocessText preprocesses text before embedding
func (b *BaseEmbedder) PreprocessText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.Join(strings.Fields(text), " ")

	// Rough estimate: 4 chars per token
	if len(text) > b.maxLength*4 {
		text = text[:b.maxLength*4]
		if lastSpace := strings.LastIndex(text, " "); lastSpace > b.maxLength*3 {
			text = text[:lastSpace]
		}
	}

	return text
}

// NormalizeVector normalizes an embedding vector to unit length
func (b *BaseEmbedder) NormalizeVector(vector types.EmbeddingVector) types.EmbeddingVector {
	var norm float32
	for _, val := range vector {
		norm += val * val
	}
	norm = float32(math.Sqrt(float64(norm)))

	if norm == 0 {
		return vector
	}

	normalized := make(types.EmbeddingVector, len(vector))
	for i, val := range vector {
		normalized[i] = val / norm
	}

	return normalized
}

// ValidateVector validates an embedding vector
func (b *BaseEmbedder) ValidateVector(vector types.EmbeddingVector) error {
	if len(vector) == 0 {
		return fmt.Errorf("embedding vector is empty")
	}

	if b.dimension > 0 && len(vector) != b.dimension {
		return fmt.Errorf("embedding dimension mismatch: expected %d, got %d", b.dimension, len(vector))
	}

	for i, val := range vector {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return fmt.Errorf("invalid value at index %d: %f", i, val)
		}
	}

	return nil
}

// Close provides default close implementation
func (b *BaseEmbedder) Close() error {
	return nil
}
