// Package interfaces defines the shared interfaces for RAGEval
package interfaces

import (
	"context"

	"github.com/ragstack/rageval/pkg/types"
)

// Embedder defines the interface for embedding provider implementations.
// The evaluation core consumes vectors only; computing them is the
// provider's concern and may fail per call.
type Embedder interface {
	// Embed generates an embedding for a single text
	Embed(ctx context.Context, text string) (types.EmbeddingVector, error)

	// EmbedBatch generates embeddings for multiple texts
	EmbedBatch(ctx context.Context, texts []string) ([]types.EmbeddingVector, error)

	// GetDimension returns the embedding dimension
	GetDimension() int

	// Close closes the embedder
	Close() error
}

// Logger defines the interface for structured logging
type Logger interface {
	// Debug logs debug level messages
	Debug(msg string, fields ...map[string]interface{})

	// Info logs info level messages
	Info(msg string, fields ...map[string]interface{})

	// Warn logs warning level messages
	Warn(msg string, fields ...map[string]interface{})

	// Error logs error level messages
	Error(msg string, err error, fields ...map[string]interface{})

	// Fatal logs fatal level messages and exits
	Fatal(msg string, err error, fields ...map[string]interface{})

	// WithFields returns a logger with additional fields
	WithFields(fields map[string]interface{}) Logger
}

// Metrics defines the interface for metrics collection
type Metrics interface {
	// Counter increments a counter metric
	Counter(name string, value float64, labels map[string]string)

	// Gauge sets a gauge metric
	Gauge(name string, value float64, labels map[string]string)

	// Histogram records a histogram metric
	Histogram(name string, value float64, labels map[string]string)

	// Timer records timing metrics
	Timer(name string, duration float64, labels map[string]string)
}

// ResultSink consumes assembled evaluation results. Persistence
// collaborators implement it; the core is unaware of their schemas.
type ResultSink interface {
	// Store persists or caches one evaluation result
	Store(ctx context.Context, result *types.EvaluationResult) error
}
