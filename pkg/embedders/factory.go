package embedders

import (
	"fmt"

	"github.com/ragstack/rageval/pkg/config"
	"github.com/ragstack/rageval/pkg/interfaces"
)

// NewEmbedder creates an embedding provider from configuration. A nil
// config or empty backend returns nil without error; the evaluator then
// runs with lexical-only judgment.
func NewEmbedder(cfg *config.EmbedderConfig) (interfaces.Embedder, error) {
	if cfg == nil || cfg.Backend == "" {
		return nil, nil
	}

	switch cfg.Backend {
	case "openai":
		return NewOpenAIEmbedder(cfg)
	case "ollama":
		return NewOllamaEmbedder(cfg)
	default:
		return nil, fmt.Errorf("unsupported embedder backend: %s", cfg.Backend)
	}
}

// SupportedBackends returns the embedder backends the factory can build
func SupportedBackends() []string {
	return []string{"openai", "ollama"}
}
