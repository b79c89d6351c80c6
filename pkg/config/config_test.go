package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragstack/rageval/pkg/types"
)

func TestDefaultEvaluationConfig(t *testing.T) {
	cfg := DefaultEvaluationConfig()

	assert.Equal(t, 0.5, cfg.SimilarityThreshold)
	assert.Equal(t, 0.9, cfg.ContainmentThreshold)
	assert.Equal(t, 1.5, cfg.BM25.K1)
	assert.Equal(t, 0.75, cfg.BM25.B)
	assert.Empty(t, cfg.EnabledMetrics)
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EvaluationConfig)
	}{
		{"threshold above one", func(c *EvaluationConfig) { c.SimilarityThreshold = 1.5 }},
		{"negative threshold", func(c *EvaluationConfig) { c.ContainmentThreshold = -0.1 }},
		{"zero k1", func(c *EvaluationConfig) { c.BM25.K1 = 0 }},
		{"b above one", func(c *EvaluationConfig) { c.BM25.B = 1.1 }},
		{"negative workers", func(c *EvaluationConfig) { c.Workers = -1 }},
		{"unknown metric", func(c *EvaluationConfig) { c.EnabledMetrics = []types.MetricID{"bogus"} }},
		{"unknown backend", func(c *EvaluationConfig) {
			c.Embedder = &EmbedderConfig{Backend: "bogus", Model: "m"}
		}},
		{"backend without model", func(c *EvaluationConfig) {
			c.Embedder = &EmbedderConfig{Backend: "openai"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultEvaluationConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
similarity_threshold: 0.6
containment_threshold: 0.85
enabled_metrics:
  - context_precision
  - mrr
workers: 2
bm25:
  k1: 1.2
  b: 0.6
embedder:
  backend: ollama
  model: nomic-embed-text
cache:
  enabled: true
  addr: localhost:6379
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 0.6, cfg.SimilarityThreshold)
	assert.Equal(t, 0.85, cfg.ContainmentThreshold)
	assert.Equal(t, []types.MetricID{types.MetricPrecision, types.MetricMRR}, cfg.EnabledMetrics)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 1.2, cfg.BM25.K1)
	assert.Equal(t, "ollama", cfg.Embedder.Backend)
	assert.True(t, cfg.Cache.Enabled)
	// Unset keys keep their defaults
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMetricEnabled(t *testing.T) {
	cfg := DefaultEvaluationConfig()
	for _, id := range types.AllMetrics() {
		assert.True(t, cfg.MetricEnabled(id), "empty subset enables everything")
	}

	cfg.EnabledMetrics = []types.MetricID{types.MetricNDCG}
	assert.True(t, cfg.MetricEnabled(types.MetricNDCG))
	assert.False(t, cfg.MetricEnabled(types.MetricPrecision))
}

func TestEffectiveWorkers(t *testing.T) {
	cfg := DefaultEvaluationConfig()
	assert.Greater(t, cfg.EffectiveWorkers(), 0)

	cfg.Workers = 3
	assert.Equal(t, 3, cfg.EffectiveWorkers())
}

func TestClone(t *testing.T) {
	cfg := DefaultEvaluationConfig()
	cfg.EnabledMetrics = []types.MetricID{types.MetricMRR}
	cfg.Embedder = &EmbedderConfig{Backend: "openai", Model: "text-embedding-3-small"}

	clone := cfg.Clone()
	clone.EnabledMetrics[0] = types.MetricNDCG
	clone.Embedder.Model = "changed"

	assert.Equal(t, types.MetricMRR, cfg.EnabledMetrics[0])
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.Model)
}

func TestFingerprintReflectsSettings(t *testing.T) {
	a := DefaultEvaluationConfig()
	b := DefaultEvaluationConfig()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.SimilarityThreshold = 0.7
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	c := DefaultEvaluationConfig()
	c.EnabledMetrics = []types.MetricID{types.MetricMRR}
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	// Worker count does not affect metric values
	d := DefaultEvaluationConfig()
	d.Workers = 8
	assert.Equal(t, a.Fingerprint(), d.Fingerprint())
}
