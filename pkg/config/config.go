// Package config provides configuration management for RAGEval
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/ragstack/rageval/pkg/errors"
	"github.com/ragstack/rageval/pkg/types"
)

// BM25Config holds the lexical scorer parameters
type BM25Config struct {
	K1 float64 `yaml:"k1" json:"k1" mapstructure:"k1" validate:"gt=0"`
	B  float64 `yaml:"b" json:"b" mapstructure:"b" validate:"gte=0,lte=1"`
}

// EmbedderConfig holds the embedding provider settings. A nil embedder
// config means lexical-only evaluation.
type EmbedderConfig struct {
	Backend   string        `yaml:"backend" json:"backend" mapstructure:"backend" validate:"omitempty,oneof=openai ollama"`
	Model     string        `yaml:"model" json:"model" mapstructure:"model"`
	APIKey    string        `yaml:"api_key,omitempty" json:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string        `yaml:"base_url,omitempty" json:"base_url,omitempty" mapstructure:"base_url"`
	Dimension int           `yaml:"dimension,omitempty" json:"dimension,omitempty" mapstructure:"dimension"`
	BatchSize int           `yaml:"batch_size,omitempty" json:"batch_size,omitempty" mapstructure:"batch_size"`
	Timeout   time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty" mapstructure:"timeout"`
}

// CacheConfig holds the optional Redis result cache settings
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Addr     string        `yaml:"addr,omitempty" json:"addr,omitempty" mapstructure:"addr"`
	Password string        `yaml:"password,omitempty" json:"password,omitempty" mapstructure:"password"`
	DB       int           `yaml:"db,omitempty" json:"db,omitempty" mapstructure:"db"`
	TTL      time.Duration `yaml:"ttl,omitempty" json:"ttl,omitempty" mapstructure:"ttl"`
}

// HistoryConfig holds the optional SQLite history store settings
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path,omitempty" json:"path,omitempty" mapstructure:"path"`
}

// EvaluationConfig is the immutable configuration value passed into every
// component call. There is no module-level configuration state; callers
// hand a config to the evaluator and the engine never mutates it.
type EvaluationConfig struct {
	// SimilarityThreshold is the lexical relevance cutoff for classifying
	// a retrieved chunk as relevant.
	SimilarityThreshold float64 `yaml:"similarity_threshold" json:"similarity_threshold" mapstructure:"similarity_threshold" validate:"gte=0,lte=1"`

	// ContainmentThreshold is the cosine similarity cutoff for the
	// semantic containment check.
	ContainmentThreshold float64 `yaml:"containment_threshold" json:"containment_threshold" mapstructure:"containment_threshold" validate:"gte=0,lte=1"`

	// EnabledMetrics selects the metric subset to compute. Empty means
	// all metrics.
	EnabledMetrics []types.MetricID `yaml:"enabled_metrics,omitempty" json:"enabled_metrics,omitempty" mapstructure:"enabled_metrics"`

	// Workers bounds the sample worker pool. Zero means GOMAXPROCS.
	Workers int `yaml:"workers,omitempty" json:"workers,omitempty" mapstructure:"workers" validate:"gte=0"`

	BM25     BM25Config      `yaml:"bm25" json:"bm25" mapstructure:"bm25"`
	Embedder *EmbedderConfig `yaml:"embedder,omitempty" json:"embedder,omitempty" mapstructure:"embedder"`
	Cache    CacheConfig     `yaml:"cache" json:"cache" mapstructure:"cache"`
	History  HistoryConfig   `yaml:"history" json:"history" mapstructure:"history"`
}

// DefaultEvaluationConfig returns the default configuration
func DefaultEvaluationConfig() *EvaluationConfig {
	return &EvaluationConfig{
		SimilarityThreshold:  0.5,
		ContainmentThreshold: 0.9,
		Workers:              0,
		BM25:                 BM25Config{K1: 1.5, B: 0.75},
		Cache:                CacheConfig{TTL: time.Hour},
		History:              HistoryConfig{Path: "rageval_history.db"},
	}
}

// LoadFromFile loads a configuration file (YAML or JSON by extension),
// applies defaults for unset keys and validates the result.
func LoadFromFile(path string) (*EvaluationConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if strings.HasSuffix(path, ".json") {
		v.SetConfigType("json")
	} else {
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.NewConfigNotFoundError(path)
	}

	cfg := DefaultEvaluationConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.NewConfigInvalidError(fmt.Sprintf("failed to decode config: %v", err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *EvaluationConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.NewConfigInvalidError(err.Error())
	}
	for _, id := range c.EnabledMetrics {
		if !types.IsValidMetric(id) {
			return errors.NewConfigInvalidError(fmt.Sprintf("unknown metric: %s", id))
		}
	}
	if c.Embedder != nil && c.Embedder.Backend != "" && c.Embedder.Model == "" {
		return errors.NewConfigInvalidError("embedder model is required when a backend is set")
	}
	return nil
}

// Clone returns a deep copy so a caller can derive a variant without
// touching the original value.
func (c *EvaluationConfig) Clone() *EvaluationConfig {
	out := *c
	if c.EnabledMetrics != nil {
		out.EnabledMetrics = make([]types.MetricID, len(c.EnabledMetrics))
		copy(out.EnabledMetrics, c.EnabledMetrics)
	}
	if c.Embedder != nil {
		emb := *c.Embedder
		out.Embedder = &emb
	}
	return &out
}

// MetricEnabled reports whether a metric is part of the requested subset
func (c *EvaluationConfig) MetricEnabled(id types.MetricID) bool {
	if len(c.EnabledMetrics) == 0 {
		return true
	}
	for _, m := range c.EnabledMetrics {
		if m == id {
			return true
		}
	}
	return false
}

// EffectiveWorkers resolves the worker pool size
func (c *EvaluationConfig) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Fingerprint returns a stable string identifying the settings that
// affect metric values. Cache keys include it so a threshold change
// never serves stale results.
func (c *EvaluationConfig) Fingerprint() string {
	ids := make([]string, 0, len(c.EnabledMetrics))
	for _, m := range c.EnabledMetrics {
		ids = append(ids, string(m))
	}
	backend := ""
	model := ""
	if c.Embedder != nil {
		backend = c.Embedder.Backend
		model = c.Embedder.Model
	}
	return fmt.Sprintf("st=%.4f;ct=%.4f;k1=%.4f;b=%.4f;metrics=%s;emb=%s/%s",
		c.SimilarityThreshold, c.ContainmentThreshold,
		c.BM25.K1, c.BM25.B, strings.Join(ids, ","), backend, model)
}
