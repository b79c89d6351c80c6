// Package types defines the core types and interfaces for RAGEval
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sample represents one evaluation unit supplied by a dataset-loading
// collaborator. RetrievedContexts preserves retrieval order; the slice
// index is the 0-based retrieval rank. Duplicate chunks are allowed and
// scored independently.
type Sample struct {
	UserInput         string   `json:"user_input" validate:"required"`
	RetrievedContexts []string `json:"retrieved_contexts"`
	Response          string   `json:"response,omitempty"`
	ReferenceContexts []string `json:"reference_contexts"`
	Reference         string   `json:"reference,omitempty"`
}

// EmbeddingVector represents an embedding vector
type EmbeddingVector []float32

// RelevanceBand is a qualitative label for a relevance score
type RelevanceBand string

const (
	BandIrrelevant RelevanceBand = "irrelevant"
	BandWeak       RelevanceBand = "weak"
	BandPartial    RelevanceBand = "partial"
	BandStrong     RelevanceBand = "strong"
	BandExact      RelevanceBand = "exact"
)

// BandForScore maps a relevance score to its qualitative band
func BandForScore(score float64) RelevanceBand {
	switch {
	case score >= 1.0:
		return BandExact
	case score >= 0.75:
		return BandStrong
	case score >= 0.5:
		return BandPartial
	case score >= 0.25:
		return BandWeak
	default:
		return BandIrrelevant
	}
}

// ClassifiedChunk wraps one retrieved chunk with its classification.
// Immutable once produced by a sample's classification pass.
type ClassifiedChunk struct {
	Rank                int           `json:"rank"` // 1-based retrieval rank
	Text                string        `json:"text"`
	BestReference       string        `json:"best_reference,omitempty"`
	BestReferenceIndex  int           `json:"best_reference_index"` // -1 when no references exist
	LexicalScore        float64       `json:"lexical_score"`
	SemanticContainment bool          `json:"semantic_containment"`
	SemanticChecked     bool          `json:"semantic_checked"`
	Relevant            bool          `json:"relevant"`
	Band                RelevanceBand `json:"band"`
}

// ReferenceStatus wraps one reference chunk with its recall status.
// Derived from the classification pass, never independently mutated.
type ReferenceStatus struct {
	Index     int     `json:"index"`
	Text      string  `json:"text"`
	Found     bool    `json:"found"`
	BestScore float64 `json:"best_score"`
}

// SampleClassification holds the order-preserved classification of one sample
type SampleClassification struct {
	SampleID       int               `json:"sample_id"`
	Query          string            `json:"query"`
	Chunks         []ClassifiedChunk `json:"chunks"`
	References     []ReferenceStatus `json:"references"`
	RelevantCount  int               `json:"relevant_count"`
	LexicalOnly    int               `json:"lexical_only"` // chunks judged without a semantic check
	EmptyRetrieved bool              `json:"empty_retrieved"`
	EmptyReference bool              `json:"empty_reference"`
}

// MetricID identifies one ranking metric in the closed enumeration
type MetricID string

const (
	MetricPrecision    MetricID = "context_precision"
	MetricRecall       MetricID = "context_recall"
	MetricF1           MetricID = "f1_score"
	MetricMRR          MetricID = "mrr"
	MetricMAP          MetricID = "map"
	MetricNDCG         MetricID = "ndcg"
	MetricEntityRecall MetricID = "context_entity_recall"
)

// AllMetrics returns the full metric enumeration in canonical order
func AllMetrics() []MetricID {
	return []MetricID{
		MetricPrecision, MetricRecall, MetricF1,
		MetricMRR, MetricMAP, MetricNDCG, MetricEntityRecall,
	}
}

// IsValidMetric reports whether id belongs to the closed enumeration
func IsValidMetric(id MetricID) bool {
	for _, m := range AllMetrics() {
		if m == id {
			return true
		}
	}
	return false
}

// SampleMetrics holds per-sample metric values. A nil field means the
// metric was not computed (disabled) or is undefined for the sample;
// callers must not read nil as zero.
type SampleMetrics struct {
	Precision        *float64 `json:"context_precision,omitempty"`
	Recall           *float64 `json:"context_recall,omitempty"`
	F1               *float64 `json:"f1_score,omitempty"`
	ReciprocalRank   *float64 `json:"reciprocal_rank,omitempty"`
	AveragePrecision *float64 `json:"average_precision,omitempty"`
	NDCG             *float64 `json:"ndcg,omitempty"`
}

// EntityRecallResult holds the rule-based entity recall for one sample
type EntityRecallResult struct {
	ReferenceEntities []string `json:"reference_entities"`
	ContextEntities   []string `json:"context_entities"`
	IntersectionSize  int      `json:"intersection_size"`
	Recall            float64  `json:"recall"`
}

// SampleDetail is the per-sample block of the output contract
type SampleDetail struct {
	SampleID         int               `json:"sample_id"`
	Query            string            `json:"query"`
	RelevantChunks   []ClassifiedChunk `json:"relevant_chunks"`
	IrrelevantChunks []ClassifiedChunk `json:"irrelevant_chunks"`
	MissedChunks     []ReferenceStatus `json:"missed_chunks"`
	Metrics          SampleMetrics     `json:"metrics"`
	EntityRecall     *float64          `json:"context_entity_recall,omitempty"`
}

// Diagnostics counts conditions absorbed during a run instead of failing it
type Diagnostics struct {
	SkippedSamples        int `json:"skipped_samples"`
	EmbeddingFailures     int `json:"embedding_failures"`
	DegenerateRecall      int `json:"degenerate_recall_samples"` // empty references with nonempty retrieval
	EmptyRetrievedSamples int `json:"empty_retrieved_samples"`
}

// AggregateMetrics holds dataset-level reductions of the per-sample metrics.
// Nil means the metric was disabled or no sample produced a defined value.
type AggregateMetrics struct {
	ContextPrecision    *float64 `json:"context_precision,omitempty"`
	ContextRecall       *float64 `json:"context_recall,omitempty"`
	F1Score             *float64 `json:"f1_score,omitempty"`
	MRR                 *float64 `json:"mrr,omitempty"`
	MAP                 *float64 `json:"map,omitempty"`
	NDCG                *float64 `json:"ndcg,omitempty"`
	ContextEntityRecall *float64 `json:"context_entity_recall,omitempty"`

	TotalSamples          int `json:"total_samples"`
	TotalIrrelevantChunks int `json:"total_irrelevant_chunks"`
	TotalMissedChunks     int `json:"total_missed_chunks"`
}

// EvaluationResult is the output contract consumed by reporting and
// persistence collaborators. The aggregate metrics are embedded so they
// serialize at the top level of the result. The dataset-level call
// always returns one; Success is false only when the entire dataset was
// unusable.
type EvaluationResult struct {
	RunID   string `json:"run_id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	AggregateMetrics

	Details     []SampleDetail `json:"details"`
	Diagnostics Diagnostics    `json:"diagnostics"`
	EvaluatedAt time.Time      `json:"evaluated_at"`
}

// NewRunID generates a unique identifier for one evaluation run
func NewRunID() string {
	return uuid.New().String()
}

// Float64Ptr returns a pointer to v. Convenience for metric fields.
func Float64Ptr(v float64) *float64 {
	return &v
}

// Error types for better error handling
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeExternal   ErrorType = "external"
)

// HasContent reports whether a chunk carries any non-whitespace text
func HasContent(s string) bool {
	return strings.TrimSpace(s) != ""
}
