// Package semantic implements the embedding-based containment check
// applied to a retrieved chunk and its best lexical reference match.
package semantic

import (
	"math"

	"github.com/ragstack/rageval/pkg/types"
)

// ContainmentChecker decides whether one text's content is contained in
// another by comparing pre-computed embedding vectors against a cosine
// similarity threshold. It never computes embeddings itself.
type ContainmentChecker struct {
	threshold float64
}

// NewContainmentChecker creates a checker with the given threshold
func NewContainmentChecker(threshold float64) *ContainmentChecker {
	return &ContainmentChecker{threshold: threshold}
}

// Threshold returns the configured cosine similarity threshold
func (c *ContainmentChecker) Threshold() float64 {
	return c.threshold
}

// Contains reports whether the similarity of the two vectors meets the
// threshold, along with the similarity itself. Zero or mismatched
// vectors yield false rather than an error; the caller already has the
// lexical judgment to fall back on.
func (c *ContainmentChecker) Contains(chunkVec, refVec types.EmbeddingVector) (bool, float64) {
	sim := CosineSimilarity(chunkVec, refVec)
	return sim >= c.threshold, sim
}

// CosineSimilarity computes the cosine similarity of two vectors.
// Returns 0 for zero vectors or length mismatches.
func CosineSimilarity(a, b types.EmbeddingVector) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
