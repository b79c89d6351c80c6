package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ragstack/rageval/pkg/types"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        types.EmbeddingVector
		b        types.EmbeddingVector
		expected float64
	}{
		{
			name:     "identical vectors",
			a:        types.EmbeddingVector{1, 2, 3},
			b:        types.EmbeddingVector{1, 2, 3},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        types.EmbeddingVector{1, 0},
			b:        types.EmbeddingVector{0, 1},
			expected: 0.0,
		},
		{
			name:     "opposite vectors",
			a:        types.EmbeddingVector{1, 0},
			b:        types.EmbeddingVector{-1, 0},
			expected: -1.0,
		},
		{
			name:     "scaled vectors keep similarity",
			a:        types.EmbeddingVector{1, 2, 3},
			b:        types.EmbeddingVector{2, 4, 6},
			expected: 1.0,
		},
		{
			name:     "zero vector",
			a:        types.EmbeddingVector{0, 0, 0},
			b:        types.EmbeddingVector{1, 2, 3},
			expected: 0.0,
		},
		{
			name:     "length mismatch",
			a:        types.EmbeddingVector{1, 2},
			b:        types.EmbeddingVector{1, 2, 3},
			expected: 0.0,
		},
		{
			name:     "empty vectors",
			a:        nil,
			b:        nil,
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CosineSimilarity(tt.a, tt.b), 1e-6)
		})
	}
}

func TestContainmentChecker(t *testing.T) {
	checker := NewContainmentChecker(0.9)
	assert.Equal(t, 0.9, checker.Threshold())

	contained, sim := checker.Contains(
		types.EmbeddingVector{1, 2, 3},
		types.EmbeddingVector{1, 2, 3},
	)
	assert.True(t, contained)
	assert.InDelta(t, 1.0, sim, 1e-6)

	contained, sim = checker.Contains(
		types.EmbeddingVector{1, 0},
		types.EmbeddingVector{0, 1},
	)
	assert.False(t, contained)
	assert.InDelta(t, 0.0, sim, 1e-6)

	// Similarity exactly at the threshold counts as contained
	exact := NewContainmentChecker(0.0)
	contained, _ = exact.Contains(
		types.EmbeddingVector{1, 0},
		types.EmbeddingVector{0, 1},
	)
	assert.True(t, contained)
}

func TestContainsDegradesOnBadVectors(t *testing.T) {
	checker := NewContainmentChecker(0.9)

	contained, sim := checker.Contains(nil, types.EmbeddingVector{1, 2})
	assert.False(t, contained)
	assert.Equal(t, 0.0, sim)

	contained, sim = checker.Contains(types.EmbeddingVector{0, 0}, types.EmbeddingVector{0, 0})
	assert.False(t, contained)
	assert.Equal(t, 0.0, sim)
}
