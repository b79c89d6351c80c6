package embedders

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragstack/rageval/pkg/types"
)

func TestPreprocessText(t *testing.T) {
	b := NewBaseEmbedder("test-model", 3)

	assert.Equal(t, "hello world", b.PreprocessText("  hello   world  "))
	assert.Equal(t, "a b", b.PreprocessText("a\n\tb"))

	long := strings.Repeat("word ", 2000)
	processed := b.PreprocessText(long)
	assert.LessOrEqual(t, len(processed), 512*4)
}

func TestNormalizeVector(t *testing.T) {
	b := NewBaseEmbedder("test-model", 3)

	normalized := b.NormalizeVector(types.EmbeddingVector{3, 4})
	var norm float64
	for _, v := range normalized {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)

	zero := types.EmbeddingVector{0, 0}
	assert.Equal(t, zero, b.NormalizeVector(zero))
}

func TestValidateVector(t *testing.T) {
	b := NewBaseEmbedder("test-model", 3)

	assert.NoError(t, b.ValidateVector(types.EmbeddingVector{1, 2, 3}))
	assert.Error(t, b.ValidateVector(types.EmbeddingVector{}))
	assert.Error(t, b.ValidateVector(types.EmbeddingVector{1, 2}))
	assert.Error(t, b.ValidateVector(types.EmbeddingVector{1, 2, float32(math.NaN())}))

	unsized := NewBaseEmbedder("test-model", 0)
	assert.NoError(t, unsized.ValidateVector(types.EmbeddingVector{1, 2}))
}

func TestBaseEmbedderAccessors(t *testing.T) {
	b := NewBaseEmbedder("test-model", 768)

	assert.Equal(t, "test-model", b.GetModelName())
	assert.Equal(t, 768, b.GetDimension())
	require.NoError(t, b.Close())
}
