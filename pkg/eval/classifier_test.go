package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragstack/rageval/pkg/config"
	"github.com/ragstack/rageval/pkg/lexical"
	"github.com/ragstack/rageval/pkg/types"
)

func statsFor(sample *types.Sample) *lexical.CorpusStats {
	var docs []string
	docs = append(docs, sample.RetrievedContexts...)
	docs = append(docs, sample.ReferenceContexts...)
	return lexical.BuildCorpusStats(docs)
}

func TestClassifySeparatesChunks(t *testing.T) {
	sample := &types.Sample{
		UserInput: "When was the Eiffel Tower completed?",
		RetrievedContexts: []string{
			"The Eiffel Tower, completed in 1889, is one of the most visited monuments in Paris.",
			"Photosynthesis converts sunlight into chemical energy within plant cells.",
		},
		ReferenceContexts: []string{
			"The Eiffel Tower is located in Paris and was completed in 1889.",
		},
	}

	classifier := NewChunkClassifier(config.DefaultEvaluationConfig())
	cls := classifier.Classify(0, sample, statsFor(sample), nil)

	require.Len(t, cls.Chunks, 2)
	assert.True(t, cls.Chunks[0].Relevant)
	assert.False(t, cls.Chunks[1].Relevant)
	assert.Equal(t, 1, cls.RelevantCount)

	assert.Equal(t, 1, cls.Chunks[0].Rank)
	assert.Equal(t, 2, cls.Chunks[1].Rank)
	assert.Equal(t, 0, cls.Chunks[0].BestReferenceIndex)

	require.Len(t, cls.References, 1)
	assert.True(t, cls.References[0].Found)
}

func TestClassifyTieBreakKeepsFirstReference(t *testing.T) {
	// Both references are identical, so every chunk scores them equally;
	// the first one must win.
	sample := &types.Sample{
		UserInput:         "query",
		RetrievedContexts: []string{"alpha beta gamma"},
		ReferenceContexts: []string{"alpha beta gamma", "alpha beta gamma"},
	}

	classifier := NewChunkClassifier(config.DefaultEvaluationConfig())
	cls := classifier.Classify(0, sample, statsFor(sample), nil)

	require.Len(t, cls.Chunks, 1)
	assert.Equal(t, 0, cls.Chunks[0].BestReferenceIndex)
	assert.True(t, cls.References[0].Found)
	assert.False(t, cls.References[1].Found)
}

func TestClassifySemanticPromotion(t *testing.T) {
	// The chunk paraphrases the reference with almost no term overlap, so
	// the lexical score stays below the threshold. Identical embeddings
	// promote it to relevant.
	chunk := "It stands on the Champ de Mars and was finished for the 1889 World Fair."
	reference := "The Eiffel Tower is located in Paris."

	sample := &types.Sample{
		UserInput:         "Where is the Eiffel Tower?",
		RetrievedContexts: []string{chunk},
		ReferenceContexts: []string{reference},
	}

	vectors := map[string]types.EmbeddingVector{
		chunk:     {0.1, 0.9, 0.3},
		reference: {0.1, 0.9, 0.3},
	}

	classifier := NewChunkClassifier(config.DefaultEvaluationConfig())
	cls := classifier.Classify(0, sample, statsFor(sample), vectors)

	require.Len(t, cls.Chunks, 1)
	assert.Less(t, cls.Chunks[0].LexicalScore, 0.5)
	assert.True(t, cls.Chunks[0].SemanticChecked)
	assert.True(t, cls.Chunks[0].SemanticContainment)
	assert.True(t, cls.Chunks[0].Relevant)
	assert.Equal(t, 0, cls.LexicalOnly)
}

func TestClassifyMissingVectorsFallsBackToLexical(t *testing.T) {
	sample := &types.Sample{
		UserInput:         "query",
		RetrievedContexts: []string{"alpha beta", "gamma delta"},
		ReferenceContexts: []string{"alpha beta"},
	}

	classifier := NewChunkClassifier(config.DefaultEvaluationConfig())
	cls := classifier.Classify(0, sample, statsFor(sample), map[string]types.EmbeddingVector{})

	assert.Equal(t, 2, cls.LexicalOnly)
	for _, chunk := range cls.Chunks {
		assert.False(t, chunk.SemanticChecked)
	}
	// The exact-overlap chunk is still relevant lexically
	assert.True(t, cls.Chunks[0].Relevant)
}

func TestClassifyEmptyReferences(t *testing.T) {
	sample := &types.Sample{
		UserInput:         "query",
		RetrievedContexts: []string{"some retrieved chunk"},
		ReferenceContexts: nil,
	}

	classifier := NewChunkClassifier(config.DefaultEvaluationConfig())
	cls := classifier.Classify(0, sample, statsFor(sample), nil)

	assert.True(t, cls.EmptyReference)
	require.Len(t, cls.Chunks, 1)
	assert.Equal(t, -1, cls.Chunks[0].BestReferenceIndex)
	assert.False(t, cls.Chunks[0].Relevant)
	assert.Equal(t, 0, cls.RelevantCount)
}

func TestClassifyEmptyRetrieved(t *testing.T) {
	sample := &types.Sample{
		UserInput:         "query",
		ReferenceContexts: []string{"a reference chunk"},
	}

	classifier := NewChunkClassifier(config.DefaultEvaluationConfig())
	cls := classifier.Classify(0, sample, statsFor(sample), nil)

	assert.True(t, cls.EmptyRetrieved)
	assert.Empty(t, cls.Chunks)
	require.Len(t, cls.References, 1)
	assert.False(t, cls.References[0].Found)
}

func TestClassifyDuplicateChunksScoredIndependently(t *testing.T) {
	sample := &types.Sample{
		UserInput:         "query",
		RetrievedContexts: []string{"alpha beta gamma", "alpha beta gamma"},
		ReferenceContexts: []string{"alpha beta gamma"},
	}

	classifier := NewChunkClassifier(config.DefaultEvaluationConfig())
	cls := classifier.Classify(0, sample, statsFor(sample), nil)

	require.Len(t, cls.Chunks, 2)
	assert.True(t, cls.Chunks[0].Relevant)
	assert.True(t, cls.Chunks[1].Relevant)
	assert.Equal(t, cls.Chunks[0].LexicalScore, cls.Chunks[1].LexicalScore)
	assert.Equal(t, 2, cls.RelevantCount)
}
