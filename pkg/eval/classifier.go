// Package eval implements the retrieval evaluation engine: per-chunk
// relevance classification, ranking metric aggregation, rule-based
// entity recall and dataset-level result assembly.
package eval

import (
	"github.com/ragstack/rageval/pkg/config"
	"github.com/ragstack/rageval/pkg/lexical"
	"github.com/ragstack/rageval/pkg/semantic"
	"github.com/ragstack/rageval/pkg/types"
)

// ChunkClassifier labels each retrieved chunk of a sample as relevant or
// irrelevant and each reference chunk as found or missed, combining the
// lexical scorer with the semantic containment check.
type ChunkClassifier struct {
	cfg     *config.EvaluationConfig
	scorer  *lexical.Scorer
	checker *semantic.ContainmentChecker
}

// NewChunkClassifier creates a classifier bound to one immutable config
func NewChunkClassifier(cfg *config.EvaluationConfig) *ChunkClassifier {
	return &ChunkClassifier{
		cfg:     cfg,
		scorer:  lexical.NewScorer(cfg.BM25.K1, cfg.BM25.B),
		checker: semantic.NewContainmentChecker(cfg.ContainmentThreshold),
	}
}

// Classify runs the classification pass for one sample. vectors maps
// chunk text to its embedding; a missing entry degrades that chunk to
// lexical-only judgment (the embedding provider failed or was absent).
// The returned classification preserves retrieval order.
func (c *ChunkClassifier) Classify(sampleID int, sample *types.Sample, stats *lexical.CorpusStats, vectors map[string]types.EmbeddingVector) *types.SampleClassification {
	cls := &types.SampleClassification{
		SampleID:       sampleID,
		Query:          sample.UserInput,
		EmptyRetrieved: len(sample.RetrievedContexts) == 0,
		EmptyReference: len(sample.ReferenceContexts) == 0,
	}

	cls.Chunks = make([]types.ClassifiedChunk, 0, len(sample.RetrievedContexts))
	foundRefs := make(map[int]bool)

	for i, retrieved := range sample.RetrievedContexts {
		chunk := types.ClassifiedChunk{
			Rank:               i + 1,
			Text:               retrieved,
			BestReferenceIndex: -1,
		}

		// Best lexical match; a strictly-greater comparison keeps the
		// first reference on ties.
		for j, ref := range sample.ReferenceContexts {
			score := c.scorer.Score(ref, retrieved, stats)
			if chunk.BestReferenceIndex == -1 || score > chunk.LexicalScore {
				chunk.LexicalScore = score
				chunk.BestReferenceIndex = j
				chunk.BestReference = ref
			}
		}

		// Only the best lexical match is checked semantically
		if chunk.BestReferenceIndex >= 0 {
			chunkVec, okChunk := vectors[retrieved]
			refVec, okRef := vectors[chunk.BestReference]
			if okChunk && okRef {
				chunk.SemanticChecked = true
				chunk.SemanticContainment, _ = c.checker.Contains(chunkVec, refVec)
			} else {
				cls.LexicalOnly++
			}
		}

		chunk.Relevant = chunk.BestReferenceIndex >= 0 &&
			(chunk.LexicalScore >= c.cfg.SimilarityThreshold || chunk.SemanticContainment)
		chunk.Band = types.BandForScore(chunk.LexicalScore)

		if chunk.Relevant {
			cls.RelevantCount++
			foundRefs[chunk.BestReferenceIndex] = true
		}

		cls.Chunks = append(cls.Chunks, chunk)
	}

	cls.References = make([]types.ReferenceStatus, 0, len(sample.ReferenceContexts))
	for j, ref := range sample.ReferenceContexts {
		status := types.ReferenceStatus{
			Index: j,
			Text:  ref,
			Found: foundRefs[j],
		}
		for i := range cls.Chunks {
			if cls.Chunks[i].BestReferenceIndex == j && cls.Chunks[i].LexicalScore > status.BestScore {
				status.BestScore = cls.Chunks[i].LexicalScore
			}
		}
		cls.References = append(cls.References, status)
	}

	return cls
}
