package eval

import (
	"context"
	"sync"
	"time"

	"github.com/ragstack/rageval/pkg/config"
	"github.com/ragstack/rageval/pkg/errors"
	"github.com/ragstack/rageval/pkg/interfaces"
	"github.com/ragstack/rageval/pkg/lexical"
	"github.com/ragstack/rageval/pkg/types"
)

// Evaluator orchestrates one evaluation run: sample validation, corpus
// statistics, embedding, concurrent per-sample classification and final
// assembly. Safe for concurrent use; all state is per-call.
type Evaluator struct {
	cfg          *config.EvaluationConfig
	classifier   *ChunkClassifier
	aggregator   *RankMetricAggregator
	assembler    *ResultAssembler
	entityScorer *EntityRecallScorer
	embedder     interfaces.Embedder
	logger       interfaces.Logger
	metrics      interfaces.Metrics
}

// NewEvaluator creates an evaluator. embedder may be nil, in which case
// every chunk is judged lexically only.
func NewEvaluator(cfg *config.EvaluationConfig, embedder interfaces.Embedder, logger interfaces.Logger, metrics interfaces.Metrics) (*Evaluator, error) {
	if cfg == nil {
		return nil, errors.NewConfigError("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Evaluator{
		cfg:          cfg,
		classifier:   NewChunkClassifier(cfg),
		aggregator:   NewRankMetricAggregator(cfg),
		assembler:    NewResultAssembler(cfg),
		entityScorer: NewEntityRecallScorer(),
		embedder:     embedder,
		logger:       logger,
		metrics:      metrics,
	}, nil
}

// Evaluate runs the full pipeline over a dataset. It always returns a
// result: per-sample problems are absorbed into diagnostics, and only a
// dataset with zero usable samples yields Success == false.
func (e *Evaluator) Evaluate(ctx context.Context, ds *Dataset) *types.EvaluationResult {
	runID := types.NewRunID()
	e.logger.Info("starting evaluation run", map[string]interface{}{
		"run_id":  runID,
		"samples": len(ds.Samples),
	})

	var diag types.Diagnostics
	valid := make([]int, 0, len(ds.Samples))
	for i := range ds.Samples {
		if err := ValidateSample(i, &ds.Samples[i]); err != nil {
			diag.SkippedSamples++
			e.logger.Warn("skipping malformed sample", map[string]interface{}{
				"run_id": runID,
				"error":  err.Error(),
			})
			continue
		}
		valid = append(valid, i)
	}

	if len(valid) == 0 {
		e.metrics.Counter("rageval_runs_failed", 1, nil)
		return &types.EvaluationResult{
			RunID:       runID,
			Success:     false,
			Error:       errors.NewEmptyDatasetError().Error(),
			Diagnostics: diag,
			EvaluatedAt: time.Now().UTC(),
		}
	}

	stats := e.buildCorpusStats(ds, valid)
	vectors := e.embedTexts(ctx, ds, &diag)

	// Workers pull sample indexes from a channel and write outcomes by
	// position, so the result order matches the input order regardless
	// of scheduling.
	outcomes := make([]*sampleOutcome, len(valid))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < e.cfg.EffectiveWorkers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pos := range jobs {
				outcomes[pos] = e.evaluateSample(valid[pos], &ds.Samples[valid[pos]], stats, vectors)
			}
		}()
	}
	for pos := range valid {
		select {
		case jobs <- pos:
		case <-ctx.Done():
		}
	}
	close(jobs)
	wg.Wait()

	result := e.assembler.Assemble(runID, outcomes, diag)

	e.metrics.Counter("rageval_runs_completed", 1, nil)
	e.metrics.Gauge("rageval_last_run_samples", float64(result.TotalSamples), nil)
	e.logger.Info("evaluation run finished", map[string]interface{}{
		"run_id":           runID,
		"evaluated":        result.TotalSamples,
		"skipped":          result.Diagnostics.SkippedSamples,
		"lexical_fallback": result.Diagnostics.EmbeddingFailures,
	})

	return result
}

// evaluateSample runs classification, ranking metrics and entity recall
// for one sample.
func (e *Evaluator) evaluateSample(sampleID int, sample *types.Sample, stats *lexical.CorpusStats, vectors map[string]types.EmbeddingVector) *sampleOutcome {
	cls := e.classifier.Classify(sampleID, sample, stats, vectors)
	metrics, degenerate := e.aggregator.SampleMetrics(cls)

	out := &sampleOutcome{
		classification: cls,
		metrics:        metrics,
		degenerate:     degenerate,
	}

	if e.cfg.MetricEnabled(types.MetricEntityRecall) && types.HasContent(sample.Reference) {
		recall := e.entityScorer.Recall(sample.Reference, sample.RetrievedContexts)
		out.entityRecall = types.Float64Ptr(recall.Recall)
	}

	return out
}

// buildCorpusStats snapshots document frequencies over every chunk and
// reference of the usable samples.
func (e *Evaluator) buildCorpusStats(ds *Dataset, valid []int) *lexical.CorpusStats {
	var docs []string
	for _, i := range valid {
		docs = append(docs, ds.Samples[i].RetrievedContexts...)
		docs = append(docs, ds.Samples[i].ReferenceContexts...)
	}
	return lexical.BuildCorpusStats(docs)
}

// embedTexts batch-embeds the dataset's unique texts. Any failure
// degrades the run to lexical-only judgment for the affected texts and
// is counted in diagnostics; it never fails the run.
func (e *Evaluator) embedTexts(ctx context.Context, ds *Dataset, diag *types.Diagnostics) map[string]types.EmbeddingVector {
	vectors := make(map[string]types.EmbeddingVector)
	if e.embedder == nil {
		return vectors
	}

	texts := ds.UniqueTexts()
	if len(texts) == 0 {
		return vectors
	}

	embedded, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		diag.EmbeddingFailures += len(texts)
		e.metrics.Counter("rageval_embedding_failures", float64(len(texts)), nil)
		e.logger.Warn("embedding failed, falling back to lexical-only judgment", map[string]interface{}{
			"texts": len(texts),
			"error": errors.NewEmbeddingUnavailableError(err).Error(),
		})
		return vectors
	}

	for i, text := range texts {
		if i < len(embedded) && len(embedded[i]) > 0 {
			vectors[text] = embedded[i]
		}
	}
	return vectors
}
