package eval

import (
	"time"

	"github.com/ragstack/rageval/pkg/config"
	"github.com/ragstack/rageval/pkg/types"
)

// ResultAssembler folds per-sample outcomes into the final evaluation
// result: detail blocks, aggregate means and the diagnostics counters.
type ResultAssembler struct {
	cfg        *config.EvaluationConfig
	aggregator *RankMetricAggregator
}

// NewResultAssembler creates an assembler bound to one config
func NewResultAssembler(cfg *config.EvaluationConfig) *ResultAssembler {
	return &ResultAssembler{
		cfg:        cfg,
		aggregator: NewRankMetricAggregator(cfg),
	}
}

// sampleOutcome carries everything one worker produced for one sample
type sampleOutcome struct {
	classification *types.SampleClassification
	metrics        types.SampleMetrics
	entityRecall   *float64
	degenerate     bool
}

// Detail builds the per-sample output block from a classification and
// its metrics. Chunks keep retrieval order within each partition.
func (a *ResultAssembler) Detail(out *sampleOutcome) types.SampleDetail {
	cls := out.classification
	detail := types.SampleDetail{
		SampleID:     cls.SampleID,
		Query:        cls.Query,
		Metrics:      out.metrics,
		EntityRecall: out.entityRecall,
	}

	for _, chunk := range cls.Chunks {
		if chunk.Relevant {
			detail.RelevantChunks = append(detail.RelevantChunks, chunk)
		} else {
			detail.IrrelevantChunks = append(detail.IrrelevantChunks, chunk)
		}
	}
	for _, ref := range cls.References {
		if !ref.Found {
			detail.MissedChunks = append(detail.MissedChunks, ref)
		}
	}

	return detail
}

// Assemble produces the complete evaluation result from the per-sample
// outcomes. outcomes must be in sample order; nil entries mark samples
// skipped as malformed.
func (a *ResultAssembler) Assemble(runID string, outcomes []*sampleOutcome, diag types.Diagnostics) *types.EvaluationResult {
	result := &types.EvaluationResult{
		RunID:       runID,
		Success:     true,
		Diagnostics: diag,
		EvaluatedAt: time.Now().UTC(),
	}

	var sampleMetrics []types.SampleMetrics
	var entityRecalls []*float64
	for _, out := range outcomes {
		if out == nil {
			continue
		}
		if out.degenerate {
			result.Diagnostics.DegenerateRecall++
		}
		if out.classification.EmptyRetrieved {
			result.Diagnostics.EmptyRetrievedSamples++
		}

		detail := a.Detail(out)
		result.Details = append(result.Details, detail)
		sampleMetrics = append(sampleMetrics, out.metrics)
		entityRecalls = append(entityRecalls, out.entityRecall)
	}

	result.AggregateMetrics = a.aggregator.Aggregate(sampleMetrics, entityRecalls)
	for _, detail := range result.Details {
		result.AggregateMetrics.TotalIrrelevantChunks += len(detail.IrrelevantChunks)
		result.AggregateMetrics.TotalMissedChunks += len(detail.MissedChunks)
	}

	if len(result.Details) == 0 {
		result.Success = false
	}

	return result
}
