package eval

import (
	"math"

	"github.com/ragstack/rageval/pkg/config"
	"github.com/ragstack/rageval/pkg/types"
)

// RankMetricAggregator turns per-sample classifications into ranking
// metrics and reduces them to dataset means. Disabled metrics stay nil
// ("not computed"), never zero.
type RankMetricAggregator struct {
	cfg *config.EvaluationConfig
}

// NewRankMetricAggregator creates an aggregator bound to one config
func NewRankMetricAggregator(cfg *config.EvaluationConfig) *RankMetricAggregator {
	return &RankMetricAggregator{cfg: cfg}
}

// SampleMetrics computes the enabled per-sample metrics from an
// order-preserved classification. The degenerate return flag marks the
// empty-reference-with-retrieval case, whose recall convention (0) is
// surfaced to diagnostics rather than silently assumed.
func (a *RankMetricAggregator) SampleMetrics(cls *types.SampleClassification) (types.SampleMetrics, bool) {
	var m types.SampleMetrics
	degenerate := false

	retrieved := len(cls.Chunks)
	references := len(cls.References)
	relevant := cls.RelevantCount

	// Recall counts distinct found references, not relevant chunks;
	// several chunks matching one reference recall it once.
	found := 0
	for _, ref := range cls.References {
		if ref.Found {
			found++
		}
	}

	if a.cfg.MetricEnabled(types.MetricPrecision) {
		precision := 0.0
		if retrieved > 0 {
			precision = float64(relevant) / float64(retrieved)
		}
		m.Precision = types.Float64Ptr(precision)
	}

	if a.cfg.MetricEnabled(types.MetricRecall) {
		recall := 0.0
		switch {
		case references > 0:
			recall = float64(found) / float64(references)
		case retrieved == 0:
			// Nothing asked for, nothing returned
			recall = 1.0
		default:
			// References empty but chunks retrieved: convention 0,
			// flagged for the caller
			degenerate = true
		}
		m.Recall = types.Float64Ptr(recall)
	}

	if a.cfg.MetricEnabled(types.MetricF1) {
		precision := 0.0
		if retrieved > 0 {
			precision = float64(relevant) / float64(retrieved)
		}
		recall := 0.0
		if references > 0 {
			recall = float64(found) / float64(references)
		} else if retrieved == 0 {
			recall = 1.0
		}
		f1 := 0.0
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		m.F1 = types.Float64Ptr(f1)
	}

	if a.cfg.MetricEnabled(types.MetricMRR) {
		m.ReciprocalRank = types.Float64Ptr(reciprocalRank(cls.Chunks))
	}

	if a.cfg.MetricEnabled(types.MetricMAP) {
		m.AveragePrecision = types.Float64Ptr(averagePrecision(cls.Chunks))
	}

	if a.cfg.MetricEnabled(types.MetricNDCG) {
		m.NDCG = types.Float64Ptr(ndcg(cls.Chunks))
	}

	return m, degenerate
}

// reciprocalRank returns 1/rank of the first relevant chunk (1-based),
// or 0 when no chunk is relevant.
func reciprocalRank(chunks []types.ClassifiedChunk) float64 {
	for i, chunk := range chunks {
		if chunk.Relevant {
			return 1.0 / float64(i+1)
		}
	}
	return 0
}

// averagePrecision returns the mean running precision over every rank
// position holding a relevant chunk, or 0 when none is relevant.
func averagePrecision(chunks []types.ClassifiedChunk) float64 {
	relevantSeen := 0
	sum := 0.0
	for i, chunk := range chunks {
		if chunk.Relevant {
			relevantSeen++
			sum += float64(relevantSeen) / float64(i+1)
		}
	}
	if relevantSeen == 0 {
		return 0
	}
	return sum / float64(relevantSeen)
}

// ndcg computes normalized discounted cumulative gain with binary gains
// at retrieval rank, discount 1/log2(rank+1). The ideal ordering moves
// every relevant chunk to the front. Defined as 1.0 when IDCG is 0:
// with nothing relevant there is nothing to discount.
func ndcg(chunks []types.ClassifiedChunk) float64 {
	relevant := 0
	dcg := 0.0
	for i, chunk := range chunks {
		if chunk.Relevant {
			relevant++
			dcg += 1.0 / math.Log2(float64(i+1)+1)
		}
	}

	idcg := 0.0
	for i := 0; i < relevant; i++ {
		idcg += 1.0 / math.Log2(float64(i+1)+1)
	}

	if idcg == 0 {
		return 1.0
	}
	return dcg / idcg
}

// meanAccumulator folds defined metric values into a mean
type meanAccumulator struct {
	sum   float64
	count int
}

func (m *meanAccumulator) add(v *float64) {
	if v != nil {
		m.sum += *v
		m.count++
	}
}

func (m *meanAccumulator) mean() *float64 {
	if m.count == 0 {
		return nil
	}
	return types.Float64Ptr(m.sum / float64(m.count))
}

// Aggregate reduces per-sample metrics to dataset means. Samples whose
// value for a metric is undefined (nil) are excluded from that metric's
// mean only; they still contribute to every other mean.
func (a *RankMetricAggregator) Aggregate(samples []types.SampleMetrics, entityRecalls []*float64) types.AggregateMetrics {
	var precision, recall, f1, mrr, mapScore, ndcgScore, entity meanAccumulator

	for i := range samples {
		precision.add(samples[i].Precision)
		recall.add(samples[i].Recall)
		f1.add(samples[i].F1)
		mrr.add(samples[i].ReciprocalRank)
		mapScore.add(samples[i].AveragePrecision)
		ndcgScore.add(samples[i].NDCG)
	}
	for _, v := range entityRecalls {
		entity.add(v)
	}

	return types.AggregateMetrics{
		ContextPrecision:    precision.mean(),
		ContextRecall:       recall.mean(),
		F1Score:             f1.mean(),
		MRR:                 mrr.mean(),
		MAP:                 mapScore.mean(),
		NDCG:                ndcgScore.mean(),
		ContextEntityRecall: entity.mean(),
		TotalSamples:        len(samples),
	}
}
