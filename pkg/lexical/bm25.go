// Package lexical implements the BM25 lexical relevance scorer used to
// compare retrieved chunks against reference chunks and queries.
package lexical

import (
	"math"
)

// CorpusStats is a read-only snapshot of document frequencies over one
// dataset. It is built once before classification starts and shared by
// all sample workers; nothing mutates it afterwards.
type CorpusStats struct {
	docCount  int
	avgDocLen float64
	idf       map[string]float64
}

// BuildCorpusStats tokenizes every document and precomputes IDF values.
// The IDF uses the Lucene floor form log(1 + (N-df+0.5)/(df+0.5)), which
// stays positive for terms present in every document.
func BuildCorpusStats(docs []string) *CorpusStats {
	stats := &CorpusStats{idf: make(map[string]float64)}

	df := make(map[string]int)
	totalLen := 0
	for _, doc := range docs {
		tokens := Tokenize(doc)
		if len(tokens) == 0 {
			continue
		}
		stats.docCount++
		totalLen += len(tokens)
		seen := make(map[string]bool, len(tokens))
		for _, t := range tokens {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	if stats.docCount > 0 {
		stats.avgDocLen = float64(totalLen) / float64(stats.docCount)
	}
	n := float64(stats.docCount)
	for term, freq := range df {
		stats.idf[term] = math.Log(1 + (n-float64(freq)+0.5)/(float64(freq)+0.5))
	}

	return stats
}

// DocCount returns the number of non-empty documents in the snapshot
func (s *CorpusStats) DocCount() int {
	return s.docCount
}

// IDF returns the inverse document frequency for a term. Terms absent
// from the corpus get the maximum-rarity IDF.
func (s *CorpusStats) IDF(term string) float64 {
	if v, ok := s.idf[term]; ok {
		return v
	}
	n := float64(s.docCount)
	return math.Log(1 + (n+0.5)/0.5)
}

// Scorer computes BM25 relevance scores. Stateless given a corpus
// statistics snapshot; safe for concurrent use.
type Scorer struct {
	k1 float64
	b  float64
}

// NewScorer creates a scorer with the given BM25 parameters
func NewScorer(k1, b float64) *Scorer {
	return &Scorer{k1: k1, b: b}
}

// Score computes the relevance of candidate to query as a normalized
// BM25 score in [0,1]: the raw BM25 score of the query's terms against
// the candidate, divided by the query's self-score. 1.0 means the
// candidate covers every query term at least as densely as the query
// itself; 0 means no term overlap. Degenerate inputs score 0.
//
// The same function serves both directions the classifier needs:
// retrieved-vs-reference and retrieved-vs-query.
func (s *Scorer) Score(query, candidate string, stats *CorpusStats) float64 {
	queryTokens := Tokenize(query)
	candTokens := Tokenize(candidate)
	if len(queryTokens) == 0 || len(candTokens) == 0 || stats == nil {
		return 0
	}

	candTF := TermFrequency(candTokens)
	queryTF := TermFrequency(queryTokens)

	raw := 0.0
	for term, qtf := range queryTF {
		tf, ok := candTF[term]
		if !ok {
			continue
		}
		// Each distinct query term contributes once per occurrence in
		// the query, saturated by the candidate's term frequency.
		raw += float64(qtf) * stats.IDF(term) * s.saturate(tf, len(candTokens), stats.avgDocLen)
	}
	if raw == 0 {
		return 0
	}

	self := 0.0
	for term, qtf := range queryTF {
		self += float64(qtf) * stats.IDF(term) * s.saturate(qtf, len(queryTokens), stats.avgDocLen)
	}
	if self == 0 {
		return 0
	}

	score := raw / self
	if score > 1 {
		score = 1
	}
	return score
}

// saturate applies the BM25 term-frequency saturation with document
// length normalization.
func (s *Scorer) saturate(tf, docLen int, avgDocLen float64) float64 {
	norm := 1.0
	if avgDocLen > 0 {
		norm = 1 - s.b + s.b*float64(docLen)/avgDocLen
	}
	return float64(tf) * (s.k1 + 1) / (float64(tf) + s.k1*norm)
}
