// Package search implements hybrid fragrance retrieval: semantic embedding
// similarity, BM25 keyword matching and weather-context affinity fused into
// one relevance score, diversified with MMR and finished with a seeded
// exploration substitution.
package search

import (
	"math"

	"github.com/scentlab/scentmatch/internal/catalog"
)

// Weights are the fusion weights for the three scoring signals.
// Only their ratio matters for ranking; they need not sum to 1.
type Weights struct {
	Semantic float64
	Lexical  float64
	Context  float64
}

// DefaultWeights mirrors the default search configuration.
var DefaultWeights = Weights{Semantic: 0.6, Lexical: 0.25, Context: 0.15}

// Candidate is a scored document inside the retrieval pipeline.
type Candidate struct {
	// Position is the catalog row index.
	Position int

	// Semantic is cosine similarity between query and document embeddings.
	Semantic float64

	// Lexical is the max-normalized BM25 score, in [0, 1].
	Lexical float64

	// Context is the weather tag affinity ratio, in [0, 1].
	Context float64

	// Fused is the weighted combination used for ranking.
	Fused float64

	// Vector is the document's unit-length embedding, used by MMR to
	// measure similarity between candidates.
	Vector []float32
}

// Result is one finished recommendation.
type Result struct {
	Document catalog.Document

	// Score is the fused relevance score, sanitized to be finite.
	Score float64

	// Semantic, Lexical and Context are the component scores, sanitized.
	Semantic float64
	Lexical  float64
	Context  float64
}

// sanitize maps NaN and Inf to 0.0 so scores are always presentable.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.0
	}
	return v
}
