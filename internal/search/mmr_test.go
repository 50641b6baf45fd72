package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// axis returns a unit vector along the given axis.
func axis(dims, i int) []float32 {
	v := make([]float32, dims)
	v[i] = 1
	return v
}

func TestRerankMMRPicksMostRelevantFirst(t *testing.T) {
	pool := []Candidate{
		{Position: 0, Semantic: 0.95, Fused: 0.9, Vector: axis(4, 0)},
		{Position: 1, Semantic: 0.80, Fused: 0.8, Vector: axis(4, 1)},
		{Position: 2, Semantic: 0.70, Fused: 0.7, Vector: axis(4, 2)},
	}

	out := RerankMMR(pool, 2, 0.7)
	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].Position)
}

func TestRerankMMRSeedsOnQuerySimilarityNotFusedScore(t *testing.T) {
	// A strong lexical/context signal can push a weak semantic match to
	// the top of the fused ranking; the first MMR pick must still be the
	// candidate closest to the query.
	pool := []Candidate{
		{Position: 0, Semantic: 0.20, Fused: 0.90, Vector: axis(4, 0)},
		{Position: 1, Semantic: 0.95, Fused: 0.80, Vector: axis(4, 1)},
		{Position: 2, Semantic: 0.50, Fused: 0.70, Vector: axis(4, 2)},
	}

	out := RerankMMR(pool, 2, 0.7)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Position)
}

func TestRerankMMRPrefersDiversity(t *testing.T) {
	// Candidate 1 duplicates the top pick's vector; candidate 2 is
	// orthogonal with lower relevance. MMR must skip the duplicate.
	top := axis(4, 0)
	pool := []Candidate{
		{Position: 0, Semantic: 0.90, Fused: 0.90, Vector: top},
		{Position: 1, Semantic: 0.89, Fused: 0.89, Vector: top},
		{Position: 2, Semantic: 0.50, Fused: 0.50, Vector: axis(4, 1)},
	}

	out := RerankMMR(pool, 2, 0.7)
	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].Position)
	assert.Equal(t, 2, out[1].Position)
}

func TestRerankMMRLambdaOneIsPureRelevance(t *testing.T) {
	top := axis(4, 0)
	pool := []Candidate{
		{Position: 0, Semantic: 0.90, Fused: 0.90, Vector: top},
		{Position: 1, Semantic: 0.89, Fused: 0.89, Vector: top},
		{Position: 2, Semantic: 0.50, Fused: 0.50, Vector: axis(4, 1)},
	}

	out := RerankMMR(pool, 2, 1.0)
	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].Position)
	assert.Equal(t, 1, out[1].Position)
}

func TestRerankMMRSmallPoolPassthrough(t *testing.T) {
	pool := []Candidate{
		{Position: 0, Fused: 0.9, Vector: axis(4, 0)},
		{Position: 1, Fused: 0.8, Vector: axis(4, 1)},
	}

	out := RerankMMR(pool, 5, 0.7)
	assert.Equal(t, pool, out)

	// The result is a copy, not an alias.
	out[0].Position = 99
	assert.Equal(t, 0, pool[0].Position)
}

func TestRerankMMRDegenerateInputs(t *testing.T) {
	pool := []Candidate{
		{Position: 0, Fused: 0.9, Vector: axis(4, 0)},
		{Position: 1, Fused: 0.8, Vector: axis(4, 1)},
		{Position: 2, Fused: 0.7, Vector: axis(4, 2)},
	}

	assert.Nil(t, RerankMMR(nil, 3, 0.7))
	assert.Nil(t, RerankMMR(pool, 0, 0.7))

	// Invalid lambda falls back to the fused ranking.
	for _, lambda := range []float64{math.NaN(), math.Inf(1), -0.1, 1.5} {
		out := RerankMMR(pool, 2, lambda)
		require.Len(t, out, 2)
		assert.Equal(t, 0, out[0].Position)
		assert.Equal(t, 1, out[1].Position)
	}
}

func TestRerankMMRSurvivesNaNScores(t *testing.T) {
	pool := []Candidate{
		{Position: 0, Semantic: math.NaN(), Fused: math.NaN(), Vector: axis(4, 0)},
		{Position: 1, Semantic: 0.8, Fused: 0.8, Vector: axis(4, 1)},
		{Position: 2, Semantic: 0.7, Fused: 0.7, Vector: axis(4, 2)},
	}

	out := RerankMMR(pool, 2, 0.7)
	require.Len(t, out, 2)

	// NaN relevance is treated as 0.0, so position 1 leads.
	assert.Equal(t, 1, out[0].Position)
}

func TestRerankMMRDistinctPositions(t *testing.T) {
	pool := make([]Candidate, 10)
	for i := range pool {
		s := 1 - float64(i)*0.05
		pool[i] = Candidate{Position: i, Semantic: s, Fused: s, Vector: axis(16, i)}
	}

	out := RerankMMR(pool, 5, 0.7)
	require.Len(t, out, 5)

	seen := make(map[int]bool)
	for _, c := range out {
		assert.False(t, seen[c.Position])
		seen[c.Position] = true
	}
}

func TestCosineSim(t *testing.T) {
	a := axis(3, 0)
	assert.InDelta(t, 1.0, cosineSim(a, a), 1e-9)
	assert.InDelta(t, 0.0, cosineSim(a, axis(3, 1)), 1e-9)

	// Mismatched lengths use the shorter prefix.
	assert.InDelta(t, 1.0, cosineSim(a, []float32{1}), 1e-9)
}
