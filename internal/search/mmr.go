package search

import "math"

// RerankMMR selects k candidates from the pool with Maximal Marginal
// Relevance. lambda is the relevance/diversity tradeoff: 1.0 is pure
// relevance, 0.0 is pure diversity.
//
// The first pick is the most relevant candidate; each further pick
// maximizes lambda*relevance - (1-lambda)*max-similarity-to-selected.
// A pool no larger than k is returned as-is (copied).
func RerankMMR(pool []Candidate, k int, lambda float64) []Candidate {
	if len(pool) == 0 || k <= 0 {
		return nil
	}
	if len(pool) <= k {
		out := make([]Candidate, len(pool))
		copy(out, pool)
		return out
	}
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) || lambda < 0 || lambda > 1 {
		// Degenerate tradeoff: fall back to the fused ranking.
		out := make([]Candidate, k)
		copy(out, pool[:k])
		return out
	}

	selected := make([]Candidate, 0, k)
	remaining := make([]int, 0, len(pool))

	// Seed with the candidate closest to the query. Relevance here is
	// the query-document cosine similarity, not the fused score: fusion
	// ranks the pool, similarity drives the diversity tradeoff.
	best := 0
	for i := range pool {
		if sanitize(pool[i].Semantic) > sanitize(pool[best].Semantic) {
			best = i
		}
	}
	selected = append(selected, pool[best])
	for i := range pool {
		if i != best {
			remaining = append(remaining, i)
		}
	}

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := -1
		bestScore := math.Inf(-1)

		for ri, pi := range remaining {
			relevance := sanitize(pool[pi].Semantic)

			maxSim := 0.0
			for _, s := range selected {
				sim := sanitize(cosineSim(pool[pi].Vector, s.Vector))
				if sim > maxSim {
					maxSim = sim
				}
			}

			score := lambda*relevance - (1-lambda)*maxSim
			if score > bestScore {
				bestScore = score
				bestIdx = ri
			}
		}

		if bestIdx < 0 {
			break
		}
		selected = append(selected, pool[remaining[bestIdx]])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

// cosineSim is the dot product of two unit vectors. Embedders normalize
// their output, so no magnitude division is needed here.
func cosineSim(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}
