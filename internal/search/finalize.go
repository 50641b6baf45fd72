package search

import "math/rand"

// explorationWindow is how far past the cut the substitution may reach
// into the fused ranking.
const explorationWindow = 10

// explorer injects one exploratory pick into an otherwise deterministic
// result list. The generator is re-seeded on every call, so identical
// inputs produce identical output: exploration varies across catalogs
// and queries, not across retries of the same request.
type explorer struct {
	seed int64
}

func newExplorer(seed int64) *explorer {
	return &explorer{seed: seed}
}

// Substitute replaces the last slot of selected with a random candidate
// from the next tier of the fused ranking: ranks [k, k+explorationWindow)
// of pool, minus anything already selected. When the pool has no next
// tier, or every next-tier candidate is already selected, the input is
// returned unchanged.
func (x *explorer) Substitute(selected []Candidate, pool []Candidate, k int) []Candidate {
	if len(selected) == 0 || len(pool) <= k {
		return selected
	}

	chosen := make(map[int]bool, len(selected))
	for _, c := range selected {
		chosen[c.Position] = true
	}

	end := k + explorationWindow
	if end > len(pool) {
		end = len(pool)
	}

	tier := make([]Candidate, 0, end-k)
	for _, c := range pool[k:end] {
		if !chosen[c.Position] {
			tier = append(tier, c)
		}
	}
	if len(tier) == 0 {
		return selected
	}

	rng := rand.New(rand.NewSource(x.seed))
	selected[len(selected)-1] = tier[rng.Intn(len(tier))]
	return selected
}
