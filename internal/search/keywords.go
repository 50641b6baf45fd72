package search

import (
	"strings"

	"github.com/scentlab/scentmatch/internal/lexical"
)

// PrioritizeKeywords stably reorders results so that entries whose note
// text contains at least one query token come first. Relative order
// within each group is preserved, so the fused ranking still decides ties.
// Used when a wider candidate list is cut down to the final display size:
// literal keyword hits should survive the cut.
func PrioritizeKeywords(results []Result, query string) []Result {
	tokens := lexical.Tokenize(query)
	if len(tokens) == 0 || len(results) == 0 {
		return results
	}

	matched := make([]Result, 0, len(results))
	rest := make([]Result, 0, len(results))

	for _, r := range results {
		padded := " " + strings.ToLower(r.Document.SearchText) + " "
		hit := false
		for _, t := range tokens {
			if strings.Contains(padded, " "+t+" ") {
				hit = true
				break
			}
		}
		if hit {
			matched = append(matched, r)
		} else {
			rest = append(rest, r)
		}
	}

	return append(matched, rest...)
}
