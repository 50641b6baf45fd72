package lexical

import "math"

// Okapi BM25 parameters.
const (
	// k1 controls term frequency saturation.
	k1 = 1.5

	// b controls document length normalization.
	b = 0.75

	// epsilon floors negative IDF values at epsilon * averageIDF so very
	// common terms still contribute a small positive score instead of
	// penalizing documents that contain them.
	epsilon = 0.25
)

// BM25 is an Okapi BM25 index over a fixed corpus. Immutable after New;
// safe for concurrent Scores calls.
type BM25 struct {
	corpusSize int
	avgDocLen  float64
	docLens    []float64

	// termFreqs[i] maps token -> count within document i.
	termFreqs []map[string]int

	// idf maps token -> inverse document frequency, epsilon-floored.
	idf map[string]float64
}

// New builds a BM25 index from pre-tokenized documents. Index i of docs
// corresponds to document position i; empty token lists are fine and
// simply never score.
func New(docs [][]string) *BM25 {
	idx := &BM25{
		corpusSize: len(docs),
		docLens:    make([]float64, len(docs)),
		termFreqs:  make([]map[string]int, len(docs)),
		idf:        make(map[string]float64),
	}

	docFreqs := make(map[string]int)
	var totalLen float64

	for i, tokens := range docs {
		idx.docLens[i] = float64(len(tokens))
		totalLen += idx.docLens[i]

		freqs := make(map[string]int, len(tokens))
		for _, t := range tokens {
			freqs[t]++
		}
		idx.termFreqs[i] = freqs

		for t := range freqs {
			docFreqs[t]++
		}
	}

	if idx.corpusSize > 0 {
		idx.avgDocLen = totalLen / float64(idx.corpusSize)
	}

	idx.computeIDF(docFreqs)
	return idx
}

// computeIDF computes probabilistic IDF, flooring negative values.
// A term in more than half the corpus gets a raw negative IDF; those are
// replaced by epsilon times the average positive IDF.
func (idx *BM25) computeIDF(docFreqs map[string]int) {
	var idfSum float64
	var negative []string

	n := float64(idx.corpusSize)
	for term, df := range docFreqs {
		v := math.Log(n-float64(df)+0.5) - math.Log(float64(df)+0.5)
		idx.idf[term] = v
		idfSum += v
		if v < 0 {
			negative = append(negative, term)
		}
	}

	if len(idx.idf) == 0 {
		return
	}
	averageIDF := idfSum / float64(len(idx.idf))

	floor := epsilon * averageIDF
	for _, term := range negative {
		idx.idf[term] = floor
	}
}

// Scores returns the raw BM25 score of every document in the corpus for
// the given query tokens, indexed by document position. Tokens absent
// from the corpus contribute nothing.
func (idx *BM25) Scores(queryTokens []string) []float64 {
	scores := make([]float64, idx.corpusSize)
	if len(queryTokens) == 0 || idx.corpusSize == 0 {
		return scores
	}

	for _, term := range queryTokens {
		termIDF, ok := idx.idf[term]
		if !ok {
			continue
		}

		for i := 0; i < idx.corpusSize; i++ {
			freq := float64(idx.termFreqs[i][term])
			if freq == 0 {
				continue
			}

			denom := freq + k1*(1-b+b*idx.docLens[i]/idx.avgDocLen)
			scores[i] += termIDF * (freq * (k1 + 1)) / denom
		}
	}

	return scores
}

// CorpusSize returns the number of indexed documents.
func (idx *BM25) CorpusSize() int {
	return idx.corpusSize
}
