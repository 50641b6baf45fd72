package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "english words lowercased",
			input: "Citrus FRESH Green",
			want:  []string{"citrus", "fresh", "green"},
		},
		{
			name:  "korean syllables kept",
			input: "시트러스 향수",
			want:  []string{"시트러스", "향수"},
		},
		{
			name:  "mixed script with punctuation",
			input: "장미(rose), musk!",
			want:  []string{"장미", "rose", "musk"},
		},
		{
			name:  "digits kept",
			input: "No.5 eau",
			want:  []string{"no", "5", "eau"},
		},
		{
			name:  "only punctuation yields nothing",
			input: "!!! ... ???",
			want:  []string{},
		},
		{
			name:  "empty string",
			input: "",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func buildIndex(t *testing.T, docs ...string) *BM25 {
	t.Helper()
	tokenized := make([][]string, len(docs))
	for i, d := range docs {
		tokenized[i] = Tokenize(d)
	}
	return New(tokenized)
}

func TestBM25ScoresMatchingDocHighest(t *testing.T) {
	idx := buildIndex(t,
		"citrus fresh green aromatic",
		"woody amber spicy",
		"floral rose powdery",
	)

	scores := idx.Scores(Tokenize("citrus fresh"))
	require.Len(t, scores, 3)

	assert.Greater(t, scores[0], scores[1])
	assert.Greater(t, scores[0], scores[2])
	assert.Positive(t, scores[0])
}

func TestBM25UnknownTokensScoreZero(t *testing.T) {
	idx := buildIndex(t, "citrus fresh", "woody amber")

	scores := idx.Scores([]string{"vanilla"})
	assert.Equal(t, []float64{0, 0}, scores)
}

func TestBM25EmptyQuery(t *testing.T) {
	idx := buildIndex(t, "citrus fresh", "woody amber")

	scores := idx.Scores(nil)
	assert.Equal(t, []float64{0, 0}, scores)
}

func TestBM25EmptyCorpus(t *testing.T) {
	idx := New(nil)

	assert.Equal(t, 0, idx.CorpusSize())
	assert.Empty(t, idx.Scores([]string{"citrus"}))
}

func TestBM25CommonTermStillPositive(t *testing.T) {
	// "musk" appears in every document; raw probabilistic IDF would be
	// negative, the epsilon floor must keep its contribution positive.
	idx := buildIndex(t,
		"musk citrus",
		"musk woody",
		"musk floral",
		"musk amber",
	)

	scores := idx.Scores([]string{"musk"})
	for i, s := range scores {
		assert.Positivef(t, s, "doc %d", i)
	}
}

func TestBM25LengthNormalization(t *testing.T) {
	// Same term frequency, shorter document scores higher. The corpus is
	// large enough that "rose" keeps a positive IDF.
	idx := buildIndex(t,
		"rose",
		"rose woody amber spicy citrus green floral musk",
		"citrus fresh",
		"woody amber",
		"musk vanilla",
		"green tea",
	)

	scores := idx.Scores([]string{"rose"})
	assert.Positive(t, scores[0])
	assert.Greater(t, scores[0], scores[1])
}

func TestBM25HalfCorpusTermScoresZero(t *testing.T) {
	// Okapi IDF for a term in one of two documents is ln(1.5/1.5) = 0,
	// so the term contributes nothing.
	idx := buildIndex(t, "rose woody", "citrus fresh")

	scores := idx.Scores([]string{"rose"})
	assert.Equal(t, []float64{0, 0}, scores)
}

func TestBM25TermFrequencySaturates(t *testing.T) {
	idx := buildIndex(t,
		"rose rose rose rose",
		"rose musk",
		"woody amber",
	)

	scores := idx.Scores([]string{"rose"})
	assert.Greater(t, scores[0], scores[1])

	// k1 saturation: quadrupled frequency must not quadruple the score.
	assert.Less(t, scores[0], scores[1]*4)
}

func TestBM25KoreanQuery(t *testing.T) {
	idx := buildIndex(t,
		"시트러스 프레시 그린",
		"우디 앰버",
		"플로랄 로즈",
	)

	scores := idx.Scores(Tokenize("시트러스"))
	assert.Positive(t, scores[0])
	assert.Greater(t, scores[0], scores[1])
	assert.Zero(t, scores[1])
}
