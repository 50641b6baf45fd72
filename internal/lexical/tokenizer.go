// Package lexical scores documents against queries with Okapi BM25 over a
// Korean/English token stream. It is the keyword leg of hybrid retrieval:
// raw scores are produced for the whole corpus per query so the engine can
// max-normalize them into [0,1] before fusion.
package lexical

import (
	"regexp"
	"strings"
)

// separatorRegex matches runs of everything that is not an ASCII
// alphanumeric or a Hangul syllable (U+AC00..U+D7A3). Jamo, punctuation,
// emoji and whitespace all act as token separators.
var separatorRegex = regexp.MustCompile(`[^0-9a-zA-Z\x{AC00}-\x{D7A3}]+`)

// Tokenize lowercases text and splits it into Korean/English tokens.
// A string with no alphanumeric or Hangul content yields no tokens.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	parts := separatorRegex.Split(lower, -1)

	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
