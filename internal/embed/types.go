// Package embed generates vector embeddings for catalog documents and
// user queries. Documents and queries go through the same encode path so
// their vectors live in the same space.
package embed

import (
	"context"
	"math"
	"time"
)

// Common embedding constants
const (
	// DefaultBatchSize is the default batch size for embedding requests
	DefaultBatchSize = 64

	// MaxBatchSize is the maximum allowed batch size (prevents memory exhaustion)
	MaxBatchSize = 256

	// DefaultTimeout is the default timeout for embedding requests
	DefaultTimeout = 60 * time.Second

	// DefaultOllamaHost is the default Ollama API endpoint
	DefaultOllamaHost = "http://localhost:11434"

	// DefaultOllamaModel is the default embedding model
	DefaultOllamaModel = "all-minilm"

	// DefaultDimensions is the embedding dimension for all-minilm
	DefaultDimensions = 384

	// StaticDimensions is the embedding dimension for the static embedder
	StaticDimensions = 256

	// normEpsilon replaces a zero magnitude during normalization so a
	// zero vector stays finite instead of dividing by zero.
	normEpsilon = 1e-9
)

// Embedder generates vector embeddings for text
type Embedder interface {
	// Embed generates embedding for a single text
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding dimension
	Dimensions() int

	// ModelName returns the model identifier
	ModelName() string

	// Available checks if the embedder is ready
	Available(ctx context.Context) bool

	// Close releases resources
	Close() error
}

// normalizeVector normalizes a vector to unit length.
// A zero vector is scaled by 1/normEpsilon instead: the result is
// degenerate but finite, never NaN.
func normalizeVector(v []float32) []float32 {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}

	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		magnitude = normEpsilon
	}

	normalized := make([]float32, len(v))
	for i, val := range v {
		normalized[i] = float32(float64(val) / magnitude)
	}
	return normalized
}

// IsFinite reports whether every component of v is a finite number.
// A poisoned embedding (NaN or Inf anywhere) must short-circuit search
// instead of silently ranking with garbage scores.
func IsFinite(v []float32) bool {
	for _, val := range v {
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
