// Package store holds the in-memory vector index over catalog embeddings.
package store

import (
	"context"
	"fmt"
)

// VectorResult is one nearest-neighbor hit.
type VectorResult struct {
	// Position is the catalog row index of the matched document.
	Position int

	// Similarity is the cosine similarity to the query, in [-1, 1]
	// (non-negative in practice for normalized text embeddings).
	Similarity float64
}

// VectorStoreConfig configures the vector index.
type VectorStoreConfig struct {
	// Dimensions is the embedding dimension; all vectors must match.
	Dimensions int

	// M is the HNSW connectivity parameter.
	M int

	// EfSearch is the HNSW search expansion factor.
	EfSearch int
}

// VectorStore indexes document embeddings by catalog position.
type VectorStore interface {
	// Add inserts vectors for the given catalog positions.
	Add(ctx context.Context, positions []int, vectors [][]float32) error

	// Search finds the k nearest neighbors of query.
	Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Close releases resources.
	Close() error
}

// ErrDimensionMismatch indicates a vector of the wrong dimension.
type ErrDimensionMismatch struct {
	Expected int
	Got      int
}

func (e ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("vector dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}
