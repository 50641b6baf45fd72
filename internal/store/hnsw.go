package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/coder/hnsw"
)

// HNSWStore implements VectorStore using the coder/hnsw pure Go HNSW
// graph. Catalog positions are used directly as graph keys, so no ID
// mapping layer is needed: position i in the catalog is key uint64(i)
// in the graph.
type HNSWStore struct {
	mu     sync.RWMutex
	graph  *hnsw.Graph[uint64]
	config VectorStoreConfig
	count  int
	closed bool
}

// NewHNSWStore creates a new HNSW-based vector store.
func NewHNSWStore(cfg VectorStoreConfig) (*HNSWStore, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", cfg.Dimensions)
	}
	if cfg.M == 0 {
		cfg.M = 16
	}
	if cfg.EfSearch == 0 {
		cfg.EfSearch = 40
	}

	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = cfg.M
	graph.EfSearch = cfg.EfSearch
	graph.Ml = 0.25

	return &HNSWStore{
		graph:  graph,
		config: cfg,
	}, nil
}

// Add inserts vectors for the given catalog positions. Vectors are
// expected to be pre-normalized by the embedder.
func (s *HNSWStore) Add(ctx context.Context, positions []int, vectors [][]float32) error {
	if len(positions) == 0 {
		return nil
	}
	if len(positions) != len(vectors) {
		return fmt.Errorf("positions and vectors length mismatch: %d vs %d", len(positions), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}

	for _, v := range vectors {
		if len(v) != s.config.Dimensions {
			return ErrDimensionMismatch{Expected: s.config.Dimensions, Got: len(v)}
		}
	}

	for i, pos := range positions {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.graph.Add(hnsw.MakeNode(uint64(pos), vectors[i]))
		s.count++
	}

	return nil
}

// Search finds the k nearest neighbors of query by cosine similarity.
// An empty index returns an empty slice, not an error.
func (s *HNSWStore) Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}
	if len(query) != s.config.Dimensions {
		return nil, ErrDimensionMismatch{Expected: s.config.Dimensions, Got: len(query)}
	}
	if s.graph.Len() == 0 || k <= 0 {
		return []*VectorResult{}, nil
	}

	nodes := s.graph.Search(query, k)

	results := make([]*VectorResult, 0, len(nodes))
	for _, node := range nodes {
		distance := s.graph.Distance(query, node.Value)
		results = append(results, &VectorResult{
			Position:   int(node.Key),
			Similarity: 1 - float64(distance),
		})
	}

	return results, nil
}

// Len returns the number of indexed vectors.
func (s *HNSWStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Close releases resources.
func (s *HNSWStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Verify interface implementation at compile time
var _ VectorStore = (*HNSWStore)(nil)
