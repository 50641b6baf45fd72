package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scentlab/scentmatch/internal/catalog"
	"github.com/scentlab/scentmatch/internal/config"
	"github.com/scentlab/scentmatch/internal/embed"
	scenterrors "github.com/scentlab/scentmatch/internal/errors"
	"github.com/scentlab/scentmatch/internal/lexical"
	"github.com/scentlab/scentmatch/internal/store"
)

// lexicalFloor keeps max-normalization finite when no document matches
// any query token.
const lexicalFloor = 1e-9

// Engine runs hybrid retrieval over a fixed catalog. Immutable after
// NewEngine; safe for concurrent use.
type Engine struct {
	docs     []catalog.Document
	embedder embed.Embedder
	vectors  store.VectorStore

	// matrix holds each document's unit embedding, indexed by position.
	matrix [][]float32

	bm25    *lexical.BM25
	weights Weights
	cfg     config.SearchConfig
	explore *explorer
	logger  *slog.Logger
}

// NewEngine embeds the catalog, builds the vector and lexical indexes and
// returns a ready engine. An empty catalog is valid: every search simply
// returns no results.
func NewEngine(ctx context.Context, docs []catalog.Document, embedder embed.Embedder, cfg config.SearchConfig, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()

	texts := make([]string, len(docs))
	docTokens := make([][]string, len(docs))
	for i, d := range docs {
		texts[i] = d.SearchText
		docTokens[i] = lexical.Tokenize(d.SearchText)
	}

	matrix, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		// A document that cannot be embedded poisons the whole build.
		return nil, scenterrors.ModelError("embed catalog", err)
	}

	vectors, err := store.NewHNSWStore(store.VectorStoreConfig{
		Dimensions: embedder.Dimensions(),
	})
	if err != nil {
		return nil, scenterrors.ModelError("create vector store", err)
	}

	if len(docs) > 0 {
		positions := make([]int, len(docs))
		for i := range docs {
			positions[i] = i
		}
		if err := vectors.Add(ctx, positions, matrix); err != nil {
			return nil, scenterrors.ModelError("index catalog vectors", err)
		}
	}

	e := &Engine{
		docs:     docs,
		embedder: embedder,
		vectors:  vectors,
		matrix:   matrix,
		bm25:     lexical.New(docTokens),
		weights: Weights{
			Semantic: cfg.SemanticWeight,
			Lexical:  cfg.LexicalWeight,
			Context:  cfg.ContextWeight,
		},
		cfg:     cfg,
		explore: newExplorer(cfg.RandomSeed),
		logger:  logger,
	}

	logger.Info("engine_ready",
		slog.Int("documents", len(docs)),
		slog.String("model", embedder.ModelName()),
		slog.Int("dimensions", embedder.Dimensions()),
		slog.Duration("build_time", time.Since(start)))

	return e, nil
}

// Size returns the number of indexed documents.
func (e *Engine) Size() int {
	return len(e.docs)
}

// Document returns the catalog document at position.
func (e *Engine) Document(position int) catalog.Document {
	return e.docs[position]
}

// Search returns the fused candidate pool for a query, best first, at
// most poolSize long. contextText is a free-text weather description;
// empty means no context signal. A blank query or an empty catalog
// yields an empty pool, never an error.
func (e *Engine) Search(ctx context.Context, query, contextText string, poolSize int) ([]Candidate, error) {
	q := strings.TrimSpace(query)
	if q == "" || len(e.docs) == 0 {
		return nil, nil
	}
	queryTokens := lexical.Tokenize(q)
	if len(queryTokens) == 0 {
		// Nothing tokenizable (punctuation-only input): no signal to
		// rank on, so no results rather than arbitrary ones.
		return nil, nil
	}
	if poolSize <= 0 {
		poolSize = e.cfg.PoolSize
	}

	queryVec, err := e.embedder.Embed(ctx, q)
	if err != nil {
		// A query that cannot be embedded has nothing to rank against;
		// no results, not an error.
		e.logger.Warn("query_embedding_failed",
			slog.String("query", q), slog.String("error", err.Error()))
		return nil, nil
	}
	if !embed.IsFinite(queryVec) {
		e.logger.Warn("query_embedding_not_finite", slog.String("query", q))
		return nil, nil
	}

	k := poolSize
	if k > len(e.docs) {
		k = len(e.docs)
	}

	// The vector search and the corpus-wide BM25 pass are independent.
	var (
		hits   []*store.VectorResult
		rawLex []float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hits, err = e.vectors.Search(gctx, queryVec, k)
		if err != nil {
			return scenterrors.InternalError("vector search", err)
		}
		return nil
	})
	g.Go(func() error {
		rawLex = e.bm25.Scores(queryTokens)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	// The lexical maximum is a corpus-wide normalizer, not a pool-local
	// one.
	maxLex := lexicalFloor
	for _, s := range rawLex {
		if s > maxLex {
			maxLex = s
		}
	}

	tags := WeatherTags(contextText)

	candidates := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		doc := e.docs[hit.Position]

		semantic := sanitize(hit.Similarity)
		lexScore := sanitize(rawLex[hit.Position] / maxLex)
		ctxScore := AffinityScore(tags, doc.SearchText)

		candidates = append(candidates, Candidate{
			Position: hit.Position,
			Semantic: semantic,
			Lexical:  lexScore,
			Context:  ctxScore,
			Fused: e.weights.Semantic*semantic +
				e.weights.Lexical*lexScore +
				e.weights.Context*ctxScore,
			Vector: e.matrix[hit.Position],
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Fused > candidates[j].Fused
	})

	if len(candidates) > poolSize {
		candidates = candidates[:poolSize]
	}
	return candidates, nil
}

// Recommend runs the full pipeline: pool retrieval, MMR diversification
// and the exploration substitution. k <= 0 uses the configured default.
// An empty pool yields an empty result set.
func (e *Engine) Recommend(ctx context.Context, query, contextText string, k int) ([]Result, error) {
	if k <= 0 {
		k = e.cfg.ReturnK
	}

	start := time.Now()

	pool, err := e.Search(ctx, query, contextText, e.cfg.PoolSize)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return []Result{}, nil
	}

	selected := RerankMMR(pool, k, e.cfg.MMRLambda)
	selected = e.explore.Substitute(selected, pool, k)

	results := make([]Result, 0, len(selected))
	for _, c := range selected {
		results = append(results, Result{
			Document: e.docs[c.Position],
			Score:    sanitize(c.Fused),
			Semantic: sanitize(c.Semantic),
			Lexical:  sanitize(c.Lexical),
			Context:  sanitize(c.Context),
		})
	}

	e.logger.Debug("recommend_done",
		slog.String("query", strings.TrimSpace(query)),
		slog.Int("pool", len(pool)),
		slog.Int("returned", len(results)),
		slog.Duration("elapsed", time.Since(start)))

	return results, nil
}
