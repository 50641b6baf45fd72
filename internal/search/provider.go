package search

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/scentlab/scentmatch/internal/catalog"
	"github.com/scentlab/scentmatch/internal/config"
	"github.com/scentlab/scentmatch/internal/embed"
	scenterrors "github.com/scentlab/scentmatch/internal/errors"
)

// Provider lazily builds the engine on first use and shares the one
// instance afterwards. A failed build is not cached: the next request
// retries, so a transient failure (model server still starting) does not
// permanently poison the process.
type Provider struct {
	cfg    *config.Config
	logger *slog.Logger

	group singleflight.Group

	mu     sync.RWMutex
	engine *Engine
}

// NewProvider creates a provider; no work happens until Get.
func NewProvider(cfg *config.Config, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{cfg: cfg, logger: logger}
}

// Get returns the shared engine, building it on first call. Concurrent
// callers during a build share a single build attempt.
func (p *Provider) Get(ctx context.Context) (*Engine, error) {
	p.mu.RLock()
	if e := p.engine; e != nil {
		p.mu.RUnlock()
		return e, nil
	}
	p.mu.RUnlock()

	v, err, _ := p.group.Do("engine", func() (any, error) {
		// A racing caller may have finished the build already.
		p.mu.RLock()
		if e := p.engine; e != nil {
			p.mu.RUnlock()
			return e, nil
		}
		p.mu.RUnlock()

		e, err := p.build(ctx)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.engine = e
		p.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Engine), nil
}

// build loads the catalog, constructs the embedder and assembles the
// engine.
func (p *Provider) build(ctx context.Context) (*Engine, error) {
	docs, err := catalog.Load(p.cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}

	embedder, err := embed.NewFromConfig(ctx, p.cfg.Embeddings)
	if err != nil {
		return nil, scenterrors.ModelError("initialize embedder", err)
	}

	engine, err := NewEngine(ctx, docs, embedder, p.cfg.Search, p.logger)
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}
	return engine, nil
}
