package embed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/scentlab/scentmatch/internal/config"
)

// NewFromConfig builds the embedder selected by cfg.
//
// Provider "ollama" requires a reachable Ollama server and fails hard when
// it is missing. Provider "static" always succeeds. An empty provider
// auto-detects: Ollama when available, otherwise the static embedder, so
// the service comes up (with reduced semantic quality) on machines with
// no model server.
func NewFromConfig(ctx context.Context, cfg config.EmbeddingsConfig) (Embedder, error) {
	ollamaCfg := OllamaConfig{
		Host:          cfg.OllamaHost,
		Model:         cfg.Model,
		Dimensions:    cfg.Dimensions,
		BatchSize:     cfg.BatchSize,
		Timeout:       DefaultTimeout,
		PullIfMissing: true,
	}

	switch cfg.Provider {
	case "static":
		return NewCachedEmbedder(NewStaticEmbedder(), cfg.CacheSize), nil

	case "ollama":
		e, err := NewOllamaEmbedder(ctx, ollamaCfg)
		if err != nil {
			return nil, fmt.Errorf("ollama embedder: %w", err)
		}
		return NewCachedEmbedder(e, cfg.CacheSize), nil

	case "":
		probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()

		if e, err := NewOllamaEmbedder(probeCtx, ollamaCfg); err == nil {
			slog.Info("embedder_selected",
				slog.String("provider", "ollama"),
				slog.String("model", e.ModelName()),
				slog.Int("dimensions", e.Dimensions()))
			return NewCachedEmbedder(e, cfg.CacheSize), nil
		} else {
			slog.Warn("ollama_unavailable_using_static", slog.String("error", err.Error()))
		}
		return NewCachedEmbedder(NewStaticEmbedder(), cfg.CacheSize), nil

	default:
		return nil, fmt.Errorf("unknown embeddings provider %q", cfg.Provider)
	}
}
