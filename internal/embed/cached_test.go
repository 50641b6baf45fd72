package embed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder wraps StaticEmbedder and counts inner calls.
type countingEmbedder struct {
	*StaticEmbedder
	embedCalls int
	batchCalls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.embedCalls++
	return c.StaticEmbedder.Embed(ctx, text)
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.batchCalls++
	return c.StaticEmbedder.EmbedBatch(ctx, texts)
}

func TestCachedEmbedderHitsSkipInner(t *testing.T) {
	inner := &countingEmbedder{StaticEmbedder: NewStaticEmbedder()}
	cached := NewCachedEmbedder(inner, 10)
	ctx := context.Background()

	first, err := cached.Embed(ctx, "citrus fresh")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.embedCalls)

	second, err := cached.Embed(ctx, "citrus fresh")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.embedCalls, "second call must be served from cache")
	assert.Equal(t, first, second)
}

func TestCachedEmbedderBatchPartialHit(t *testing.T) {
	inner := &countingEmbedder{StaticEmbedder: NewStaticEmbedder()}
	cached := NewCachedEmbedder(inner, 10)
	ctx := context.Background()

	_, err := cached.Embed(ctx, "citrus")
	require.NoError(t, err)

	batch, err := cached.EmbedBatch(ctx, []string{"citrus", "woody"})
	require.NoError(t, err)
	require.Len(t, batch, 2)

	// Only "woody" should reach the inner embedder.
	assert.Equal(t, 1, inner.batchCalls)

	single, err := cached.Embed(ctx, "woody")
	require.NoError(t, err)
	assert.Equal(t, single, batch[1])
}

func TestCachedEmbedderBatchAllCached(t *testing.T) {
	inner := &countingEmbedder{StaticEmbedder: NewStaticEmbedder()}
	cached := NewCachedEmbedder(inner, 10)
	ctx := context.Background()

	_, err := cached.EmbedBatch(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.Equal(t, 1, inner.batchCalls)

	_, err = cached.EmbedBatch(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 1, inner.batchCalls)
}

func TestCachedEmbedderPassthrough(t *testing.T) {
	inner := NewStaticEmbedder()
	cached := NewCachedEmbedder(inner, 0) // zero size falls back to default

	assert.Equal(t, inner.Dimensions(), cached.Dimensions())
	assert.Equal(t, inner.ModelName(), cached.ModelName())
	assert.True(t, cached.Available(context.Background()))
	assert.Same(t, any(inner), any(cached.Inner()))
	assert.NoError(t, cached.Close())
}
