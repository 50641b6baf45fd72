package embed

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticEmbedderDeterministic(t *testing.T) {
	e := NewStaticEmbedder()
	defer func() { _ = e.Close() }()

	a, err := e.Embed(context.Background(), "citrus fresh summer")
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), "citrus fresh summer")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, StaticDimensions)
}

func TestStaticEmbedderUnitLength(t *testing.T) {
	e := NewStaticEmbedder()
	defer func() { _ = e.Close() }()

	vec, err := e.Embed(context.Background(), "woody amber oriental")
	require.NoError(t, err)

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestStaticEmbedderSimilarTextCloser(t *testing.T) {
	e := NewStaticEmbedder()
	defer func() { _ = e.Close() }()

	ctx := context.Background()
	query, _ := e.Embed(ctx, "citrus fresh")
	near, _ := e.Embed(ctx, "citrus fresh green")
	far, _ := e.Embed(ctx, "leather tobacco oud")

	assert.Greater(t, dot(query, near), dot(query, far))
}

func TestStaticEmbedderEmptyText(t *testing.T) {
	e := NewStaticEmbedder()
	defer func() { _ = e.Close() }()

	vec, err := e.Embed(context.Background(), "   ")
	require.NoError(t, err)
	require.Len(t, vec, StaticDimensions)
	assert.True(t, IsFinite(vec))
}

func TestStaticEmbedderBatch(t *testing.T) {
	e := NewStaticEmbedder()
	defer func() { _ = e.Close() }()

	ctx := context.Background()
	texts := []string{"citrus", "woody amber", ""}

	batch, err := e.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, batch, 3)

	for i, text := range texts {
		single, err := e.Embed(ctx, text)
		require.NoError(t, err)
		assert.Equalf(t, single, batch[i], "text %q", text)
	}

	empty, err := e.EmbedBatch(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStaticEmbedderClosed(t *testing.T) {
	e := NewStaticEmbedder()
	require.NoError(t, e.Close())

	_, err := e.Embed(context.Background(), "citrus")
	assert.Error(t, err)
	assert.False(t, e.Available(context.Background()))
}

func TestStaticEmbedderMetadata(t *testing.T) {
	e := NewStaticEmbedder()
	defer func() { _ = e.Close() }()

	assert.Equal(t, StaticDimensions, e.Dimensions())
	assert.Equal(t, "static", e.ModelName())
	assert.True(t, e.Available(context.Background()))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite([]float32{0, 1, -1}))
	assert.True(t, IsFinite(nil))
	assert.False(t, IsFinite([]float32{0, float32(math.NaN())}))
	assert.False(t, IsFinite([]float32{float32(math.Inf(1))}))
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
