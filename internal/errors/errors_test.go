package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDerivesMetadataFromCode(t *testing.T) {
	err := New(ErrCodeCatalogNotFound, "catalog missing", nil)

	assert.Equal(t, CategoryIO, err.Category)
	assert.Equal(t, SeverityFatal, err.Severity)
	assert.True(t, err.Retryable)
	assert.Contains(t, err.Error(), "ERR_201_CATALOG_NOT_FOUND")
	assert.Contains(t, err.Error(), "catalog missing")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := Wrap(ErrCodeCatalogUnreadable, cause)

	require.NotNil(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())

	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestIsMatchesByCode(t *testing.T) {
	a := New(ErrCodeNetworkTimeout, "first", nil)
	b := New(ErrCodeNetworkTimeout, "second", nil)
	c := New(ErrCodeInternal, "other", nil)

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestIsLoadFailure(t *testing.T) {
	assert.True(t, IsLoadFailure(CatalogError("bad csv", nil)))
	assert.True(t, IsLoadFailure(ModelError("no model", nil)))
	assert.False(t, IsLoadFailure(ValidationError("bad input", nil)))
	assert.False(t, IsLoadFailure(fmt.Errorf("plain error")))

	// Wrapped load failures are still detected through the chain.
	wrapped := fmt.Errorf("starting engine: %w", ModelError("no model", nil))
	assert.True(t, IsLoadFailure(wrapped))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NetworkError("timeout", nil)))
	assert.False(t, IsRetryable(ValidationError("bad input", nil)))
	assert.False(t, IsRetryable(fmt.Errorf("plain error")))
}

func TestGetCodeAndAs(t *testing.T) {
	err := ValidationError("bad input", nil)

	assert.Equal(t, ErrCodeInvalidInput, GetCode(err))
	assert.Empty(t, GetCode(fmt.Errorf("plain")))

	se, ok := As(fmt.Errorf("wrapping: %w", err))
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalidInput, se.Code)

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestWithDetailAndSuggestion(t *testing.T) {
	err := New(ErrCodeConfigInvalid, "bad weight", nil).
		WithDetail("field", "mmr_lambda").
		WithSuggestion("use a value between 0 and 1")

	assert.Equal(t, "mmr_lambda", err.Details["field"])
	assert.Equal(t, "use a value between 0 and 1", err.Suggestion)
}
