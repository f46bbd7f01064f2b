package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindAndIs(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("extract: %w", UpstreamFetchFailed("Failed to fetch URL content", cause))

	assert.Equal(t, KindUpstreamFetchFailed, KindOf(err))
	assert.True(t, errors.Is(err, ErrUpstreamFetchFailed))
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "Failed to fetch URL content", MessageOf(err))
}

func TestUnclassifiedIsInternal(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Empty(t, MessageOf(err))
	assert.Equal(t, "internal", KindOf(err).String())
}

func TestInvalidInputMessage(t *testing.T) {
	err := InvalidInput("URL is required")
	assert.EqualError(t, err, "URL is required")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
