package errors

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorWrapsUnknownAsInternal(t *testing.T) {
	err := FromError(sql.ErrConnDone)
	require.NotNil(t, err)
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, ErrInternal.Message, err.Message)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestCloneKeepsCodeAndMatchesWithIs(t *testing.T) {
	err := Clone(ErrNotFound, "paste not found")
	assert.Equal(t, "paste not found", err.Message)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrExpired))
	assert.Equal(t, "share not found", ErrNotFound.Message)
}

func TestRateLimitedCarriesRetryAfter(t *testing.T) {
	err := RateLimited(42)
	assert.Equal(t, http.StatusTooManyRequests, err.Status)
	assert.Equal(t, 42, err.RetryAfter)
	assert.Zero(t, ErrRateLimited.RetryAfter)
}
