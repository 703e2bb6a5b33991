package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIndexError_Detail tests the non-success response form
func TestIndexError_Detail(t *testing.T) {
	err := &IndexError{Detail: `{"error":"mapper_parsing_exception"}`}

	assert.Contains(t, err.Error(), "failed to index document")
	assert.Contains(t, err.Error(), "mapper_parsing_exception")
	assert.NoError(t, err.Unwrap())
}

// TestIndexError_Transport tests the transport failure form
func TestIndexError_Transport(t *testing.T) {
	cause := errors.New("connection refused")
	err := &IndexError{Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

// TestRemovalError_Wrapping tests errors.As through wrapped removal errors
func TestRemovalError_Wrapping(t *testing.T) {
	inner := &RemovalError{Detail: "409 conflict"}
	wrapped := fmt.Errorf("purge account 7: %w", inner)

	var removalErr *RemovalError
	require.ErrorAs(t, wrapped, &removalErr)
	assert.Equal(t, "409 conflict", removalErr.Detail)
}

// TestSentinelErrors tests that sentinels are distinct
func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrAlreadyExists,
		ErrInvalidInput,
		ErrUnknownCollection,
		ErrUnknownAccount,
		ErrSyncInProgress,
		ErrBackendUnavailable,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}
