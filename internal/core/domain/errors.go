package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownCollection indicates a collection name or value outside the
	// closed set of known collections.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrUnknownAccount indicates an account id with no configuration.
	ErrUnknownAccount = errors.New("unknown account")

	// ErrSyncInProgress indicates a sync is already running for an account.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrBackendUnavailable indicates the full-text store is not configured.
	ErrBackendUnavailable = errors.New("full-text store unavailable")
)

// IndexError reports a failed index request against the search backend:
// either the transport failed or the backend answered with a non-success
// status. Detail carries the raw response for diagnostics.
type IndexError struct {
	// Detail is the backend response, or a transport description.
	Detail string

	// Err is the underlying transport error, if any.
	Err error
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to index document: %v", e.Err)
	}
	return fmt.Sprintf("failed to index document: %s", e.Detail)
}

// Unwrap exposes the transport error for errors.Is/As.
func (e *IndexError) Unwrap() error {
	return e.Err
}

// RemovalError reports a failed delete-by-query request against the search
// backend. Causes and detail semantics match IndexError.
type RemovalError struct {
	// Detail is the backend response, or a transport description.
	Detail string

	// Err is the underlying transport error, if any.
	Err error
}

// Error implements the error interface.
func (e *RemovalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to remove documents: %v", e.Err)
	}
	return fmt.Sprintf("failed to remove documents: %s", e.Detail)
}

// Unwrap exposes the transport error for errors.Is/As.
func (e *RemovalError) Unwrap() error {
	return e.Err
}
