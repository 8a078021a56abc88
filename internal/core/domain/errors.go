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

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrParse indicates the content blob is not a valid category list.
	// Readers degrade to an empty catalogue; the updater refuses to commit it.
	ErrParse = errors.New("malformed content")

	// ErrTransport indicates a remote request failed (timeout, connection
	// failure or a non-success response).
	ErrTransport = errors.New("transport error")

	// ErrStorage indicates the content override could not be persisted.
	ErrStorage = errors.New("storage error")

	// ErrUpdateInProgress indicates a content download is already running.
	ErrUpdateInProgress = errors.New("update in progress")

	// ErrContentTooLarge indicates the remote content exceeds the configured limit.
	ErrContentTooLarge = errors.New("content too large")

	// ErrCircuitOpen indicates the remote source is temporarily rejecting
	// requests after repeated failures.
	ErrCircuitOpen = errors.New("remote source temporarily unavailable")
)

// HTTPStatusError reports a non-success response from a remote endpoint.
// It wraps ErrTransport so callers can match on either.
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("Server error: %d", e.StatusCode)
}

// Unwrap allows errors.Is(err, ErrTransport).
func (e *HTTPStatusError) Unwrap() error {
	return ErrTransport
}
