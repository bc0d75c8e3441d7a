package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Missing vault files and board items are expected outcomes and are
	// always reported through this sentinel, never as upstream failures.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates an optimistic-concurrency write failed because
	// the remote content changed since it was last read. The caller must
	// re-read and retry; content is never merged automatically.
	ErrConflict = errors.New("conflict: stale content hash")

	// ErrUnauthorized indicates credentials were rejected. Terminal.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates access to the resource is denied. Terminal.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation indicates a structurally malformed payload
	// (webhook bodies, board responses). Terminal.
	ErrValidation = errors.New("validation failed")

	// ErrNotConfigured indicates a required upstream (vault repo, board
	// token, database) is missing from the configuration.
	ErrNotConfigured = errors.New("not configured")

	// ErrEmbeddingUnavailable indicates no embedding backend is configured.
	// Semantic search degrades to full-text when this is returned.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)

// UpstreamError represents a non-2xx response from the vault or board API.
type UpstreamError struct {
	Service    string // "github" or "monday"
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: API error %d: %s", e.Service, e.StatusCode, e.Message)
}

// Retryable reports whether the failure is transient (5xx or 429).
// 4xx responses are terminal and must surface to the operator.
func (e *UpstreamError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// IsRetryable reports whether an error is worth retrying with backoff.
// Conflicts are retryable via re-read; 5xx/429 upstream errors are
// transient; everything else is terminal.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrConflict) {
		return true
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Retryable()
	}
	return false
}
