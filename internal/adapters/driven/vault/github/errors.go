package github

import (
	"errors"
	"fmt"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/nativz/cortex-sync/internal/core/domain"
)

// RateLimitError reports an exhausted API quota with its reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// mapError translates go-github failures into the domain taxonomy.
// Missing files become ErrNotFound, stale-hash writes become
// ErrConflict, auth failures map to their sentinels and everything
// else is an UpstreamError carrying the status code.
func (v *Vault) mapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return &RateLimitError{
			ResetAt:   v.limiter.ResetTime(),
			Remaining: v.limiter.Remaining(),
			Limit:     v.limiter.Limit(),
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case 404:
			return fmt.Errorf("%s: %w", operation, domain.ErrNotFound)
		case 401:
			return fmt.Errorf("%s: %w", operation, domain.ErrUnauthorized)
		case 403:
			return fmt.Errorf("%s: %w", operation, domain.ErrForbidden)
		case 409, 422:
			// The contents API reports stale blob hashes as either
			// status depending on the path taken.
			return fmt.Errorf("%s: %w", operation, domain.ErrConflict)
		default:
			return fmt.Errorf("%s: %w", operation, &domain.UpstreamError{
				Service:    "github",
				StatusCode: ghErr.Response.StatusCode,
				Message:    ghErr.Message,
			})
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}
