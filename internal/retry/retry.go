// Package retry wraps transient upstream calls in bounded exponential
// backoff. Only errors classified retryable by the domain taxonomy
// (5xx/429 upstream failures, write conflicts) are retried; terminal
// errors surface immediately.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/nativz/cortex-sync/internal/core/domain"
)

// DefaultMaxAttempts bounds the total number of tries.
const DefaultMaxAttempts = 3

// DefaultInitialInterval is the first backoff delay.
const DefaultInitialInterval = 500 * time.Millisecond

// Do runs op, retrying retryable failures with exponential backoff up
// to DefaultMaxAttempts total attempts. The last error is returned
// unwrapped so callers can still classify it.
func Do(ctx context.Context, op func() error) error {
	return DoN(ctx, DefaultMaxAttempts, op)
}

// DoN is Do with an explicit attempt budget.
func DoN(ctx context.Context, maxAttempts uint64, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = DefaultInitialInterval

	wrapped := func() error {
		err := op()
		if err != nil && !domain.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(
		wrapped,
		backoff.WithContext(backoff.WithMaxRetries(policy, maxAttempts-1), ctx),
	)
}
