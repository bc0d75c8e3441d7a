package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nativz/cortex-sync/internal/core/domain"
)

func TestDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesTransientFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &domain.UpstreamError{Service: "monday", StatusCode: 503}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_TerminalErrorsNotRetried(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return domain.ErrUnauthorized
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, 1, calls)
}

func TestDo_AttemptBudgetExhausted(t *testing.T) {
	upstream := &domain.UpstreamError{Service: "github", StatusCode: 500}
	calls := 0
	err := DoN(context.Background(), 3, func() error {
		calls++
		return upstream
	})
	assert.Equal(t, 3, calls)
	var ue *domain.UpstreamError
	assert.True(t, errors.As(err, &ue))
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, func() error {
		return &domain.UpstreamError{Service: "github", StatusCode: 500}
	})
	assert.Error(t, err)
}
