package usecase

import (
	"context"
	"time"

	"checkout_service/internal/domain/entities"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy bounds the orchestrator's retries of transient failures
// (unreachable, timeout, storage unavailable). Components never retry on their own.
type RetryPolicy struct {
	MaxAttempts uint64
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 200 * time.Millisecond, MaxDelay: 5 * time.Second}
}

func (p RetryPolicy) backoff() retry.Backoff {
	base := p.BaseDelay
	if base <= 0 {
		base = time.Millisecond
	}
	b := retry.NewExponential(base)
	if p.MaxDelay > 0 {
		b = retry.WithCappedDuration(p.MaxDelay, b)
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return retry.WithMaxRetries(attempts-1, b)
}

// Do runs op until it succeeds, returns a non-retryable error, or the attempts
// run out; in the last case the last transient error is returned. onTransient,
// when set, sees every transient failure.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error, onTransient func(attempt uint64, err error)) error {
	var attempt uint64
	return retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if entities.IsRetryable(err) {
			if onTransient != nil {
				onTransient(attempt, err)
			}
			return retry.RetryableError(err)
		}
		return err
	})
}
