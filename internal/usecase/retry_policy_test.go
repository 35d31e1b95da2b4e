package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"checkout_service/internal/domain/entities"
)

func fastRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestRetryPolicyDo(t *testing.T) {
	t.Run("transient errors are retried until success", func(t *testing.T) {
		calls := 0
		transient := 0
		err := fastRetry().Do(context.Background(), func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return entities.NewFiscalError(entities.ErrorKindTimeout, context.DeadlineExceeded)
			}
			return nil
		}, func(attempt uint64, err error) { transient++ })
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 3 || transient != 2 {
			t.Fatalf("expected 3 calls and 2 transient failures, got %d/%d", calls, transient)
		}
	})

	t.Run("attempts are bounded", func(t *testing.T) {
		calls := 0
		err := fastRetry().Do(context.Background(), func(ctx context.Context) error {
			calls++
			return entities.NewGatewayError(entities.ErrorKindUnreachable, errors.New("connection refused"))
		}, nil)
		if entities.KindOf(err) != entities.ErrorKindUnreachable {
			t.Fatalf("expected last unreachable error, got %v", err)
		}
		if calls != 3 {
			t.Fatalf("expected 3 calls, got %d", calls)
		}
	})

	t.Run("final errors stop immediately", func(t *testing.T) {
		calls := 0
		err := fastRetry().Do(context.Background(), func(ctx context.Context) error {
			calls++
			return entities.NewGatewayError(entities.ErrorKindRejected, nil)
		}, nil)
		if entities.KindOf(err) != entities.ErrorKindRejected || calls != 1 {
			t.Fatalf("expected one rejected call, got %d %v", calls, err)
		}
	})

	t.Run("zero policy still runs once", func(t *testing.T) {
		calls := 0
		_ = RetryPolicy{}.Do(context.Background(), func(ctx context.Context) error {
			calls++
			return entities.NewLedgerError(entities.ErrorKindStorageUnavailable, nil)
		}, nil)
		if calls != 1 {
			t.Fatalf("expected 1 call, got %d", calls)
		}
	})
}
