package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"checkout_service/internal/domain/entities"
)

func TestFiscalDispatcher(t *testing.T) {
	t.Run("drains queued work on stop", func(t *testing.T) {
		d := NewFiscalDispatcher(2, 8, nil, nil)
		var (
			mu   sync.Mutex
			seen = map[string]bool{}
		)
		d.Start(context.Background(), func(_ context.Context, orderID string) error {
			mu.Lock()
			defer mu.Unlock()
			seen[orderID] = true
			return nil
		})
		for _, id := range []string{"a", "b", "c"} {
			if !d.Dispatch(id) {
				t.Fatalf("dispatch %s refused", id)
			}
		}
		d.Stop()
		if len(seen) != 3 {
			t.Fatalf("expected 3 handled orders, got %d", len(seen))
		}
		if d.Dispatch("d") {
			t.Fatal("dispatch after stop must be refused")
		}
	})

	t.Run("full queue refuses without blocking", func(t *testing.T) {
		d := NewFiscalDispatcher(1, 1, nil, nil)
		release := make(chan struct{})
		started := make(chan struct{})
		d.Start(context.Background(), func(_ context.Context, orderID string) error {
			if orderID == "first" {
				close(started)
				<-release
			}
			return errors.New("ignored")
		})
		d.Dispatch("first")
		<-started
		if !d.Dispatch("second") {
			t.Fatal("queue slot should be free")
		}
		if d.Dispatch("third") {
			t.Fatal("expected full queue to refuse")
		}
		close(release)
		d.Stop()
	})
}

func TestPublicFailureMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"declined", entities.NewGatewayError(entities.ErrorKindRejected, ErrPaymentDeclined), MessagePaymentDeclined},
		{"expired", entities.NewGatewayError(entities.ErrorKindRejected, entities.ErrIntentExpired), MessagePaymentExpired},
		{"discount", entities.NewProvisionError(entities.ErrorKindInvalidDiscount, ErrDiscountNotCovered), MessageEnrollmentNotCompleted},
		{"capability", entities.NewPipelineError(entities.ErrorKindPreconditionFailed, ErrCapabilityRequired), MessageEnrollmentNotCompleted},
		{"transient", entities.NewGatewayError(entities.ErrorKindUnreachable, errors.New("dial")), MessageTemporaryError},
		{"untyped", errors.New("boom"), MessageTemporaryError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PublicFailureMessage(tc.err); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
