package locking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeStore) CompareAndDelete(_ context.Context, key, value string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.values[key] != value {
		return false, nil
	}
	delete(f.values, key)
	return true, nil
}

// expire drops key as if its TTL ran out.
func (f *fakeStore) expire(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
}

func TestIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	fake := newFakeStore()
	s := &IdempotencyStore{client: fake, prefix: buildKey("checkout", "idempotency", "purchase")}

	current, ok, err := s.Reserve(ctx, "key-1", "order-a", time.Minute)
	if err != nil || !ok || current != "order-a" {
		t.Fatalf("expected reservation, got %q %v %v", current, ok, err)
	}
	if _, found := fake.values["checkout:idempotency:purchase:key-1"]; !found {
		t.Fatalf("expected namespaced key, got %v", fake.values)
	}

	current, ok, err = s.Reserve(ctx, "key-1", "order-b", time.Minute)
	if err != nil || ok || current != "order-a" {
		t.Fatalf("expected existing holder, got %q %v %v", current, ok, err)
	}

	if err := s.Release(ctx, "key-1", "order-b"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if current, _, _ := s.Reserve(ctx, "key-1", "order-c", time.Minute); current != "order-a" {
		t.Fatal("release by a non-holder must keep the reservation")
	}

	if err := s.Release(ctx, "key-1", "order-a"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, ok, _ := s.Reserve(ctx, "key-1", "order-c", time.Minute); !ok {
		t.Fatal("expected key free after holder release")
	}

	fake.err = errors.New("connection refused")
	if _, _, err := s.Reserve(ctx, "key-2", "order-d", time.Minute); err == nil {
		t.Fatal("expected redis error")
	}
}

func TestJobLock(t *testing.T) {
	ctx := context.Background()
	fake := newFakeStore()
	a, _ := newJobLock(fake, "checkout:cron:expire_intents", time.Minute)
	b, _ := newJobLock(fake, "checkout:cron:expire_intents", time.Minute)

	if ok, err := a.Acquire(ctx); err != nil || !ok {
		t.Fatalf("expected first acquire, got %v %v", ok, err)
	}
	if ok, _ := b.Acquire(ctx); ok {
		t.Fatal("second runner must not acquire")
	}
	if err := b.Release(ctx); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(fake.values) != 1 {
		t.Fatal("non-owner release must keep the lock")
	}
	if err := a.Release(ctx); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if ok, _ := b.Acquire(ctx); !ok {
		t.Fatal("expected acquire after release")
	}
}

func TestJobLock_ReleaseAfterExpiry(t *testing.T) {
	ctx := context.Background()
	fake := newFakeStore()
	const key = "checkout:cron:retry_invoices"
	a, _ := newJobLock(fake, key, time.Minute)
	b, _ := newJobLock(fake, key, time.Minute)

	if ok, _ := a.Acquire(ctx); !ok {
		t.Fatal("expected first acquire")
	}
	fake.expire(key)
	if ok, _ := b.Acquire(ctx); !ok {
		t.Fatal("expected acquire once the first lock expired")
	}

	if err := a.Release(ctx); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if ok, _ := a.Acquire(ctx); ok {
		t.Fatal("a stale owner must not release the current holder's lock")
	}
	if err := b.Release(ctx); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(fake.values) != 0 {
		t.Fatalf("expected lock released, got %v", fake.values)
	}
}

func TestIdempotencyStore_ReleaseError(t *testing.T) {
	fake := newFakeStore()
	s := &IdempotencyStore{client: fake, prefix: "checkout:idempotency:purchase"}
	fake.err = errors.New("connection reset")
	if err := s.Release(context.Background(), "key-1", "order-a"); err == nil {
		t.Fatal("expected redis error to surface")
	}
}

func TestBuildKey(t *testing.T) {
	if got := buildKey("checkout", "cron", " ", "poll"); got != "checkout:cron:poll" {
		t.Fatalf("unexpected key %q", got)
	}
}
