package locking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"checkout_service/internal/usecase/interfaces"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore reserves purchase business keys with SET NX + TTL.
type IdempotencyStore struct {
	client store
	prefix string
}

var _ interfaces.IIdempotencyStore = (*IdempotencyStore)(nil)

func NewIdempotencyStore(client *Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, prefix: client.Key("idempotency", "purchase")}
}

func (s *IdempotencyStore) key(k string) string {
	return buildKey(s.prefix, k)
}

func (s *IdempotencyStore) Reserve(ctx context.Context, key, holder string, ttl time.Duration) (string, bool, error) {
	k := s.key(key)
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, k, holder, ttl)
		if err != nil {
			return "", false, fmt.Errorf("setnx: %w", err)
		}
		if ok {
			return holder, true, nil
		}
		current, err := s.client.Get(ctx, k)
		if errors.Is(err, redis.Nil) {
			// Expired between SETNX and GET; try once more.
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("read reservation: %w", err)
		}
		return current, current == holder, nil
	}
	return "", false, errors.New("reservation key kept flapping")
}

// Release only deletes the key while holder still owns it.
func (s *IdempotencyStore) Release(ctx context.Context, key, holder string) error {
	if _, err := s.client.CompareAndDelete(ctx, s.key(key), holder); err != nil {
		return fmt.Errorf("release reservation: %w", err)
	}
	return nil
}
