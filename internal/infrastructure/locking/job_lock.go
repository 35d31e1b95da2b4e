package locking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobLock keeps a scheduled job to one runner across replicas.
type JobLock struct {
	client store
	key    string
	ttl    time.Duration

	mu    sync.Mutex
	owner string
}

func NewJobLock(client *Client, job string, ttl time.Duration) (*JobLock, error) {
	if client == nil {
		return nil, errors.New("redis client required for lock")
	}
	return newJobLock(client, client.Key("cron", job), ttl)
}

func newJobLock(client store, key string, ttl time.Duration) (*JobLock, error) {
	if key == "" {
		return nil, errors.New("lock key is required")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &JobLock{client: client, key: key, ttl: ttl}, nil
}

func (l *JobLock) Acquire(ctx context.Context) (bool, error) {
	owner := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("setnx: %w", err)
	}
	if ok {
		l.mu.Lock()
		l.owner = owner
		l.mu.Unlock()
	}
	return ok, nil
}

// Release gives the lock up unless it already expired and another runner
// holds it now.
func (l *JobLock) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owner == "" {
		return nil
	}
	owner := l.owner
	l.owner = ""
	if _, err := l.client.CompareAndDelete(ctx, l.key, owner); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
