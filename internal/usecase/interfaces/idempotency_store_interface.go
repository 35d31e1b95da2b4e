package interfaces

import (
	"context"
	"time"
)

// IIdempotencyStore reserves business keys for a bounded window.
type IIdempotencyStore interface {
	// Reserve stores holder under key unless the key is taken. It returns the
	// current holder and whether this call took the reservation.
	Reserve(ctx context.Context, key, holder string, ttl time.Duration) (current string, reserved bool, err error)
	// Release drops the reservation if it is still held by holder.
	Release(ctx context.Context, key, holder string) error
}
