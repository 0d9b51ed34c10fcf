package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers the outcome of client requests carrying an
// idempotency key, so a retried request gets the first result instead of
// running twice.
type IdempotencyStore interface {
	// Reserve claims key for ttl. reserved is true when the caller now owns
	// the key. Otherwise result holds the recorded outcome, or is empty while
	// the owner is still running.
	Reserve(ctx context.Context, key string, ttl time.Duration) (result string, reserved bool, err error)

	// Complete records the outcome of a reserved key
	Complete(ctx context.Context, key, result string, ttl time.Duration) error

	// Release drops a reservation whose request failed, so it can be retried
	Release(ctx context.Context, key string) error
}
