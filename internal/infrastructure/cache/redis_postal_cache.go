package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shipping"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const (
	defaultPostalKeyPrefix = "storefront:postal:"
	unknownDestination     = "-"
)

// CachedPostalLookup decorates a shipping.PostalLookup with a Redis cache.
// Resolved destinations are kept for ttl, unknown codes for negativeTTL.
// Transport failures are never cached. When Redis itself fails the
// lookup goes straight to the wrapped directory.
type CachedPostalLookup struct {
	next        shipping.PostalLookup
	client      *redis.Client
	keyPrefix   string
	ttl         time.Duration
	negativeTTL time.Duration
}

// NewCachedPostalLookup creates a caching decorator around next
func NewCachedPostalLookup(next shipping.PostalLookup, client *redis.Client, ttl, negativeTTL time.Duration) *CachedPostalLookup {
	return &CachedPostalLookup{
		next:        next,
		client:      client,
		keyPrefix:   defaultPostalKeyPrefix,
		ttl:         ttl,
		negativeTTL: negativeTTL,
	}
}

// Resolve returns the cached destination of code or asks the wrapped lookup
func (c *CachedPostalLookup) Resolve(ctx context.Context, code valueobject.PostalCode) (*shipping.Destination, error) {
	key := c.keyPrefix + code.Digits()

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == unknownDestination {
			return nil, shared.ErrUnknownDestination.WithSubject(code.Digits())
		}
		var dest shipping.Destination
		if jsonErr := json.Unmarshal(data, &dest); jsonErr == nil {
			return &dest, nil
		}
		logger.L(ctx).Warn("Discarding malformed postal cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		logger.L(ctx).Warn("Postal cache read failed", zap.String("key", key), zap.Error(err))
	}

	dest, err := c.next.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrUnknownDestination) && c.negativeTTL > 0 {
			c.store(ctx, key, []byte(unknownDestination), c.negativeTTL)
		}
		return nil, err
	}

	if encoded, jsonErr := json.Marshal(dest); jsonErr == nil {
		c.store(ctx, key, encoded, c.ttl)
	}
	return dest, nil
}

func (c *CachedPostalLookup) store(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.L(ctx).Warn("Postal cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Ensure CachedPostalLookup implements shipping.PostalLookup
var _ shipping.PostalLookup = (*CachedPostalLookup)(nil)
