package postal

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/shipping"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewLookup builds the configured postal lookup.
// When redisClient is not nil and caching is enabled, ViaCEP answers are cached in Redis.
func NewLookup(cfg config.PostalConfig, redisClient *redis.Client, logger *zap.Logger) (shipping.PostalLookup, error) {
	switch cfg.Provider {
	case "static":
		return DefaultStaticDirectory(), nil
	case "viacep":
		var lookup shipping.PostalLookup = NewViaCEPClient(ViaCEPConfig{
			BaseURL:         cfg.BaseURL,
			Timeout:         cfg.Timeout,
			BreakerFailures: cfg.BreakerFailures,
			BreakerOpenFor:  cfg.BreakerOpenFor,
		}, logger)
		if redisClient != nil && cfg.CacheTTL > 0 {
			lookup = cache.NewCachedPostalLookup(lookup, redisClient, cfg.CacheTTL, cfg.NegativeCacheTTL)
		}
		return lookup, nil
	default:
		return nil, fmt.Errorf("unknown postal provider %q", cfg.Provider)
	}
}
