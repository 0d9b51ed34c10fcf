package postal

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLookup(t *testing.T) {
	viacep := config.PostalConfig{
		Provider:         "viacep",
		BaseURL:          "http://localhost:1",
		Timeout:          time.Second,
		BreakerFailures:  3,
		BreakerOpenFor:   time.Second,
		CacheTTL:         time.Hour,
		NegativeCacheTTL: time.Minute,
	}

	t.Run("static", func(t *testing.T) {
		lookup, err := NewLookup(config.PostalConfig{Provider: "static"}, nil, nil)
		require.NoError(t, err)
		assert.IsType(t, &StaticDirectory{}, lookup)
	})

	t.Run("viacep without redis", func(t *testing.T) {
		lookup, err := NewLookup(viacep, nil, nil)
		require.NoError(t, err)
		assert.IsType(t, &ViaCEPClient{}, lookup)
	})

	t.Run("viacep with redis cache", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		lookup, err := NewLookup(viacep, client, nil)
		require.NoError(t, err)
		assert.IsType(t, &cache.CachedPostalLookup{}, lookup)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewLookup(config.PostalConfig{Provider: "correios"}, nil, nil)
		assert.Error(t, err)
	})
}
