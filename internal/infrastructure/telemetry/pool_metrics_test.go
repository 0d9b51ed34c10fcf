package telemetry

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRegisterPoolMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	current := sql.DBStats{OpenConnections: 4, InUse: 3, Idle: 1, WaitCount: 9}
	reg, err := RegisterPoolMetrics(provider.Meter("test"), func() (sql.DBStats, error) {
		return current, nil
	})
	require.NoError(t, err)

	got := collect(t, reader)

	open, ok := got["storefront.db.connections.open"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, open.DataPoints, 1)
	assert.Equal(t, int64(4), open.DataPoints[0].Value)

	inUse, ok := got["storefront.db.connections.in_use"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Equal(t, int64(3), inUse.DataPoints[0].Value)

	waits, ok := got["storefront.db.connections.waits"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.True(t, waits.IsMonotonic)
	assert.Equal(t, int64(9), waits.DataPoints[0].Value)

	t.Run("values are read on every collection", func(t *testing.T) {
		current.InUse = 0
		got := collect(t, reader)
		inUse := got["storefront.db.connections.in_use"].Data.(metricdata.Gauge[int64])
		assert.Equal(t, int64(0), inUse.DataPoints[0].Value)
	})

	require.NoError(t, reg.Unregister())
}

func TestRegisterPoolMetrics_StatsError(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	_, err := RegisterPoolMetrics(provider.Meter("test"), func() (sql.DBStats, error) {
		return sql.DBStats{}, sql.ErrConnDone
	})
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	assert.Error(t, reader.Collect(context.Background(), &rm))
}
