package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// PoolStatsFunc reports the state of a database connection pool
type PoolStatsFunc func() (sql.DBStats, error)

// RegisterPoolMetrics exposes the connection pool as observable instruments,
// read on every collection. Unregister the returned registration on shutdown.
func RegisterPoolMetrics(meter metric.Meter, stats PoolStatsFunc) (metric.Registration, error) {
	open, err := meter.Int64ObservableGauge("storefront.db.connections.open",
		metric.WithDescription("Open database connections"), metric.WithUnit("{connection}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create pool gauge: %w", err)
	}
	inUse, err := meter.Int64ObservableGauge("storefront.db.connections.in_use",
		metric.WithDescription("Connections serving a query or transaction"), metric.WithUnit("{connection}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create pool gauge: %w", err)
	}
	waits, err := meter.Int64ObservableCounter("storefront.db.connections.waits",
		metric.WithDescription("Checkouts of a connection that had to wait for the pool"), metric.WithUnit("{wait}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create pool counter: %w", err)
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s, err := stats()
		if err != nil {
			return err
		}
		o.ObserveInt64(open, int64(s.OpenConnections))
		o.ObserveInt64(inUse, int64(s.InUse))
		o.ObserveInt64(waits, s.WaitCount)
		return nil
	}, open, inUse, waits)
}
