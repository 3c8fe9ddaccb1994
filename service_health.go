package membership

import (
	"context"

	"github.com/fernandezvara/dbkit"
	"github.com/uptrace/bun"
)

// HealthService provides health monitoring functionality as an extension to Service
type HealthService struct {
	*Service
}

// NewHealthService creates a new health service extension
func NewHealthService(service *Service) *HealthService {
	return &HealthService{Service: service}
}

// Health reports the store status. With a dbkit connection the full dbkit
// report is returned; otherwise only reachability is known.
func (hs *HealthService) Health(ctx context.Context) dbkit.HealthStatus {
	if hs.kit != nil {
		return hs.kit.Health(ctx)
	}

	if err := hs.Ping(ctx); err != nil {
		return dbkit.HealthStatus{Healthy: false, Error: err.Error()}
	}
	return dbkit.HealthStatus{Healthy: true}
}

// IsHealthy returns true if the database is reachable.
func (hs *HealthService) IsHealthy(ctx context.Context) bool {
	if hs.kit != nil {
		return hs.kit.IsHealthy(ctx)
	}
	return hs.Ping(ctx) == nil
}

// GetPoolStats returns connection pool statistics for monitoring.
// Returns zero values inside a transaction.
func (hs *HealthService) GetPoolStats() dbkit.PoolStats {
	if hs.kit != nil {
		return dbkit.PoolStatsFromSQL(hs.kit.Stats())
	}
	if db, ok := hs.db.(*bun.DB); ok {
		return dbkit.PoolStatsFromSQL(db.Stats())
	}
	return dbkit.PoolStats{}
}

// Ping performs a basic connectivity test to the database.
func (hs *HealthService) Ping(ctx context.Context) error {
	if hs.kit != nil {
		return hs.kit.PingContext(ctx)
	}
	var one int
	return dbkit.WithErr1(hs.db.NewRaw("SELECT 1").Scan(ctx, &one), "Ping").Err()
}
