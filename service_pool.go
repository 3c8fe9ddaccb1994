package membership

import (
	"fmt"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// PoolService provides connection pool management functionality as an extension to Service
type PoolService struct {
	*Service
}

// NewPoolService creates a new pool service extension
func NewPoolService(service *Service) *PoolService {
	return &PoolService{Service: service}
}

func (ps *PoolService) bunDB() (*bun.DB, error) {
	if ps.kit != nil {
		if db := ps.kit.Bun(); db != nil {
			return db, nil
		}
	}
	if db, ok := ps.db.(*bun.DB); ok {
		return db, nil
	}
	return nil, fmt.Errorf("%w: connection pool is not reachable from a transaction", ErrDatabaseError)
}

// ConfigureConnectionPool updates the database connection pool settings.
func (ps *PoolService) ConfigureConnectionPool(config PoolConfig) error {
	db, err := ps.bunDB()
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(config.MaxOpenConnections)
	db.SetMaxIdleConns(config.MaxIdleConnections)
	db.SetConnMaxLifetime(config.ConnectionMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnectionMaxIdleTime)
	ps.cfg.Database.Pool = config

	ps.logger.Info("connection pool configured",
		zap.Int("max_open", config.MaxOpenConnections),
		zap.Int("max_idle", config.MaxIdleConnections),
		zap.Duration("max_lifetime", config.ConnectionMaxLifetime),
		zap.Duration("max_idle_time", config.ConnectionMaxIdleTime))
	return nil
}

// GetConnectionPoolConfig returns the pool configuration last applied, with
// the open connection limit read back from the driver.
func (ps *PoolService) GetConnectionPoolConfig() (*PoolConfig, error) {
	db, err := ps.bunDB()
	if err != nil {
		return nil, err
	}

	config := ps.cfg.Database.Pool
	config.MaxOpenConnections = db.Stats().MaxOpenConnections
	return &config, nil
}

// ResetConnectionPool resets the connection pool to default settings.
func (ps *PoolService) ResetConnectionPool() error {
	return ps.ConfigureConnectionPool(DefaultPoolConfig())
}
