// Package data provides data access layer implementations.
// It owns the broker client, the event gateways and the optional MySQL and
// Redis stores.
package data

import (
	"ZevaroCore/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewRedisClient,
	NewMySQLClient,
	NewKafkaClient,
	NewEventPublisher,
	NewPublisherCollector,
	NewMetricsRegistry,
	NewAuditLogRepo,
	NewCircuitAuditRecorder,
	NewPublisherStatsRepo,
)

// Data contains the optional stores shared by repositories.
// Either handle may be nil; repositories degrade instead of failing.
type Data struct {
	rdb *redis.Client
	db  *gorm.DB
}

// NewData creates a new Data instance with all data layer dependencies.
// Missing stores do not prevent application startup (graceful degradation).
func NewData(_ *conf.Data, logger log.Logger, rdb *redis.Client, db *gorm.DB) (*Data, func(), error) {
	helper := log.NewHelper(logger)

	if rdb == nil {
		helper.Warn("Redis client is nil, gateway stats snapshots will be unavailable")
	}
	if db == nil {
		helper.Warn("MySQL is not configured, audit entries will only be published")
	}

	d := &Data{
		rdb: rdb,
		db:  db,
	}

	cleanup := func() {
		helper.Info("closing the data resources")
		// Redis and MySQL are closed by their own cleanup functions
	}

	return d, cleanup, nil
}

// GetRedisClient returns the Redis client, or nil.
func (d *Data) GetRedisClient() *redis.Client {
	return d.rdb
}

// GetDB returns the GORM handle, or nil.
func (d *Data) GetDB() *gorm.DB {
	return d.db
}
