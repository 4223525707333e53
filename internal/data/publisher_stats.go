package data

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"ZevaroCore/internal/conf"
	"ZevaroCore/internal/model"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is returned when the stats store has no Redis client.
var ErrRedisUnavailable = errors.New("redis client is not available")

const (
	defaultStatsKeyPrefix = "event_gateway:stats"
	defaultStatsTTL       = 5 * time.Minute
)

// PublisherStatsRepo writes per-instance gateway snapshots to Redis.
//
// Key: <prefix>:<instance>, a hash with fields dropped_total, circuit_open and
// updated_at (unix seconds). The key expires so that stopped instances
// disappear on their own.
type PublisherStatsRepo struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	logger *log.Helper
}

// NewPublisherStatsRepo creates the stats repository.
func NewPublisherStatsRepo(d *Data, c *conf.Stats, logger log.Logger) *PublisherStatsRepo {
	prefix, ttl := defaultStatsKeyPrefix, defaultStatsTTL
	if c != nil {
		if c.KeyPrefix != "" {
			prefix = c.KeyPrefix
		}
		if c.TTL > 0 {
			ttl = c.TTL
		}
	}
	return &PublisherStatsRepo{
		rdb:    d.GetRedisClient(),
		prefix: prefix,
		ttl:    ttl,
		logger: log.NewHelper(log.With(logger, "module", "data/stats")),
	}
}

func (r *PublisherStatsRepo) key(instance string) string {
	return fmt.Sprintf("%s:%s", r.prefix, instance)
}

// Save writes the snapshot and refreshes the key TTL in one transaction.
func (r *PublisherStatsRepo) Save(ctx context.Context, stats *model.GatewayStats) error {
	if r.rdb == nil {
		return ErrRedisUnavailable
	}

	key := r.key(stats.Instance)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"dropped_total", stats.DroppedTotal,
			"circuit_open", strconv.FormatBool(stats.CircuitOpen),
			"updated_at", stats.UpdatedAt.Unix())
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save publisher stats: %w", err)
	}

	r.logger.Debugw("msg", "publisher stats saved", "key", key, "dropped_total", stats.DroppedTotal)
	return nil
}

// Get reads the last snapshot of instance. It returns redis.Nil when none exists.
func (r *PublisherStatsRepo) Get(ctx context.Context, instance string) (*model.GatewayStats, error) {
	if r.rdb == nil {
		return nil, ErrRedisUnavailable
	}

	values, err := r.rdb.HGetAll(ctx, r.key(instance)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read publisher stats: %w", err)
	}
	if len(values) == 0 {
		return nil, redis.Nil
	}

	dropped, _ := strconv.ParseInt(values["dropped_total"], 10, 64)
	open, _ := strconv.ParseBool(values["circuit_open"])
	updated, _ := strconv.ParseInt(values["updated_at"], 10, 64)

	return &model.GatewayStats{
		Instance:     instance,
		DroppedTotal: dropped,
		CircuitOpen:  open,
		UpdatedAt:    time.Unix(updated, 0),
	}, nil
}
