package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cafeops/backend/internal/application/analytics"
	"github.com/cafeops/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisReportCache implements the dispatcher's report cache using Redis.
// Cache problems never fail a request; every error degrades to a miss.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisReportCache creates a report cache over a Redis connection.
// Returns an error when Redis is not reachable, so the caller can decide to
// run without a cache.
func NewRedisReportCache(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisReportCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("report_cache"),
	}, nil
}

// GetDashboard returns the cached payload for a key, or a miss.
func (c *RedisReportCache) GetDashboard(ctx context.Context, key string) (*analytics.DashboardReport, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var report analytics.DashboardReport
	if err := json.Unmarshal(data, &report); err != nil {
		c.logger.Warn("cache payload corrupt, dropping", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, key).Err()
		return nil, false
	}
	return &report, true
}

// SetDashboard stores the payload under the key with the configured TTL.
func (c *RedisReportCache) SetDashboard(ctx context.Context, key string, report *analytics.DashboardReport) {
	data, err := json.Marshal(report)
	if err != nil {
		c.logger.Warn("cache payload marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Close releases the Redis connection.
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}
