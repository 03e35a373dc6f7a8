package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"revenueScope/internal/model"
)

const keyPrefix = "revenue"

// MetricsCache stores computed ChainMetrics in Redis keyed by chain and day.
type MetricsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a MetricsCache backed by Redis. A zero ttl keeps entries without expiry.
func New(redisURL, password string, ttl time.Duration) (*MetricsCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &MetricsCache{rdb: rdb, ttl: ttl}, nil
}

// Close shuts down the Redis connection.
func (c *MetricsCache) Close() error {
	return c.rdb.Close()
}

// Get returns the cached metrics for chain on day. A miss is (zero, false, nil).
func (c *MetricsCache) Get(ctx context.Context, chain string, day time.Time) (model.ChainMetrics, bool, error) {
	raw, err := c.rdb.Get(ctx, Key(chain, day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.ChainMetrics{}, false, nil
	}
	if err != nil {
		return model.ChainMetrics{}, false, fmt.Errorf("redis get: %w", err)
	}

	var metrics model.ChainMetrics
	if err := json.Unmarshal(raw, &metrics); err != nil {
		return model.ChainMetrics{}, false, fmt.Errorf("decode cached metrics: %w", err)
	}
	return metrics, true, nil
}

// Set stores metrics under its chain and timestamp.
func (c *MetricsCache) Set(ctx context.Context, metrics model.ChainMetrics) error {
	raw, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	if err := c.rdb.Set(ctx, Key(metrics.Chain, metrics.Timestamp), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Key builds the cache key revenue:{CHAIN}:{YYYY-MM-DD}.
func Key(chain string, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, strings.ToUpper(chain), day.UTC().Format(time.DateOnly))
}
