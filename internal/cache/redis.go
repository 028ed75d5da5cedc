package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"todolist/internal/config"
	"todolist/pkg/logger"
)

const todosCacheKey = "todo:list"

// TodoCache holds the serialized todo collection in Redis. A nil *TodoCache is a disabled cache:
// every read misses and every write is a no-op.
type TodoCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis when cfg enables the cache. It returns nil when the cache is disabled.
func New(ctx context.Context, cfg *config.Config) (*TodoCache, error) {
	if !cfg.CacheEnabled() {
		logger.Info(ctx, "Redis list cache disabled")
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opts.PoolSize = cfg.RedisPoolSize
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info(ctx, "Redis client initialized", "pool_size", cfg.RedisPoolSize)
	return NewWithClient(client, time.Duration(cfg.CacheTTL)*time.Second), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{client: client, ttl: ttl}
}

// GetRaw reads the JSON-encoded todo list. Returns (nil, false) on miss or error.
func (c *TodoCache) GetRaw(ctx context.Context) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.client.Get(ctx, todosCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get todos failed", "error", err)
		return nil, false
	}
	return b, true
}

// SetRaw stores the JSON-encoded todo list with the configured TTL.
func (c *TodoCache) SetRaw(ctx context.Context, b []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, todosCacheKey, b, c.ttl).Err(); err != nil {
		logger.Debug(ctx, "Redis set todos failed", "error", err)
	}
}

// Invalidate deletes the list key so the next read goes to the database.
func (c *TodoCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, todosCacheKey).Err(); err != nil {
		logger.Warn(ctx, "Redis invalidate todos failed", "error", err)
	}
}

// Ping reports whether Redis is reachable. A disabled cache is always healthy.
func (c *TodoCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *TodoCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
