package cache

import (
	"context"
	"errors"
	"time"

	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/redis/go-redis/v9"
)

// RedisCache implements Cache on top of a shared redis client so that
// several instances of the server observe the same keys.
type RedisCache struct {
	client redis.Cmdable
	logger *logger.Logger
}

func NewRedisCache(client redis.Cmdable, logger *logger.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		logger: logger,
	}
}

// Get returns the stored string value. Redis errors are logged and reported as a miss.
func (c *RedisCache) Get(ctx context.Context, key string) (interface{}, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warnw("redis get failed", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	if err := c.client.Set(ctx, key, value, expiration).Err(); err != nil {
		c.logger.Warnw("redis set failed", "key", key, "error", err)
	}
}

// SetIfAbsent uses SET NX. When redis is unreachable it reports true so callers
// proceed rather than silently dropping work.
func (c *RedisCache) SetIfAbsent(ctx context.Context, key string, value interface{}, expiration time.Duration) bool {
	ok, err := c.client.SetNX(ctx, key, value, expiration).Result()
	if err != nil {
		c.logger.Warnw("redis setnx failed, treating key as absent", "key", key, "error", err)
		return true
	}
	return ok
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warnw("redis del failed", "key", key, "error", err)
	}
}
