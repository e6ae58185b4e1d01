package cache

import (
	"context"
	"testing"
	"time"

	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRedisCacheFailsOpenWhenUnreachable(t *testing.T) {
	client := unreachableRedis()
	defer client.Close()

	c := NewRedisCache(client, logger.NewNoopLogger())
	ctx := context.Background()
	key := GenerateKey(PrefixFulfilledSession, "acct_1", "cs_1")

	assert.True(t, c.SetIfAbsent(ctx, key, "1", time.Minute))
	assert.True(t, c.SetIfAbsent(ctx, key, "1", time.Minute))

	v, ok := c.Get(ctx, key)
	assert.False(t, ok)
	assert.Nil(t, v)

	c.Set(ctx, key, "1", time.Minute)
	c.Delete(ctx, key)
}
