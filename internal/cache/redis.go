package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/blogposts/internal/telemetry/tracing"
)

const redisKeyPrefix = "blogposts::"

var _ Cache = (*RedisCache)(nil)

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		rdb: rdb,
		ttl: ttl,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redisCache.Get")
	defer span.End()

	val, err := c.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Errorf("redis cache get [%s]: %s", key, err)
		}
		return nil, false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redisCache.Set")
	defer span.End()

	if err := c.rdb.Set(ctx, redisKeyPrefix+key, value, c.ttl).Err(); err != nil {
		return errors.Join(ErrCacheUnavailable, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redisCache.Delete")
	defer span.End()

	if err := c.rdb.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return errors.Join(ErrCacheUnavailable, err)
	}
	return nil
}
