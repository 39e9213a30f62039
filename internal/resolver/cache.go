package resolver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Cache remembers which store an identifier resolved to. Implementations
// must degrade to misses on failure.
type Cache interface {
	Get(ctx context.Context, key string) (uint, bool)
	Set(ctx context.Context, key string, storeID uint)
	Invalidate(ctx context.Context, storeID uint)
}

// NopCache never caches
type NopCache struct{}

func (NopCache) Get(context.Context, string) (uint, bool) { return 0, false }
func (NopCache) Set(context.Context, string, uint)        {}
func (NopCache) Invalidate(context.Context, uint)         {}

const cachePrefix = "ewa:store:"

// RedisCache stores identifier to store id mappings in redis. Every key
// written for a store is tracked in a per-store set so an update can drop
// all of them at once.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisCache creates a redis backed cache
func NewRedisCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, log: log}
}

func lookupKey(key string) string {
	return cachePrefix + "lookup:" + key
}

func membersKey(storeID uint) string {
	return fmt.Sprintf("%skeys:%d", cachePrefix, storeID)
}

func (c *RedisCache) Get(ctx context.Context, key string) (uint, bool) {
	val, err := c.client.Get(ctx, lookupKey(key)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("Store cache read failed", zap.String("key", key), zap.Error(err))
		}
		return 0, false
	}
	id, err := strconv.ParseUint(val, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (c *RedisCache) Set(ctx context.Context, key string, storeID uint) {
	members := membersKey(storeID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, lookupKey(key), storeID, c.ttl)
		pipe.SAdd(ctx, members, lookupKey(key))
		pipe.Expire(ctx, members, 2*c.ttl)
		return nil
	})
	if err != nil {
		c.log.Warn("Store cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, storeID uint) {
	members := membersKey(storeID)
	keys, err := c.client.SMembers(ctx, members).Result()
	if err != nil {
		c.log.Warn("Store cache invalidation failed", zap.Uint("store_id", storeID), zap.Error(err))
		return
	}
	keys = append(keys, members)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Store cache invalidation failed", zap.Uint("store_id", storeID), zap.Error(err))
	}
}
