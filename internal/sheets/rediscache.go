package sheets

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BladMendez/asistencia-mec-nica/internal/logger"
	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

const redisKeyPrefix = "asistencia:"

// RedisCache shares read results between API replicas. Redis failures
// degrade to cache misses.
type RedisCache struct {
	rdb       *redis.Client
	tableTTL  time.Duration
	titlesTTL time.Duration
	log       *logger.Logger
}

// NewRedisCache connects to addr and pings it once.
func NewRedisCache(ctx context.Context, addr string, tableTTL, titlesTTL time.Duration, log *logger.Logger) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return &RedisCache{rdb: rdb, tableTTL: tableTTL, titlesTTL: titlesTTL, log: log}, nil
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

func (c *RedisCache) get(ctx context.Context, key string, dst interface{}) bool {
	raw, err := c.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("redis cache get failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("redis cache entry unreadable", "key", key, "error", err)
		return false
	}
	return true
}

func (c *RedisCache) set(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, redisKeyPrefix+key, raw, ttl).Err(); err != nil {
		c.log.Warn("redis cache set failed", "key", key, "error", err)
	}
}

func (c *RedisCache) Table(ctx context.Context, key string) (*types.Table, bool) {
	var t types.Table
	if !c.get(ctx, "table:"+key, &t) {
		return nil, false
	}
	return &t, true
}

func (c *RedisCache) SetTable(ctx context.Context, key string, t *types.Table) {
	c.set(ctx, "table:"+key, t, c.tableTTL)
}

func (c *RedisCache) Titles(ctx context.Context, key string) ([]string, bool) {
	var titles []string
	if !c.get(ctx, "titles:"+key, &titles) {
		return nil, false
	}
	return titles, true
}

func (c *RedisCache) SetTitles(ctx context.Context, key string, titles []string) {
	c.set(ctx, "titles:"+key, titles, c.titlesTTL)
}
