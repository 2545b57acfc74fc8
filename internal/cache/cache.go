package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/coinledger/backend/internal/config"
)

// ErrMiss is returned when a key is absent. Transport failures are logged
// and collapsed into ErrMiss as well: the system must stay correct, if
// slower, with the cache entirely unavailable.
var ErrMiss = errors.New("cache miss")

// Cache is the look-aside layer in front of the store. Values are stored as
// JSON under string keys with a fixed TTL; it is never authoritative.
type Cache struct {
	rdb *redis.Client
	log zerolog.Logger
}

func New(cfg config.RedisConfig, log zerolog.Logger) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Cache{rdb: rdb, log: log.With().Str("component", "cache").Logger()}
}

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return errors.New("cache not configured")
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// Get unmarshals the value stored under key into dest.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if c == nil || c.rdb == nil {
		return ErrMiss
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("cache get failed, treating as miss")
		}
		return ErrMiss
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache value corrupt, treating as miss")
		return ErrMiss
	}
	return nil
}

// Set stores value under key with the given TTL. Failures are logged and
// swallowed; the next read self-heals from the store.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// Delete invalidates keys. Callers invoke it only after the store
// transaction commits, so a crash in between costs a cache miss, never a
// stale entry for a rolled-back write.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Strs("keys", keys).Msg("cache delete failed")
	}
}
