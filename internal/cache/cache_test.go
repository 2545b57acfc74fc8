package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinledger/backend/internal/config"
)

type accountProjection struct {
	DeviceID string `json:"device_id"`
	Coins    int64  `json:"coins"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	c := New(config.RedisConfig{Host: srv.Host(), Port: srv.Port()}, zerolog.Nop())
	t.Cleanup(func() { c.Close() })
	return c, srv
}

func TestSetThenGetReturnsLatestValue(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	key := UserKey("dev-1")

	c.Set(ctx, key, &accountProjection{DeviceID: "dev-1", Coins: 5}, time.Hour)
	c.Set(ctx, key, &accountProjection{DeviceID: "dev-1", Coins: 55}, time.Hour)

	var got accountProjection
	require.NoError(t, c.Get(ctx, key, &got))
	assert.Equal(t, int64(55), got.Coins)
}

func TestGetUnknownKeyIsMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var got accountProjection
	assert.ErrorIs(t, c.Get(context.Background(), UserKey("missing"), &got), ErrMiss)
}

func TestCorruptValueIsMiss(t *testing.T) {
	c, srv := newTestCache(t)
	key := UserKey("dev-1")
	require.NoError(t, srv.Set(key, "{not json"))

	var got accountProjection
	assert.ErrorIs(t, c.Get(context.Background(), key, &got), ErrMiss)
}

func TestDeleteInvalidatesKeys(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, UserKey("dev-1"), &accountProjection{DeviceID: "dev-1", Coins: 5}, time.Hour)
	c.Set(ctx, PricingKey(), &accountProjection{Coins: 49}, time.Hour)
	c.Delete(ctx, UserKey("dev-1"), PricingKey())

	var got accountProjection
	assert.ErrorIs(t, c.Get(ctx, UserKey("dev-1"), &got), ErrMiss)
	assert.ErrorIs(t, c.Get(ctx, PricingKey(), &got), ErrMiss)
}

func TestExpiredValueIsMiss(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()
	key := UserKey("dev-1")

	c.Set(ctx, key, &accountProjection{DeviceID: "dev-1", Coins: 5}, time.Minute)
	srv.FastForward(2 * time.Minute)

	var got accountProjection
	assert.ErrorIs(t, c.Get(ctx, key, &got), ErrMiss)
}

func TestServerDownDegradesToMiss(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()
	srv.Close()

	var got accountProjection
	assert.ErrorIs(t, c.Get(ctx, UserKey("dev-1"), &got), ErrMiss)
	// Writes against a dead server must not panic or surface errors.
	c.Set(ctx, UserKey("dev-1"), &accountProjection{Coins: 5}, time.Hour)
	c.Delete(ctx, UserKey("dev-1"))
}

func TestNilCacheIsInert(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	var got accountProjection
	assert.ErrorIs(t, c.Get(ctx, UserKey("dev-1"), &got), ErrMiss)
	c.Set(ctx, UserKey("dev-1"), &accountProjection{Coins: 5}, time.Hour)
	c.Delete(ctx, UserKey("dev-1"))
	assert.Error(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}
