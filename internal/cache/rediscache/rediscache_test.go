package rediscache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_GetSetIfNewer(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr())
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	_, ok, err := c.Get(ctx, "claim:1:current")
	require.NoError(t, err)
	require.False(t, ok)

	stored, err := c.SetIfNewer(ctx, "claim:1:current", []byte(`{"claimId":1,"version":1}`), 1, time.Minute)
	require.NoError(t, err)
	require.True(t, stored)
	b, ok, err := c.Get(ctx, "claim:1:current")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"claimId":1,"version":1}`, string(b))
	require.Equal(t, time.Minute, mr.TTL("claim:1:current"))
	require.Equal(t, time.Minute, mr.TTL("claim:1:current:v"))

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "claim:1:current")
	require.NoError(t, err)
	require.False(t, ok, "expired")
	require.False(t, mr.Exists("claim:1:current:v"))
}

func TestRedisCache_SetIfNewer_KeepsNewestVersion(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr())
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	stored, err := c.SetIfNewer(ctx, "claim:2:current", []byte("v3"), 3, time.Minute)
	require.NoError(t, err)
	require.True(t, stored)

	stored, err = c.SetIfNewer(ctx, "claim:2:current", []byte("v2"), 2, time.Minute)
	require.NoError(t, err)
	require.False(t, stored, "older snapshot arrives late")
	b, _, _ := c.Get(ctx, "claim:2:current")
	require.Equal(t, "v3", string(b))

	stored, err = c.SetIfNewer(ctx, "claim:2:current", []byte("v3 again"), 3, time.Minute)
	require.NoError(t, err)
	require.True(t, stored)

	stored, err = c.SetIfNewer(ctx, "claim:2:current", []byte("v4"), 4, time.Minute)
	require.NoError(t, err)
	require.True(t, stored)
	b, _, _ = c.Get(ctx, "claim:2:current")
	require.Equal(t, "v4", string(b))

	// a value written without a version is replaced
	require.NoError(t, mr.Set("claim:3:current", "garbage"))
	stored, err = c.SetIfNewer(ctx, "claim:3:current", []byte("v1"), 1, time.Minute)
	require.NoError(t, err)
	require.True(t, stored)

	_, err = c.SetIfNewer(ctx, "claim:4:current", []byte("v1"), 1, 0)
	require.Error(t, err)
}

func TestRedisCache_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr())
	mr.Close()

	_, _, err := c.Get(context.Background(), "k")
	require.Error(t, err)
	require.Contains(t, err.Error(), "redis get")
}

func TestRateLimiter_Allow(t *testing.T) {
	mr := miniredis.RunT(t)
	rl := NewRateLimiter(mr.Addr())
	t.Cleanup(func() { _ = rl.Close() })

	ctx := context.Background()
	key := CarrierWindowKey("CJ", time.Unix(100, 0), time.Second)

	ok, n, err := rl.Allow(ctx, key, 2, time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), n)

	ok, n, _ = rl.Allow(ctx, key, 2, time.Second)
	require.True(t, ok)
	require.Equal(t, int64(2), n)

	ok, n, _ = rl.Allow(ctx, key, 2, time.Second)
	require.False(t, ok)
	require.Equal(t, int64(3), n)

	mr.FastForward(2 * time.Second)
	ok, n, _ = rl.Allow(ctx, key, 2, time.Second)
	require.True(t, ok)
	require.Equal(t, int64(1), n)
}

func TestCarrierWindowKey(t *testing.T) {
	now := time.Unix(10, 500_000_000)
	require.Equal(t, "rl:carrier:CJ:10", CarrierWindowKey("CJ", now, time.Second))
	require.Equal(t, CarrierWindowKey("CJ", now, 0), CarrierWindowKey("CJ", now, time.Second))
	require.NotEqual(t, CarrierWindowKey("CJ", now, time.Second), CarrierWindowKey("HANJIN", now, time.Second))
}
