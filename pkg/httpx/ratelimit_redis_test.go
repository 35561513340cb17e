package httpx_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/onbd/pkg/httpx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	mr, rdb := newMiniredis(t)
	ctx := context.Background()

	l := httpx.NewRedisLimiter(rdb, "test", httpx.RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            time.Minute,
	})

	for range 2 {
		d, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		require.True(t, d.Allowed)
	}

	d, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, d.Allowed)
	require.Equal(t, time.Minute, d.RetryAfter)

	// Other keys are unaffected.
	d, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	require.True(t, d.Allowed)

	// The window closes after its TTL.
	mr.FastForward(time.Minute + time.Second)
	d, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, d.Allowed)
}

func TestRedisLimiter_SharedAcrossInstances(t *testing.T) {
	_, rdb := newMiniredis(t)
	cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute}

	factory := httpx.RedisLimiterFactory(rdb)
	a := httpx.RateLimitWith(factory("register", cfg), cfg, httpx.IPKeyExtractor)(okHandler)
	b := httpx.RateLimitWith(factory("register", cfg), cfg, httpx.IPKeyExtractor)(okHandler)
	other := httpx.RateLimitWith(factory("login", cfg), cfg, httpx.IPKeyExtractor)(okHandler)

	require.Equal(t, http.StatusOK, doFrom(t, a, "10.0.0.1:1").Code)
	require.Equal(t, http.StatusTooManyRequests, doFrom(t, b, "10.0.0.1:1").Code)
	require.Equal(t, http.StatusOK, doFrom(t, other, "10.0.0.1:1").Code)
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	mr, rdb := newMiniredis(t)
	cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute}
	l := httpx.NewRedisLimiter(rdb, "test", cfg)

	mr.Close()

	_, err := l.Allow(context.Background(), "10.0.0.1")
	require.ErrorIs(t, err, httpx.ErrLimiterUnavailable)

	h := httpx.RateLimitWith(l, cfg, httpx.IPKeyExtractor)(okHandler)
	for range 3 {
		require.Equal(t, http.StatusOK, doFrom(t, h, "10.0.0.1:1").Code)
	}
}
