package httpx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter shared by every replica pointing at
// the same Redis. Burst is ignored.
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
	limit  int64
	window time.Duration
}

// NewRedisLimiter counts requests under "<prefix>:<key>".
func NewRedisLimiter(client redis.UniversalClient, prefix string, config RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  int64(config.RequestsPerWindow),
		window: config.Window,
	}
}

// RedisLimiterFactory returns a LimiterFactory whose limiters share client and
// namespace their keys by route group name.
func RedisLimiterFactory(client redis.UniversalClient) LimiterFactory {
	return func(name string, config RateLimitConfig) Limiter {
		return NewRedisLimiter(client, "onbd:ratelimit:"+name, config)
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := l.prefix + ":" + key

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}

	// Fixed-window semantics: the first hit opens the window.
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
		}
	}

	if count <= l.limit {
		return Decision{Allowed: true}, nil
	}

	ttl, err := l.client.TTL(ctx, k).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	if ttl < 0 {
		// Counter lost its expiry; reopen the window.
		_ = l.client.Expire(ctx, k, l.window).Err()
		ttl = l.window
	}
	return Decision{Allowed: false, RetryAfter: ttl}, nil
}
