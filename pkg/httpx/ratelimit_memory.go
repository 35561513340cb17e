package httpx

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const memoryLimiterSweep = 5 * time.Minute

// MemoryLimiter keeps one token bucket per key in process memory.
type MemoryLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

// NewMemoryLimiter returns a token bucket limiter refilling
// RequestsPerWindow tokens every Window.
func NewMemoryLimiter(config RateLimitConfig) *MemoryLimiter {
	burst := config.Burst
	if burst <= 0 {
		burst = config.RequestsPerWindow
	}
	return &MemoryLimiter{
		rate:        rate.Limit(float64(config.RequestsPerWindow) / config.Window.Seconds()),
		burst:       burst,
		lastCleanup: time.Now(),
	}
}

// MemoryLimiterFactory is a LimiterFactory producing independent in-memory limiters.
func MemoryLimiterFactory(_ string, config RateLimitConfig) Limiter {
	return NewMemoryLimiter(config)
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	limiter := l.get(key)
	if limiter.Allow() {
		return Decision{Allowed: true}, nil
	}

	reservation := limiter.Reserve()
	delay := reservation.Delay()
	reservation.Cancel()

	return Decision{Allowed: false, RetryAfter: delay}, nil
}

func (l *MemoryLimiter) get(key string) *rate.Limiter {
	if limiter, ok := l.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	actual, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rate, l.burst))
	l.maybeCleanup()

	return actual.(*rate.Limiter)
}

// maybeCleanup drops buckets that have refilled completely, i.e. idle keys.
func (l *MemoryLimiter) maybeCleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.lastCleanup) < memoryLimiterSweep {
		return
	}
	l.lastCleanup = time.Now()

	l.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(l.burst) {
			l.limiters.Delete(key)
		}
		return true
	})
}
