package memory

import (
	"context"
	"sync"
	"time"

	"github.com/smartplatform/gateway/internal/port/outbound"
	"golang.org/x/time/rate"
)

// sweepEvery bounds how many calls pass between scans for idle keys.
const sweepEvery = 1024

// rateLimiter is a per-process token bucket limiter. A bucket holds limit
// tokens and refills at limit per window, which approximates the Redis
// sliding window closely enough for a single instance.
type rateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	calls   int
	now     func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	limit    int
	window   time.Duration
	lastSeen time.Time
}

// NewRateLimiter creates an in-process rate limiter used when Redis is not
// configured.
func NewRateLimiter() outbound.RateLimiterPort {
	return &rateLimiter{buckets: make(map[string]*bucket), now: time.Now}
}

func (r *rateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return r.AllowN(ctx, key, 1, limit, window)
}

func (r *rateLimiter) AllowN(ctx context.Context, key string, n int, limit int, window time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	now := r.now()
	b := r.bucket(key, limit, window, now)
	return b.limiter.AllowN(now, n), nil
}

func (r *rateLimiter) GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	now := r.now()
	b := r.bucket(key, limit, window, now)
	return max(int(b.limiter.TokensAt(now)), 0), nil
}

func (r *rateLimiter) bucket(key string, limit int, window time.Duration, now time.Time) *bucket {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++
	if r.calls%sweepEvery == 0 {
		r.sweep(now)
	}

	b, ok := r.buckets[key]
	if !ok || b.limit != limit || b.window != window {
		every := window / time.Duration(max(limit, 1))
		b = &bucket{
			limiter: rate.NewLimiter(rate.Every(every), limit),
			limit:   limit,
			window:  window,
		}
		r.buckets[key] = b
	}
	b.lastSeen = now
	return b
}

// sweep drops buckets idle for longer than their window; they would be
// full again anyway.
func (r *rateLimiter) sweep(now time.Time) {
	for key, b := range r.buckets {
		if now.Sub(b.lastSeen) > b.window {
			delete(r.buckets, key)
		}
	}
}

// Compile-time check
var _ outbound.RateLimiterPort = (*rateLimiter)(nil)
