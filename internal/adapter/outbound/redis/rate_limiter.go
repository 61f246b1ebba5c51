package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/smartplatform/gateway/internal/port/outbound"
)

const rateLimitKeyPrefix = "ratelimit:"

// Sliding window log. Trimming, counting and admitting run in one script so
// concurrent gateway instances cannot overshoot the limit.
var allowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local n = tonumber(ARGV[4])
local member = ARGV[5]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count + n > limit then
  return 0
end
for i = 1, n do
  redis.call('ZADD', key, now, member .. ':' .. i)
end
redis.call('PEXPIRE', key, window)
return 1
`)

var remainingScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', tonumber(ARGV[1]) - tonumber(ARGV[2]))
return redis.call('ZCARD', KEYS[1])
`)

// rateLimiter implements outbound.RateLimiterPort.
type rateLimiter struct {
	client redis.Scripter
	now    func() time.Time
}

// NewRateLimiter creates a Redis-backed rate limiter shared by every
// gateway instance pointing at the same Redis.
func NewRateLimiter(client *redis.Client) outbound.RateLimiterPort {
	return &rateLimiter{client: client, now: time.Now}
}

func (r *rateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return r.AllowN(ctx, key, 1, limit, window)
}

func (r *rateLimiter) AllowN(ctx context.Context, key string, n int, limit int, window time.Duration) (bool, error) {
	if n <= 0 {
		return true, nil
	}
	res, err := allowScript.Run(ctx, r.client, []string{rateLimitKeyPrefix + key},
		r.now().UnixMilli(), window.Milliseconds(), limit, n, uuid.NewString()).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (r *rateLimiter) GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	count, err := remainingScript.Run(ctx, r.client, []string{rateLimitKeyPrefix + key},
		r.now().UnixMilli(), window.Milliseconds()).Int()
	if err != nil {
		return 0, err
	}
	return max(limit-count, 0), nil
}

// Compile-time check
var _ outbound.RateLimiterPort = (*rateLimiter)(nil)
