package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter implements sliding window rate limiting using Redis.
type Limiter struct {
	client    *redis.Client
	keyPrefix string
}

// NewLimiter creates a new rate limiter with Redis backend.
func NewLimiter(client *redis.Client, keyPrefix string) *Limiter {
	return &Limiter{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Decision contains the result of a rate limit check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	Limit     int
}

// slidingWindowScript trims expired entries, counts the window, and admits
// the request in one atomic round trip. Unique members come from an INCR
// counter so two hits in the same millisecond never collide.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current = redis.call('ZCARD', key)

	if current < limit then
		local counter = redis.call('INCR', key .. ':counter')
		redis.call('ZADD', key, now, now .. ':' .. counter)
		local expire_seconds = math.ceil(window_ms / 1000)
		redis.call('EXPIRE', key, expire_seconds)
		redis.call('EXPIRE', key .. ':counter', expire_seconds)
		return {1, limit - current - 1, 0}
	else
		local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
		local reset_at = 0
		if oldest and #oldest >= 2 then
			reset_at = tonumber(oldest[2]) + window_ms
		end
		return {0, 0, reset_at}
	end
`)

// Allow checks if a request is allowed under the rate limit.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Decision, error) {
	now := time.Now()
	windowStart := now.Add(-window)

	redisKey := l.keyPrefix + key

	// Millisecond timestamps throughout, matching the script's units.
	result, err := slidingWindowScript.Run(
		ctx, l.client, []string{redisKey},
		now.UnixMilli(), windowStart.UnixMilli(), limit, window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis script error: %w", err)
	}

	if len(result) != 3 {
		return nil, fmt.Errorf("unexpected Redis response length: %d", len(result))
	}

	allowed := result[0] == 1
	remaining := int(result[1])
	resetAtMs := result[2]

	var resetAt time.Time
	if resetAtMs > 0 {
		resetAt = time.UnixMilli(resetAtMs)
	} else {
		resetAt = now.Add(window)
	}

	return &Decision{
		Allowed:   allowed,
		Remaining: remaining,
		ResetAt:   resetAt,
		Limit:     limit,
	}, nil
}

// Reset clears the rate limit for a specific key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	redisKey := l.keyPrefix + key
	return l.client.Del(ctx, redisKey).Err()
}

// CountInWindow returns the number of recorded hits for a key within the
// window.
func (l *Limiter) CountInWindow(ctx context.Context, key string, window time.Duration) (int, error) {
	redisKey := l.keyPrefix + key
	windowStart := time.Now().Add(-window)

	_, err := l.client.ZRemRangeByScore(ctx, redisKey, "-inf", fmt.Sprintf("%d", windowStart.UnixMilli())).Result()
	if err != nil {
		return 0, err
	}

	count, err := l.client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return 0, err
	}

	return int(count), nil
}
