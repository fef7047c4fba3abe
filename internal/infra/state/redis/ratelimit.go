package redisstate

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimiter is a fixed-window counter keyed by caller identity.
type RateLimiter struct {
	client    *redis.Client
	keyPrefix string
}

func NewRateLimiter(client *redis.Client, keyPrefix string) *RateLimiter {
	if client == nil {
		panic("redis client cannot be nil for RateLimiter")
	}
	if keyPrefix == "" {
		keyPrefix = "cc:"
	}
	return &RateLimiter{client: client, keyPrefix: keyPrefix}
}

// Allow increments the caller's window counter and reports whether the
// request is within the limit. INCR and EXPIRE run in one pipeline so a
// fresh key always gets its window.
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := l.keyPrefix + "ratelimit:" + key

	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis: rate limit pipeline for %s: %w", fullKey, err)
	}
	return incr.Val() <= int64(limit), nil
}
