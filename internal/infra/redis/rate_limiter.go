package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter is a fixed-window counter. The window starts on the first hit;
// counting and expiry happen in one script so a key can never outlive it.
type RateLimiter struct {
	client RedisClient
}

func NewRateLimiter(client RedisClient) *RateLimiter {
	return &RateLimiter{client: client}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.IncrWithTTL(ctx, key, window)
	if err != nil {
		return false, err
	}
	return count <= int64(limit), nil
}

func LoginAttemptKey(clientIP string) string {
	return fmt.Sprintf("rate_limit:admin_login:%s", clientIP)
}
