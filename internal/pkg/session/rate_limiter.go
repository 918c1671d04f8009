// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// CheckLoginAttempt counts a login attempt and reports whether it is
// still allowed. Up to 5 attempts per 15 minutes per (ip, principal).
func (r *RateLimiter) CheckLoginAttempt(ctx context.Context, ip, principal string) (bool, int64, error) {
	key := fmt.Sprintf("ratelimit:login:%s:%s", ip, principal)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment login attempt: %w", err)
	}

	// Set expiration on first attempt
	if count == 1 {
		r.client.Expire(ctx, key, 15*time.Minute)
	}

	maxAttempts := int64(5)
	remaining := maxAttempts - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= maxAttempts, remaining, nil
}

// ResetLoginAttempts clears the counter after a successful login.
func (r *RateLimiter) ResetLoginAttempts(ctx context.Context, ip, principal string) error {
	key := fmt.Sprintf("ratelimit:login:%s:%s", ip, principal)
	return r.client.Del(ctx, key).Err()
}
