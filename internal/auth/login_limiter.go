package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLoginRateLimited signals too many failed attempts for an account.
var ErrLoginRateLimited = errors.New("too many failed login attempts")

// LoginLimiter throttles repeated failed logins per account using a Redis
// counter. Throttling is advisory: when Redis is unreachable the limiter
// fails open, since availability of authentication must not depend on it.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter constructs the limiter. A nil client disables throttling.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Check reports whether the account is currently throttled.
func (l *LoginLimiter) Check(ctx context.Context, email string) error {
	if l == nil || l.client == nil {
		return nil
	}
	count, err := l.client.Get(ctx, loginAttemptKey(email)).Int64()
	if err != nil {
		return nil
	}
	if count >= int64(l.maxAttempts) {
		return ErrLoginRateLimited
	}
	return nil
}

// RecordFailure counts one failed attempt, starting the window on the first.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) {
	if l == nil || l.client == nil {
		return
	}
	key := loginAttemptKey(email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return
	}
	if count == 1 {
		_ = l.client.Expire(ctx, key, l.window).Err()
	}
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) {
	if l == nil || l.client == nil {
		return
	}
	_ = l.client.Del(ctx, loginAttemptKey(email)).Err()
}

func loginAttemptKey(email string) string {
	return "login_attempts:" + strings.ToLower(strings.TrimSpace(email))
}
