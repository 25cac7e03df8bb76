package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// LoginLimiter counts login attempts per key in a fixed window.
// Key format: login_fail:<sha256(key)>
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter wraps client. Non-positive limits fall back to 5 attempts per 15 minutes.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// reserveAttempt increments the counter and starts the window on the first
// attempt in one server-side step.
var reserveAttempt = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// Allow counts one attempt for key and reports whether it is within the
// limit. Parallel callers each get a distinct count, so a burst cannot slip
// past maxAttempts.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := reserveAttempt.Run(ctx, l.client, []string{l.key(key)}, l.window.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("login limiter check: %w", err)
	}
	return n <= l.maxAttempts, nil
}

// Reset clears the attempts of key after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

// key hashes the email so that addresses never appear in Redis.
func (l *LoginLimiter) key(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "login_fail:" + hex.EncodeToString(sum[:])
}
