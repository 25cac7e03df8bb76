package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginLimiter(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client, err := Connect(context.Background(), Config{Addr: s.Addr()})
	require.NoError(t, err)
	defer client.Close()

	limiter := NewLoginLimiter(client, 2, time.Minute)
	ctx := context.Background()
	key := "alice@example.com"

	t.Run("BlockedAfterMaxAttempts", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			allowed, err := limiter.Allow(ctx, key)
			require.NoError(t, err)
			assert.True(t, allowed, "attempt %d", i+1)
		}
		allowed, err := limiter.Allow(ctx, key)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("WindowStartsAtFirstAttempt", func(t *testing.T) {
		ttl := s.TTL("login_fail:" + hashHex(key))
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)
	})

	t.Run("WindowExpires", func(t *testing.T) {
		s.FastForward(time.Minute + time.Second)
		allowed, err := limiter.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("ResetClears", func(t *testing.T) {
		_, _ = limiter.Allow(ctx, key)
		_, _ = limiter.Allow(ctx, key)
		require.NoError(t, limiter.Reset(ctx, key))
		allowed, err := limiter.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("KeysAreHashed", func(t *testing.T) {
		_, err := limiter.Allow(ctx, "bob@example.com")
		require.NoError(t, err)
		for _, k := range s.Keys() {
			assert.True(t, strings.HasPrefix(k, "login_fail:"))
			assert.NotContains(t, k, "example.com")
		}
	})
}

func TestLoginLimiter_ConcurrentBurst(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	limiter := NewLoginLimiter(client, 3, time.Minute)
	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := limiter.Allow(context.Background(), "carol@example.com")
			if err == nil && ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(3), allowed.Load())
}

func hashHex(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func TestLoginLimiter_Defaults(t *testing.T) {
	l := NewLoginLimiter(redis.NewClient(&redis.Options{}), 0, 0)
	assert.Equal(t, 5, l.maxAttempts)
	assert.Equal(t, 15*time.Minute, l.window)
}

func TestLoginLimiter_ServerDown(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: s.Addr(), MaxRetries: -1})
	defer client.Close()
	s.Close()

	_, err = NewLoginLimiter(client, 2, time.Minute).Allow(context.Background(), "x")
	assert.Error(t, err)
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	assert.Error(t, err)
}
