package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*RedisRateLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisRateLimiter(client, "test"), mr
}

func TestRedisRateLimiterAllowsUpToLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	rate := Rate{Requests: 3, Window: time.Minute}

	for want := 2; want >= 0; want-- {
		allowed, info := limiter.Allow("ip:1.2.3.4", rate)
		require.True(t, allowed)
		assert.Equal(t, want, info.Remaining)
		assert.Equal(t, 3, info.Limit)
	}

	allowed, info := limiter.Allow("ip:1.2.3.4", rate)
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)

	// Other keys have their own window.
	allowed, _ = limiter.Allow("ip:5.6.7.8", rate)
	assert.True(t, allowed)
}

func TestRedisRateLimiterSlidesWindow(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	start := time.Now()
	limiter.now = func() time.Time { return start }
	rate := Rate{Requests: 1, Window: time.Minute}

	allowed, _ := limiter.Allow("user:a", rate)
	require.True(t, allowed)
	allowed, _ = limiter.Allow("user:a", rate)
	require.False(t, allowed)

	limiter.now = func() time.Time { return start.Add(2 * time.Minute) }
	allowed, _ = limiter.Allow("user:a", rate)
	assert.True(t, allowed)
}

func TestRedisRateLimiterReset(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	rate := Rate{Requests: 1, Window: time.Minute}

	limiter.Allow("user:b", rate)
	require.True(t, mr.Exists("test:ratelimit:user:b"))

	require.NoError(t, limiter.Reset("user:b"))
	allowed, _ := limiter.Allow("user:b", rate)
	assert.True(t, allowed)
}

func TestRedisRateLimiterFailsOpen(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	mr.Close()

	allowed, info := limiter.Allow("ip:9.9.9.9", Rate{Requests: 1, Window: time.Minute})

	assert.True(t, allowed)
	assert.Equal(t, 1, info.Limit)
}
