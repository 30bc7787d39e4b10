package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Stop()

	t.Run("requests under the limit pass", func(t *testing.T) {
		assert.True(t, rl.Allow("10.0.0.1"))
		assert.True(t, rl.Allow("10.0.0.1"))
		assert.True(t, rl.Allow("10.0.0.1"))
	})

	t.Run("request over the limit is rejected", func(t *testing.T) {
		assert.False(t, rl.Allow("10.0.0.1"))
	})

	t.Run("limits are tracked per client", func(t *testing.T) {
		assert.True(t, rl.Allow("10.0.0.2"))
	})
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	time.Sleep(30 * time.Millisecond)

	assert.True(t, rl.Allow("10.0.0.1"))
}
