package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterPerKey(t *testing.T) {
	rl := NewRateLimiter(1, 1, 10)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"))
}

func TestRateLimiterEvictsOldest(t *testing.T) {
	rl := NewRateLimiter(1, 1, 2)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(time.Millisecond)
	rl.Allow("b")
	now = now.Add(time.Millisecond)
	rl.Allow("c")

	assert.Len(t, rl.limiters, 2)
	assert.NotContains(t, rl.limiters, "a")
	// a 被淘汰后重新获得完整令牌桶
	assert.True(t, rl.Allow("a"))
}
