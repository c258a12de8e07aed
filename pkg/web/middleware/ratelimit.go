package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/xdooria-economy/pkg/logger"
	"github.com/lk2023060901/xdooria-economy/pkg/web/errors"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按 key 维护令牌桶
type RateLimiter struct {
	limit       rate.Limit
	burst       int
	maxLimiters int

	mu       sync.Mutex
	limiters map[string]*limiterEntry
	now      func() time.Time
}

// NewRateLimiter 创建限流器
func NewRateLimiter(rps float64, burst, maxLimiters int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	if maxLimiters <= 0 {
		maxLimiters = 10000
	}
	return &RateLimiter{
		limit:       rate.Limit(rps),
		burst:       burst,
		maxLimiters: maxLimiters,
		limiters:    make(map[string]*limiterEntry),
		now:         time.Now,
	}
}

// Allow 消耗 key 对应桶的一个令牌
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	e, ok := rl.limiters[key]
	if !ok {
		if len(rl.limiters) >= rl.maxLimiters {
			rl.evictOldest()
		}
		e = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for k, e := range rl.limiters {
		if oldestKey == "" || e.lastSeen.Before(oldest) {
			oldestKey, oldest = k, e.lastSeen
		}
	}
	delete(rl.limiters, oldestKey)
}

// RateLimit 按客户端 IP 限流的中间件
func RateLimit(rl *RateLimiter, l logger.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		key := "ip:" + c.ClientIP()
		if !rl.Allow(key) {
			l.WarnContext(c.Request.Context(), "rate limit exceeded", "key", key, "path", c.Request.URL.Path)
			c.Header("Retry-After", strconv.Itoa(1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    errors.CodeRateLimited,
				"message": "too many requests",
				"data":    nil,
			})
			return
		}
		c.Next()
	}
}
