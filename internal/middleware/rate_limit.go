package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RateLimiter is a fixed-window request counter keyed by client IP. State is
// in-process only: it is not shared across server instances and is meant for
// small deployments. A production setup would move the counter to an
// external atomic store.
type RateLimiter struct {
	limit    int
	window   time.Duration
	mu       sync.Mutex
	counters map[string]*windowCounter
	stopChan chan bool
}

type windowCounter struct {
	count       int
	windowStart time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window per IP
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:    limit,
		window:   window,
		counters: make(map[string]*windowCounter),
		stopChan: make(chan bool),
	}
	go rl.sweep()
	return rl
}

// Middleware rejects requests over the per-IP limit with 429
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, try again later"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Allow counts one request for the client and reports whether it may proceed
func (rl *RateLimiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	counter, exists := rl.counters[clientIP]
	if !exists || now.Sub(counter.windowStart) >= rl.window {
		rl.counters[clientIP] = &windowCounter{count: 1, windowStart: now}
		return true
	}

	counter.count++
	return counter.count <= rl.limit
}

// sweep periodically evicts expired windows so the map stays bounded
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			evicted := 0
			for ip, counter := range rl.counters {
				if now.Sub(counter.windowStart) >= rl.window {
					delete(rl.counters, ip)
					evicted++
				}
			}
			rl.mu.Unlock()
			if evicted > 0 {
				logrus.Debugf("Rate limiter evicted %d expired window(s)", evicted)
			}
		case <-rl.stopChan:
			return
		}
	}
}

// Stop stops the background eviction sweep
func (rl *RateLimiter) Stop() {
	rl.stopChan <- true
}
