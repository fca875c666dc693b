package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/memoscribe/errors"
)

const (
	rateWindow    = time.Minute
	sweepInterval = 5 * time.Minute
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// RequestsPerMinute is the maximum number of requests allowed per minute per key.
	RequestsPerMinute int
	// KeyFunc extracts the rate limit key from a request. Defaults to client IP.
	KeyFunc func(*gin.Context) string
	// Now overrides the clock.
	Now func() time.Time
}

// RateLimit returns a Gin middleware that applies per-key sliding-window
// rate limiting and answers 429 with a Retry-After header.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPBasedKey
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	rl := &rateLimiter{
		requests:  make(map[string][]time.Time),
		limit:     cfg.RequestsPerMinute,
		lastSweep: cfg.Now(),
	}

	return func(c *gin.Context) {
		wait, ok := rl.allow(cfg.KeyFunc(c), cfg.Now())
		if !ok {
			secs := int(wait / time.Second)
			if wait%time.Second != 0 {
				secs++
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			appErr := errors.RateLimited()
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}
		c.Next()
	}
}

// IPBasedKey extracts the client IP for use as a rate limit key.
func IPBasedKey(c *gin.Context) string {
	return c.ClientIP()
}

type rateLimiter struct {
	mu        sync.Mutex
	requests  map[string][]time.Time
	limit     int
	lastSweep time.Time
}

// allow records a request for key at now. When the key is over its limit it
// returns how long until the oldest request leaves the window.
func (rl *rateLimiter) allow(key string, now time.Time) (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-rateWindow)
	if now.Sub(rl.lastSweep) > sweepInterval {
		rl.sweep(cutoff)
		rl.lastSweep = now
	}

	valid := filterByTime(rl.requests[key], cutoff)
	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return valid[0].Sub(cutoff), false
	}
	rl.requests[key] = append(valid, now)
	return 0, true
}

func (rl *rateLimiter) sweep(cutoff time.Time) {
	for key, times := range rl.requests {
		valid := filterByTime(times, cutoff)
		if len(valid) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = valid
		}
	}
}

func filterByTime(times []time.Time, cutoff time.Time) []time.Time {
	var result []time.Time
	for _, t := range times {
		if t.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}
