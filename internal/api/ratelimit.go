package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/tokenbucket"
	"github.com/gin-gonic/gin"
)

// ──────────────────────────────────────────────────────────────────────
// Per-IP Token Bucket Rate Limiter
//
// Each IP gets its own bucket with a configurable capacity and refill rate.
// When the bucket is empty the request receives HTTP 429 with a Retry-After
// header indicating when to try again.
//
// Run sweeps buckets that have been idle for more than cleanupIdleDuration
// until its context is done.
// ──────────────────────────────────────────────────────────────────────

const cleanupIdleDuration = 10 * time.Minute

type ipBucket struct {
	mu       sync.Mutex
	tb       tokenbucket.TokenBucket
	lastSeen time.Time
}

// RateLimiter holds per-IP state.
type RateLimiter struct {
	rate    tokenbucket.TokensPerSecond
	burst   tokenbucket.Tokens
	limit   string
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*ipBucket
}

// NewRateLimiter creates a rate limiter allowing `ratePerMin` requests per
// minute per IP, with a burst capacity of `burst` requests. Non-positive
// arguments fall back to 30/min with a burst of 10.
func NewRateLimiter(ratePerMin, burst int) *RateLimiter {
	return newRateLimiter(ratePerMin, burst, time.Now)
}

func newRateLimiter(ratePerMin, burst int, now func() time.Time) *RateLimiter {
	if ratePerMin <= 0 {
		ratePerMin = 30
	}
	if burst <= 0 {
		burst = 10
	}
	return &RateLimiter{
		rate:    tokenbucket.TokensPerSecond(float64(ratePerMin) / 60.0),
		burst:   tokenbucket.Tokens(burst),
		limit:   fmt.Sprintf("%d requests/minute per IP", ratePerMin),
		now:     now,
		buckets: make(map[string]*ipBucket),
	}
}

func (rl *RateLimiter) allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	bucket, ok := rl.buckets[ip]
	if !ok {
		bucket = &ipBucket{}
		bucket.tb.InitWithNowFn(rl.rate, rl.burst, rl.now)
		rl.buckets[ip] = bucket
	}
	rl.mu.Unlock()

	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	bucket.lastSeen = rl.now()
	return bucket.tb.TryToFulfill(1)
}

// Middleware returns a Gin handler that enforces the rate limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		allowed, retryAfter := rl.allow(ip)
		if !allowed {
			c.Header("Retry-After", retryAfter.String())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":      "Rate limit exceeded",
				"retryAfter": retryAfter.String(),
				"limit":      rl.limit,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Run removes stale IP buckets every cleanupIdleDuration until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(cleanupIdleDuration)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep(rl.now().Add(-cleanupIdleDuration))
		}
	}
}

func (rl *RateLimiter) sweep(cutoff time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, b := range rl.buckets {
		b.mu.Lock()
		idle := b.lastSeen.Before(cutoff)
		b.mu.Unlock()
		if idle {
			delete(rl.buckets, ip)
		}
	}
}
