package jwt

import (
	"sync"
	"time"
)

// RateLimiter bounds token creation per key using a token bucket per key.
// It is safe for concurrent use.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	maxRate    int
	window     time.Duration
	maxBuckets int
	closed     bool
}

type bucket struct {
	tokens     int
	lastRefill int64
}

// NewRateLimiter creates a rate limiter allowing maxRate requests per key
// per window. Non-positive arguments fall back to 100 requests per minute.
func NewRateLimiter(maxRate int, window time.Duration) *RateLimiter {
	if maxRate <= 0 {
		maxRate = 100
	}
	if window <= 0 {
		window = time.Minute
	}

	return &RateLimiter{
		buckets:    make(map[string]*bucket),
		maxRate:    maxRate,
		window:     window,
		maxBuckets: 10000,
	}
}

// Allow reports whether one request is allowed for key. An empty key is
// never allowed.
func (rl *RateLimiter) Allow(key string) bool {
	if key == "" {
		return false
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.closed {
		return false
	}

	now := time.Now().UnixNano()
	b, exists := rl.buckets[key]
	if !exists {
		if len(rl.buckets) >= rl.maxBuckets {
			rl.evictOldestLocked()
		}
		rl.buckets[key] = &bucket{tokens: rl.maxRate - 1, lastRefill: now}
		return true
	}

	elapsed := now - b.lastRefill
	if elapsed >= int64(rl.window) {
		b.tokens = rl.maxRate
		b.lastRefill = now
	} else if elapsed > 0 {
		refill := int(float64(rl.maxRate) * float64(elapsed) / float64(rl.window))
		if refill > 0 {
			b.tokens = min(b.tokens+refill, rl.maxRate)
			b.lastRefill = now
		}
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// Reset clears the bucket for key, removing any accumulated limit.
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, key)
}

// Close releases all buckets. Subsequent Allow calls return false. Safe to
// call more than once.
func (rl *RateLimiter) Close() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.closed {
		return
	}
	rl.closed = true
	rl.buckets = nil
}

func (rl *RateLimiter) evictOldestLocked() {
	oldestKey := ""
	oldestTime := int64(1<<63 - 1)

	for key, b := range rl.buckets {
		if b.lastRefill < oldestTime {
			oldestKey = key
			oldestTime = b.lastRefill
		}
	}
	if oldestKey != "" {
		delete(rl.buckets, oldestKey)
	}
}
