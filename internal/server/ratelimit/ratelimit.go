// Package ratelimit provides per-user request limiting using token buckets.
// Every chat message can fan out into provider and model calls, so one noisy
// user must not be able to exhaust the shared upstream quotas.
package ratelimit

import (
	"sync"
	"time"
)

// bucket is a token bucket for one user. Tokens refill at a steady rate up to
// the burst capacity.
type bucket struct {
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newBucket(capacity int, refillRate float64) *bucket {
	return &bucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

func (b *bucket) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastRefill)
	b.tokens = min(float64(b.capacity), b.tokens+elapsed.Seconds()*b.refillRate)
	b.lastRefill = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true
	}
	return false
}

// Limiter hands out one bucket per key.
type Limiter struct {
	capacity   int
	refillRate float64

	mu      sync.Mutex
	buckets map[string]*bucket
	lastUse map[string]time.Time
}

// staleAfter is how long an idle bucket survives before cleanup.
const staleAfter = 10 * time.Minute

// NewLimiter creates a limiter allowing capacity burst requests per key with
// the given sustained rate in requests per second.
func NewLimiter(capacity int, refillRate float64) *Limiter {
	return &Limiter{
		capacity:   capacity,
		refillRate: refillRate,
		buckets:    make(map[string]*bucket),
		lastUse:    make(map[string]time.Time),
	}
}

// Allow reports whether the key may make another request now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(l.capacity, l.refillRate)
		l.buckets[key] = b
	}
	l.lastUse[key] = time.Now()
	if len(l.buckets) > 1024 {
		l.cleanupLocked()
	}
	l.mu.Unlock()

	return b.allow()
}

// cleanupLocked drops buckets idle past the stale window. Caller holds mu.
func (l *Limiter) cleanupLocked() {
	cutoff := time.Now().Add(-staleAfter)
	for key, last := range l.lastUse {
		if last.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.lastUse, key)
		}
	}
}
