package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// sweepEvery bounds how often Allow scans for idle keys.
const sweepEvery = time.Minute

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(key string) bool
}

// InMemoryLimiter keeps one token bucket per key in memory
type InMemoryLimiter struct {
	keys map[string]*rate.Limiter
	mu   sync.Mutex
	r    rate.Limit // Rate of adding tokens
	b    int        // Bucket size

	now       func() time.Time
	lastSweep time.Time
}

// NewInMemoryLimiter creates a new rate limiter
// Example: NewInMemoryLimiter(10, time.Minute, 3) -> allows 10 posts a minute, burst of 3
// A non-positive requests count disables limiting.
func NewInMemoryLimiter(requests int, per time.Duration, burst int) Limiter {
	r := rate.Inf
	if requests > 0 && per > 0 {
		r = rate.Every(per / time.Duration(requests))
	}
	if burst < 1 {
		burst = 1
	}
	return &InMemoryLimiter{
		keys: make(map[string]*rate.Limiter),
		r:    r,
		b:    burst,
		now:  time.Now,
	}
}

// Allow checks if key is allowed to perform an action
func (l *InMemoryLimiter) Allow(key string) bool {
	if l.r == rate.Inf {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= sweepEvery {
		l.evictFull(now)
		l.lastSweep = now
	}

	limiter, exists := l.keys[key]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.keys[key] = limiter
	}

	return limiter.AllowN(now, 1)
}

// evictFull drops buckets that have refilled completely. A full bucket is
// indistinguishable from a fresh one, so the caller loses no history.
func (l *InMemoryLimiter) evictFull(now time.Time) {
	for key, limiter := range l.keys {
		if limiter.TokensAt(now) >= float64(l.b) {
			delete(l.keys, key)
		}
	}
}
