package ratelimit

import (
	"sync"
	"time"
)

const (
	staleAfter    = 10 * time.Minute
	pruneInterval = 1024 // Allow calls between prune sweeps
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

type Limiter struct {
	mu    sync.Mutex
	m     map[string]*bucket
	calls int
}

func New() *Limiter { return &Limiter{m: make(map[string]*bucket)} }

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls++
	if l.calls%pruneInterval == 0 {
		l.prune(now)
	}

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// prune drops buckets idle long enough to be fully refilled anyway.
func (l *Limiter) prune(now time.Time) {
	for k, b := range l.m {
		if now.Sub(b.last) > staleAfter {
			delete(l.m, k)
		}
	}
}
