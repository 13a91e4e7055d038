package ratelimit

import (
	"context"
	"sync"
	"time"
)

// staleAfter is how long an expired window is kept before cleanup drops it.
const staleAfter = 5 * time.Minute

// Limiter tracks request counts in fixed windows per key.
type Limiter struct {
	mu     sync.Mutex
	limits map[string]*window
	now    func() time.Time
}

type window struct {
	count     int
	windowEnd time.Time
}

// NewLimiter creates a limiter with in-memory tracking.
func NewLimiter() *Limiter {
	return &Limiter{
		limits: make(map[string]*window),
		now:    time.Now,
	}
}

// Allow returns true if the request is within the configured limit. A
// non-positive limit or window means the key is not limited.
func (l *Limiter) Allow(key string, limit int, windowSeconds int) bool {
	if limit <= 0 || windowSeconds <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	win := l.limits[key]
	if win == nil || !now.Before(win.windowEnd) {
		l.limits[key] = &window{
			count:     1,
			windowEnd: now.Add(time.Duration(windowSeconds) * time.Second),
		}
		return true
	}

	if win.count < limit {
		win.count++
		return true
	}
	return false
}

// Len is the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limits)
}

func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for key, win := range l.limits {
		if now.After(win.windowEnd.Add(staleAfter)) {
			delete(l.limits, key)
		}
	}
}

// StartCleanup periodically evicts stale windows until ctx is done.
func (l *Limiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.cleanup()
			}
		}
	}()
}
