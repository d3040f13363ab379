// Package ratelimiter bounds how often an outbound call may be made.
package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Waiter blocks until another call is allowed.
type Waiter interface {
	Wait(ctx context.Context) error
}

// RateLimiter allows at most limit calls per interval window.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int
	interval  time.Duration
	count     int
	lastReset time.Time
	now       func() time.Time
}

var _ Waiter = (*RateLimiter)(nil)

// NewRateLimiter creates a RateLimiter. A limit below 1 is treated as 1.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// Wait reserves a slot in the current window, sleeping until the next window
// when the current one is full. It returns ctx.Err() if ctx ends first.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		sleep := rl.reserve()
		if sleep <= 0 {
			return nil
		}
		slog.Debug("rate limit reached, waiting", "limit", rl.limit, "sleep", sleep)
		t := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// reserve takes a slot and returns 0, or returns how long to wait for the next window.
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}
	if rl.count < rl.limit {
		rl.count++
		return 0
	}
	return rl.interval - now.Sub(rl.lastReset)
}
