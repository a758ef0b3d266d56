package ratelimit

import (
	"context"
	"time"
)

// Store defines the interface for rate limit counting.
type Store interface {
	// Record counts a request against key and returns the total observed in
	// the current window.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}

// FixedWindowLimiter implements fixed-window rate limiting: all requests in
// the same window share one counter, which resets when the window rolls over.
type FixedWindowLimiter struct {
	store  Store
	max    int64
	window time.Duration
}

// NewFixedWindowLimiter creates a fixed window rate limiter.
func NewFixedWindowLimiter(store Store, max int64, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		store:  store,
		max:    max,
		window: window,
	}
}

// Allow checks whether a request from the given key should be allowed.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Record(ctx, key, l.window)
	if err != nil {
		return false, err
	}

	return count <= l.max, nil
}
