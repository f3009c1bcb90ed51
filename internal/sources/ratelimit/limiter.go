// Package ratelimit paces requests to a single source.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRequestsPerMinute is used when no positive rate is configured.
const DefaultRequestsPerMinute = 30

// Limiter spaces successive Wait returns at least 60/rpm seconds apart.
// One Limiter belongs to one adapter and is safe for concurrent callers.
type Limiter struct {
	bucket   *rate.Limiter
	interval time.Duration
}

// New creates a limiter allowing requestsPerMinute requests.
// Non-positive values fall back to DefaultRequestsPerMinute.
func New(requestsPerMinute int) *Limiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	interval := time.Minute / time.Duration(requestsPerMinute)
	return &Limiter{
		// Burst of one: the first call passes, later calls queue behind it.
		bucket:   rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Wait blocks until the next request may be made.
// The only error is cancellation of ctx.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.bucket.Wait(ctx)
}

// Interval returns the minimum spacing between requests.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}
