// Package ratelimit throttles remote document fetches.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces operations to a requests-per-second budget. A zero or
// negative budget disables throttling.
type Limiter struct {
	limiter *rate.Limiter
}

// New builds a limiter with a burst of one, so the first fetch runs
// immediately and later ones wait their turn.
func New(requestsPerSecond float64) *Limiter {
	if requestsPerSecond <= 0 {
		return &Limiter{
			limiter: rate.NewLimiter(rate.Inf, 1),
		}
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// Wait blocks until the next operation may run or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether an operation may run now, without blocking.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Limit returns the configured budget, 0 meaning unlimited.
func (l *Limiter) Limit() float64 {
	limit := l.limiter.Limit()
	if limit == rate.Inf {
		return 0
	}
	return float64(limit)
}
