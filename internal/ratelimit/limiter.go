// Package ratelimit paces outgoing calls so the client stays inside an
// exchange's request budget instead of being rejected by it.
package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket sized like a Kraken API counter: it holds up to
// requests tokens and refills them evenly over period.
type RateLimiter struct {
	limiter *rate.Limiter
	metrics *Metrics
}

// Metrics tracks statistics about rate limiter usage.
type Metrics struct {
	totalRequests   atomic.Int64
	allowedRequests atomic.Int64
	deniedRequests  atomic.Int64
	tokensSpent     atomic.Int64
}

// New creates a RateLimiter allowing a burst of requests, refilled over period.
func New(requests int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(refillRate(requests, period), requests),
		metrics: &Metrics{},
	}
}

func refillRate(requests int, period time.Duration) rate.Limit {
	return rate.Limit(float64(requests) / period.Seconds())
}

// Wait blocks until one token is available or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.WaitN(ctx, 1)
}

// WaitN blocks until n tokens are available or the context is cancelled.
// A weight of zero never blocks; endpoints outside the counter use it.
func (r *RateLimiter) WaitN(ctx context.Context, n int) error {
	r.metrics.totalRequests.Add(1)
	if n <= 0 {
		r.metrics.allowedRequests.Add(1)
		return nil
	}
	if err := r.limiter.WaitN(ctx, n); err != nil {
		r.metrics.deniedRequests.Add(1)
		return err
	}
	r.metrics.allowedRequests.Add(1)
	r.metrics.tokensSpent.Add(int64(n))
	return nil
}

// Allow returns true if a request is permitted immediately.
func (r *RateLimiter) Allow() bool {
	r.metrics.totalRequests.Add(1)
	if !r.limiter.Allow() {
		r.metrics.deniedRequests.Add(1)
		return false
	}
	r.metrics.allowedRequests.Add(1)
	r.metrics.tokensSpent.Add(1)
	return true
}

// SetLimit updates the refill rate and the burst size.
func (r *RateLimiter) SetLimit(requests int, period time.Duration) {
	r.limiter.SetLimit(refillRate(requests, period))
	r.limiter.SetBurst(requests)
}

// Metrics returns a snapshot of the current rate limiter statistics.
func (r *RateLimiter) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		TotalRequests:   r.metrics.totalRequests.Load(),
		AllowedRequests: r.metrics.allowedRequests.Load(),
		DeniedRequests:  r.metrics.deniedRequests.Load(),
		TokensSpent:     r.metrics.tokensSpent.Load(),
	}
}

// MetricsSnapshot is a point-in-time capture of rate limiter statistics.
type MetricsSnapshot struct {
	TotalRequests   int64
	AllowedRequests int64
	DeniedRequests  int64
	TokensSpent     int64
}
