package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Class groups endpoints that share a request budget.
type Class string

const (
	ClassPublic  Class = "public"
	ClassPrivate Class = "private"
)

// Limiter throttles outgoing REST calls per endpoint class. It only delays
// calls; it never drops or retries them.
type Limiter struct {
	mu      sync.Mutex
	classes map[Class]*rate.Limiter
	limit   rate.Limit
	burst   int
	metrics Metrics
}

// Metrics tracks statistics about limiter usage.
type Metrics struct {
	waits     atomic.Int64
	throttled atomic.Int64
	cancelled atomic.Int64
}

// New creates a Limiter allowing requests per period for every class.
func New(requests int, period time.Duration) *Limiter {
	return &Limiter{
		classes: make(map[Class]*rate.Limiter),
		limit:   perSecond(requests, period),
		burst:   requests,
	}
}

func perSecond(requests int, period time.Duration) rate.Limit {
	return rate.Limit(float64(requests) / period.Seconds())
}

func (l *Limiter) class(c Class) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.classes[c]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.classes[c] = lim
	}
	return lim
}

// Wait blocks until the class budget admits one call or ctx is done.
func (l *Limiter) Wait(ctx context.Context, c Class) error {
	l.metrics.waits.Add(1)
	lim := l.class(c)

	r := lim.Reserve()
	if !r.OK() {
		l.metrics.cancelled.Add(1)
		return context.DeadlineExceeded
	}
	delay := r.Delay()
	if delay == 0 {
		return nil
	}

	l.metrics.throttled.Add(1)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		l.metrics.cancelled.Add(1)
		return ctx.Err()
	}
}

// SetClassLimit overrides the budget of a single class.
func (l *Limiter) SetClassLimit(c Class, requests int, period time.Duration) {
	lim := l.class(c)
	lim.SetLimit(perSecond(requests, period))
	lim.SetBurst(requests)
}

// Metrics returns a snapshot of the current limiter statistics.
func (l *Limiter) Metrics() MetricsSnapshot {
	l.mu.Lock()
	classes := len(l.classes)
	l.mu.Unlock()

	return MetricsSnapshot{
		Waits:     l.metrics.waits.Load(),
		Throttled: l.metrics.throttled.Load(),
		Cancelled: l.metrics.cancelled.Load(),
		Classes:   classes,
	}
}

// MetricsSnapshot is a point-in-time capture of limiter statistics.
type MetricsSnapshot struct {
	// Waits is the number of Wait calls.
	Waits int64
	// Throttled is the number of Wait calls that had to sleep.
	Throttled int64
	// Cancelled is the number of Wait calls abandoned by their context.
	Cancelled int64
	// Classes is the number of endpoint classes seen so far.
	Classes int
}
