// Package ratelimit implements the token-bucket limiter that throttles
// every outbound Jira API call.
//
// The bucket accumulates fractional tokens proportionally to elapsed time,
// capped at the configured capacity, and spends one token per permitted
// call. Acquire reports the wait a caller owes; Wait sleeps it off. The
// mutex covers only token bookkeeping — sleeping always happens outside
// the lock, so a waiting caller never stalls other callers' accounting.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"
)

// Limiter is a token bucket sized as calls-per-period. It is safe for
// concurrent use by multiple goroutines sharing one client instance.
type Limiter struct {
	calls  float64
	period time.Duration

	mu     sync.Mutex
	tokens float64
	last   time.Time

	// Overridable for deterministic tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Limiter allowing calls requests per period. The bucket
// starts full, so an initial burst up to calls proceeds without waiting.
func New(calls int, period time.Duration) (*Limiter, error) {
	if calls <= 0 {
		return nil, fmt.Errorf("rate limit calls must be positive, got %d", calls)
	}
	if period <= 0 {
		return nil, fmt.Errorf("rate limit period must be positive, got %s", period)
	}
	return &Limiter{
		calls:  float64(calls),
		period: period,
		tokens: float64(calls),
		last:   time.Now(),
		now:    time.Now,
		sleep:  sleepContext,
	}, nil
}

// Acquire refills the bucket for the time elapsed since the last check
// and tries to spend one token. It returns zero when the call may proceed
// immediately, or the duration the caller must wait before trying again.
// A positive wait does not reserve a token — the caller retries after
// sleeping, so concurrent callers can never spend the same token twice.
func (l *Limiter) Acquire() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if elapsed := now.Sub(l.last); elapsed > 0 {
		refill := elapsed.Seconds() * (l.calls / l.period.Seconds())
		l.tokens = math.Min(l.calls, l.tokens+refill)
	}
	l.last = now

	if l.tokens >= 1 {
		l.tokens--
		return 0
	}
	return time.Duration((1 - l.tokens) * float64(l.period) / l.calls)
}

// Wait blocks the calling goroutine until a token is available or ctx is
// done. The sleep happens outside the limiter's lock.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		d := l.Acquire()
		if d == 0 {
			return nil
		}
		if err := l.sleep(ctx, d); err != nil {
			return err
		}
	}
}

// Available reports the current token count without spending anything.
// Useful for observability and tests; the value is stale the moment it
// is returned.
func (l *Limiter) Available() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if elapsed := now.Sub(l.last); elapsed > 0 {
		refill := elapsed.Seconds() * (l.calls / l.period.Seconds())
		l.tokens = math.Min(l.calls, l.tokens+refill)
	}
	l.last = now
	return l.tokens
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
