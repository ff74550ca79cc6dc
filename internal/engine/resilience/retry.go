// Package resilience provides the retry policy and circuit breaker used around worker dispatch.
package resilience

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"
	"go.trai.ch/tasklens/internal/core/domain"
)

// RetryPolicy bounds the tries of an operation and spaces them with exponential backoff.
// Retry k (k >= 1) waits BaseDelay * 2^(k-1).
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Clock       clockwork.Clock
}

// DefaultRetryPolicy returns three tries with a one second base delay on the real clock.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: domain.DefaultMaxAttempts,
		BaseDelay:   domain.DefaultRetryBaseDelay,
		Clock:       clockwork.NewRealClock(),
	}
}

// Delay returns the wait before retry k.
func (p RetryPolicy) Delay(k int) time.Duration {
	if k < 1 {
		return 0
	}
	return p.BaseDelay << min(k-1, 30)
}

// RetryNotify is called after a failed try that will be retried.
type RetryNotify func(attempt int, err error, next time.Duration)

// Retry runs op until it succeeds, the tries are exhausted or ctx is done.
// It returns the last error, or the context error when cancelled while waiting.
// Errors wrapped with backoff.Permanent stop the loop immediately.
func Retry[T any](ctx context.Context, p RetryPolicy, op func(context.Context) (T, error), notify RetryNotify) (T, error) {
	clock := p.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	attempts := max(p.MaxAttempts, 1)

	exp := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(p.BaseDelay),
		backoff.WithRandomizationFactor(0),
		backoff.WithMultiplier(2),
		backoff.WithMaxInterval(p.Delay(attempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithClockProvider(clock),
	)
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(attempts-1)), ctx)

	attempt := 0
	return backoff.RetryNotifyWithTimerAndData[T](
		func() (T, error) {
			attempt++
			return op(ctx)
		},
		policy,
		func(err error, next time.Duration) {
			if notify != nil {
				notify(attempt, err, next)
			}
		},
		&clockTimer{clock: clock},
	)
}

// clockTimer adapts a clockwork.Clock to backoff.Timer.
type clockTimer struct {
	clock clockwork.Clock
	timer clockwork.Timer
}

func (t *clockTimer) Start(d time.Duration) {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = t.clock.NewTimer(d)
}

func (t *clockTimer) Stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *clockTimer) C() <-chan time.Time {
	return t.timer.Chan()
}
