package resilience

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/tasklens/internal/core/domain"
)

// CircuitBreaker counts failed operations and opens once Threshold is reached.
// An open breaker closes again, with its count cleared, once Cooldown has elapsed.
// Successes do not clear the count.
type CircuitBreaker struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	threshold int
	cooldown  time.Duration
	failures  int
	tripped   bool
	trippedAt time.Time
}

// NewCircuitBreaker creates a closed breaker.
func NewCircuitBreaker(threshold int, cooldown time.Duration, clock clockwork.Clock) *CircuitBreaker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CircuitBreaker{
		clock:     clock,
		threshold: max(threshold, 1),
		cooldown:  cooldown,
	}
}

// Allow reports whether work may be dispatched.
func (b *CircuitBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expireLocked()
	return !b.tripped
}

// RecordFailure counts one failed operation and reports whether this call tripped the breaker.
func (b *CircuitBreaker) RecordFailure() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expireLocked()
	b.failures++
	if !b.tripped && b.failures >= b.threshold {
		b.tripped = true
		b.trippedAt = b.clock.Now()
		return true
	}
	return false
}

// Reset closes the breaker and clears the count.
func (b *CircuitBreaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetLocked()
}

// Failures returns the current failure count.
func (b *CircuitBreaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expireLocked()
	return b.failures
}

// Threshold returns the failure count that trips the breaker.
func (b *CircuitBreaker) Threshold() int {
	return b.threshold
}

// State returns a snapshot of the breaker.
func (b *CircuitBreaker) State() domain.CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expireLocked()
	s := domain.CircuitState{Tripped: b.tripped, Failures: b.failures}
	if b.tripped {
		s.TrippedAtMs = b.trippedAt.UnixMilli()
	}
	return s
}

func (b *CircuitBreaker) expireLocked() {
	if b.tripped && b.clock.Since(b.trippedAt) >= b.cooldown {
		b.resetLocked()
	}
}

func (b *CircuitBreaker) resetLocked() {
	b.failures = 0
	b.tripped = false
	b.trippedAt = time.Time{}
}
