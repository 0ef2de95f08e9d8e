package resilience

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"learnify-core/internal/domain/entity"
)

// Operation is a zero-argument fallible call, composable through the
// resilience middleware.
type Operation func(ctx context.Context) (*entity.AIResponse, error)

type BreakerState string

const (
	StateClosed   BreakerState = "CLOSED"
	StateOpen     BreakerState = "OPEN"
	StateHalfOpen BreakerState = "HALF_OPEN"
)

// CircuitBreaker is a per-provider failure gate. One instance per provider,
// process lifetime, owned by the gateway. Safe for concurrent use.
type CircuitBreaker struct {
	mu              sync.Mutex
	state           BreakerState
	failureCount    int
	lastFailureTime time.Time
	threshold       int
	timeout         time.Duration
	now             func() time.Time
}

func NewCircuitBreaker(threshold int, timeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		state:     StateClosed,
		threshold: threshold,
		timeout:   timeout,
		now:       time.Now,
	}
}

// SetClock overrides the breaker's clock. Test use only.
func (b *CircuitBreaker) SetClock(now func() time.Time) { b.now = now }

func (b *CircuitBreaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Execute runs op through the gate. While OPEN and inside the cooldown
// window it fails fast with ErrCircuitOpen and never invokes op. After the
// cooldown it transitions to HALF_OPEN and lets one call through; success
// fully resets the breaker, failure re-opens it.
func (b *CircuitBreaker) Execute(ctx context.Context, op Operation) (*entity.AIResponse, error) {
	b.mu.Lock()
	if b.state == StateOpen {
		if !b.lastFailureTime.IsZero() && b.now().Sub(b.lastFailureTime) > b.timeout {
			b.state = StateHalfOpen
			log.Debug("circuit breaker half-open, probing")
		} else {
			b.mu.Unlock()
			return nil, entity.ErrCircuitOpen
		}
	}
	b.mu.Unlock()

	resp, err := op(ctx)
	if err != nil {
		b.recordFailure()
		return nil, err
	}
	b.reset()
	return resp, nil
}

// Wrap returns op guarded by this breaker, for middleware composition.
func (b *CircuitBreaker) Wrap(op Operation) Operation {
	return func(ctx context.Context) (*entity.AIResponse, error) {
		return b.Execute(ctx, op)
	}
}

func (b *CircuitBreaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failureCount++
	b.lastFailureTime = b.now()
	if b.failureCount >= b.threshold {
		if b.state != StateOpen {
			log.WithField("failures", b.failureCount).Warn("circuit breaker opened")
		}
		b.state = StateOpen
	}
}

func (b *CircuitBreaker) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failureCount = 0
	b.lastFailureTime = time.Time{}
}
