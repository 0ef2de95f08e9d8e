package resilience

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"learnify-core/internal/domain/entity"
)

// RetryPolicy controls the sequential retry loop. Backoff between attempt n
// and n+1 is 2^n * BaseDelay, uncapped when MaxDelay is 0. There is no
// jitter; with the default 3 attempts the worst case stays under ~7s.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}
}

// Sleeper suspends for d or returns early when ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WithRetry wraps op in a sequential retry loop using the real clock.
func WithRetry(op Operation, policy RetryPolicy) Operation {
	return WithRetrySleeper(op, policy, sleepContext)
}

// WithRetrySleeper is WithRetry with an injectable sleeper for tests.
func WithRetrySleeper(op Operation, policy RetryPolicy, sleep Sleeper) Operation {
	return func(ctx context.Context) (*entity.AIResponse, error) {
		var lastErr error
		for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
			resp, err := op(ctx)
			if err == nil {
				return resp, nil
			}
			lastErr = err
			if attempt == policy.MaxAttempts {
				break
			}
			delay := policy.BaseDelay * (1 << attempt)
			if policy.MaxDelay > 0 && delay > policy.MaxDelay {
				delay = policy.MaxDelay
			}
			log.WithFields(log.Fields{"attempt": attempt, "delay": delay}).Debug("retrying after backoff")
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
		}
		return nil, lastErr
	}
}
