package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnify-core/internal/domain/entity"
)

func failingOp(err error, calls *int) Operation {
	return func(ctx context.Context) (*entity.AIResponse, error) {
		*calls++
		return nil, err
	}
}

func succeedingOp(calls *int) Operation {
	return func(ctx context.Context) (*entity.AIResponse, error) {
		*calls++
		return &entity.AIResponse{Success: true}, nil
	}
}

func TestBreakerTripsAfterThreshold(t *testing.T) {
	b := NewCircuitBreaker(3, time.Minute)
	boom := errors.New("boom")
	calls := 0

	for i := 0; i < 3; i++ {
		_, err := b.Execute(context.Background(), failingOp(boom, &calls))
		require.ErrorIs(t, err, boom)
	}
	assert.Equal(t, StateOpen, b.State())
	assert.Equal(t, 3, calls)

	// Tripped breaker fails fast without invoking the operation.
	_, err := b.Execute(context.Background(), failingOp(boom, &calls))
	assert.ErrorIs(t, err, entity.ErrCircuitOpen)
	assert.Equal(t, 3, calls)
}

func TestBreakerHalfOpenAfterTimeout(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := NewCircuitBreaker(2, time.Minute)
	b.SetClock(func() time.Time { return now })

	boom := errors.New("boom")
	calls := 0
	for i := 0; i < 2; i++ {
		_, _ = b.Execute(context.Background(), failingOp(boom, &calls))
	}
	require.Equal(t, StateOpen, b.State())

	// Before the timeout elapses the gate stays shut.
	now = now.Add(30 * time.Second)
	_, err := b.Execute(context.Background(), succeedingOp(&calls))
	require.ErrorIs(t, err, entity.ErrCircuitOpen)
	assert.Equal(t, 2, calls)

	// After the timeout a probe is let through; success resets everything.
	now = now.Add(31 * time.Second)
	resp, err := b.Execute(context.Background(), succeedingOp(&calls))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, StateClosed, b.State())

	// A failure after reset starts a fresh count rather than re-opening.
	_, _ = b.Execute(context.Background(), failingOp(boom, &calls))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := NewCircuitBreaker(1, time.Minute)
	b.SetClock(func() time.Time { return now })

	boom := errors.New("boom")
	calls := 0
	_, _ = b.Execute(context.Background(), failingOp(boom, &calls))
	require.Equal(t, StateOpen, b.State())

	now = now.Add(2 * time.Minute)
	_, err := b.Execute(context.Background(), failingOp(boom, &calls))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerSuccessResetsCount(t *testing.T) {
	b := NewCircuitBreaker(2, time.Minute)
	boom := errors.New("boom")
	calls := 0

	_, _ = b.Execute(context.Background(), failingOp(boom, &calls))
	_, err := b.Execute(context.Background(), succeedingOp(&calls))
	require.NoError(t, err)

	// One more failure must not trip a threshold of 2 after a reset.
	_, _ = b.Execute(context.Background(), failingOp(boom, &calls))
	assert.Equal(t, StateClosed, b.State())
}
