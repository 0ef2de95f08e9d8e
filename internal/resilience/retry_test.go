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

func recordingSleeper(delays *[]time.Duration) Sleeper {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	op := func(ctx context.Context) (*entity.AIResponse, error) {
		calls++
		if calls < 3 {
			return nil, boom
		}
		return &entity.AIResponse{Success: true}, nil
	}

	var delays []time.Duration
	wrapped := WithRetrySleeper(op, RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}, recordingSleeper(&delays))

	resp, err := wrapped(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, calls)
	// Exponential backoff: 2^1 then 2^2 seconds.
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, delays)
}

func TestRetryExhaustionReturnsLastError(t *testing.T) {
	first := errors.New("first")
	last := errors.New("last")
	calls := 0
	op := func(ctx context.Context) (*entity.AIResponse, error) {
		calls++
		if calls == 1 {
			return nil, first
		}
		return nil, last
	}

	var delays []time.Duration
	wrapped := WithRetrySleeper(op, RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}, recordingSleeper(&delays))

	_, err := wrapped(context.Background())
	assert.ErrorIs(t, err, last)
	assert.Equal(t, 3, calls)
	assert.Len(t, delays, 2)
}

func TestRetryNoSleepAfterFinalAttempt(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	var delays []time.Duration
	wrapped := WithRetrySleeper(failingOp(boom, &calls), RetryPolicy{MaxAttempts: 1, BaseDelay: time.Second}, recordingSleeper(&delays))

	_, err := wrapped(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Empty(t, delays)
}

func TestRetryMaxDelayCap(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	var delays []time.Duration
	policy := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Second, MaxDelay: 5 * time.Second}
	wrapped := WithRetrySleeper(failingOp(boom, &calls), policy, recordingSleeper(&delays))

	_, err := wrapped(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}, delays)
}

func TestRetryStopsWhenContextCancelled(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	sleep := func(ctx context.Context, d time.Duration) error { return context.Canceled }
	wrapped := WithRetrySleeper(failingOp(boom, &calls), DefaultRetryPolicy(), sleep)

	_, err := wrapped(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
