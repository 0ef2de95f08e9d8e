package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"learnify-core/internal/domain/entity"
	"learnify-core/internal/domain/repository"
	"learnify-core/internal/resilience"
)

// providerLane pairs a provider with its own breaker. Breakers are never
// shared across providers.
type providerLane struct {
	provider repository.FeatureProvider
	breaker  *resilience.CircuitBreaker
}

// Gateway drives the primary -> fallback -> mock chain. Each real provider
// call is composed as WithRetry(breaker.Wrap(call)); the mock responder
// guarantees CallAI always produces a response.
type Gateway struct {
	primary  providerLane
	fallback providerLane
	mock     repository.FeatureProvider
	metrics  repository.MetricSink
	retry    resilience.RetryPolicy
	sleep    resilience.Sleeper
	now      func() time.Time
}

type GatewayOption func(*Gateway)

// WithGatewaySleeper overrides the backoff sleeper. Test use only.
func WithGatewaySleeper(s resilience.Sleeper) GatewayOption {
	return func(g *Gateway) { g.sleep = s }
}

// WithGatewayClock overrides the metric clock. Test use only.
func WithGatewayClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) { g.now = now }
}

func NewGateway(
	primary, fallback, mock repository.FeatureProvider,
	metrics repository.MetricSink,
	breakerThreshold int,
	breakerTimeout time.Duration,
	retry resilience.RetryPolicy,
	opts ...GatewayOption,
) *Gateway {
	g := &Gateway{
		primary:  providerLane{provider: primary, breaker: resilience.NewCircuitBreaker(breakerThreshold, breakerTimeout)},
		fallback: providerLane{provider: fallback, breaker: resilience.NewCircuitBreaker(breakerThreshold, breakerTimeout)},
		mock:     mock,
		metrics:  metrics,
		retry:    retry,
		sleep:    nil,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CallAI never returns an error to the caller: every failure drives the
// chain forward and the mock responder is the guaranteed last resort. A
// metric is recorded per provider attempt, mock included.
func (g *Gateway) CallAI(ctx context.Context, payload entity.AIPayload) *entity.AIResponse {
	if !payload.Feature.Valid() {
		return &entity.AIResponse{Success: false, Error: entity.ErrInvalidRequest.Error()}
	}
	start := g.now()

	for _, lane := range []providerLane{g.primary, g.fallback} {
		resp, err := g.callLane(ctx, lane, payload)
		g.record(ctx, payload.Feature, lane.provider.Name(), start, err)
		if err == nil {
			return resp
		}
		log.WithFields(log.Fields{
			"feature":  payload.Feature,
			"provider": lane.provider.Name(),
		}).WithError(err).Error("AI provider call failed, advancing fallback chain")
	}

	resp, err := g.mock.Call(ctx, payload.Feature, payload.Data)
	if err != nil {
		// The mock responder cannot fail; this branch is unreachable but the
		// contract still demands a response.
		resp = &entity.AIResponse{Success: false, Error: err.Error()}
	}
	g.record(ctx, payload.Feature, g.mock.Name(), start, nil)
	return resp
}

func (g *Gateway) callLane(ctx context.Context, lane providerLane, payload entity.AIPayload) (*entity.AIResponse, error) {
	call := func(ctx context.Context) (*entity.AIResponse, error) {
		return lane.provider.Call(ctx, payload.Feature, payload.Data)
	}
	var op resilience.Operation
	if g.sleep != nil {
		op = resilience.WithRetrySleeper(lane.breaker.Wrap(call), g.retry, g.sleep)
	} else {
		op = resilience.WithRetry(lane.breaker.Wrap(call), g.retry)
	}
	return op(ctx)
}

func (g *Gateway) record(ctx context.Context, feature entity.AIFeature, provider string, start time.Time, callErr error) {
	m := entity.CallMetric{
		ID:         uuid.NewString(),
		Feature:    feature,
		Provider:   provider,
		DurationMs: g.now().Sub(start).Milliseconds(),
		Success:    callErr == nil,
		Timestamp:  g.now(),
	}
	if callErr != nil {
		m.Error = callErr.Error()
	}
	if err := g.metrics.Record(ctx, m); err != nil {
		log.WithError(err).Warn("failed to record call metric")
	}
}
