package monitor

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"learnify-core/internal/domain/entity"
	"learnify-core/internal/domain/repository"
)

// LogSink writes every call metric to the structured log.
type LogSink struct{}

func NewLogSink() *LogSink { return &LogSink{} }

func (s *LogSink) Record(_ context.Context, m entity.CallMetric) error {
	fields := log.Fields{
		"feature":     m.Feature,
		"provider":    m.Provider,
		"duration_ms": m.DurationMs,
		"success":     m.Success,
	}
	if m.Error != "" {
		fields["error"] = m.Error
	}
	if m.Success {
		log.WithFields(fields).Info("ai call metric")
	} else {
		log.WithFields(fields).Warn("ai call metric")
	}
	return nil
}

// RingSink retains the most recent metrics in memory for the read-back
// endpoint.
type RingSink struct {
	mu      sync.Mutex
	metrics []entity.CallMetric
	size    int
}

func NewRingSink(size int) *RingSink {
	return &RingSink{size: size}
}

func (s *RingSink) Record(_ context.Context, m entity.CallMetric) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, m)
	if len(s.metrics) > s.size {
		s.metrics = s.metrics[len(s.metrics)-s.size:]
	}
	return nil
}

// Recent returns retained metrics, newest first.
func (s *RingSink) Recent() []entity.CallMetric {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.CallMetric, len(s.metrics))
	for i, m := range s.metrics {
		out[len(s.metrics)-1-i] = m
	}
	return out
}

// MultiSink fans a record out to every sink; the first error wins but all
// sinks are attempted.
type MultiSink struct {
	sinks []repository.MetricSink
}

func NewMultiSink(sinks ...repository.MetricSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (s *MultiSink) Record(ctx context.Context, m entity.CallMetric) error {
	var firstErr error
	for _, sink := range s.sinks {
		if err := sink.Record(ctx, m); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
