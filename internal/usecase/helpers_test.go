package usecase

import (
	"context"
	"sync"
	"time"

	"learnify-core/internal/domain/entity"
	"learnify-core/internal/domain/repository"
)

// Test doubles for the repository ports.

type fakeProvider struct {
	name    string
	calls   int
	failFor int // fail the first N calls
	err     error
	resp    *entity.AIResponse
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Call(_ context.Context, feature entity.AIFeature, data map[string]any) (*entity.AIResponse, error) {
	f.calls++
	if f.err != nil && (f.failFor == 0 || f.calls <= f.failFor) {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	return &entity.AIResponse{Success: true, Data: entity.PDFChatResult{Response: "ok"}}, nil
}

type fakeSink struct {
	mu      sync.Mutex
	records []entity.CallMetric
}

func (f *fakeSink) Record(_ context.Context, m entity.CallMetric) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, m)
	return nil
}

func (f *fakeSink) all() []entity.CallMetric {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.CallMetric(nil), f.records...)
}

type fakeEmbedder struct {
	vector  []float32
	usage   int
	err     error
	calls   int
	gotText string
}

func (f *fakeEmbedder) CreateEmbedding(_ context.Context, text string) ([]float32, int, error) {
	f.calls++
	f.gotText = text
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.vector, f.usage, nil
}

type fakeVectorIndex struct {
	items []entity.KnowledgeItem
	err   error
	calls int
}

func (f *fakeVectorIndex) Search(_ context.Context, _ []float32, _ float32, _ int) ([]entity.KnowledgeItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]entity.KnowledgeItem(nil), f.items...), nil
}

type fakeTextIndex struct {
	entries  []entity.CatalogEntry
	err      error
	gotTerms []string
}

func (f *fakeTextIndex) Candidates(_ context.Context, terms []string, limit int) ([]entity.CatalogEntry, error) {
	f.gotTerms = terms
	if f.err != nil {
		return nil, f.err
	}
	out := f.entries
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return append([]entity.CatalogEntry(nil), out...), nil
}

type fakeBudget struct {
	mu      sync.Mutex
	usage   int
	limit   int
	commits []int
}

func (f *fakeBudget) Limit() int { return f.limit }

func (f *fakeBudget) CurrentUsage(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.usage, nil
}

func (f *fakeBudget) TryReserve(_ context.Context, estimated int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.usage+estimated <= f.limit, nil
}

func (f *fakeBudget) Commit(_ context.Context, actual int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usage += actual
	f.commits = append(f.commits, actual)
	return nil
}

type fakeChat struct {
	deltas       []repository.StreamDelta
	startErr     error
	completeText string
	completeErr  error
	gotSystem    string
	gotQuery     string
	streamCalls  int
}

func (f *fakeChat) Complete(_ context.Context, systemPrompt, userQuery string) (string, error) {
	f.gotSystem = systemPrompt
	f.gotQuery = userQuery
	return f.completeText, f.completeErr
}

func (f *fakeChat) Stream(_ context.Context, systemPrompt, userQuery string) (<-chan repository.StreamDelta, error) {
	f.streamCalls++
	f.gotSystem = systemPrompt
	f.gotQuery = userQuery
	if f.startErr != nil {
		return nil, f.startErr
	}
	out := make(chan repository.StreamDelta, len(f.deltas))
	for _, d := range f.deltas {
		out <- d
	}
	close(out)
	return out, nil
}

func instantSleep(_ context.Context, _ time.Duration) error { return nil }
