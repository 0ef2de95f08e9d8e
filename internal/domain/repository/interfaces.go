package repository

import (
	"context"

	"learnify-core/internal/domain/entity"
)

// FeatureProvider executes one feature request against an AI completion
// service. The mock responder implements this too, as the last link of the
// gateway's fallback chain.
type FeatureProvider interface {
	Name() string
	Call(ctx context.Context, feature entity.AIFeature, data map[string]any) (*entity.AIResponse, error)
}

// Embedder turns text into a vector. The second return value is the token
// usage reported by the provider, 0 when the report is absent.
type Embedder interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, int, error)
}

// VectorIndex answers similarity queries over the knowledge base.
type VectorIndex interface {
	Search(ctx context.Context, vector []float32, threshold float32, limit int) ([]entity.KnowledgeItem, error)
}

// TextIndex returns unscored lexical candidates matching any of the terms.
type TextIndex interface {
	Candidates(ctx context.Context, terms []string, limit int) ([]entity.CatalogEntry, error)
}

// TokenBudget is the process-wide daily cap on embedding usage. TryReserve
// only checks whether usage plus the estimate fits the limit; nothing is
// held. Commit charges the actual cost and is never rolled back.
type TokenBudget interface {
	TryReserve(ctx context.Context, estimated int) (bool, error)
	Commit(ctx context.Context, actual int) error
	CurrentUsage(ctx context.Context) (int, error)
	Limit() int
}

// MetricSink receives one record per provider attempt.
type MetricSink interface {
	Record(ctx context.Context, m entity.CallMetric) error
}

// StreamDelta is one fragment from a streaming completion. A non-nil Err is
// the final element and marks a transport-level failure.
type StreamDelta struct {
	Text string
	Err  error
}

// ChatClient talks to a chat-completions endpoint.
type ChatClient interface {
	Complete(ctx context.Context, systemPrompt, userQuery string) (string, error)
	Stream(ctx context.Context, systemPrompt, userQuery string) (<-chan StreamDelta, error)
}
