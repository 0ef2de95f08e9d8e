package entity

// SearchMethod tags which retrieval path produced a knowledge item.
type SearchMethod string

const (
	MethodText   SearchMethod = "text"
	MethodVector SearchMethod = "vector"
	MethodHybrid SearchMethod = "hybrid"
)

// KnowledgeItem is one ranked retrieval result. Produced fresh per query,
// never persisted by the core.
type KnowledgeItem struct {
	ID           string       `json:"id"`
	Content      string       `json:"content"`
	Type         string       `json:"type"`
	Title        string       `json:"title"`
	Similarity   float64      `json:"similarity,omitempty"`
	SearchMethod SearchMethod `json:"search_method"`
}

// CatalogEntry is a raw lexical-index record before scoring.
type CatalogEntry struct {
	ID       string
	Title    string
	Content  string
	Type     string
	Keywords []string
}

// ConversationTurn is one caller-owned history entry. The core never mutates
// or stores history; the caller appends the assistant answer itself.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Confidence is a coarse label for how well-grounded an answer is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// StreamEvent is one element of a streamed answer. Content events carry a
// non-empty Fragment; the single terminal event carries an empty Fragment
// with Sources and Confidence set.
type StreamEvent struct {
	Fragment   string     `json:"fragment"`
	Sources    []string   `json:"sources,omitempty"`
	Confidence Confidence `json:"confidence,omitempty"`
	Terminal   bool       `json:"terminal,omitempty"`
}

// KnowledgeAnswer is the non-streaming form of a generated answer.
type KnowledgeAnswer struct {
	Content      string       `json:"content"`
	Sources      []string     `json:"sources"`
	Confidence   Confidence   `json:"confidence"`
	SearchMethod SearchMethod `json:"search_method"`
	TokenUsage   int          `json:"token_usage,omitempty"`
}
