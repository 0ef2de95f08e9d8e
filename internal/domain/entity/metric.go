package entity

import "time"

// CallMetric is recorded once per provider attempt at the gateway.
type CallMetric struct {
	ID         string    `json:"id"`
	Feature    AIFeature `json:"feature"`
	Provider   string    `json:"provider"`
	DurationMs int64     `json:"duration_ms"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
