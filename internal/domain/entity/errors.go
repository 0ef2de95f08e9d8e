package entity

import (
	"errors"
	"fmt"
)

// Standard domain errors
var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrBudgetExceeded  = errors.New("daily token budget exhausted")
	ErrStreamTransport = errors.New("stream transport failure")
	ErrInvalidRequest  = errors.New("invalid request parameters")
)

// TransportError is a network or HTTP-level provider failure.
type TransportError struct {
	Provider string
	Status   int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error from %s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("transport error from %s: status %d", e.Provider, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError marks an upstream body that is not well-formed JSON
// or does not match the expected result schema. It drives fallback the same
// way a transport failure does.
type MalformedResponseError struct {
	Provider    string
	ContentType string
	Reason      string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %s", e.Provider, e.Reason)
}
