// Package trace records routed-event dispatches as span trees for
// debugging dismissal decisions, and optionally exports them over OTLP.
// Recording is purely observational: the engine runs identically with a
// nil Recorder.
package trace

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Span is one recorded unit of work: a dispatch, a handler invocation, or
// a nested dispatch raised from inside a handler.
type Span struct {
	Name       string            `json:"name"`
	StartTime  time.Time         `json:"start"`
	Duration   time.Duration     `json:"duration_ns"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Children   []*Span           `json:"children,omitempty"`
}

// DispatchTrace is a completed top-level dispatch with every handler and
// nested dispatch it triggered.
type DispatchTrace struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start"`
	EndTime   time.Time `json:"end"`
	RootSpan  *Span     `json:"root"`
}

// NewTraceID generates a random 16-byte trace ID as a 32-character hex string.
func NewTraceID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
