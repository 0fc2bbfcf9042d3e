package trace

import (
	"encoding/json"
	"io"

	"popupkit/internal/jsonutil"
)

// Log persists completed dispatch traces as JSON lines, one trace per
// line, so a clicking session can be inspected after the TUI exits.
type Log struct {
	w   io.Writer
	err error
}

// NewLog creates a trace log writing to w.
func NewLog(w io.Writer) *Log {
	return &Log{w: w}
}

// Append writes one trace as a JSON line. The first write error sticks
// and suppresses further writes; Err surfaces it.
func (l *Log) Append(t *DispatchTrace) {
	if l == nil || l.err != nil || t == nil {
		return
	}
	data, err := json.Marshal(t)
	if err != nil {
		l.err = err
		return
	}
	if _, err := l.w.Write(append(data, '\n')); err != nil {
		l.err = err
	}
}

// Err returns the first write error, if any.
func (l *Log) Err() error {
	if l == nil {
		return nil
	}
	return l.err
}

// ReadLog decodes a trace log previously written by Append.
func ReadLog(r io.Reader) ([]*DispatchTrace, error) {
	return jsonutil.DecodeLines[*DispatchTrace](r, "trace log")
}
