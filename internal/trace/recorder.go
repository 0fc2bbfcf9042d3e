package trace

import (
	"context"
	"time"
)

// Recorder assembles spans into dispatch traces. Spans nest: a handler
// span sits under its dispatch span, and a dispatch raised from inside a
// handler (capture transitions do this) nests under that handler's span.
// When the outermost span closes, the trace is complete: it lands in the
// recent ring and is exported if OTLP is configured.
//
// The recorder runs on the UI thread with everything else; no locking.
// All methods are safe on a nil receiver so callers can thread an
// optional recorder without guarding every call.
type Recorder struct {
	maxTraces int
	recent    []*DispatchTrace
	stack     []*Span
	open      *DispatchTrace
	onChange  func()
	exporter  *OTLPExporter
	log       *Log
}

// NewRecorder creates a recorder keeping up to maxTraces completed traces
// (default 16). OTLP export is enabled when OTEL_EXPORTER_OTLP_ENDPOINT
// is set.
func NewRecorder(maxTraces int) *Recorder {
	if maxTraces <= 0 {
		maxTraces = 16
	}
	exporter, _ := NewOTLPExporter(context.Background())
	return &Recorder{
		maxTraces: maxTraces,
		exporter:  exporter,
	}
}

// SetLog registers a trace log that receives every completed trace.
func (r *Recorder) SetLog(l *Log) {
	if r == nil {
		return
	}
	r.log = l
}

// SetOnChange registers a callback invoked whenever a trace completes.
func (r *Recorder) SetOnChange(fn func()) {
	if r == nil {
		return
	}
	r.onChange = fn
}

// BeginSpan opens a span. The first span opened becomes the root of a new
// dispatch trace; spans opened while another is active nest under it.
func (r *Recorder) BeginSpan(name string, attrs map[string]string) {
	if r == nil {
		return
	}
	span := &Span{
		Name:       name,
		StartTime:  time.Now(),
		Attributes: attrs,
	}
	if len(r.stack) == 0 {
		r.open = &DispatchTrace{
			ID:        NewTraceID(),
			StartTime: span.StartTime,
			RootSpan:  span,
		}
	} else {
		top := r.stack[len(r.stack)-1]
		top.Children = append(top.Children, span)
	}
	r.stack = append(r.stack, span)
}

// EndSpan closes the innermost open span. Closing the root finalizes the
// trace.
func (r *Recorder) EndSpan() {
	if r == nil || len(r.stack) == 0 {
		return
	}
	top := r.stack[len(r.stack)-1]
	top.Duration = time.Since(top.StartTime)
	r.stack = r.stack[:len(r.stack)-1]
	if len(r.stack) > 0 {
		return
	}

	r.open.EndTime = top.StartTime.Add(top.Duration)
	r.recent = append(r.recent, r.open)
	if len(r.recent) > r.maxTraces {
		r.recent = r.recent[len(r.recent)-r.maxTraces:]
	}
	completed := r.open
	r.open = nil
	r.exporter.ExportDispatch(context.Background(), completed)
	r.log.Append(completed)
	if r.onChange != nil {
		r.onChange()
	}
}

// Note attaches an attribute to the innermost open span. Dropped when no
// span is open.
func (r *Recorder) Note(key, value string) {
	if r == nil || len(r.stack) == 0 {
		return
	}
	top := r.stack[len(r.stack)-1]
	if top.Attributes == nil {
		top.Attributes = make(map[string]string)
	}
	top.Attributes[key] = value
}

// Recent returns the completed traces, oldest first.
func (r *Recorder) Recent() []*DispatchTrace {
	if r == nil {
		return nil
	}
	out := make([]*DispatchTrace, len(r.recent))
	copy(out, r.recent)
	return out
}

// Shutdown flushes the OTLP exporter, if any, and reports any trace-log
// write error.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	if err := r.log.Err(); err != nil {
		return err
	}
	return r.exporter.Shutdown(ctx)
}
