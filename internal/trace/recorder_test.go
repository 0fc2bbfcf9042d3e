package trace

import (
	"testing"
)

func TestRecorder_SingleSpanTrace(t *testing.T) {
	r := NewRecorder(10)
	r.BeginSpan("dispatch popup.dismiss", map[string]string{"kind": "popup.dismiss"})
	r.EndSpan()

	traces := r.Recent()
	if len(traces) != 1 {
		t.Fatalf("Recent: expected 1 trace, got %d", len(traces))
	}
	root := traces[0].RootSpan
	if root.Name != "dispatch popup.dismiss" {
		t.Errorf("root span name: expected %q, got %q", "dispatch popup.dismiss", root.Name)
	}
	if traces[0].ID == "" {
		t.Error("trace ID: expected non-empty")
	}
	if traces[0].EndTime.Before(traces[0].StartTime) {
		t.Error("trace: expected EndTime >= StartTime")
	}
}

func TestRecorder_NestedSpans(t *testing.T) {
	r := NewRecorder(10)
	r.BeginSpan("dispatch pointer.lost-capture", nil)
	r.BeginSpan("handler", nil)
	r.BeginSpan("dispatch popup.dismiss", nil) // nested dispatch from inside the handler
	r.EndSpan()
	r.EndSpan()
	r.EndSpan()

	traces := r.Recent()
	if len(traces) != 1 {
		t.Fatalf("Recent: expected 1 trace, got %d", len(traces))
	}
	root := traces[0].RootSpan
	if len(root.Children) != 1 {
		t.Fatalf("root children: expected 1, got %d", len(root.Children))
	}
	handler := root.Children[0]
	if len(handler.Children) != 1 || handler.Children[0].Name != "dispatch popup.dismiss" {
		t.Errorf("handler children: expected nested dispatch span, got %+v", handler.Children)
	}
}

func TestRecorder_NoteAttachesToInnermost(t *testing.T) {
	r := NewRecorder(10)
	r.BeginSpan("dispatch", nil)
	r.BeginSpan("handler", nil)
	r.Note("decision", "close")
	r.EndSpan()
	r.EndSpan()

	root := r.Recent()[0].RootSpan
	handler := root.Children[0]
	if handler.Attributes["decision"] != "close" {
		t.Errorf("Note: expected decision=close on handler span, got %v", handler.Attributes)
	}
	if _, ok := root.Attributes["decision"]; ok {
		t.Error("Note: expected root span to be untouched")
	}
}

func TestRecorder_RingKeepsNewest(t *testing.T) {
	r := NewRecorder(2)
	for i := 0; i < 3; i++ {
		r.BeginSpan("dispatch", nil)
		r.EndSpan()
	}
	if got := len(r.Recent()); got != 2 {
		t.Errorf("ring: expected 2 traces retained, got %d", got)
	}
}

func TestRecorder_OnChange(t *testing.T) {
	r := NewRecorder(10)
	fired := 0
	r.SetOnChange(func() { fired++ })

	r.BeginSpan("dispatch", nil)
	r.BeginSpan("handler", nil)
	r.EndSpan()
	if fired != 0 {
		t.Error("onChange: expected no callback before root span closes")
	}
	r.EndSpan()
	if fired != 1 {
		t.Errorf("onChange: expected 1 callback, got %d", fired)
	}
}

func TestRecorder_NilReceiverIsSafe(t *testing.T) {
	var r *Recorder
	r.BeginSpan("dispatch", nil)
	r.Note("k", "v")
	r.EndSpan()
	if r.Recent() != nil {
		t.Error("nil recorder: expected no traces")
	}
}
