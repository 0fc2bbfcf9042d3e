// Package capture tracks exclusive pointer capture: at most one element
// holds it at a time. The manager is an injected service rather than
// ambient process state so the engine can be driven deterministically in
// tests.
package capture

import (
	"popupkit/internal/routing"
	"popupkit/internal/visual"
)

// Mode is the scope of a capture grant.
type Mode uint8

const (
	// ModeElement captures input for the holder alone.
	ModeElement Mode = iota
	// ModeSubtree captures input for the holder and its descendants,
	// so popup content parented under the holder stays inside the
	// captured region.
	ModeSubtree
)

// Manager is the single pointer-capture cell. It runs on the UI thread
// like everything else in the engine; no locking. When the holder changes,
// the manager synthesizes a lost-capture notification that bubbles from
// the previous holder, after the new holder is already in place, so
// handlers observing Holder() see the post-transition state.
type Manager struct {
	table  *routing.Table
	holder visual.Element
	mode   Mode
}

// NewManager returns a manager that reports capture transitions through
// the given dispatch table.
func NewManager(table *routing.Table) *Manager {
	return &Manager{table: table}
}

// Holder returns the element currently holding capture, or nil.
func (m *Manager) Holder() visual.Element { return m.holder }

// Mode returns the scope of the current grant. Meaningless when no
// element holds capture.
func (m *Manager) Mode() Mode { return m.mode }

// IsHeldBy reports whether e is the current holder.
func (m *Manager) IsHeldBy(e visual.Element) bool {
	return e != nil && m.holder == e
}

// WithinCapture reports whether e falls inside the captured region:
// identical to the holder under ModeElement, any descendant of the
// holder under ModeSubtree.
func (m *Manager) WithinCapture(e visual.Element) bool {
	if m.holder == nil || e == nil {
		return false
	}
	if m.mode == ModeSubtree {
		return visual.IsAncestorOf(m.holder, e)
	}
	return e == m.holder
}

// Capture grants element-scoped capture to e.
func (m *Manager) Capture(e visual.Element) {
	m.set(e, ModeElement)
}

// CaptureSubtree grants subtree-scoped capture to e.
func (m *Manager) CaptureSubtree(e visual.Element) {
	m.set(e, ModeSubtree)
}

// Release clears capture if e is the current holder; otherwise it is a
// no-op. The previous holder receives the lost-capture notification.
func (m *Manager) Release(e visual.Element) {
	if e == nil || m.holder != e {
		return
	}
	m.set(nil, ModeElement)
}

func (m *Manager) set(e visual.Element, mode Mode) {
	prev := m.holder
	if prev == e {
		// Re-capturing the same holder only adjusts scope; no loss.
		m.mode = mode
		return
	}
	m.holder = e
	m.mode = mode
	if prev != nil && m.table != nil {
		m.table.Dispatch(&routing.Event{
			Kind:     routing.KindLostPointerCapture,
			Strategy: routing.Bubble,
			Source:   prev,
		})
	}
}
