package popup

import (
	"reflect"

	"popupkit/internal/capture"
	"popupkit/internal/routing"
	"popupkit/internal/sched"
	"popupkit/internal/trace"
	"popupkit/internal/visual"
)

// Coordinator is the dismissal state machine. It subscribes class handlers
// for the five notification kinds on each attached control type and, per
// notification, releases capture, closes the popup, re-captures, or
// suppresses further routing of the dismissal signal.
//
// All state lives on the controls themselves (open/context-menu flags) and
// in the capture manager; the coordinator holds only its injected
// services. Everything runs on the UI thread.
type Coordinator struct {
	table   *routing.Table
	capture *capture.Manager
	pointer visual.Pointer
	queue   *sched.Queue
	rec     *trace.Recorder
}

// NewCoordinator wires a coordinator to its host services. rec may be nil;
// recording is optional.
func NewCoordinator(table *routing.Table, cm *capture.Manager, pointer visual.Pointer, queue *sched.Queue, rec *trace.Recorder) *Coordinator {
	return &Coordinator{
		table:   table,
		capture: cm,
		pointer: pointer,
		queue:   queue,
		rec:     rec,
	}
}

// Attach registers the coordinator's class handlers for a control type.
// Call once per control type during setup.
func (c *Coordinator) Attach(controlType reflect.Type) {
	c.table.Register(controlType, routing.KindPointerDownOutsideCapture, c.onClickThroughOutsideCapture)
	c.table.Register(controlType, KindDismiss, c.onDismissPopup)
	c.table.Register(controlType, routing.KindContextMenuOpening, c.onContextMenuOpened)
	c.table.Register(controlType, routing.KindContextMenuClosing, c.onContextMenuClosed)
	c.table.Register(controlType, routing.KindLostPointerCapture, c.onLostPointerCapture)
}

// RaiseDismiss delivers a dismissal signal synchronously, bubbling from
// sender. No-op when sender is not an element. Only for direct
// programmatic dismissal; from inside another notification handler use
// RaiseDismissDeferred instead, because closing a popup and mutating
// capture inline can re-enter the input system mid-mutation.
func (c *Coordinator) RaiseDismiss(sender any, mode DismissMode) {
	el, ok := sender.(visual.Element)
	if !ok || el == nil {
		return
	}
	c.table.Dispatch(&routing.Event{
		Kind:     KindDismiss,
		Strategy: routing.Bubble,
		Source:   el,
		Payload:  mode,
	})
}

// RaiseDismissDeferred schedules RaiseDismiss for the next processing
// turn. Handlers re-check control state when the signal runs, so a
// dismissal that became moot is a no-op.
func (c *Coordinator) RaiseDismissDeferred(sender any, mode DismissMode) {
	c.queue.Defer(func() {
		c.RaiseDismiss(sender, mode)
	})
}

// IsPhysicallyOver reports whether the pointer currently sits over the
// popup's child. False when the popup or its child is absent.
func (c *Coordinator) IsPhysicallyOver(p *Popup) bool {
	if p == nil || p.Child == nil {
		return false
	}
	return visual.IsPointOver(p.Child, c.pointer.PositionRelativeTo(p.Child))
}

// onClickThroughOutsideCapture handles a button press that landed outside
// the captured subtree while sender holds capture. The dismissal is
// advisory (mouse-not-over) and deferred so the popup's own click handling
// gets to run first.
func (c *Coordinator) onClickThroughOutsideCapture(sender visual.Element, ev *routing.Event) {
	pe, ok := ev.Payload.(routing.PointerEvent)
	if !ok {
		return
	}
	if pe.Button != routing.ButtonLeft && pe.Button != routing.ButtonRight {
		return
	}
	if c.capture.IsHeldBy(sender) {
		c.rec.Note("decision", "dismiss-deferred")
		c.RaiseDismissDeferred(sender, DismissMouseNotOver)
	}
}

// onLostPointerCapture tolerates capture loss only while control stays
// effectively inside the popup; anything else schedules a deferred
// re-evaluation. Context menus legitimately steal capture without ending
// the popup session, so an open context menu suppresses the whole check.
func (c *Coordinator) onLostPointerCapture(sender visual.Element, ev *routing.Event) {
	dd, ok := sender.(DropDownControl)
	if !ok {
		return
	}
	if c.capture.IsHeldBy(sender) || !dd.IsDropDownOpen() || dd.IsContextMenuOpened() {
		return
	}

	p := dd.DropDownPopup()
	if p == nil || p.Child == nil {
		// Nothing to test geometry against.
		c.rec.Note("decision", "dismiss-deferred")
		c.RaiseDismissDeferred(sender, DismissMouseNotOver)
		return
	}

	if ev.Source == sender {
		// The control itself lost capture; allowed only when capture
		// moved into the popup subtree.
		if !visual.IsAncestorOf(p.Child, c.capture.Holder()) {
			c.rec.Note("decision", "dismiss-deferred")
			c.RaiseDismissDeferred(sender, DismissMouseNotOver)
		}
		return
	}
	if !visual.IsAncestorOf(p.Child, ev.Source) {
		c.rec.Note("decision", "dismiss-deferred")
		c.RaiseDismissDeferred(sender, DismissMouseNotOver)
	}
}

// onDismissPopup is the terminal handler: the only place the coordinator
// mutates the open flag or the capture cell.
func (c *Coordinator) onDismissPopup(sender visual.Element, ev *routing.Event) {
	dd, ok := sender.(DropDownControl)
	if !ok {
		return
	}
	mode, _ := ev.Payload.(DismissMode)
	c.rec.Note("mode", mode.String())

	if mode == DismissAlways {
		c.close(sender, dd)
		return
	}

	// Mouse-not-over: close only when the pointer really left the popup.
	if dd.IsDropDownOpen() && !c.IsPhysicallyOver(dd.DropDownPopup()) {
		c.close(sender, dd)
		return
	}

	// The popup survives. Re-assert capture if it drifted away, with
	// subtree scope so popup content stays inside the captured region,
	// and stop the signal from routing any further.
	if dd.IsDropDownOpen() && !c.capture.IsHeldBy(sender) {
		c.rec.Note("decision", "recapture")
		c.capture.CaptureSubtree(sender)
	}
	if dd.IsDropDownOpen() {
		ev.Handled = true
	}
}

func (c *Coordinator) close(sender visual.Element, dd DropDownControl) {
	c.rec.Note("decision", "close")
	if c.capture.IsHeldBy(sender) {
		c.capture.Release(sender)
	}
	dd.SetDropDownOpen(false)
}

// onContextMenuOpened marks the control as hosting a context menu, which
// suppresses capture-loss dismissal for the menu's lifetime.
func (c *Coordinator) onContextMenuOpened(sender visual.Element, ev *routing.Event) {
	dd, ok := sender.(DropDownControl)
	if !ok {
		return
	}
	dd.SetContextMenuOpened(true)
}

// onContextMenuClosed clears the flag and schedules a re-evaluation: once
// the menu is gone the popup must check whether the pointer is still over
// it.
func (c *Coordinator) onContextMenuClosed(sender visual.Element, ev *routing.Event) {
	dd, ok := sender.(DropDownControl)
	if !ok {
		return
	}
	dd.SetContextMenuOpened(false)
	c.RaiseDismissDeferred(sender, DismissMouseNotOver)
}
