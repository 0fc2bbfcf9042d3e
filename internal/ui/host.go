// Package ui hosts the dismissal engine inside a Bubble Tea program: it
// owns the element tree, translates terminal mouse input into routed
// notifications, and drains the deferred queue once per processing tick.
package ui

import (
	"fmt"
	"reflect"

	"popupkit/internal/capture"
	"popupkit/internal/popup"
	"popupkit/internal/routing"
	"popupkit/internal/sched"
	"popupkit/internal/trace"
	"popupkit/internal/visual"
)

// Host wires the engine's services to the demo's element tree. It is the
// concrete "host toolkit" side of the engine's contracts: it supplies the
// pointer service, drives dispatch, and owns layout.
type Host struct {
	Table       *routing.Table
	Capture     *capture.Manager
	Queue       *sched.Queue
	Coordinator *popup.Coordinator
	Recorder    *trace.Recorder

	Root    *RootPane
	Buttons []*DropDownButton
	Ctx     *ContextMenu

	pointerX, pointerY int
}

// NewHost builds the demo tree: two drop-down buttons on a root pane,
// with the Coordinator attached to the button type. rec may be nil.
func NewHost(rec *trace.Recorder) *Host {
	table := routing.NewTable()
	if rec != nil {
		table.SetObserver(&dispatchObserver{rec: rec})
	}
	cm := capture.NewManager(table)
	queue := sched.NewQueue()

	h := &Host{
		Table:    table,
		Capture:  cm,
		Queue:    queue,
		Recorder: rec,
		Root:     &RootPane{},
		Ctx:      &ContextMenu{Items: []string{"keep open", "close popup"}},
	}
	h.Coordinator = popup.NewCoordinator(table, cm, h, queue, rec)
	h.Coordinator.Attach(reflect.TypeOf(&DropDownButton{}))

	h.Buttons = []*DropDownButton{
		NewDropDownButton("File", []string{"New", "Open", "Save", "Quit"}, h.Root),
		NewDropDownButton("Edit", []string{"Cut", "Copy", "Paste"}, h.Root),
	}
	return h
}

// Layout positions every element for the given terminal size. Menu
// surfaces sit directly below their owner; the context menu keeps the
// spot it was opened at.
func (h *Host) Layout(width, height int) {
	h.Root.SetBounds(Bounds{X: 0, Y: 0, W: width, H: height})
	x := 2
	for _, b := range h.Buttons {
		w := len(b.Label) + 4
		b.SetBounds(Bounds{X: x, Y: 2, W: w, H: 1})
		h.layoutMenu(b)
		x += w + 3
	}
}

func (h *Host) layoutMenu(b *DropDownButton) {
	menu := b.Menu()
	bb := b.Bounds()
	w := 0
	for _, it := range menu.Items() {
		if len(it.Label)+2 > w {
			w = len(it.Label) + 2
		}
	}
	if w < bb.W {
		w = bb.W
	}
	menu.SetBounds(Bounds{X: bb.X, Y: bb.Y + 1, W: w, H: len(menu.Items())})
	for i, it := range menu.Items() {
		it.SetBounds(Bounds{X: bb.X, Y: bb.Y + 1 + i, W: w, H: 1})
	}
}

// SetPointer records the pointer's screen position.
func (h *Host) SetPointer(x, y int) {
	h.pointerX, h.pointerY = x, y
}

// PositionRelativeTo implements visual.Pointer against element bounds.
func (h *Host) PositionRelativeTo(e visual.Element) visual.Point {
	type bounded interface{ Bounds() Bounds }
	if b, ok := e.(bounded); ok {
		r := b.Bounds()
		return visual.Point{
			X: float64(h.pointerX - r.X),
			Y: float64(h.pointerY - r.Y),
		}
	}
	return visual.Point{X: float64(h.pointerX), Y: float64(h.pointerY)}
}

// HitTest returns the topmost element at the screen cell (x, y): context
// menu, then open popup content, then buttons, then the root pane.
func (h *Host) HitTest(x, y int) visual.Element {
	if h.Ctx.Visible() && h.Ctx.Bounds().Contains(x, y) {
		return h.Ctx
	}
	for _, b := range h.Buttons {
		if !b.IsDropDownOpen() {
			continue
		}
		for _, it := range b.Menu().Items() {
			if it.Bounds().Contains(x, y) {
				return it
			}
		}
		if b.Menu().Bounds().Contains(x, y) {
			return b.Menu()
		}
	}
	for _, b := range h.Buttons {
		if b.Bounds().Contains(x, y) {
			return b
		}
	}
	if h.Root.Bounds().Contains(x, y) {
		return h.Root
	}
	return nil
}

// OpenDropDown opens b's popup and takes subtree capture so the popup
// content stays inside the captured region.
func (h *Host) OpenDropDown(b *DropDownButton) {
	b.SetDropDownOpen(true)
	h.layoutMenu(b)
	h.Capture.CaptureSubtree(b)
}

// OpenContextMenu shows the context menu for owner at (x, y). The opening
// notification tunnels to the control before the menu steals capture, so
// the capture loss is suppressed and the popup session survives.
func (h *Host) OpenContextMenu(owner *DropDownButton, x, y int) {
	h.Ctx.owner = owner
	h.Ctx.visible = true
	w := 0
	for _, it := range h.Ctx.Items {
		if len(it)+2 > w {
			w = len(it) + 2
		}
	}
	h.Ctx.SetBounds(Bounds{X: x, Y: y, W: w, H: len(h.Ctx.Items)})

	h.Table.Dispatch(&routing.Event{
		Kind:     routing.KindContextMenuOpening,
		Strategy: routing.Tunnel,
		Source:   owner,
	})
	h.Capture.Capture(h.Ctx)
}

// CloseContextMenu hides the menu. Capture goes first, while the control
// still has its context-menu flag set; the closing notification then
// clears the flag and lets the coordinator re-evaluate the popup.
func (h *Host) CloseContextMenu() {
	owner := h.Ctx.owner
	if owner == nil || !h.Ctx.visible {
		return
	}
	h.Ctx.visible = false
	h.Capture.Release(h.Ctx)
	h.Table.Dispatch(&routing.Event{
		Kind:     routing.KindContextMenuClosing,
		Strategy: routing.Tunnel,
		Source:   owner,
	})
	h.Ctx.owner = nil
}

// ElementName names an element for the status panel and trace spans.
func ElementName(e visual.Element) string {
	switch el := e.(type) {
	case nil:
		return "none"
	case *DropDownButton:
		return "button:" + el.Label
	case *MenuSurface:
		return "menu:" + el.Owner().Label
	case *MenuItem:
		return "item:" + el.Label
	case *ContextMenu:
		return "context-menu"
	case *RootPane:
		return "root"
	default:
		return fmt.Sprintf("%T", e)
	}
}

// dispatchObserver records dispatch activity into the trace recorder.
type dispatchObserver struct {
	rec *trace.Recorder
}

func (o *dispatchObserver) DispatchBegin(ev *routing.Event) {
	o.rec.BeginSpan("dispatch "+string(ev.Kind), map[string]string{
		"kind":     string(ev.Kind),
		"strategy": ev.Strategy.String(),
		"source":   ElementName(ev.Source),
	})
}

func (o *dispatchObserver) HandlerBegin(ev *routing.Event, sender visual.Element) {
	o.rec.BeginSpan("handle "+string(ev.Kind), map[string]string{
		"sender": ElementName(sender),
	})
}

func (o *dispatchObserver) HandlerEnd(ev *routing.Event, sender visual.Element) {
	o.rec.EndSpan()
}

func (o *dispatchObserver) DispatchEnd(ev *routing.Event) {
	o.rec.EndSpan()
}
