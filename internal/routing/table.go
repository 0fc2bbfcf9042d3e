package routing

import (
	"reflect"

	"popupkit/internal/visual"
)

// Handler processes a routed event on behalf of one node of the route.
// sender is the node being visited; ev.Source is where the event began.
type Handler func(sender visual.Element, ev *Event)

// Observer watches dispatch for instrumentation. Dispatches can nest
// (a handler may trigger another dispatch inline), so Begin/End pairs
// nest accordingly.
type Observer interface {
	DispatchBegin(ev *Event)
	HandlerBegin(ev *Event, sender visual.Element)
	HandlerEnd(ev *Event, sender visual.Element)
	DispatchEnd(ev *Event)
}

// Table is the class-handler registry: handlers are registered once per
// control type (not per instance) and apply to every element of that
// dynamic type visited during dispatch. The table is explicit state so
// tests can build and discard their own.
type Table struct {
	handlers map[reflect.Type]map[Kind][]Handler
	obs      Observer
}

// NewTable returns an empty class-handler table.
func NewTable() *Table {
	return &Table{handlers: make(map[reflect.Type]map[Kind][]Handler)}
}

// Register adds a class handler for the given control type and kind.
// Handlers for the same (type, kind) run in registration order.
func (t *Table) Register(controlType reflect.Type, kind Kind, h Handler) {
	if controlType == nil || h == nil {
		return
	}
	byKind := t.handlers[controlType]
	if byKind == nil {
		byKind = make(map[Kind][]Handler)
		t.handlers[controlType] = byKind
	}
	byKind[kind] = append(byKind[kind], h)
}

// Reset drops every registration. Intended for tests.
func (t *Table) Reset() {
	t.handlers = make(map[reflect.Type]map[Kind][]Handler)
}

// SetObserver installs an instrumentation hook; nil disables it.
func (t *Table) SetObserver(o Observer) {
	t.obs = o
}

// Dispatch routes ev according to its strategy, starting from ev.Source.
// Bubble visits source→root, tunnel root→source, direct only the source.
// Delivery stops as soon as a handler sets ev.Handled.
func (t *Table) Dispatch(ev *Event) {
	if ev == nil || ev.Source == nil {
		return
	}

	if t.obs != nil {
		t.obs.DispatchBegin(ev)
		defer t.obs.DispatchEnd(ev)
	}

	switch ev.Strategy {
	case Tunnel:
		route := routeToRoot(ev.Source)
		for i := len(route) - 1; i >= 0 && !ev.Handled; i-- {
			t.deliver(route[i], ev)
		}
	case Bubble:
		for node := ev.Source; node != nil && !ev.Handled; node = visual.ParentOf(node) {
			t.deliver(node, ev)
		}
	default:
		t.deliver(ev.Source, ev)
	}
}

// deliver invokes the class handlers registered for node's dynamic type.
func (t *Table) deliver(node visual.Element, ev *Event) {
	byKind := t.handlers[reflect.TypeOf(node)]
	if byKind == nil {
		return
	}
	for _, h := range byKind[ev.Kind] {
		if ev.Handled {
			return
		}
		if t.obs != nil {
			t.obs.HandlerBegin(ev, node)
		}
		h(node, ev)
		if t.obs != nil {
			t.obs.HandlerEnd(ev, node)
		}
	}
}

// routeToRoot collects the combined-tree path from e up to the root,
// source first.
func routeToRoot(e visual.Element) []visual.Element {
	var route []visual.Element
	for node := e; node != nil; node = visual.ParentOf(node) {
		route = append(route, node)
	}
	return route
}
