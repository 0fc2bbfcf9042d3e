// Package routing implements the routed-notification substrate the
// dismissal engine runs on: event records with bubble/tunnel strategies,
// a class-handler table keyed by control type, and dispatch that walks
// the combined element hierarchy until a handler marks the event handled.
package routing

import "popupkit/internal/visual"

// Kind names a notification. Kinds are the registration key alongside the
// control type; packages that raise an event own its kind constant.
type Kind string

// Input and capture kinds raised by the host.
const (
	// KindPointerDownOutsideCapture is delivered to the capture holder
	// when a button press lands outside the captured subtree.
	KindPointerDownOutsideCapture Kind = "pointer.down-outside-capture"

	// KindLostPointerCapture bubbles from the element that lost capture.
	KindLostPointerCapture Kind = "pointer.lost-capture"

	// KindContextMenuOpening tunnels to the control a context menu is
	// opening on, before its children see it.
	KindContextMenuOpening Kind = "contextmenu.opening"

	// KindContextMenuClosing tunnels to the control when its context
	// menu goes away.
	KindContextMenuClosing Kind = "contextmenu.closing"
)

// Strategy selects how dispatch walks the hierarchy.
type Strategy uint8

const (
	// Direct delivers to the source element only.
	Direct Strategy = iota
	// Bubble delivers from the source up to the root.
	Bubble
	// Tunnel delivers from the root down to the source.
	Tunnel
)

// String returns a short name for the strategy.
func (s Strategy) String() string {
	switch s {
	case Bubble:
		return "bubble"
	case Tunnel:
		return "tunnel"
	default:
		return "direct"
	}
}

// Button identifies a pointer button on a PointerEvent payload.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// String returns the conventional button name.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// PointerEvent is the payload of pointer kinds.
type PointerEvent struct {
	Button   Button
	Position visual.Point
}

// Event is a single routed notification. Source is the element the event
// originated at and never changes while the event routes; handlers receive
// the node currently being visited as their sender. Setting Handled stops
// any further delivery.
type Event struct {
	Kind     Kind
	Strategy Strategy
	Source   visual.Element
	Handled  bool
	Payload  any
}
