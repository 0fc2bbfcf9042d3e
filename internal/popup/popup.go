// Package popup implements the dismissal-policy engine for popup-hosting
// controls: on every relevant input, capture, or context-menu notification
// it decides whether an open dropdown stays open, closes, or re-asserts
// exclusive pointer capture.
package popup

import (
	"popupkit/internal/visual"
)

// Popup is the overlay surface a drop-down control owns. The engine never
// creates, destroys, or lays one out; it only probes geometry through the
// optional Child root visual.
type Popup struct {
	Child visual.Element
}

// DropDownControl is the capability contract a control must satisfy to be
// managed by the Coordinator. IsDropDownOpen and IsContextMenuOpened are
// owned by the control and mutated only through these setters; the
// coordinator toggles the former and maintains the latter between a
// context menu's opening and closing notifications. DropDownPopup is only
// ever read.
type DropDownControl interface {
	visual.Element

	IsDropDownOpen() bool
	SetDropDownOpen(open bool)

	IsContextMenuOpened() bool
	SetContextMenuOpened(opened bool)

	DropDownPopup() *Popup
}
