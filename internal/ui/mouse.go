package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"popupkit/internal/popup"
	"popupkit/internal/routing"
)

// HandleMouse translates a terminal mouse event into routed notifications
// and demo-control behavior. Motion only moves the pointer; presses drive
// the engine.
func (h *Host) HandleMouse(msg tea.MouseMsg) {
	h.SetPointer(msg.X, msg.Y)
	if msg.Action != tea.MouseActionPress {
		return
	}

	btn := buttonFrom(msg.Button)
	hit := h.HitTest(msg.X, msg.Y)

	// An open context menu consumes the press: an item activates, any
	// other spot just closes the menu.
	if h.Ctx.Visible() {
		owner := h.Ctx.Owner()
		idx := h.Ctx.itemAt(msg.X, msg.Y)
		h.CloseContextMenu()
		if idx >= 0 && btn == routing.ButtonLeft && h.Ctx.Items[idx] == "close popup" {
			h.Coordinator.RaiseDismiss(owner, popup.DismissAlways)
		}
		return
	}

	// A press outside the captured subtree is reported to the holder
	// before anything else reacts.
	if holder := h.Capture.Holder(); holder != nil && !h.Capture.WithinCapture(hit) {
		h.Table.Dispatch(&routing.Event{
			Kind:     routing.KindPointerDownOutsideCapture,
			Strategy: routing.Bubble,
			Source:   holder,
			Payload: routing.PointerEvent{
				Button:   btn,
				Position: h.PositionRelativeTo(holder),
			},
		})
	}

	switch el := hit.(type) {
	case *MenuItem:
		switch btn {
		case routing.ButtonLeft:
			el.Surface().Owner().Selected = el.Index
			h.Coordinator.RaiseDismiss(el.Surface().Owner(), popup.DismissAlways)
		case routing.ButtonRight:
			h.OpenContextMenu(el.Surface().Owner(), msg.X, msg.Y)
		}
	case *MenuSurface:
		if btn == routing.ButtonRight {
			h.OpenContextMenu(el.Owner(), msg.X, msg.Y)
		}
	case *DropDownButton:
		if btn == routing.ButtonLeft {
			if el.IsDropDownOpen() {
				h.Coordinator.RaiseDismiss(el, popup.DismissAlways)
			} else {
				h.OpenDropDown(el)
			}
		}
	}
}

func buttonFrom(b tea.MouseButton) routing.Button {
	switch b {
	case tea.MouseButtonLeft:
		return routing.ButtonLeft
	case tea.MouseButtonMiddle:
		return routing.ButtonMiddle
	case tea.MouseButtonRight:
		return routing.ButtonRight
	default:
		return routing.ButtonNone
	}
}
