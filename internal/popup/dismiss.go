package popup

import "popupkit/internal/routing"

// KindDismiss is the bubble-routed dismissal signal. Any control wanting
// its popup re-evaluated raises it through the Coordinator.
const KindDismiss routing.Kind = "popup.dismiss"

// DismissMode selects how insistent a dismissal is. The zero value is
// DismissAlways.
type DismissMode uint8

const (
	// DismissAlways closes the popup unconditionally.
	DismissAlways DismissMode = iota

	// DismissMouseNotOver closes the popup only when the pointer is not
	// physically over it; otherwise the popup survives and the control
	// re-asserts capture if it lost it. Advisory and self-correcting.
	DismissMouseNotOver
)

// String returns a short name for the mode.
func (m DismissMode) String() string {
	if m == DismissMouseNotOver {
		return "mouse-not-over"
	}
	return "always"
}
