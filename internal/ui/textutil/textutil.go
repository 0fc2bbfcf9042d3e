// Package textutil provides unicode-aware text helpers for cell-grid
// rendering: visual widths, clipping, and padding.
package textutil

import (
	"github.com/mattn/go-runewidth"
)

// Ellipsis is appended by Truncate when a string is shortened.
const Ellipsis = "…"

// VisualWidth returns the number of terminal columns s occupies.
func VisualWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Clip hard-clips s to at most maxWidth visual columns. A wide rune that
// straddles the boundary is dropped entirely.
func Clip(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisualWidth(s) <= maxWidth {
		return s
	}
	w := 0
	runes := []rune(s)
	for i, r := range runes {
		rw := runewidth.RuneWidth(r)
		if w+rw > maxWidth {
			return string(runes[:i])
		}
		w += rw
	}
	return s
}

// Truncate shortens s to fit maxWidth visual columns, appending an
// ellipsis when anything was cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisualWidth(s) <= maxWidth {
		return s
	}
	avail := maxWidth - VisualWidth(Ellipsis)
	if avail <= 0 {
		return Ellipsis
	}
	return Clip(s, avail) + Ellipsis
}

// PadRightVisual pads s with spaces to exactly targetWidth visual
// columns, truncating first if it is already wider.
func PadRightVisual(s string, targetWidth int) string {
	w := VisualWidth(s)
	if w >= targetWidth {
		return Truncate(s, targetWidth)
	}
	return s + runewidth.FillRight("", targetWidth-w)
}
