package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme colors used throughout the demo
const (
	ColorAccent    = "86"  // Cyan/green - titles, open buttons
	ColorHighlight = "205" // Magenta - selected menu rows
	ColorMuted     = "241" // Gray - dimmed text, hints
	ColorText      = "252" // Light gray - normal text
	ColorWarning   = "208" // Orange - context menu
)

// Style identifiers for canvas cells. StylePlain renders unstyled.
const (
	StylePlain = iota
	StyleTitle
	StyleButton
	StyleButtonOpen
	StyleMenu
	StyleMenuSelected
	StyleContextMenu
	StyleStatus
	StyleHint
)

// Palette maps canvas style identifiers to lipgloss styles, shared across
// the demo surfaces.
var Palette = []lipgloss.Style{
	StylePlain: lipgloss.NewStyle(),
	StyleTitle: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	StyleButton: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)).
		Background(lipgloss.Color("237")),
	StyleButtonOpen: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color(ColorAccent)),
	StyleMenu: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)).
		Background(lipgloss.Color("236")),
	StyleMenuSelected: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color(ColorHighlight)),
	StyleContextMenu: lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color(ColorWarning)),
	StyleStatus: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	StyleHint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
}
