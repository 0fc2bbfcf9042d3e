package ui

import (
	"popupkit/internal/popup"
	"popupkit/internal/visual"
)

// Bounds is an element's screen-space rectangle in terminal cells.
type Bounds struct {
	X, Y, W, H int
}

// Contains reports whether the screen cell (x, y) lies inside the rect.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// region is the embeddable screen placement of a demo element. The probe
// treats both edges of the rendered extent as inclusive, so a W-cell-wide
// element reports its far cell index: local X runs 0..W-1.
type region struct {
	bounds Bounds
}

func (r *region) Bounds() Bounds { return r.bounds }
func (r *region) SetBounds(b Bounds) { r.bounds = b }
func (r *region) RenderedSize() (float64, float64) {
	return float64(r.bounds.W - 1), float64(r.bounds.H - 1)
}

// RootPane is the application surface everything else sits on.
type RootPane struct {
	region
}

func (p *RootPane) VisualParent() visual.Element { return nil }
func (p *RootPane) LogicalParent() visual.Element { return nil }

// DropDownButton is a control hosting a popup menu. It satisfies the
// drop-down capability contract, so the Coordinator manages when its
// popup closes.
type DropDownButton struct {
	region
	Label    string
	Selected int

	parent   visual.Element
	open     bool
	menuOpen bool
	menu     *MenuSurface
	pop      *popup.Popup
}

// NewDropDownButton creates a button with a popup menu of the given items.
func NewDropDownButton(label string, items []string, parent visual.Element) *DropDownButton {
	b := &DropDownButton{Label: label, parent: parent, Selected: -1}
	b.menu = newMenuSurface(b, items)
	b.pop = &popup.Popup{Child: b.menu}
	return b
}

func (b *DropDownButton) VisualParent() visual.Element { return b.parent }
func (b *DropDownButton) LogicalParent() visual.Element { return nil }

func (b *DropDownButton) IsDropDownOpen() bool { return b.open }
func (b *DropDownButton) SetDropDownOpen(open bool) { b.open = open }
func (b *DropDownButton) IsContextMenuOpened() bool { return b.menuOpen }
func (b *DropDownButton) SetContextMenuOpened(opened bool) { b.menuOpen = opened }
func (b *DropDownButton) DropDownPopup() *popup.Popup { return b.pop }

// Menu returns the popup's menu surface.
func (b *DropDownButton) Menu() *MenuSurface { return b.menu }

// MenuSurface is the popup's child root. It renders in an overlay layer,
// so it has no visual parent; only the logical link back to its owner
// keeps it in the tree. The ancestry probe's logical fallback is what
// makes content under it count as "inside the popup".
type MenuSurface struct {
	region
	owner *DropDownButton
	items []*MenuItem
}

func newMenuSurface(owner *DropDownButton, labels []string) *MenuSurface {
	s := &MenuSurface{owner: owner}
	for i, l := range labels {
		s.items = append(s.items, &MenuItem{surface: s, Index: i, Label: l})
	}
	return s
}

func (s *MenuSurface) VisualParent() visual.Element { return nil }
func (s *MenuSurface) LogicalParent() visual.Element { return s.owner }

// Owner returns the control hosting this surface.
func (s *MenuSurface) Owner() *DropDownButton { return s.owner }

// Items returns the surface's menu items.
func (s *MenuSurface) Items() []*MenuItem { return s.items }

// MenuItem is one row of a popup menu.
type MenuItem struct {
	region
	Index   int
	Label   string
	surface *MenuSurface
}

func (m *MenuItem) VisualParent() visual.Element { return m.surface }
func (m *MenuItem) LogicalParent() visual.Element { return nil }

// Surface returns the menu surface the item belongs to.
func (m *MenuItem) Surface() *MenuSurface { return m.surface }

// ContextMenu is the right-click menu. Like the popup surface it lives in
// an overlay layer; its logical owner is the control it was opened on.
// It is deliberately not a descendant of the popup child: capturing to it
// would dismiss the popup if the coordinator's context-menu suppression
// did not hold.
type ContextMenu struct {
	region
	Items   []string
	visible bool
	owner   *DropDownButton
}

func (m *ContextMenu) VisualParent() visual.Element { return nil }
func (m *ContextMenu) LogicalParent() visual.Element {
	if m.owner == nil {
		return nil
	}
	return m.owner
}

// Visible reports whether the menu is showing.
func (m *ContextMenu) Visible() bool { return m.visible }

// Owner returns the control the menu was opened on, or nil.
func (m *ContextMenu) Owner() *DropDownButton { return m.owner }

// itemAt returns the index of the menu row at screen cell (x, y), or -1.
func (m *ContextMenu) itemAt(x, y int) int {
	if !m.visible || !m.bounds.Contains(x, y) {
		return -1
	}
	return y - m.bounds.Y
}
