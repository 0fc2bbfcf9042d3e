package visual

// IsPointOver reports whether p lies within e's rendered bounds, expressed
// in e's local coordinate space. Both edges are inclusive, so a pointer
// resting exactly on the far border still counts as over the element.
func IsPointOver(e Element, p Point) bool {
	if e == nil {
		return false
	}
	w, h := e.RenderedSize()
	return p.X >= 0 && p.X <= w && p.Y >= 0 && p.Y <= h
}

// IsAncestorOf reports whether parent appears on the upward walk from e,
// comparing nodes by identity. The relation is reflexive: an element is
// its own ancestor. A nil element (or nil parent) is nobody's relative.
//
// Each step prefers the visual parent and falls back to the logical parent
// only when the visual parent is absent at that node. Popup-hosted content
// often has mixed-tree ancestry (a menu reparented into an overlay layer
// keeps only its logical parent), so the fallback is evaluated per step
// rather than choosing one tree up front.
func IsAncestorOf(parent, e Element) bool {
	if parent == nil || e == nil {
		return false
	}
	for node := e; node != nil; node = ParentOf(node) {
		if node == parent {
			return true
		}
	}
	return false
}

// ParentOf returns the next node of the combined-tree walk: the visual
// parent when present, otherwise the logical parent.
func ParentOf(e Element) Element {
	if p := e.VisualParent(); p != nil {
		return p
	}
	return e.LogicalParent()
}
