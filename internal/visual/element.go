// Package visual defines the element-tree contracts the dismissal engine
// probes against. The engine never renders or hit-tests; it only asks an
// element for its rendered size and its parents, and asks the host where
// the pointer is relative to an element.
package visual

// Point is a position in an element's local coordinate space.
type Point struct {
	X float64
	Y float64
}

// Element is the minimal surface a node in the UI tree must expose.
// Controls, popup content, and menu items all implement it.
//
// VisualParent returns the parent in the rendering tree, or nil when the
// element is not parented there (e.g. menu content reparented into an
// overlay layer). LogicalParent returns the ownership parent, or nil at
// the root. Identity (pointer equality of the interface value) is what
// the ancestry walk compares.
type Element interface {
	RenderedSize() (width, height float64)
	VisualParent() Element
	LogicalParent() Element
}

// Pointer reports the current pointer position. Supplied by the host;
// the engine only ever reads it.
type Pointer interface {
	// PositionRelativeTo returns the pointer position translated into
	// e's local coordinate space.
	PositionRelativeTo(e Element) Point
}
