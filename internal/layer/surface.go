// Package layer models the renderable node tree the engine animates.
//
// The engine talks to a Surface: it creates layers, attaches them to a
// parent, updates their model values (transform, double-sidedness, anchor,
// position) and removes them. Rendering a Surface is the host's business.
// Tree is the in-memory Surface used by every host in this module.
package layer

// ID identifies a layer on a Surface. The zero ID is never a live layer.
type ID uint64

// NoLayer is the zero ID.
const NoLayer ID = 0

// Props are the initial model values of a new layer.
type Props struct {
	Content           string // album identifier; empty for containers
	Frame             Rect
	DoubleSided       bool
	Transform         Transform // zero value means identity
	SublayerTransform Transform // zero value means identity
}

// Surface is the layer capability consumed by the engine.
//
// Implementations are not required to be safe for concurrent use; the
// engine only calls them from its single event-processing context.
type Surface interface {
	// Root returns the root layer. It always exists and cannot be removed.
	Root() ID

	// NewLayer creates a detached layer.
	NewLayer(p Props) ID

	// AddSublayer attaches child to parent, detaching it from any previous parent.
	AddSublayer(parent, child ID)

	// Remove detaches id from its parent and destroys it with its sublayers.
	// Removing an unknown layer is a no-op.
	Remove(id ID)

	SetTransform(id ID, t Transform)
	SetSublayerTransform(id ID, t Transform)
	SetDoubleSided(id ID, v bool)

	// SetAnchor sets the unit-space anchor point; SetPosition places that
	// anchor in the parent's coordinate space.
	SetAnchor(id ID, anchor Point)
	SetPosition(id ID, p Point)
}
