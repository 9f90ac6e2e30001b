// Package scene holds the element arena for schematic optical layouts.
//
// A scene is a forest of positioned, rotatable elements. Each element has a
// stable integer ID, a world position and rotation, at most one parent, and
// an owned geometry [Descriptor] describing its aperture: a local pivot, an
// up axis, a radius, a cone angle, and a [RayModel].
//
// # Arena design
//
// Elements are stored in a single id-keyed map. Parent and child links are
// integer IDs only - no element holds a pointer to another - so insertion,
// removal, and reparenting are local operations on the arena and the
// aperture engine in the aperture subpackage can walk the tree with an
// explicit stack, fully decoupled from any rendering surface.
//
// # Derived state
//
// For a parented element whose model is not [Manual], the radius and cone
// angle are derived: the aperture engine recomputes them whenever the
// element's own transform or its parent's transform or geometry changes.
// Aperture endpoints (pivot ± up·radius) are always recomputed on demand
// via [Element.ApertureEndpoints] and never persisted.
package scene
