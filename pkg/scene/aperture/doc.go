// Package aperture implements the constraint engine that keeps every
// element's aperture radius and cone angle geometrically consistent with
// its parent as the scene is edited.
//
// # Pipeline
//
// Each evaluation runs in three steps:
//
//  1. [Compute] projects both apertures perpendicular to the center trace
//     line between the two pivots.
//  2. [Evaluate] applies the child's ray model (collimated, divergent,
//     convergent, or manual) to derive a new radius and cone angle, or
//     returns a sentinel error when the geometry is degenerate.
//  3. [Propagate] orchestrates evaluation across the changed element and
//     its whole descendant subtree via an explicit stack walk.
//
// [ResolveCrossing] is the companion placement helper: it decides which of
// the two mirror-image orientations of a newly created child avoids
// visually crossing rays.
//
// # Error semantics
//
// All functions are pure over the arena except the explicit Apply/Propagate
// write-backs, and none ever panics on degenerate geometry. Coincident
// pivots, a zero projection factor, and out-of-range derived values all
// surface as sentinel errors that callers must treat as "retain previous
// state". The editor stays interactive; the affected element simply stops
// auto-scaling until its geometry changes again.
package aperture
