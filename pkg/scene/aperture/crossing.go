package aperture

import (
	"github.com/benchray/benchray/pkg/geom"
	"github.com/benchray/benchray/pkg/scene"
)

// ConnectionSegments builds the two ray segments drawn between a parent and
// a child, as implied by the child's ray model:
//
//   - collimated: parent upper endpoint → child upper endpoint, and lower →
//     lower (a parallel envelope).
//   - divergent: parent pivot → each child endpoint (rays fan out from the
//     parent's center).
//   - convergent: each parent endpoint → child pivot (rays focus onto the
//     child's center).
//
// Manual elements draw a straight envelope, so they use the collimated
// endpoint-to-endpoint pairing.
func ConnectionSegments(child, parent *scene.Element) (geom.Segment, geom.Segment) {
	childUpper, childLower := child.ApertureEndpoints()
	parentUpper, parentLower := parent.ApertureEndpoints()

	switch child.Desc.Model {
	case scene.Divergent:
		pivot := parent.WorldPivot()
		return geom.Segment{A: pivot, B: childUpper}, geom.Segment{A: pivot, B: childLower}
	case scene.Convergent:
		pivot := child.WorldPivot()
		return geom.Segment{A: parentUpper, B: pivot}, geom.Segment{A: parentLower, B: pivot}
	default:
		return geom.Segment{A: parentUpper, B: childUpper}, geom.Segment{A: parentLower, B: childLower}
	}
}

// Crosses reports whether the child's two connection segments to the parent
// intersect each other. Near-parallel segments (intersection determinant
// below geom.Epsilon) never count as crossing.
func Crosses(child, parent *scene.Element) bool {
	s1, s2 := ConnectionSegments(child, parent)
	return geom.SegmentsIntersect(s1, s2)
}

// ResolveCrossing picks, for a freshly placed child, whichever of the two
// mirror-image up-axis orientations avoids visually crossing rays. It
// returns the flip state the child should adopt.
//
// The original orientation wins ties: if neither orientation crosses, or
// both do, the child keeps the flip state it was proposed with. The check
// with the negated up axis recomputes the aperture endpoints on a copy, so
// the caller's element - and any other element sharing its type - is never
// touched.
func ResolveCrossing(child, parent *scene.Element) bool {
	if !Crosses(child, parent) {
		return child.Desc.Flipped
	}

	flipped := *child
	flipped.Desc.Flipped = !child.Desc.Flipped
	if !Crosses(&flipped, parent) {
		return flipped.Desc.Flipped
	}
	return child.Desc.Flipped
}
