package aperture

import (
	"errors"

	"github.com/benchray/benchray/pkg/geom"
	"github.com/benchray/benchray/pkg/scene"
)

var (
	// ErrZeroCenterLine is returned when the parent and child pivots
	// coincide and no trace axis exists.
	ErrZeroCenterLine = errors.New("center trace line has zero length")

	// ErrZeroProjection is returned when an element's up axis is parallel
	// to the center trace line, so its aperture has no perpendicular
	// extent to measure or scale.
	ErrZeroProjection = errors.New("aperture projection factor is zero")

	// ErrRadiusOutOfRange is returned when a derived radius falls outside
	// (0, scene.MaxRadius].
	ErrRadiusOutOfRange = errors.New("derived radius out of range")

	// ErrConeAngleOutOfRange is returned when a derived cone angle falls
	// outside [0, scene.MaxConeAngle].
	ErrConeAngleOutOfRange = errors.New("derived cone angle out of range")
)

// Side holds the projection data for one end of a parent/child pair.
type Side struct {
	WorldUp geom.Vec // up axis rotated into world space, flip applied
	Factor  float64  // |worldUp · perp|, 0 when up is parallel to the axis
	Extent  float64  // radius × Factor, the aperture's perpendicular reach
}

// Projection is the shared geometry both policy branches work from: the
// center trace line between the two pivots and each side's aperture extent
// perpendicular to it.
type Projection struct {
	Child  Side
	Parent Side
	Length float64  // center trace line length, always > 0
	Axis   geom.Vec // unit vector parent → child
	Perp   geom.Vec // unit vector perpendicular to Axis
}

// Compute builds the projection data for a child/parent pair.
//
// It returns ErrZeroCenterLine when the two pivots coincide. A projection
// factor of exactly zero is not an error here - the policy decides whether
// a zero factor on either side blocks the branch it is taking.
func Compute(child, parent *scene.Element) (Projection, error) {
	line := child.WorldPivot().Sub(parent.WorldPivot())
	length := line.Length()
	if length < geom.Epsilon {
		return Projection{}, ErrZeroCenterLine
	}

	axis := line.Scale(1 / length)
	perp := axis.Perp()

	return Projection{
		Child:  sideFor(child, perp),
		Parent: sideFor(parent, perp),
		Length: length,
		Axis:   axis,
		Perp:   perp,
	}, nil
}

func sideFor(e *scene.Element, perp geom.Vec) Side {
	up := e.WorldUp()
	factor := up.Dot(perp)
	if factor < 0 {
		factor = -factor
	}
	return Side{
		WorldUp: up,
		Factor:  factor,
		Extent:  e.Desc.Radius * factor,
	}
}
