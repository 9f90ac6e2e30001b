package aperture

import (
	"math"

	"github.com/benchray/benchray/pkg/geom"
	"github.com/benchray/benchray/pkg/scene"
)

// Update is the result of a successful policy evaluation: the child's new
// aperture radius and cone angle. Apply writes it back to the element.
type Update struct {
	Radius    float64
	ConeAngle float64 // degrees
}

// Apply writes the update into the element's descriptor.
func (u Update) Apply(e *scene.Element) {
	e.Desc.Radius = u.Radius
	e.Desc.ConeAngle = u.ConeAngle
}

// Evaluate computes a child's new radius and cone angle from its parent's
// state according to the child's ray model. It is pure: nothing is written
// to either element.
//
// Every failure mode - coincident pivots, a zero projection factor on the
// side the branch needs, or a derived value outside its valid range -
// returns a sentinel error. Callers must treat any error as "retain the
// previous aperture state"; the next geometry change will naturally trigger
// a fresh evaluation.
//
// Under [scene.Manual] the radius and cone angle are user-owned, so
// Evaluate returns them unchanged and the caller only refreshes the derived
// endpoints (which are recomputed on demand anyway).
func Evaluate(child, parent *scene.Element) (Update, error) {
	if child.Desc.Model == scene.Manual {
		return Update{Radius: child.Desc.Radius, ConeAngle: child.Desc.ConeAngle}, nil
	}

	proj, err := Compute(child, parent)
	if err != nil {
		return Update{}, err
	}

	switch child.Desc.Model {
	case scene.Collimated:
		return evaluateCollimated(child, proj)
	case scene.Divergent:
		return evaluateDivergent(child, parent, proj)
	default:
		return evaluateConvergent(child, proj)
	}
}

// evaluateCollimated matches the child's aperture projection to the
// parent's. The cone angle is forced to zero.
func evaluateCollimated(child *scene.Element, proj Projection) (Update, error) {
	if proj.Child.Factor < geom.Epsilon {
		return Update{}, ErrZeroProjection
	}

	// child.Extent == radius·factor, so scaling radius by target/extent
	// is the same as target/factor; keep the ratio form from the policy
	// definition so a zero current extent is caught by the factor check.
	radius := child.Desc.Radius * (proj.Parent.Extent / proj.Child.Extent)
	if err := checkRadius(radius); err != nil {
		return Update{}, err
	}
	return Update{Radius: radius, ConeAngle: 0}, nil
}

// evaluateDivergent derives the child's cone from the parent. When the
// parent carries no cone of its own (collimated model or zero angle), the
// child's angle is measured once from its current aperture and distance and
// then held fixed - only the radius adapts as the distance changes. This
// keeps the angle from drifting while the element is dragged. When the
// parent does carry a cone, the child inherits the parent's angle verbatim.
func evaluateDivergent(child, parent *scene.Element, proj Projection) (Update, error) {
	parentFlat := parent.Desc.Model == scene.Collimated || parent.Desc.ConeAngle == 0

	if parentFlat {
		if stored := child.Desc.ConeAngle; stored > 0 {
			radius, err := radiusForCone(stored, proj)
			if err != nil {
				return Update{}, err
			}
			return Update{Radius: radius, ConeAngle: stored}, nil
		}

		// First measurement: fix the angle, keep the radius.
		angle := coneFromExtent(proj.Child.Extent, proj.Length)
		if err := checkConeAngle(angle); err != nil {
			return Update{}, err
		}
		return Update{Radius: child.Desc.Radius, ConeAngle: angle}, nil
	}

	angle := parent.Desc.ConeAngle
	radius, err := radiusForCone(angle, proj)
	if err != nil {
		return Update{}, err
	}
	return Update{Radius: radius, ConeAngle: angle}, nil
}

// evaluateConvergent refreshes the cone angle from the child's current
// radius and then re-derives the radius from that same angle. Within one
// call the two steps nearly cancel; the structure is kept deliberately
// because downstream behavior depends on the angle being refreshed every
// pass rather than persisted (see DESIGN.md).
func evaluateConvergent(child *scene.Element, proj Projection) (Update, error) {
	angle := coneFromExtent(proj.Child.Extent, proj.Length)
	if err := checkConeAngle(angle); err != nil {
		return Update{}, err
	}

	radius, err := radiusForCone(angle, proj)
	if err != nil {
		return Update{}, err
	}
	return Update{Radius: radius, ConeAngle: angle}, nil
}

// coneFromExtent measures the half-angle, in degrees, subtended by an
// aperture extent at the far end of the trace line.
func coneFromExtent(extent, length float64) float64 {
	return math.Atan(extent/length) * 180 / math.Pi
}

// radiusForCone solves the radius whose projection matches the envelope of
// the given cone at the current trace-line length:
//
//	targetExtent = length · tan(angle)
//	radius = targetExtent / factor
func radiusForCone(angleDeg float64, proj Projection) (float64, error) {
	if proj.Child.Factor < geom.Epsilon {
		return 0, ErrZeroProjection
	}
	target := proj.Length * math.Tan(angleDeg*math.Pi/180)
	radius := target / proj.Child.Factor
	if err := checkRadius(radius); err != nil {
		return 0, err
	}
	return radius, nil
}

func checkRadius(r float64) error {
	if r <= 0 || r > scene.MaxRadius || math.IsNaN(r) || math.IsInf(r, 0) {
		return ErrRadiusOutOfRange
	}
	return nil
}

func checkConeAngle(a float64) error {
	if a < 0 || a > scene.MaxConeAngle || math.IsNaN(a) {
		return ErrConeAngleOutOfRange
	}
	return nil
}
