package scene

import (
	"fmt"

	"github.com/benchray/benchray/pkg/geom"
)

// RayModel selects how an element's aperture and cone angle are derived from
// its parent. The set is closed: exactly these four values are valid.
type RayModel int

const (
	// Collimated keeps the child's aperture projection equal to the
	// parent's and forces the cone angle to zero.
	Collimated RayModel = iota
	// Divergent measures a cone angle once, on first propagation, and from
	// then on only adapts the radius as the distance to the parent changes.
	Divergent
	// Convergent recomputes the cone angle from the child's current radius
	// on every propagation and re-derives the radius from that angle.
	Convergent
	// Manual leaves radius and cone angle under direct user control; only
	// the derived aperture endpoints are refreshed.
	Manual
)

var modelNames = map[RayModel]string{
	Collimated: "collimated",
	Divergent:  "divergent",
	Convergent: "convergent",
	Manual:     "manual",
}

var modelValues = map[string]RayModel{
	"collimated": Collimated,
	"divergent":  Divergent,
	"convergent": Convergent,
	"manual":     Manual,
}

// String returns the serialization name of the model.
func (m RayModel) String() string {
	if s, ok := modelNames[m]; ok {
		return s
	}
	return fmt.Sprintf("RayModel(%d)", int(m))
}

// Valid reports whether m is one of the four defined models.
func (m RayModel) Valid() bool {
	_, ok := modelNames[m]
	return ok
}

// ParseRayModel converts a serialization name back to a RayModel.
// Returns false for names outside the closed four-value set.
func ParseRayModel(s string) (RayModel, bool) {
	m, ok := modelValues[s]
	return m, ok
}

// Radius and cone-angle bounds. Derived radii must land in (0, MaxRadius];
// stored radii may be anywhere in [0, MaxRadius]. Cone angles are half-angles
// in degrees and live in [0, MaxConeAngle].
const (
	MaxRadius    = 200.0
	MaxConeAngle = 90.0
)

// Descriptor is the per-instance geometry of an element. Every element owns
// an independent copy: flipping or rescaling one element never affects
// another element of the same type.
type Descriptor struct {
	Pivot     geom.Vec // local pivot offset (rotation center)
	Up        geom.Vec // unit up axis, local frame
	Forward   geom.Vec // unit forward axis, local frame
	Radius    float64  // aperture radius, [0, MaxRadius]
	ConeAngle float64  // half-angle in degrees, [0, MaxConeAngle]
	Model     RayModel
	Flipped   bool // up axis sign state, preserved across serialization
}

// EffectiveUp returns the up axis with the flip state applied.
func (d Descriptor) EffectiveUp() geom.Vec {
	if d.Flipped {
		return d.Up.Neg()
	}
	return d.Up
}

// Element is one positioned, rotatable node of a scene. Children holds
// back-references only; the arena owns all elements.
type Element struct {
	ID       int
	Type     string
	X, Y     float64 // world position of the rotation pivot
	Rotation float64 // degrees, screen convention
	ParentID int     // 0 = root
	Children []int
	Visible  bool
	Desc     Descriptor
}

// Position returns the element's world position as a vector.
func (e *Element) Position() geom.Vec { return geom.V(e.X, e.Y) }

// WorldUp returns the element's up axis rotated into world space,
// flip state included.
func (e *Element) WorldUp() geom.Vec {
	return geom.Rotate(e.Desc.EffectiveUp(), e.Rotation)
}

// WorldPivot returns the pivot's world coordinates. By construction this is
// the element position for any rotation.
func (e *Element) WorldPivot() geom.Vec {
	return geom.ToGlobal(e.Desc.Pivot, e.Desc.Pivot, e.Rotation, e.Position())
}

// ApertureEndpoints returns the two world-space aperture endpoints,
// pivot ± up·radius. Endpoints are always recomputed from pivot, up axis and
// radius; they are never stored.
func (e *Element) ApertureEndpoints() (upper, lower geom.Vec) {
	up := e.Desc.EffectiveUp().Scale(e.Desc.Radius)
	upper = geom.ToGlobal(e.Desc.Pivot.Add(up), e.Desc.Pivot, e.Rotation, e.Position())
	lower = geom.ToGlobal(e.Desc.Pivot.Sub(up), e.Desc.Pivot, e.Rotation, e.Position())
	return upper, lower
}
