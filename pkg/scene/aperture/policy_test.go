package aperture

import (
	"errors"
	"math"
	"testing"

	"github.com/benchray/benchray/pkg/geom"
	"github.com/benchray/benchray/pkg/scene"
)

const tol = 1e-9

// element builds a test element at (x, y) with the given rotation, radius,
// and model. The up axis is (0,-1), the usual screen-space "up".
func element(x, y, rotation, radius float64, model scene.RayModel) *scene.Element {
	return &scene.Element{
		X:        x,
		Y:        y,
		Rotation: rotation,
		Visible:  true,
		Desc: scene.Descriptor{
			Up:      geom.V(0, -1),
			Forward: geom.V(1, 0),
			Radius:  radius,
			Model:   model,
		},
	}
}

func TestComputeProjectionsAxisAligned(t *testing.T) {
	parent := element(0, 0, 0, 15, scene.Collimated)
	child := element(150, 0, 0, 15, scene.Collimated)

	proj, err := Compute(child, parent)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if math.Abs(proj.Length-150) > tol {
		t.Errorf("Length = %v, want 150", proj.Length)
	}
	if math.Abs(proj.Child.Factor-1) > tol || math.Abs(proj.Parent.Factor-1) > tol {
		t.Errorf("factors = %v, %v, want 1, 1", proj.Child.Factor, proj.Parent.Factor)
	}
	if math.Abs(proj.Child.Extent-15) > tol {
		t.Errorf("child extent = %v, want 15", proj.Child.Extent)
	}
}

func TestComputeProjectionsCoincidentPivots(t *testing.T) {
	parent := element(10, 10, 0, 15, scene.Collimated)
	child := element(10, 10, 45, 20, scene.Divergent)

	if _, err := Compute(child, parent); !errors.Is(err, ErrZeroCenterLine) {
		t.Errorf("err = %v, want ErrZeroCenterLine", err)
	}
}

// Scenario A: both projection factors 1, matching radii - the collimated
// policy recomputes the same radius and performs no effective change.
func TestCollimatedAlreadyMatched(t *testing.T) {
	parent := element(0, 0, 0, 15, scene.Collimated)
	child := element(150, 0, 0, 15, scene.Collimated)

	upd, err := Evaluate(child, parent)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if math.Abs(upd.Radius-15) > tol {
		t.Errorf("Radius = %v, want 15", upd.Radius)
	}
	if upd.ConeAngle != 0 {
		t.Errorf("ConeAngle = %v, want 0 (collimated forces zero)", upd.ConeAngle)
	}
}

// Scenario B: the child rotated 90° has its up axis along the trace line,
// so its projection factor is 0 and the policy cannot compute.
func TestCollimatedZeroProjectionFactor(t *testing.T) {
	parent := element(0, 0, 0, 15, scene.Collimated)
	child := element(150, 0, 90, 15, scene.Collimated)

	if _, err := Evaluate(child, parent); !errors.Is(err, ErrZeroProjection) {
		t.Errorf("err = %v, want ErrZeroProjection", err)
	}
}

// After a collimated evaluation, the child's aperture projection equals the
// parent's even when the child is tilted.
func TestCollimatedMatchesParentProjection(t *testing.T) {
	parent := element(0, 0, 0, 20, scene.Collimated)
	child := element(100, 40, 30, 5, scene.Collimated)

	upd, err := Evaluate(child, parent)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	upd.Apply(child)

	proj, err := Compute(child, parent)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if math.Abs(proj.Child.Extent-proj.Parent.Extent) > 1e-6 {
		t.Errorf("child extent %v != parent extent %v", proj.Child.Extent, proj.Parent.Extent)
	}
}

func TestCollimatedRejectsOversizedRadius(t *testing.T) {
	parent := element(0, 0, 0, 150, scene.Collimated)
	// Tilted child needs radius extent/factor > MaxRadius to match.
	child := element(200, 0, 80, 10, scene.Collimated)

	if _, err := Evaluate(child, parent); !errors.Is(err, ErrRadiusOutOfRange) {
		t.Errorf("err = %v, want ErrRadiusOutOfRange", err)
	}
}

// Scenario C: first divergent propagation measures the cone angle; later
// propagations at other distances keep the angle and adapt the radius.
func TestDivergentFirstMeasurementThenRadiusOnly(t *testing.T) {
	parent := element(0, 0, 0, 15, scene.Collimated)
	child := element(100, 0, 0, 10, scene.Divergent)

	upd, err := Evaluate(child, parent)
	if err != nil {
		t.Fatalf("first Evaluate: %v", err)
	}
	wantAngle := math.Atan(10.0/100.0) * 180 / math.Pi // ≈ 5.71°
	if math.Abs(upd.ConeAngle-wantAngle) > tol {
		t.Errorf("ConeAngle = %v, want %v", upd.ConeAngle, wantAngle)
	}
	if math.Abs(upd.Radius-10) > tol {
		t.Errorf("Radius = %v, want unchanged 10", upd.Radius)
	}
	upd.Apply(child)

	// Move the child closer: the stored angle must survive, the radius
	// must shrink to 50·tan(angle) ≈ 5.
	child.X = 50
	upd2, err := Evaluate(child, parent)
	if err != nil {
		t.Fatalf("second Evaluate: %v", err)
	}
	if math.Abs(upd2.ConeAngle-wantAngle) > tol {
		t.Errorf("stored angle drifted: %v, want %v", upd2.ConeAngle, wantAngle)
	}
	if math.Abs(upd2.Radius-5) > 1e-6 {
		t.Errorf("Radius = %v, want ≈5", upd2.Radius)
	}
}

func TestDivergentInheritsParentCone(t *testing.T) {
	parent := element(0, 0, 0, 15, scene.Divergent)
	parent.Desc.ConeAngle = 10

	child := element(200, 0, 0, 10, scene.Divergent)
	child.Desc.ConeAngle = 4 // stale own angle, must be overridden

	upd, err := Evaluate(child, parent)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if upd.ConeAngle != 10 {
		t.Errorf("ConeAngle = %v, want parent's 10", upd.ConeAngle)
	}
	wantRadius := 200 * math.Tan(10*math.Pi/180)
	if math.Abs(upd.Radius-wantRadius) > 1e-9 {
		t.Errorf("Radius = %v, want %v", upd.Radius, wantRadius)
	}
}

// After a convergent evaluation the aperture projection equals
// length · tan(coneAngle) where the angle came from the pre-evaluation
// radius.
func TestConvergentFreshAngleEachPass(t *testing.T) {
	parent := element(0, 0, 0, 15, scene.Collimated)
	child := element(120, 0, 0, 12, scene.Convergent)

	upd, err := Evaluate(child, parent)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	wantAngle := math.Atan(12.0/120.0) * 180 / math.Pi
	if math.Abs(upd.ConeAngle-wantAngle) > tol {
		t.Errorf("ConeAngle = %v, want %v", upd.ConeAngle, wantAngle)
	}
	upd.Apply(child)

	proj, _ := Compute(child, parent)
	want := proj.Length * math.Tan(upd.ConeAngle*math.Pi/180)
	if math.Abs(proj.Child.Extent-want) > 1e-6 {
		t.Errorf("extent = %v, want length·tan(angle) = %v", proj.Child.Extent, want)
	}

	// Unlike divergent, the angle is never sticky: grow the radius and the
	// next pass measures a bigger angle instead of reusing the stored one.
	child.Desc.Radius = 24
	upd2, err := Evaluate(child, parent)
	if err != nil {
		t.Fatalf("second Evaluate: %v", err)
	}
	bigger := math.Atan(24.0/120.0) * 180 / math.Pi
	if math.Abs(upd2.ConeAngle-bigger) > tol {
		t.Errorf("ConeAngle = %v, want freshly measured %v", upd2.ConeAngle, bigger)
	}
}

func TestManualLeavesRadiusAlone(t *testing.T) {
	parent := element(0, 0, 0, 15, scene.Collimated)
	child := element(75, 0, 0, 33, scene.Manual)
	child.Desc.ConeAngle = 12

	upd, err := Evaluate(child, parent)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if upd.Radius != 33 || upd.ConeAngle != 12 {
		t.Errorf("manual update = %+v, want radius 33, angle 12 untouched", upd)
	}

	// Manual never depends on projection geometry: coincident pivots are
	// fine because nothing needs the trace line.
	child.X, child.Y = 0, 0
	if _, err := Evaluate(child, parent); err != nil {
		t.Errorf("manual Evaluate with coincident pivots: %v", err)
	}
}
