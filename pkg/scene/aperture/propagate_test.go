package aperture

import (
	"math"
	"testing"

	"github.com/benchray/benchray/pkg/scene"
)

func insert(t *testing.T, s *scene.Scene, e *scene.Element, parent int) int {
	t.Helper()
	id, err := s.Insert(*e, parent)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	return id
}

func TestPropagateCascadesToDescendants(t *testing.T) {
	s := scene.New()
	root := insert(t, s, element(0, 0, 0, 20, scene.Collimated), 0)
	mid := insert(t, s, element(100, 0, 0, 5, scene.Collimated), root)
	leaf := insert(t, s, element(200, 0, 0, 5, scene.Collimated), mid)

	updated := Propagate(s, root)
	if updated != 2 {
		t.Errorf("updated = %d, want 2 (root is never auto-scaled)", updated)
	}

	for _, id := range []int{mid, leaf} {
		e, _ := s.Element(id)
		if math.Abs(e.Desc.Radius-20) > 1e-9 {
			t.Errorf("element %d radius = %v, want 20", id, e.Desc.Radius)
		}
	}
}

func TestPropagateRootNotScaled(t *testing.T) {
	s := scene.New()
	root := insert(t, s, element(0, 0, 0, 20, scene.Collimated), 0)

	if updated := Propagate(s, root); updated != 0 {
		t.Errorf("updated = %d, want 0 for a lone root", updated)
	}
	e, _ := s.Element(root)
	if e.Desc.Radius != 20 {
		t.Errorf("root radius changed to %v", e.Desc.Radius)
	}
}

// A degenerate node keeps its prior state but must not stop the walk: its
// own children are still re-evaluated against it.
func TestPropagateContinuesPastNoOp(t *testing.T) {
	s := scene.New()
	root := insert(t, s, element(0, 0, 0, 20, scene.Collimated), 0)
	// Rotated 90°: projection factor 0 against a horizontal trace line.
	blocked := insert(t, s, element(100, 0, 90, 5, scene.Collimated), root)
	// Below the blocked element; rotated so its up axis has perpendicular
	// extent against the vertical trace line.
	leaf := insert(t, s, element(100, 80, 90, 2, scene.Collimated), blocked)

	updated := Propagate(s, root)
	if updated != 1 {
		t.Errorf("updated = %d, want 1 (leaf only)", updated)
	}

	be, _ := s.Element(blocked)
	if be.Desc.Radius != 5 {
		t.Errorf("blocked element radius = %v, want prior 5 retained", be.Desc.Radius)
	}

	// The walk continued past the no-op node: the leaf matched the blocked
	// parent's projection (5) instead of keeping its own radius 2.
	le, _ := s.Element(leaf)
	if math.Abs(le.Desc.Radius-5) > 1e-9 {
		t.Errorf("leaf radius = %v, want 5 via the no-op parent", le.Desc.Radius)
	}
}

func TestPropagateAfterMove(t *testing.T) {
	s := scene.New()
	root := insert(t, s, element(0, 0, 0, 15, scene.Collimated), 0)
	div := insert(t, s, element(100, 0, 0, 10, scene.Divergent), root)

	Propagate(s, root)
	de, _ := s.Element(div)
	firstAngle := de.Desc.ConeAngle
	if firstAngle <= 0 {
		t.Fatalf("first propagation did not measure a cone angle: %v", firstAngle)
	}

	de.X = 50
	Propagate(s, div)
	if math.Abs(de.Desc.ConeAngle-firstAngle) > 1e-9 {
		t.Errorf("angle drifted on move: %v -> %v", firstAngle, de.Desc.ConeAngle)
	}
	if math.Abs(de.Desc.Radius-5) > 1e-6 {
		t.Errorf("radius = %v, want ≈5 at half distance", de.Desc.Radius)
	}
}

func TestPropagateUnknownElement(t *testing.T) {
	s := scene.New()
	if updated := Propagate(s, 42); updated != 0 {
		t.Errorf("updated = %d, want 0 for unknown id", updated)
	}
}
