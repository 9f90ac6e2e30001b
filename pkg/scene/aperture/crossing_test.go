package aperture

import (
	"testing"

	"github.com/benchray/benchray/pkg/scene"
)

func TestCollimatedParallelNeverCrosses(t *testing.T) {
	parent := element(0, 0, 0, 15, scene.Collimated)
	child := element(150, 0, 0, 15, scene.Collimated)

	if Crosses(child, parent) {
		t.Error("parallel envelope reported as crossing")
	}
	if got := ResolveCrossing(child, parent); got != false {
		t.Errorf("ResolveCrossing = %v, want original orientation", got)
	}
}

func TestCollimatedFlipResolvesCrossing(t *testing.T) {
	// A child rotated 180° has its endpoints swapped relative to the
	// parent, so upper→upper and lower→lower cross midway. Negating the
	// up axis restores the parallel envelope.
	parent := element(0, 0, 0, 15, scene.Collimated)
	child := element(150, 0, 180, 15, scene.Collimated)

	if !Crosses(child, parent) {
		t.Fatal("expected the proposed orientation to cross")
	}
	if got := ResolveCrossing(child, parent); got != true {
		t.Errorf("ResolveCrossing = %v, want flipped orientation", got)
	}
	// ResolveCrossing must not write the decision back itself.
	if child.Desc.Flipped {
		t.Error("ResolveCrossing mutated the candidate element")
	}
}

// Scenario D: when both the proposed and the mirrored orientation cross,
// the original orientation is kept. Divergent segments share the parent
// pivot as a common endpoint, so the parametric test reports a crossing in
// either orientation.
func TestBothOrientationsCrossKeepsOriginal(t *testing.T) {
	parent := element(0, 0, 0, 15, scene.Divergent)
	child := element(150, 0, 0, 15, scene.Divergent)

	if !Crosses(child, parent) {
		t.Fatal("expected shared-pivot segments to report crossing")
	}
	if got := ResolveCrossing(child, parent); got != false {
		t.Errorf("ResolveCrossing = %v, want original orientation kept", got)
	}

	// Same tie-break when the proposal already carries a flip.
	child.Desc.Flipped = true
	if got := ResolveCrossing(child, parent); got != true {
		t.Errorf("ResolveCrossing = %v, want proposed flip kept", got)
	}
}

func TestConnectionSegmentsPerModel(t *testing.T) {
	parent := element(0, 0, 0, 10, scene.Collimated)

	tests := []struct {
		model      scene.RayModel
		wantShared bool // both segments start at one shared pivot point
	}{
		{scene.Collimated, false},
		{scene.Manual, false},
		{scene.Divergent, true},
		{scene.Convergent, true},
	}
	for _, tt := range tests {
		t.Run(tt.model.String(), func(t *testing.T) {
			child := element(100, 0, 0, 10, tt.model)
			s1, s2 := ConnectionSegments(child, parent)

			shared := s1.A == s2.A || s1.B == s2.B
			if shared != tt.wantShared {
				t.Errorf("shared endpoint = %v, want %v (s1=%v s2=%v)", shared, tt.wantShared, s1, s2)
			}
		})
	}
}
