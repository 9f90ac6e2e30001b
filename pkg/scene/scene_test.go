package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/benchray/benchray/pkg/geom"
)

func testDescriptor() Descriptor {
	return Descriptor{
		Up:      geom.V(0, -1),
		Forward: geom.V(1, 0),
		Radius:  15,
		Model:   Collimated,
	}
}

func TestInsertLinksParentAndChild(t *testing.T) {
	s := New()
	rootID, err := s.Insert(Element{Type: "laser", Desc: testDescriptor(), Visible: true}, 0)
	if err != nil {
		t.Fatalf("Insert root: %v", err)
	}
	childID, err := s.Insert(Element{Type: "lens", Desc: testDescriptor(), Visible: true}, rootID)
	if err != nil {
		t.Fatalf("Insert child: %v", err)
	}

	root, _ := s.Element(rootID)
	child, _ := s.Element(childID)
	if child.ParentID != rootID {
		t.Errorf("child.ParentID = %d, want %d", child.ParentID, rootID)
	}
	if len(root.Children) != 1 || root.Children[0] != childID {
		t.Errorf("root.Children = %v, want [%d]", root.Children, childID)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestInsertUnknownParent(t *testing.T) {
	s := New()
	if _, err := s.Insert(Element{Desc: testDescriptor()}, 99); !errors.Is(err, ErrUnknownParent) {
		t.Errorf("err = %v, want ErrUnknownParent", err)
	}
}

func TestInsertCopiesDescriptor(t *testing.T) {
	// Two elements built from the same template must own independent
	// descriptors: flipping one never affects the other.
	s := New()
	tmpl := Element{Type: "mirror", Desc: testDescriptor()}
	a, _ := s.Insert(tmpl, 0)
	b, _ := s.Insert(tmpl, 0)

	ea, _ := s.Element(a)
	eb, _ := s.Element(b)
	ea.Desc.Flipped = true
	ea.Desc.Radius = 50

	if eb.Desc.Flipped || eb.Desc.Radius != 15 {
		t.Errorf("sibling descriptor mutated: %+v", eb.Desc)
	}
	if tmpl.Desc.Flipped {
		t.Error("template descriptor mutated")
	}
}

func TestRemovePromotesChildrenToRoots(t *testing.T) {
	s := New()
	a, _ := s.Insert(Element{Desc: testDescriptor()}, 0)
	b, _ := s.Insert(Element{Desc: testDescriptor()}, a)
	c, _ := s.Insert(Element{Desc: testDescriptor()}, b)

	if err := s.Remove(b); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := s.Element(b); ok {
		t.Error("removed element still present")
	}
	ec, _ := s.Element(c)
	if ec.ParentID != 0 {
		t.Errorf("orphan ParentID = %d, want 0 (root)", ec.ParentID)
	}
	ea, _ := s.Element(a)
	if len(ea.Children) != 0 {
		t.Errorf("parent still lists removed child: %v", ea.Children)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate after remove: %v", err)
	}
}

func TestReparentRejectsCycle(t *testing.T) {
	s := New()
	a, _ := s.Insert(Element{Desc: testDescriptor()}, 0)
	b, _ := s.Insert(Element{Desc: testDescriptor()}, a)
	c, _ := s.Insert(Element{Desc: testDescriptor()}, b)

	if err := s.Reparent(a, c); !errors.Is(err, ErrCyclicParent) {
		t.Errorf("err = %v, want ErrCyclicParent", err)
	}
	if err := s.Reparent(c, a); err != nil {
		t.Errorf("legal reparent failed: %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDescendants(t *testing.T) {
	s := New()
	a, _ := s.Insert(Element{Desc: testDescriptor()}, 0)
	b, _ := s.Insert(Element{Desc: testDescriptor()}, a)
	c, _ := s.Insert(Element{Desc: testDescriptor()}, a)
	d, _ := s.Insert(Element{Desc: testDescriptor()}, b)

	got := s.Descendants(a)
	if len(got) != 3 {
		t.Fatalf("Descendants = %v, want 3 elements", got)
	}
	want := map[int]bool{b: true, c: true, d: true}
	for _, id := range got {
		if !want[id] {
			t.Errorf("unexpected descendant %d", id)
		}
	}
}

func TestValidateRejectsBadDescriptor(t *testing.T) {
	s := New()
	id, _ := s.Insert(Element{Desc: testDescriptor()}, 0)
	e, _ := s.Element(id)
	e.Desc.Radius = MaxRadius + 1
	if err := s.Validate(); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("err = %v, want ErrInvalidDescriptor", err)
	}
	e.Desc.Radius = 15
	e.Desc.ConeAngle = 91
	if err := s.Validate(); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("err = %v, want ErrInvalidDescriptor", err)
	}
	e.Desc.ConeAngle = 0
	e.Desc.Model = RayModel(7)
	if err := s.Validate(); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("err = %v, want ErrInvalidDescriptor", err)
	}
}

func TestRayModelRoundTrip(t *testing.T) {
	for _, m := range []RayModel{Collimated, Divergent, Convergent, Manual} {
		got, ok := ParseRayModel(m.String())
		if !ok || got != m {
			t.Errorf("ParseRayModel(%q) = %v, %v", m.String(), got, ok)
		}
	}
	if _, ok := ParseRayModel("spherical"); ok {
		t.Error("ParseRayModel accepted a name outside the closed set")
	}
}

func TestApertureEndpointsDerived(t *testing.T) {
	e := &Element{X: 100, Y: 50, Desc: testDescriptor()}
	upper, lower := e.ApertureEndpoints()
	if math.Abs(upper.X-100) > 1e-9 || math.Abs(upper.Y-35) > 1e-9 {
		t.Errorf("upper = %v, want (100,35)", upper)
	}
	if math.Abs(lower.X-100) > 1e-9 || math.Abs(lower.Y-65) > 1e-9 {
		t.Errorf("lower = %v, want (100,65)", lower)
	}

	// Endpoints follow the flip state: flipping swaps them.
	e.Desc.Flipped = true
	fu, fl := e.ApertureEndpoints()
	if math.Abs(fu.Y-65) > 1e-9 || math.Abs(fl.Y-35) > 1e-9 {
		t.Errorf("flipped endpoints = %v, %v, want swapped", fu, fl)
	}
}
