package scene

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrUnknownElement is returned when an element ID is not present in
	// the scene.
	ErrUnknownElement = errors.New("unknown element")

	// ErrUnknownParent is returned by [Scene.Insert] and [Scene.Reparent]
	// when the named parent does not exist.
	ErrUnknownParent = errors.New("unknown parent element")

	// ErrCyclicParent is returned by [Scene.Reparent] when the move would
	// make an element its own ancestor.
	ErrCyclicParent = errors.New("reparent would create a cycle")

	// ErrInvalidDescriptor is returned by [Scene.Validate] when an
	// element's radius, cone angle, or ray model is out of range.
	ErrInvalidDescriptor = errors.New("invalid geometry descriptor")

	// ErrInconsistentLinks is returned by [Scene.Validate] when the
	// parent/children references disagree with each other.
	ErrInconsistentLinks = errors.New("inconsistent parent/child references")
)

// Scene is an arena of elements keyed by stable integer IDs. Parent/child
// links are stored as IDs only; no element holds a pointer to another, so
// the arena is the single owner of all element records.
//
// The zero value is not usable - use [New]. Scene is not safe for concurrent
// use; the editor drives it from a single synchronous event loop.
type Scene struct {
	elements map[int]*Element
	nextID   int
}

// New creates an empty scene. IDs start at 1; 0 is reserved to mean
// "no parent".
func New() *Scene {
	return &Scene{elements: make(map[int]*Element), nextID: 1}
}

// Len returns the number of elements in the scene.
func (s *Scene) Len() int { return len(s.elements) }

// Element returns the element with the given ID and true, or nil and false.
// The returned pointer refers to the arena's record; geometry writes outside
// the aperture engine should go through the editor's update paths.
func (s *Scene) Element(id int) (*Element, bool) {
	e, ok := s.elements[id]
	return e, ok
}

// IDs returns all element IDs in ascending order.
func (s *Scene) IDs() []int {
	return slices.Sorted(maps.Keys(s.elements))
}

// Roots returns the IDs of all elements without a parent, in ascending order.
func (s *Scene) Roots() []int {
	var roots []int
	for id, e := range s.elements {
		if e.ParentID == 0 {
			roots = append(roots, id)
		}
	}
	slices.Sort(roots)
	return roots
}

// Children returns the child IDs of the element, or nil if it has none or
// does not exist. The returned slice is a read-only view.
func (s *Scene) Children(id int) []int {
	if e, ok := s.elements[id]; ok {
		return e.Children
	}
	return nil
}

// Insert adds a new element to the scene and returns its assigned ID.
// The descriptor is copied by value, so the caller's template (and every
// other element built from it) stays independent of the inserted instance.
//
// parentID may be 0 for a root. For a non-zero parent the element is linked
// into the parent's child list; ErrUnknownParent is returned if the parent
// does not exist.
func (s *Scene) Insert(e Element, parentID int) (int, error) {
	if parentID != 0 {
		if _, ok := s.elements[parentID]; !ok {
			return 0, ErrUnknownParent
		}
	}

	e.ID = s.nextID
	s.nextID++
	e.ParentID = parentID
	e.Children = nil

	el := e
	s.elements[el.ID] = &el
	if parentID != 0 {
		parent := s.elements[parentID]
		parent.Children = append(parent.Children, el.ID)
	}
	return el.ID, nil
}

// Restore inserts an element under its existing ID, for deserialization.
// The ID must be positive and unused; parent links are not touched, so
// callers wire them afterwards (see the sceneio package). nextID is bumped
// past the restored ID so later Inserts never collide.
func (s *Scene) Restore(e Element) error {
	if e.ID <= 0 {
		return ErrUnknownElement
	}
	if _, exists := s.elements[e.ID]; exists {
		return ErrInconsistentLinks
	}
	e.Children = nil
	el := e
	s.elements[el.ID] = &el
	if el.ID >= s.nextID {
		s.nextID = el.ID + 1
	}
	return nil
}

// Remove detaches the element from its parent's child list and deletes it
// from the arena. Its children become roots; they keep their own subtrees.
// Returns ErrUnknownElement if the ID is not present.
func (s *Scene) Remove(id int) error {
	e, ok := s.elements[id]
	if !ok {
		return ErrUnknownElement
	}

	if parent, ok := s.elements[e.ParentID]; ok {
		parent.Children = slices.DeleteFunc(parent.Children, func(c int) bool { return c == id })
	}
	for _, c := range e.Children {
		if child, ok := s.elements[c]; ok {
			child.ParentID = 0
		}
	}

	delete(s.elements, id)
	return nil
}

// Reparent moves an element under a new parent (0 makes it a root).
// Returns ErrCyclicParent if newParent is the element itself or one of its
// descendants.
func (s *Scene) Reparent(id, newParent int) error {
	e, ok := s.elements[id]
	if !ok {
		return ErrUnknownElement
	}
	if newParent != 0 {
		if _, ok := s.elements[newParent]; !ok {
			return ErrUnknownParent
		}
		for p := newParent; p != 0; {
			if p == id {
				return ErrCyclicParent
			}
			pe, ok := s.elements[p]
			if !ok {
				break
			}
			p = pe.ParentID
		}
	}

	if old, ok := s.elements[e.ParentID]; ok {
		old.Children = slices.DeleteFunc(old.Children, func(c int) bool { return c == id })
	}
	e.ParentID = newParent
	if np, ok := s.elements[newParent]; ok {
		np.Children = append(np.Children, id)
	}
	return nil
}

// Descendants returns the IDs of every element below id, discovered with an
// explicit stack walk over the arena. Sibling order is not significant.
// The element itself is not included.
func (s *Scene) Descendants(id int) []int {
	var out []int
	stack := slices.Clone(s.Children(id))
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := s.elements[n]; !ok {
			continue
		}
		out = append(out, n)
		stack = append(stack, s.Children(n)...)
	}
	return out
}

// Validate checks arena integrity and returns nil if valid:
//
//  1. Every non-root ParentID references an existing element whose child
//     list contains this element, and every child back-reference points at
//     an element naming this parent.
//  2. The parent links are acyclic.
//  3. Every descriptor has radius in [0, MaxRadius], cone angle in
//     [0, MaxConeAngle], and a ray model from the closed four-value set.
func (s *Scene) Validate() error {
	for id, e := range s.elements {
		if e.ParentID != 0 {
			parent, ok := s.elements[e.ParentID]
			if !ok || !slices.Contains(parent.Children, id) {
				return ErrInconsistentLinks
			}
		}
		for _, c := range e.Children {
			child, ok := s.elements[c]
			if !ok || child.ParentID != id {
				return ErrInconsistentLinks
			}
		}
		d := e.Desc
		if d.Radius < 0 || d.Radius > MaxRadius ||
			d.ConeAngle < 0 || d.ConeAngle > MaxConeAngle ||
			!d.Model.Valid() {
			return ErrInvalidDescriptor
		}
	}
	return s.detectCycles()
}

func (s *Scene) detectCycles() error {
	seen := make(map[int]bool, len(s.elements))
	for id := range s.elements {
		slow := id
		path := make(map[int]bool)
		for slow != 0 && !seen[slow] {
			if path[slow] {
				return ErrCyclicParent
			}
			path[slow] = true
			e, ok := s.elements[slow]
			if !ok {
				break
			}
			slow = e.ParentID
		}
		for p := range path {
			seen[p] = true
		}
	}
	return nil
}
