package aperture

import "github.com/benchray/benchray/pkg/scene"

// Propagate re-derives aperture state for element id and its whole
// descendant subtree after any geometry-affecting change (move, rotate, ray
// model change, manual radius edit).
//
// The changed element is evaluated against its parent first; root elements
// have no parent and are never auto-scaled, but their subtrees still
// propagate. Descendants are then visited depth-first with an explicit
// stack over the arena, each evaluated against its own current parent, so
// an ancestor's fresh state is always in place before its children read it.
//
// A failed evaluation ("cannot compute") leaves that element's prior
// aperture state untouched but never halts the walk - the element's own
// children are still visited. Propagate returns the number of elements
// whose aperture was updated.
func Propagate(s *scene.Scene, id int) int {
	e, ok := s.Element(id)
	if !ok {
		return 0
	}

	updated := 0
	if step(s, e) {
		updated++
	}

	stack := append([]int(nil), e.Children...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		child, ok := s.Element(n)
		if !ok {
			continue
		}
		if step(s, child) {
			updated++
		}
		stack = append(stack, child.Children...)
	}
	return updated
}

// step evaluates one element against its current parent and applies the
// result. Roots and failed evaluations report false.
func step(s *scene.Scene, e *scene.Element) bool {
	parent, ok := s.Element(e.ParentID)
	if !ok {
		return false
	}
	upd, err := Evaluate(e, parent)
	if err != nil {
		return false
	}
	upd.Apply(e)
	return true
}
