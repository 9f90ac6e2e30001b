package sceneio

import (
	"fmt"
	"slices"

	"github.com/benchray/benchray/pkg/geom"
	"github.com/benchray/benchray/pkg/scene"
)

// Document is the canonical serialization format for a scene. It is used
// for files on disk, API responses, and store documents, and is designed
// for round-trip fidelity: export followed by import reproduces the arena
// exactly, including the fields the aperture engine owns (radius, cone
// angle, ray model, and the up-axis flip state).
type Document struct {
	Name     string    `json:"name,omitempty" bson:"name,omitempty"`
	Elements []Element `json:"elements" bson:"elements"`
}

// Element is the serialized form of one arena element. ParentID 0 (omitted)
// marks a root. Child lists are not serialized - they are back-references
// rebuilt from the parent links on import.
type Element struct {
	ID       int        `json:"id" bson:"id"`
	Type     string     `json:"type,omitempty" bson:"type,omitempty"`
	X        float64    `json:"x" bson:"x"`
	Y        float64    `json:"y" bson:"y"`
	Rotation float64    `json:"rotation,omitempty" bson:"rotation,omitempty"`
	ParentID int        `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Hidden   bool       `json:"hidden,omitempty" bson:"hidden,omitempty"`
	Desc     Descriptor `json:"descriptor" bson:"descriptor"`
}

// Descriptor is the serialized geometry descriptor.
type Descriptor struct {
	Pivot     geom.Vec `json:"pivot" bson:"pivot"`
	Up        geom.Vec `json:"up" bson:"up"`
	Forward   geom.Vec `json:"forward" bson:"forward"`
	Radius    float64  `json:"radius" bson:"radius"`
	ConeAngle float64  `json:"cone_angle,omitempty" bson:"cone_angle,omitempty"`
	Model     string   `json:"ray_model" bson:"ray_model"`
	Flipped   bool     `json:"flipped,omitempty" bson:"flipped,omitempty"`
}

// FromScene converts an arena to its serialization format.
// Elements are sorted by ID for deterministic output.
func FromScene(s *scene.Scene, name string) Document {
	ids := s.IDs()
	doc := Document{Name: name, Elements: make([]Element, 0, len(ids))}
	for _, id := range ids {
		e, ok := s.Element(id)
		if !ok {
			continue
		}
		doc.Elements = append(doc.Elements, Element{
			ID:       e.ID,
			Type:     e.Type,
			X:        e.X,
			Y:        e.Y,
			Rotation: e.Rotation,
			ParentID: e.ParentID,
			Hidden:   !e.Visible,
			Desc: Descriptor{
				Pivot:     e.Desc.Pivot,
				Up:        e.Desc.Up,
				Forward:   e.Desc.Forward,
				Radius:    e.Desc.Radius,
				ConeAngle: e.Desc.ConeAngle,
				Model:     e.Desc.Model.String(),
				Flipped:   e.Desc.Flipped,
			},
		})
	}
	return doc
}

// ToScene rebuilds an arena from a document. Elements may appear in any
// order; parents are linked after all elements are inserted so forward
// references are legal. The rebuilt scene is validated before it is
// returned.
func (d Document) ToScene() (*scene.Scene, error) {
	s := scene.New()

	// Restore under the serialized IDs first, then wire parents in a
	// second pass so element order in the document does not matter.
	elems := slices.Clone(d.Elements)
	slices.SortFunc(elems, func(a, b Element) int { return a.ID - b.ID })

	for _, se := range elems {
		model, ok := scene.ParseRayModel(se.Desc.Model)
		if !ok {
			return nil, fmt.Errorf("element %d: unknown ray model %q", se.ID, se.Desc.Model)
		}
		err := s.Restore(scene.Element{
			ID:       se.ID,
			Type:     se.Type,
			X:        se.X,
			Y:        se.Y,
			Rotation: se.Rotation,
			Visible:  !se.Hidden,
			Desc: scene.Descriptor{
				Pivot:     se.Desc.Pivot,
				Up:        se.Desc.Up,
				Forward:   se.Desc.Forward,
				Radius:    se.Desc.Radius,
				ConeAngle: se.Desc.ConeAngle,
				Model:     model,
				Flipped:   se.Desc.Flipped,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", se.ID, err)
		}
	}

	for _, se := range elems {
		if se.ParentID == 0 {
			continue
		}
		if _, ok := s.Element(se.ParentID); !ok {
			return nil, fmt.Errorf("element %d: unknown parent %d", se.ID, se.ParentID)
		}
		if err := s.Reparent(se.ID, se.ParentID); err != nil {
			return nil, fmt.Errorf("element %d: %w", se.ID, err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
