package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/benchray/benchray/pkg/geom"
	"github.com/benchray/benchray/pkg/scene"
)

func buildScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New()
	desc := scene.Descriptor{
		Up:      geom.V(0, -1),
		Forward: geom.V(1, 0),
		Radius:  15,
		Model:   scene.Collimated,
	}
	root, err := s.Insert(scene.Element{Type: "laser", Desc: desc, Visible: true}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Insert(scene.Element{Type: "lens", X: 150, Desc: desc, Visible: true}, root); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRenderSVGStructure(t *testing.T) {
	svg := RenderSVG(buildScene(t), WithLabels())

	if !bytes.HasPrefix(svg, []byte("<svg ")) || !bytes.Contains(svg, []byte("</svg>")) {
		t.Fatalf("not a complete SVG document:\n%s", svg)
	}
	for _, want := range []string{`id="element-1"`, `id="element-2"`, "laser #1", "lens #2"} {
		if !bytes.Contains(svg, []byte(want)) {
			t.Errorf("SVG missing %q", want)
		}
	}
	// Two elements plus two ray segments.
	if n := bytes.Count(svg, []byte("<line ")); n != 4 {
		t.Errorf("line count = %d, want 4 (2 apertures + 2 rays)", n)
	}
}

func TestRenderSVGWithoutRays(t *testing.T) {
	svg := RenderSVG(buildScene(t), WithoutRays())
	if n := bytes.Count(svg, []byte("<line ")); n != 2 {
		t.Errorf("line count = %d, want 2 aperture bars only", n)
	}
}

func TestRenderSVGSkipsHiddenElements(t *testing.T) {
	s := buildScene(t)
	e, _ := s.Element(2)
	e.Visible = false

	svg := RenderSVG(s)
	if bytes.Contains(svg, []byte(`id="element-2"`)) {
		t.Error("hidden element rendered")
	}
	if !bytes.Contains(RenderSVG(s, WithHidden()), []byte(`id="element-2"`)) {
		t.Error("WithHidden did not include hidden element")
	}
}

func TestRenderSVGEmptyScene(t *testing.T) {
	svg := RenderSVG(scene.New())
	if !bytes.HasPrefix(svg, []byte("<svg ")) {
		t.Errorf("empty scene should still produce a valid SVG:\n%s", svg)
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(buildScene(t))

	if !strings.HasPrefix(dot, "digraph scene {") {
		t.Fatalf("unexpected DOT prefix:\n%s", dot)
	}
	for _, want := range []string{"laser #1", "lens #2", "1 -> 2;", "collimated"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q", want)
		}
	}
}

func TestToDOTMarksHidden(t *testing.T) {
	s := buildScene(t)
	e, _ := s.Element(2)
	e.Visible = false

	if !strings.Contains(ToDOT(s), "dashed") {
		t.Error("hidden element not marked dashed in DOT")
	}
}
