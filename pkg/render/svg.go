package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/benchray/benchray/pkg/geom"
	"github.com/benchray/benchray/pkg/scene"
	"github.com/benchray/benchray/pkg/scene/aperture"
)

// Default frame size in pixels when no option overrides it.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

// SVGOption configures the schematic renderer.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width    float64
	height   float64
	rays     bool
	labels   bool
	hidden   bool // draw elements whose Visible flag is off
	margin   float64
	strokeW  float64
	rayColor string
}

// WithFrame sets the output frame size in pixels.
func WithFrame(width, height float64) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = width, height }
}

// WithoutRays suppresses the ray envelopes and draws elements only.
func WithoutRays() SVGOption { return func(r *svgRenderer) { r.rays = false } }

// WithLabels draws each element's type tag and ID next to its pivot.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithHidden includes elements whose visibility flag is off.
func WithHidden() SVGOption { return func(r *svgRenderer) { r.hidden = true } }

// RenderSVG renders a scene as a schematic SVG: each element as an aperture
// bar between its two endpoints with a pivot marker, and, for parented
// elements, the two ray-envelope segments implied by the child's ray model.
//
// The world coordinates are fit into the frame with a uniform scale, so the
// drawing is never distorted. An empty scene produces a valid empty SVG.
func RenderSVG(s *scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{
		width:    DefaultWidth,
		height:   DefaultHeight,
		rays:     true,
		margin:   40,
		strokeW:  2,
		rayColor: "#d4a017",
	}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	buf.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")

	project := r.projector(s)

	if r.rays {
		for _, id := range s.IDs() {
			e, _ := s.Element(id)
			parent, ok := s.Element(e.ParentID)
			if !ok || !r.drawable(e) || !r.drawable(parent) {
				continue
			}
			s1, s2 := aperture.ConnectionSegments(e, parent)
			r.renderRay(&buf, project, s1)
			r.renderRay(&buf, project, s2)
		}
	}

	for _, id := range s.IDs() {
		e, _ := s.Element(id)
		if !r.drawable(e) {
			continue
		}
		r.renderElement(&buf, project, e)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) drawable(e *scene.Element) bool {
	return e.Visible || r.hidden
}

// projector builds the world→frame mapping: uniform scale, centered.
func (r *svgRenderer) projector(s *scene.Scene) func(geom.Vec) geom.Vec {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(p geom.Vec) {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	for _, id := range s.IDs() {
		e, _ := s.Element(id)
		if !r.drawable(e) {
			continue
		}
		upper, lower := e.ApertureEndpoints()
		grow(e.WorldPivot())
		grow(upper)
		grow(lower)
	}
	if math.IsInf(minX, 1) {
		return func(p geom.Vec) geom.Vec { return p }
	}

	spanX := math.Max(maxX-minX, 1)
	spanY := math.Max(maxY-minY, 1)
	scaleF := math.Min((r.width-2*r.margin)/spanX, (r.height-2*r.margin)/spanY)

	offX := (r.width - spanX*scaleF) / 2
	offY := (r.height - spanY*scaleF) / 2
	return func(p geom.Vec) geom.Vec {
		return geom.V((p.X-minX)*scaleF+offX, (p.Y-minY)*scaleF+offY)
	}
}

func (r *svgRenderer) renderRay(buf *bytes.Buffer, project func(geom.Vec) geom.Vec, seg geom.Segment) {
	a, b := project(seg.A), project(seg.B)
	fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f" stroke-opacity="0.7"/>`+"\n",
		a.X, a.Y, b.X, b.Y, r.rayColor, r.strokeW*0.75)
}

func (r *svgRenderer) renderElement(buf *bytes.Buffer, project func(geom.Vec) geom.Vec, e *scene.Element) {
	upper, lower := e.ApertureEndpoints()
	u, l := project(upper), project(lower)
	pivot := project(e.WorldPivot())

	fmt.Fprintf(buf, `  <g id="element-%d">`+"\n", e.ID)
	fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="black" stroke-width="%.1f"/>`+"\n",
		u.X, u.Y, l.X, l.Y, r.strokeW)
	fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.1f" fill="black"/>`+"\n",
		pivot.X, pivot.Y, r.strokeW*1.5)
	if r.labels {
		label := e.Type
		if label == "" {
			label = "element"
		}
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-size="11" font-family="sans-serif">%s #%d</text>`+"\n",
			pivot.X+6, pivot.Y-6, label, e.ID)
	}
	buf.WriteString("  </g>\n")
}
