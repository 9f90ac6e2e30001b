package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/benchray/benchray/pkg/scene"
)

// ToDOT converts a scene's element hierarchy to Graphviz DOT format for
// node-link inspection: one box per element labeled with its type, ID, ray
// model, and current radius/cone angle, and one edge per parent link. The
// resulting DOT string can be rasterized with [DOTToSVG] or [DOTToPNG].
//
// Hidden elements are drawn with dashed outlines.
func ToDOT(s *scene.Scene) string {
	var buf bytes.Buffer
	buf.WriteString("digraph scene {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, id := range s.IDs() {
		e, _ := s.Element(id)
		attrs := []string{fmt.Sprintf("label=%q", elementLabel(e))}
		if !e.Visible {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, id := range s.IDs() {
		e, _ := s.Element(id)
		if e.ParentID != 0 {
			fmt.Fprintf(&buf, "  %d -> %d;\n", e.ParentID, id)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func elementLabel(e *scene.Element) string {
	typ := e.Type
	if typ == "" {
		typ = "element"
	}
	return fmt.Sprintf("%s #%d\n%s\nr=%.1f θ=%.2f°",
		typ, e.ID, e.Desc.Model, e.Desc.Radius, e.Desc.ConeAngle)
}

// DOTToSVG rasterizes a DOT graph to SVG using Graphviz.
func DOTToSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.SVG)
}

// DOTToPNG rasterizes a DOT graph to PNG using Graphviz.
func DOTToPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
