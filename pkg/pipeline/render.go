package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/benchray/benchray/pkg/observability"
	"github.com/benchray/benchray/pkg/render"
	"github.com/benchray/benchray/pkg/scene"
)

// renderFormats generates output artifacts in the requested formats.
func (r *Runner) renderFormats(ctx context.Context, s *scene.Scene, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		start := time.Now()
		observability.Engine().OnRenderStart(ctx, format, s.Len())

		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = render.RenderSVG(s, opts.svgOptions()...)
		case FormatDOT:
			data = []byte(render.ToDOT(s))
		case FormatPNG:
			// PNG output is the node-link view rasterized through Graphviz.
			data, err = render.DOTToPNG(ctx, render.ToDOT(s))
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}

		observability.Engine().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
