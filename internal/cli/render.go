package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benchray/benchray/pkg/pipeline"
	"github.com/benchray/benchray/pkg/sceneio"
)

// renderCommand creates the render command for generating scene artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [scene.json]",
		Short: "Render a scene to SVG, DOT, or PNG",
		Long: `Render a scene file to visual output.

The scene is loaded, the aperture engine propagates every trace hierarchy so
radii and cone angles are consistent with the element placement, and the
result is rendered to the requested formats.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render even if cached")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "frame width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "frame height in pixels")
	cmd.Flags().BoolVar(&opts.HideRays, "no-rays", false, "hide ray envelopes")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "draw element type labels")
	cmd.Flags().BoolVar(&opts.ShowHidden, "hidden", false, "include hidden elements")
	cmd.Flags().BoolVar(&opts.SkipPropagate, "no-propagate", false, "render the stored apertures without re-propagating")

	return cmd
}

// runRender loads the scene, runs the pipeline, and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	_, doc, err := sceneio.ReadSceneFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering scene...")
	spinner.Start()

	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	printStats(result.Stats.ElementCount, result.Updated, result.CacheInfo.RenderHit)

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
}

// artifactWriteParams bundles the inputs for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes each rendered format to its output file. With a
// single format the output path is used (or derived from the input name);
// with several, the format is appended to the base path.
func writeArtifacts(p artifactWriteParams) error {
	base := basePath(p.output, p.input)

	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}

		var path string
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		} else {
			path = base + "." + format
		}

		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output has a
// format extension (.svg, .dot, .png), it strips that extension. This is
// used when generating multiple files (e.g., bench.svg, bench.dot).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
