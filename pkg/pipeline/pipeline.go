// Package pipeline provides the core scene-processing pipeline for BenchRay.
//
// This package implements the complete load → propagate → render pipeline
// that can be used by the CLI and the HTTP API. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Reconstruct a scene from its serialized document
//  2. Propagate: Run the aperture engine over every subtree so all radii
//     and cone angles are consistent with the current element placement
//  3. Render: Generate output in various formats (SVG, DOT, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, doc, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/benchray/benchray/pkg/cache"
	"github.com/benchray/benchray/pkg/render"
	"github.com/benchray/benchray/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = render.DefaultWidth

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = render.DefaultHeight
)

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatDOT = "dot"
	FormatPNG = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatDOT: true,
	FormatPNG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the scene pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Propagate options. RootID selects a single subtree to propagate;
	// zero means every root in the scene.
	RootID        int  `json:"root_id,omitempty"`
	SkipPropagate bool `json:"skip_propagate,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Width      float64  `json:"width,omitempty"`
	Height     float64  `json:"height,omitempty"`
	HideRays   bool     `json:"hide_rays,omitempty"`
	Labels     bool     `json:"labels,omitempty"`
	ShowHidden bool     `json:"show_hidden,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"` // bypass the artifact cache

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the reconstructed, propagated scene.
	Scene *scene.Scene

	// SceneHash is the content hash of the propagated scene document.
	SceneHash string

	// Updated is the number of elements whose aperture changed during
	// propagation.
	Updated int

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ElementCount  int
	LoadTime      time.Duration
	PropagateTime time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for the render stage. Load and propagate are
// cheap enough that they always run.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Width:  o.Width,
		Height: o.Height,
		Rays:   !o.HideRays,
	}
}

// svgOptions translates the pipeline options into render options.
func (o *Options) svgOptions() []render.SVGOption {
	opts := []render.SVGOption{render.WithFrame(o.Width, o.Height)}
	if o.HideRays {
		opts = append(opts, render.WithoutRays())
	}
	if o.Labels {
		opts = append(opts, render.WithLabels())
	}
	if o.ShowHidden {
		opts = append(opts, render.WithHidden())
	}
	return opts
}
