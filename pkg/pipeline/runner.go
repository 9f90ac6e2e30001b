package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/benchray/benchray/pkg/cache"
	"github.com/benchray/benchray/pkg/observability"
	"github.com/benchray/benchray/pkg/scene"
	"github.com/benchray/benchray/pkg/scene/aperture"
	"github.com/benchray/benchray/pkg/sceneio"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → propagate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, doc sceneio.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	s, err := doc.ToScene()
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Scene = s
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.ElementCount = s.Len()

	r.Logger.Info("loaded scene",
		"name", doc.Name,
		"elements", s.Len(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Propagate
	propStart := time.Now()
	if !opts.SkipPropagate {
		result.Updated = r.Propagate(ctx, s, opts.RootID)
	}
	result.Stats.PropagateTime = time.Since(propStart)

	r.Logger.Info("propagated apertures",
		"updated", result.Updated,
		"duration", result.Stats.PropagateTime)

	// The cache key must reflect the propagated state, not the input
	// document.
	if data, err := sceneio.MarshalScene(s, doc.Name); err == nil {
		result.SceneHash = cache.Hash(data)
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, s, result.SceneHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Propagate runs the aperture engine over the scene and returns the number
// of elements whose aperture changed. A zero rootID propagates every root.
func (r *Runner) Propagate(ctx context.Context, s *scene.Scene, rootID int) int {
	start := time.Now()
	observability.Engine().OnPropagateStart(ctx, rootID, s.Len())

	updated := 0
	if rootID != 0 {
		updated = aperture.Propagate(s, rootID)
	} else {
		for _, root := range s.Roots() {
			updated += aperture.Propagate(s, root)
		}
	}

	observability.Engine().OnPropagateComplete(ctx, rootID, updated, time.Since(start))
	return updated
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. sceneHash keys the cache; pass the hash of the propagated document.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s *scene.Scene, sceneHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Try to get all formats from cache
	if !opts.Refresh && sceneHash != "" {
		artifacts := make(map[string][]byte)
		allCached := true
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}
		if allCached {
			return artifacts, true, nil
		}
	}

	// Render all formats
	rendered, err := r.renderFormats(ctx, s, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	if sceneHash != "" {
		for format, data := range rendered {
			cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
				observability.Cache().OnCacheSet(ctx, "artifact", len(data))
			}
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s *scene.Scene, sceneHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, sceneHash, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
