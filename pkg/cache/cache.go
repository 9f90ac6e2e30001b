// Package cache provides pluggable byte caches for rendered artifacts.
//
// Rendering a scene to SVG or running graphviz over a node-link export is
// the slow path of the pipeline; the results are pure functions of the
// serialized scene plus the render options, so they cache well. Keys are
// derived from content hashes via [Keyer], and values are opaque bytes with
// an optional TTL.
//
// Backends:
//   - [NewFileCache]: directory-backed, for the CLI
//   - [NewRedisCache]: Redis-backed, for the HTTP server
//   - [NewNullCache]: disables caching
//
// Wrap any Keyer with [NewScopedKeyer] to namespace keys per user or
// deployment.
package cache

import (
	"context"
	"time"
)

// Default TTLs per key type. Scene documents change with every edit, so
// they expire quickly; artifacts are keyed by content hash and can live
// longer.
const (
	TTLScene    = 1 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is the interface all cache backends implement. Get reports a miss
// with (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SceneKeyOpts distinguishes cached scene documents.
type SceneKeyOpts struct {
	Name string
}

// ArtifactKeyOpts distinguishes rendered outputs of the same scene.
type ArtifactKeyOpts struct {
	Format string  // "svg", "dot", "png"
	Width  float64 // frame width, 0 for default
	Height float64 // frame height, 0 for default
	Rays   bool    // whether ray envelopes are drawn
}

// Keyer generates cache keys. The default implementation hashes the
// options with SHA-256 so any option change produces a distinct key.
type Keyer interface {
	// SceneKey generates a key for a serialized scene document.
	SceneKey(name string, contentHash string) string

	// ArtifactKey generates a key for a rendered artifact, derived from
	// the scene's content hash plus the render options.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// SceneKey generates a key for a scene document.
func (k *DefaultKeyer) SceneKey(name, contentHash string) string {
	return hashKey("scene", name, contentHash)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
