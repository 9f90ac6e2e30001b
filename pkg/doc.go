// Package pkg provides the core libraries for BenchRay schematic editing.
//
// # Overview
//
// BenchRay models a 2D optical bench as a hierarchy of elements linked by
// trace lines. The pkg directory is organized into these areas:
//
//  1. [geom], [scene] - Domain logic (vectors, the element arena, the
//     aperture constraint engine)
//  2. [sceneio], [store], [cache] - Persistence (scene documents, the scene
//     store, the artifact cache)
//  3. [render] - Output generation (schematic SVG, node-link DOT/PNG)
//  4. [pipeline] - Orchestration (load → propagate → render)
//
// # Architecture
//
// The typical data flow through BenchRay:
//
//	Scene Document (JSON)
//	         ↓
//	sceneio (rebuild the arena)
//	         ↓
//	scene/aperture (propagate radii and cone angles)
//	         ↓
//	render (SVG / DOT / PNG)
//
// The pipeline package drives this flow for both the CLI and the HTTP API,
// with artifact caching keyed by the propagated scene's content hash.
package pkg
