// Package render turns scenes into visual outputs.
//
// Two renderers are provided:
//
//   - [RenderSVG]: the schematic view - aperture bars, pivot markers, and
//     the per-model ray envelopes between parents and children. This is the
//     primary output of the render command and the HTTP API.
//   - [ToDOT]: a node-link view of the element hierarchy for structural
//     inspection, rasterized via Graphviz with [DOTToSVG] or [DOTToPNG].
//
// Rendering only ever reads scene state. The aperture engine has always
// finished a full propagation pass before any renderer runs, so no element
// is drawn with data stale relative to an already-updated ancestor.
package render
