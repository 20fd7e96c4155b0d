// Package nodelink renders the closure graph of a walk as a node-link
// diagram.
//
// Every descriptor the walk reached becomes a box; parent, dependency and
// BOM import references become arrows. [ToDOT] produces Graphviz DOT source
// and [RenderSVG] lays it out in-process:
//
//	dot := nodelink.ToDOT(report, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [WriteFile] picks the format from the file extension (.dot or .svg).
//
// # Styling
//
//   - The root descriptor is filled light blue.
//   - Coordinates whose descriptor could not be obtained are dashed and
//     filled misty rose.
//   - Parent edges are dashed, import edges dotted, dependency edges solid.
//
// This package uses [github.com/goccy/go-graphviz] for rendering, which runs
// Graphviz as WebAssembly, so no system installation is required.
package nodelink
