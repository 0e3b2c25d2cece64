// Package nodelink renders family trees as Graphviz node-link diagrams.
//
// # Overview
//
// This is the alternative to the native layout: Graphviz decides where
// everything goes. Persons are boxes; each couple shares a small union
// point on their rank from which lines run down to their children.
//
// # Usage
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
