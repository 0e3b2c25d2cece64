// Package render turns computed family tree layouts into pictures.
//
// # Overview
//
// Two renderers live in subpackages:
//
//   - [svg] draws a [layout.Layout] natively: person boxes with names and
//     life spans, spouse lines and orthogonal parent lines.
//   - [nodelink] writes the tree as Graphviz DOT and lets Graphviz place and
//     draw it. Useful for comparison and for feeding other DOT tools.
//
// This package holds the text helpers both share.
//
//	svg := svg.RenderSVG(l, svg.WithStyle(svg.Warm{}))
//	dot := nodelink.ToDOT(tree, nodelink.Options{})
//
// [svg]: github.com/matzehuels/familytree/pkg/render/svg
// [nodelink]: github.com/matzehuels/familytree/pkg/render/nodelink
// [layout.Layout]: github.com/matzehuels/familytree/pkg/layout.Layout
package render
