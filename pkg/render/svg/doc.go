// Package svg draws computed family tree layouts as standalone SVG.
//
// The renderer does no placement of its own: every coordinate comes from
// the [layout.Layout]. A [Style] decides how boxes, lines and text look;
// [Simple] is black on white, [Warm] tints boxes by gender on a parchment
// background.
//
//	l, _ := layout.Compute(tree, layout.Options{})
//	out := svg.RenderSVG(l, svg.WithStyle(svg.Warm{}), svg.WithTitle(tree.Name))
//
// Person boxes carry id="person-<ID>" so pages embedding the drawing can
// find them.
//
// [layout.Layout]: github.com/matzehuels/familytree/pkg/layout.Layout
package svg
