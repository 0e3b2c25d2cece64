// Package layout computes the drawing of a family tree.
//
// The layout is a layered (Sugiyama style) drawing in which each row is one
// generation. Partners are collapsed into a single unit first so they always
// end up side by side, then the unit graph goes through the usual stages:
//
//  1. Collapse: spouse groups become couple units; parenthood becomes unit
//     edges that remember where on each unit they attach.
//  2. Rank: cycles are broken, units are ranked by longest path and in-law
//     families are pulled down next to the generation they married into.
//  3. Subdivide: long edges get zero-width subdividers in every row they
//     cross (see [transform.Subdivide]).
//  4. Order: barycentric sweeps and transposition reduce crossings, then
//     siblings are put in birth order.
//  5. Position: units are packed and relaxed towards their parents and
//     children without ever overlapping.
//  6. Expand: units are split back into person boxes, spouse lines and
//     orthogonal parent lines.
//
// # Usage
//
//	l, err := layout.Compute(tree, layout.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, n := range l.Nodes {
//	    fmt.Println(n.Label, n.X, n.Y)
//	}
//
// Zero [Options] fields take the defaults (160x64 boxes, 96 between
// generations). Output depends only on the input, including the order of
// persons and relations, so the same tree always yields the same drawing.
//
// [transform.Subdivide]: github.com/matzehuels/familytree/pkg/dag/transform.Subdivide
package layout
