package layout

import (
	"math"

	"github.com/matzehuels/familytree/pkg/dag"
)

// placer assigns horizontal unit centres row by row.
type placer struct {
	g    *dag.DAG
	o    orders
	opts Options
	x    map[string]float64
	off  map[[2]string][2]float64 // edge -> anchor offsets at both ends
}

// position computes the x centre of every node in g.
func position(g *dag.DAG, o orders, opts Options) map[string]float64 {
	p := &placer{g: g, o: o, opts: opts, x: make(map[string]float64, g.NodeCount())}
	p.off = anchorOffsets(g)
	rows := g.RowIDs()

	for _, r := range rows {
		ids := o[r]
		cur := 0.0
		for i, id := range ids {
			if i > 0 {
				cur += p.sep(ids[i-1], id)
			}
			p.x[id] = cur
		}
	}

	for it := 0; it < opts.Iterations; it++ {
		for _, r := range rows[1:] {
			p.relax(r, true)
		}
		for i := len(rows) - 2; i >= 0; i-- {
			p.relax(rows[i], false)
		}
	}
	for _, r := range rows[1:] {
		p.relax(r, true)
	}
	return p.x
}

// sep is the minimum distance between the centres of two row neighbours.
func (p *placer) sep(a, b string) float64 {
	na, _ := p.g.Node(a)
	nb, _ := p.g.Node(b)
	gap := p.opts.SiblingGap
	if na.IsSubdivider() || nb.IsSubdivider() {
		gap = p.opts.DummyGap
	}
	return (na.Width+nb.Width)/2 + gap
}

// relax moves every node of row towards the mean anchor position of its
// neighbours in the row above (down) or below (up), then restores the
// minimum separation.
func (p *placer) relax(row int, down bool) {
	ids := p.o[row]
	if len(ids) == 0 {
		return
	}
	desired := make([]float64, len(ids))
	for i, id := range ids {
		desired[i] = p.x[id]
		sum, n := 0.0, 0
		if down {
			for _, parent := range p.g.Parents(id) {
				from, to := p.offsets(parent, id)
				sum += p.x[parent] + from - to
				n++
			}
		} else {
			for _, child := range p.g.Children(id) {
				from, to := p.offsets(id, child)
				sum += p.x[child] + to - from
				n++
			}
		}
		if n > 0 {
			desired[i] = sum / float64(n)
		}
	}

	for i, x := range p.separate(ids, desired) {
		p.x[ids[i]] = x
	}
}

// separate resolves overlaps in one row. It computes the tightest
// left-pushed and right-pushed placements and takes their average, which
// keeps every gap at least as wide as required.
func (p *placer) separate(ids []string, desired []float64) []float64 {
	n := len(ids)
	left := make([]float64, n)
	right := make([]float64, n)
	left[0] = desired[0]
	for i := 1; i < n; i++ {
		left[i] = math.Max(desired[i], left[i-1]+p.sep(ids[i-1], ids[i]))
	}
	right[n-1] = desired[n-1]
	for i := n - 2; i >= 0; i-- {
		right[i] = math.Min(desired[i], right[i+1]-p.sep(ids[i], ids[i+1]))
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = (left[i] + right[i]) / 2
	}
	return out
}

func (p *placer) offsets(from, to string) (float64, float64) {
	o := p.off[[2]string{from, to}]
	return o[0], o[1]
}

// anchorOffsets returns the anchor offsets of every edge relative to the
// centres of its end nodes. Subdividers anchor at their centre.
func anchorOffsets(g *dag.DAG) map[[2]string][2]float64 {
	out := make(map[[2]string][2]float64, g.EdgeCount())
	for _, e := range g.Edges() {
		var o [2]float64
		if n, _ := g.Node(e.From); !n.IsSubdivider() {
			o[0], _ = e.Meta[metaFromOffset].(float64)
		}
		if n, _ := g.Node(e.To); !n.IsSubdivider() {
			o[1], _ = e.Meta[metaToOffset].(float64)
		}
		out[[2]string{e.From, e.To}] = o
	}
	return out
}
