package layout

import (
	"math"
	"slices"

	"github.com/matzehuels/familytree/pkg/dag"
	"github.com/matzehuels/familytree/pkg/family"
)

// expander turns positioned units into person nodes and edge polylines.
type expander struct {
	g     *dag.DAG
	opts  Options
	x     map[string]float64 // unit centres, already shifted
	boxes map[string]Node    // person ID -> node
}

func expand(t *family.Tree, g *dag.DAG, o orders, x map[string]float64, opts Options) *Layout {
	minLeft, maxRight := math.Inf(1), math.Inf(-1)
	for _, n := range g.Nodes() {
		minLeft = math.Min(minLeft, x[n.ID]-n.Width/2)
		maxRight = math.Max(maxRight, x[n.ID]+n.Width/2)
	}
	shift := opts.Margin - minLeft
	shifted := make(map[string]float64, len(x))
	for id, v := range x {
		shifted[id] = v + shift
	}

	rows := g.RowIDs()
	l := &Layout{
		Nodes:       make([]Node, 0, len(t.Persons)),
		Edges:       []Edge{},
		Width:       maxRight - minLeft + 2*opts.Margin,
		Height:      2*opts.Margin + float64(len(rows))*opts.NodeHeight + float64(len(rows)-1)*opts.RankSep,
		Generations: len(rows),
	}
	ex := &expander{g: g, opts: opts, x: shifted, boxes: make(map[string]Node, len(t.Persons))}

	idx := t.Index()
	for _, r := range rows {
		for _, id := range o[r] {
			n, _ := g.Node(id)
			left := shifted[id] - n.Width/2
			for i, m := range n.Members {
				p := idx[m]
				box := Node{
					ID:         m,
					Label:      p.DisplayName(),
					Detail:     p.Lifespan(),
					Gender:     p.Gender,
					X:          left + float64(i)*(opts.NodeWidth+opts.SpouseGap),
					Y:          ex.top(r),
					Width:      opts.NodeWidth,
					Height:     opts.NodeHeight,
					Generation: r,
					Unit:       id,
				}
				ex.boxes[m] = box
				l.Nodes = append(l.Nodes, box)
			}
		}
	}

	for _, rel := range t.UniqueRelations() {
		if rel.Type == family.RelationSpouse {
			l.Edges = append(l.Edges, ex.spouseEdge(rel))
		}
	}
	for _, e := range g.Edges() {
		if n, _ := g.Node(e.From); !n.IsSubdivider() {
			l.Edges = append(l.Edges, ex.parentEdge(e))
		}
	}
	return l
}

// top is the y coordinate of the top of row r.
func (ex *expander) top(r int) float64 {
	return ex.opts.Margin + float64(r)*(ex.opts.NodeHeight+ex.opts.RankSep)
}

// spouseEdge joins two partners at mid height when they sit side by side,
// otherwise it arcs over the boxes between them.
func (ex *expander) spouseEdge(rel family.Relation) Edge {
	a, b := ex.boxes[rel.From], ex.boxes[rel.To]
	e := Edge{ID: "spouse:" + rel.From + "+" + rel.To, Kind: EdgeSpouse, Source: rel.From, Target: rel.To}

	left, right := a, b
	if b.X < a.X {
		left, right = b, a
	}
	var pts []Point
	if right.X-left.X <= ex.opts.NodeWidth+ex.opts.SpouseGap+1e-9 {
		y := left.Y + left.Height/2
		pts = []Point{{X: left.X + left.Width, Y: y}, {X: right.X, Y: y}}
	} else {
		lift := left.Y - ex.opts.RankSep/4
		lc, rc := left.Center().X, right.Center().X
		pts = []Point{{X: lc, Y: left.Y}, {X: lc, Y: lift}, {X: rc, Y: lift}, {X: rc, Y: right.Y}}
	}
	if left.ID != a.ID {
		slices.Reverse(pts)
	}
	e.Points = pts
	return e
}

// parentEdge follows a unit edge through its subdivider chain down to the
// child. Every hop between rows is routed orthogonally through the middle
// of the gap.
func (ex *expander) parentEdge(first dag.Edge) Edge {
	src, _ := ex.g.Node(first.From)
	child, _ := first.Meta[metaChild].(string)
	parents, _ := first.Meta[metaParents].([]string)
	from, _ := first.Meta[metaFromOffset].(float64)

	pts := []Point{{X: ex.x[src.ID] + from, Y: ex.top(src.Row) + ex.opts.NodeHeight}}
	hop := func(to Point) {
		last := pts[len(pts)-1]
		if math.Abs(last.X-to.X) > 1e-9 {
			mid := last.Y + ex.opts.RankSep/2
			pts = append(pts, Point{X: last.X, Y: mid}, Point{X: to.X, Y: mid})
		}
		pts = append(pts, to)
	}

	cur := first.To
	for {
		n, _ := ex.g.Node(cur)
		if !n.IsSubdivider() {
			break
		}
		hop(Point{X: ex.x[cur], Y: ex.top(n.Row)})
		pts = append(pts, Point{X: ex.x[cur], Y: ex.top(n.Row) + ex.opts.NodeHeight})
		next := ex.g.Children(cur)
		if len(next) == 0 {
			break
		}
		cur = next[0]
	}
	box := ex.boxes[child]
	hop(Point{X: box.Center().X, Y: box.Y})

	return Edge{
		ID:      "parent:" + src.ID + ">" + child,
		Kind:    EdgeParent,
		Source:  src.ID,
		Target:  child,
		Parents: parents,
		Points:  pts,
	}
}
