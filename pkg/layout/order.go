package layout

import (
	"maps"
	"slices"

	"github.com/matzehuels/familytree/pkg/dag"
)

// orders maps a row to its node IDs from left to right.
type orders map[int][]string

func (o orders) clone() orders {
	c := make(orders, len(o))
	for r, ids := range o {
		c[r] = slices.Clone(ids)
	}
	return c
}

// initialOrder visits units depth first from the sources, in insertion
// order, appending each node to its row on first visit. Siblings and
// descendants of one family start out next to each other.
func initialOrder(g *dag.DAG) orders {
	o := make(orders, g.RowCount())
	seen := make(map[string]bool, g.NodeCount())
	var visit func(id string)
	visit = func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		n, _ := g.Node(id)
		o[n.Row] = append(o[n.Row], id)
		for _, c := range g.Children(id) {
			visit(c)
		}
	}
	for _, n := range g.Sources() {
		visit(n.ID)
	}
	for _, n := range g.Nodes() {
		visit(n.ID)
	}
	return o
}

// reduceCrossings runs alternating barycentric sweeps followed by
// transposition and returns the best ordering found with its crossing count.
func reduceCrossings(g *dag.DAG, start orders, passes int) (orders, int) {
	best := start.clone()
	bestCross := dag.CountCrossings(g, best)
	if bestCross == 0 {
		return best, 0
	}

	cur := start.clone()
	rows := g.RowIDs()
	for i := 0; i < passes; i++ {
		if i%2 == 0 {
			for _, r := range rows[1:] {
				sortByBarycentre(g, cur, r, r-1, true)
			}
		} else {
			for j := len(rows) - 2; j >= 0; j-- {
				sortByBarycentre(g, cur, rows[j], rows[j]+1, false)
			}
		}
		if c := dag.CountCrossings(g, cur); c < bestCross {
			best, bestCross = cur.clone(), c
			if c == 0 {
				return best, 0
			}
		}
	}

	transpose(g, best)
	return best, dag.CountCrossings(g, best)
}

// sortByBarycentre stably reorders row by the mean position of each node's
// neighbours in row adj. Nodes without neighbours keep their own position.
func sortByBarycentre(g *dag.DAG, o orders, row, adj int, useParents bool) {
	ids := o[row]
	if len(ids) < 2 {
		return
	}
	adjPos := dag.PosMap(o[adj])
	bary := make(map[string]float64, len(ids))
	for i, id := range ids {
		nbrs := g.Children(id)
		if useParents {
			nbrs = g.Parents(id)
		}
		sum, n := 0.0, 0
		for _, nb := range nbrs {
			if p, ok := adjPos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		if n == 0 {
			bary[id] = float64(i)
		} else {
			bary[id] = sum / float64(n)
		}
	}
	slices.SortStableFunc(ids, func(a, b string) int {
		switch {
		case bary[a] < bary[b]:
			return -1
		case bary[a] > bary[b]:
			return 1
		}
		return 0
	})
}

// transpose swaps adjacent nodes while doing so strictly lowers the
// crossings with both neighbouring rows.
func transpose(g *dag.DAG, o orders) {
	rows := slices.Sorted(maps.Keys(o))
	limit := 4 * g.NodeCount()
	for improved := true; improved && limit > 0; limit-- {
		improved = false
		for _, r := range rows {
			ids := o[r]
			above, below := dag.PosMap(o[r-1]), dag.PosMap(o[r+1])
			for i := 0; i+1 < len(ids); i++ {
				v, w := ids[i], ids[i+1]
				before := pairCrossings(g, v, w, above, below)
				after := pairCrossings(g, w, v, above, below)
				if after < before {
					ids[i], ids[i+1] = w, v
					improved = true
				}
			}
		}
	}
}

func pairCrossings(g *dag.DAG, left, right string, above, below map[string]int) int {
	return dag.CountPairCrossingsWithPos(g, left, right, above, true) +
		dag.CountPairCrossingsWithPos(g, left, right, below, false)
}
