package layout

import (
	"slices"
	"strings"

	"github.com/matzehuels/familytree/pkg/dag"
	"github.com/matzehuels/familytree/pkg/family"
)

// orderSiblings puts siblings in birth order, top-down. Nodes of a row that
// share the same set of parent units are reassigned to the slots they
// already occupy, sorted by the birth date of their blood child. After each
// row the next one is re-sorted by barycentre so children follow their
// parents.
func orderSiblings(g *dag.DAG, o orders, t *family.Tree) {
	idx := t.Index()
	birth := func(id string) *family.Date {
		parents := g.Parents(id)
		if len(parents) == 0 {
			return nil
		}
		e, _ := g.Edge(parents[0], id)
		child, _ := e.Meta[metaChild].(string)
		return idx[child].Birth
	}

	rows := g.RowIDs()
	for _, r := range rows {
		ids := o[r]
		groups := make(map[string][]int)
		var keys []string
		for i, id := range ids {
			k := parentKey(g, id)
			if k == "" {
				continue
			}
			if _, ok := groups[k]; !ok {
				keys = append(keys, k)
			}
			groups[k] = append(groups[k], i)
		}

		for _, k := range keys {
			slots := groups[k]
			if len(slots) < 2 {
				continue
			}
			members := make([]string, len(slots))
			for i, s := range slots {
				members[i] = ids[s]
			}
			slices.SortStableFunc(members, func(a, b string) int {
				return compareBirth(birth(a), birth(b))
			})
			for i, s := range slots {
				ids[s] = members[i]
			}
		}

		if _, ok := o[r+1]; ok {
			sortByBarycentre(g, o, r+1, r, true)
		}
	}
}

// parentKey identifies the set of units a node descends from.
func parentKey(g *dag.DAG, id string) string {
	parents := g.Parents(id)
	if len(parents) == 0 {
		return ""
	}
	keys := make([]string, 0, len(parents))
	for _, p := range parents {
		if n, ok := g.Node(p); ok {
			keys = append(keys, n.EffectiveID())
		}
	}
	slices.Sort(keys)
	return strings.Join(slices.Compact(keys), "\x00")
}

// unknown reports whether d carries no date. "birth": "" and a bare 0
// both decode to a zero Date.
func unknown(d *family.Date) bool { return d == nil || d.IsZero() }

// compareBirth orders known dates chronologically before unknown ones.
func compareBirth(a, b *family.Date) int {
	switch {
	case unknown(a) && unknown(b):
		return 0
	case unknown(a):
		return 1
	case unknown(b):
		return -1
	}
	return a.Compare(*b)
}
