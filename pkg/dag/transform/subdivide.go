package transform

import (
	"fmt"
	"maps"

	"github.com/matzehuels/familytree/pkg/dag"
)

// Subdivide breaks edges that span several rows into chains of single-row
// edges joined by zero-width [dag.NodeKindSubdivider] nodes:
//
//	Before: couple:ann+bob (row 0) → eve (row 2)
//	After:  couple:ann+bob → couple:ann+bob_sub_1 → eve
//
// Each subdivider carries MasterID = the source unit. Every segment of a
// chain carries a copy of the original edge metadata, so anchor offsets
// recorded on the edge survive subdivision.
//
// Subdivider IDs have the form "master_sub_row"; on collision a numeric
// suffix is appended ("master_sub_1__2").
func Subdivide(g *dag.DAG) int {
	gen := newIDGen(g.Nodes())
	var toRemove []dag.Edge
	added := 0
	for _, e := range g.Edges() {
		src, srcOK := g.Node(e.From)
		dst, dstOK := g.Node(e.To)
		if !srcOK || !dstOK || dst.Row <= src.Row+1 {
			continue
		}

		toRemove = append(toRemove, e)
		prevID := src.ID
		for row := src.Row + 1; row < dst.Row; row++ {
			prevID = addSubdivider(g, gen, prevID, src.EffectiveID(), row, e.Meta)
			added++
		}
		if err := g.AddEdge(dag.Edge{From: prevID, To: dst.ID, Meta: maps.Clone(e.Meta)}); err != nil {
			panic(err)
		}
	}

	for _, e := range toRemove {
		g.RemoveEdge(e.From, e.To)
	}
	return added
}

func addSubdivider(g *dag.DAG, gen *idGen, from, master string, row int, meta dag.Metadata) string {
	id := gen.next(master, row)
	if err := g.AddNode(dag.Node{
		ID:       id,
		Row:      row,
		Kind:     dag.NodeKindSubdivider,
		MasterID: master,
	}); err != nil {
		panic(err)
	}
	if err := g.AddEdge(dag.Edge{From: from, To: id, Meta: maps.Clone(meta)}); err != nil {
		panic(err)
	}
	return id
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, row int) string {
	prefix := fmt.Sprintf("%s_sub_%d", base, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
