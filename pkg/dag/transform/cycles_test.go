package transform

import (
	"testing"

	"github.com/matzehuels/familytree/pkg/dag"
)

func buildGraph(ids []string, edges [][2]string) *dag.DAG {
	g := dag.New(nil)
	for _, id := range ids {
		g.AddNode(dag.Node{ID: id})
	}
	for _, e := range edges {
		g.AddEdge(dag.Edge{From: e[0], To: e[1]})
	}
	return g
}

func TestBreakCycles(t *testing.T) {
	tests := []struct {
		name        string
		ids         []string
		edges       [][2]string
		wantRemoved int
		wantEdges   int
	}{
		{"empty", nil, nil, 0, 0},
		{"single", []string{"ann"}, nil, 0, 0},
		{"line", []string{"ann", "bob", "cid"}, [][2]string{{"ann", "bob"}, {"bob", "cid"}}, 0, 2},
		{"two-cycle", []string{"ann", "bob"}, [][2]string{{"ann", "bob"}, {"bob", "ann"}}, 1, 1},
		{"triangle", []string{"ann", "bob", "cid"}, [][2]string{{"ann", "bob"}, {"bob", "cid"}, {"cid", "ann"}}, 1, 2},
		{"self loop", []string{"ann"}, [][2]string{{"ann", "ann"}}, 1, 0},
		{
			"diamond",
			[]string{"ann", "bob", "cid", "dan"},
			[][2]string{{"ann", "bob"}, {"ann", "cid"}, {"bob", "dan"}, {"cid", "dan"}},
			0, 4,
		},
		{
			"two separate cycles",
			[]string{"ann", "bob", "cid", "dan"},
			[][2]string{{"ann", "bob"}, {"bob", "ann"}, {"cid", "dan"}, {"dan", "cid"}},
			2, 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(tt.ids, tt.edges)
			removed := BreakCycles(g)
			if len(removed) != tt.wantRemoved {
				t.Errorf("BreakCycles() removed %d edges, want %d", len(removed), tt.wantRemoved)
			}
			if g.EdgeCount() != tt.wantEdges {
				t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), tt.wantEdges)
			}
			if again := BreakCycles(g); len(again) != 0 {
				t.Errorf("graph still cyclic after BreakCycles(): %v", again)
			}
		})
	}
}

func TestBreakCycles_RemovesClosingEdge(t *testing.T) {
	// grandpa -> dad -> kid -> grandpa: the last edge closes the loop
	g := buildGraph(
		[]string{"grandpa", "dad", "kid"},
		[][2]string{{"grandpa", "dad"}, {"dad", "kid"}, {"kid", "grandpa"}},
	)
	// grandpa has a parent, so there is no source; search starts at grandpa.
	removed := BreakCycles(g)
	if len(removed) != 1 || removed[0].From != "kid" || removed[0].To != "grandpa" {
		t.Errorf("BreakCycles() removed %v, want kid->grandpa", removed)
	}
}
