package transform

import "github.com/matzehuels/familytree/pkg/dag"

// BreakCycles removes the back edges found by a depth-first search so that
// the graph becomes acyclic, and returns the removed edges.
//
// Family data is acyclic in principle, but hand-entered trees occasionally
// record someone as their own ancestor. The search starts from the sources
// in insertion order, so the edge that closes the loop last in the input is
// the one dropped.
func BreakCycles(g *dag.DAG) []dag.Edge {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	var back []dag.Edge

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				e, _ := g.Edge(node, child)
				back = append(back, e)
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, e := range back {
		g.RemoveEdge(e.From, e.To)
	}
	return back
}
