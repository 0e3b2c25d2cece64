package transform

import "github.com/matzehuels/familytree/pkg/dag"

// Result summarises what [Normalize] changed.
type Result struct {
	RemovedEdges []dag.Edge // back edges dropped to break cycles
	Tightened    int        // source units moved down next to their children
	Subdividers  int        // synthetic nodes inserted for long edges
}

// Normalize prepares a unit graph for ordering: it breaks cycles, assigns
// rows, tightens sources and subdivides long edges, in that order.
func Normalize(g *dag.DAG) Result {
	var res Result
	res.RemovedEdges = BreakCycles(g)
	AssignLayers(g)
	res.Tightened = TightenSources(g)
	res.Subdividers = Subdivide(g)
	return res
}
