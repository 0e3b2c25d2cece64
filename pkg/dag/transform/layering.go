package transform

import "github.com/matzehuels/familytree/pkg/dag"

// AssignLayers assigns every node a row equal to the length of the longest
// path reaching it from a source (a unit with no recorded parents).
//
// It is Kahn's algorithm: sources start at row 0 and each child is pushed to
// one plus the deepest of its parents. Existing rows are overwritten. The
// graph must be acyclic; run [BreakCycles] first, otherwise nodes on a cycle
// stay at row 0.
//
// Longest-path layering alone leaves in-laws stranded: a spouse's parents
// have no ancestors in the tree and would be drawn in the top row however
// deep their child sits. Follow with [TightenSources].
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}

// TightenSources moves every source node with children down to the row
// directly above its highest child. Sources without children stay put.
// It returns the number of nodes moved.
func TightenSources(g *dag.DAG) int {
	rows := make(map[string]int)
	for _, n := range g.Sources() {
		children := g.Children(n.ID)
		if len(children) == 0 {
			continue
		}
		minChild := -1
		for _, c := range children {
			cn, _ := g.Node(c)
			if minChild < 0 || cn.Row < minChild {
				minChild = cn.Row
			}
		}
		if target := minChild - 1; target > n.Row {
			rows[n.ID] = target
		}
	}
	if len(rows) > 0 {
		g.SetRows(rows)
	}
	return len(rows)
}
