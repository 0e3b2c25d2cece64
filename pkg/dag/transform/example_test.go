package transform_test

import (
	"fmt"

	"github.com/matzehuels/familytree/pkg/dag"
	"github.com/matzehuels/familytree/pkg/dag/transform"
)

func ExampleNormalize() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "grandparents"})
	_ = g.AddNode(dag.Node{ID: "parents"})
	_ = g.AddNode(dag.Node{ID: "child"})
	_ = g.AddEdge(dag.Edge{From: "grandparents", To: "parents"})
	_ = g.AddEdge(dag.Edge{From: "parents", To: "child"})
	_ = g.AddEdge(dag.Edge{From: "grandparents", To: "child"}) // raised by grandparents too

	res := transform.Normalize(g)

	fmt.Println("Rows:", g.RowCount())
	fmt.Println("Subdividers:", res.Subdividers)
	fmt.Println("Valid:", g.Validate() == nil)
	// Output:
	// Rows: 3
	// Subdividers: 1
	// Valid: true
}
