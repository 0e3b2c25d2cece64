package layout_test

import (
	"fmt"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
)

func ExampleCompute() {
	born := func(s string) *family.Date {
		d := family.MustParseDate(s)
		return &d
	}
	tree := &family.Tree{
		Name: "Smith",
		Persons: []family.Person{
			{ID: "ann", Name: "Ann"},
			{ID: "bob", Name: "Bob"},
			{ID: "carl", Name: "Carl", Birth: born("1950")},
			{ID: "dora", Name: "Dora", Birth: born("1948")},
		},
		Relations: []family.Relation{
			{Type: family.RelationSpouse, From: "ann", To: "bob"},
			{Type: family.RelationParent, From: "ann", To: "carl"},
			{Type: family.RelationParent, From: "bob", To: "carl"},
			{Type: family.RelationParent, From: "ann", To: "dora"},
			{Type: family.RelationParent, From: "bob", To: "dora"},
		},
	}

	l, err := layout.Compute(tree, layout.Options{})
	if err != nil {
		panic(err)
	}
	for _, n := range l.Nodes {
		fmt.Printf("%s gen %d at (%.0f, %.0f)\n", n.Label, n.Generation, n.X, n.Y)
	}
	fmt.Printf("size %.0fx%.0f, %d edges, %d crossings\n", l.Width, l.Height, len(l.Edges), l.Crossings)
	// Output:
	// Ann gen 0 at (48, 40)
	// Bob gen 0 at (232, 40)
	// Dora gen 1 at (40, 200)
	// Carl gen 1 at (240, 200)
	// size 440x304, 3 edges, 0 crossings
}
