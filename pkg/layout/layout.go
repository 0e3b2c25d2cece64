package layout

import (
	"fmt"
	"strings"

	"github.com/matzehuels/familytree/pkg/dag"
	"github.com/matzehuels/familytree/pkg/dag/transform"
	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// EdgeKind distinguishes marriage lines from descent lines.
type EdgeKind string

const (
	EdgeSpouse EdgeKind = "spouse"
	EdgeParent EdgeKind = "parent"
)

// Point is a position in layout coordinates. Y grows downwards.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one person box. X and Y are the top-left corner.
type Node struct {
	ID         string        `json:"id"`
	Label      string        `json:"label"`
	Detail     string        `json:"detail,omitempty"` // life span
	Gender     family.Gender `json:"gender,omitempty"`
	X          float64       `json:"x"`
	Y          float64       `json:"y"`
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	Generation int           `json:"generation"`
	Unit       string        `json:"unit"`
}

// Center returns the centre of the box.
func (n Node) Center() Point {
	return Point{X: n.X + n.Width/2, Y: n.Y + n.Height/2}
}

// Edge is a polyline between two nodes. For parent edges Source is the
// parent unit and Parents lists the persons it stands for.
type Edge struct {
	ID      string   `json:"id"`
	Kind    EdgeKind `json:"kind"`
	Source  string   `json:"source"`
	Target  string   `json:"target"`
	Parents []string `json:"parents,omitempty"`
	Points  []Point  `json:"points"`
}

// Layout is a fully positioned family tree.
type Layout struct {
	Nodes       []Node   `json:"nodes"`
	Edges       []Edge   `json:"edges"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	Generations int      `json:"generations"`
	Crossings   int      `json:"crossings"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Node returns the node of person id.
func (l *Layout) Node(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Generation returns the nodes of generation g from left to right.
func (l *Layout) Generation(g int) []Node {
	var out []Node
	for _, n := range l.Nodes {
		if n.Generation == g {
			out = append(out, n)
		}
	}
	return out
}

// Compute lays out a family tree. Spouses are collapsed into units, units
// are ranked and ordered as a layered graph, siblings are put in birth
// order and the units are expanded back into person boxes and lines.
//
// Problems that do not prevent a drawing, such as a person recorded as
// their own ancestor, are reported in Layout.Warnings.
func Compute(t *family.Tree, opts Options) (*Layout, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tree is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.WithDefaults()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if len(t.Persons) == 0 {
		return &Layout{
			Nodes:  []Node{},
			Edges:  []Edge{},
			Width:  2 * opts.Margin,
			Height: 2 * opts.Margin,
		}, nil
	}

	u, err := collapse(t, opts)
	if err != nil {
		return nil, err
	}
	g := u.g
	res := transform.Normalize(g)
	for _, e := range res.RemovedEdges {
		u.warnings = append(u.warnings, cycleWarning(e))
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "layered graph")
	}

	o, _ := reduceCrossings(g, initialOrder(g), opts.Passes)
	orderSiblings(g, o, t)
	x := position(g, o, opts)

	l := expand(t, g, o, x, opts)
	l.Crossings = dag.CountCrossings(g, o)
	l.Warnings = u.warnings
	return l, nil
}

func cycleWarning(e dag.Edge) string {
	parents, _ := e.Meta[metaParents].([]string)
	child, _ := e.Meta[metaChild].(string)
	return fmt.Sprintf("%s would be their own ancestor; parent relation from %s ignored",
		child, strings.Join(parents, " and "))
}
