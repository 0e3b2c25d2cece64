// Package dag provides the row-based directed acyclic graph used by the
// family-tree layout engine.
//
// # Overview
//
// The layout engine never lays out persons directly. It first collapses
// spouses into couple units and then positions those units in a layered
// (Sugiyama-style) drawing: every unit is assigned a row (generation) and
// edges point from a parent unit to a child unit. This package holds that
// intermediate graph.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "couple:ann+bob", Kind: dag.NodeKindCouple, Members: []string{"ann", "bob"}})
//	g.AddNode(dag.Node{ID: "carl", Row: 1, Members: []string{"carl"}})
//	g.AddEdge(dag.Edge{From: "couple:ann+bob", To: "carl"})
//
// # Node Types
//
//   - [NodeKindUnit]: a single person
//   - [NodeKindCouple]: a collapsed spouse group, laid out as one block
//   - [NodeKindSubdivider]: a zero-width node that breaks an edge spanning
//     several generations into single-row hops
//
// # Determinism
//
// The graph records insertion order and all traversals follow it, so the
// same input always yields the same drawing.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count crossings with a Fenwick
// tree in O(E log V); the orderer uses them to keep the best ordering seen
// across barycentric sweeps.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
//
// The [transform] subpackage breaks cycles, assigns rows and subdivides long
// edges.
//
// [transform]: github.com/matzehuels/familytree/pkg/dag/transform
package dag
