// Package transform turns an unlayered unit graph into a proper layered
// graph ready for row ordering.
//
// # Pipeline
//
// [Normalize] applies, in order:
//
//   - [BreakCycles]: drop DFS back edges so the graph is acyclic
//   - [AssignLayers]: longest-path rows from the sources
//   - [TightenSources]: pull parentless units down next to their children,
//     so in-law families sit beside the family they married into
//   - [Subdivide]: replace edges spanning several generations with chains of
//     zero-width subdivider nodes
//
// After Normalize, [dag.DAG.Validate] holds: every edge joins consecutive
// rows and there are no cycles.
package transform
