package dag

import "testing"

func crossGraph() *DAG {
	g := New(nil)
	for _, id := range []string{"a", "b"} {
		g.AddNode(Node{ID: id})
	}
	for _, id := range []string{"x", "y"} {
		g.AddNode(Node{ID: id, Row: 1})
	}
	g.AddEdge(Edge{From: "a", To: "y"})
	g.AddEdge(Edge{From: "b", To: "x"})
	return g
}

func TestCountLayerCrossings(t *testing.T) {
	g := crossGraph()
	tests := []struct {
		upper, lower []string
		want         int
	}{
		{[]string{"a", "b"}, []string{"x", "y"}, 1},
		{[]string{"a", "b"}, []string{"y", "x"}, 0},
		{[]string{"b", "a"}, []string{"x", "y"}, 0},
		{nil, []string{"x", "y"}, 0},
	}
	for _, tt := range tests {
		if got := CountLayerCrossings(g, tt.upper, tt.lower); got != tt.want {
			t.Errorf("CountLayerCrossings(%v, %v) = %d, want %d", tt.upper, tt.lower, got, tt.want)
		}
	}
}

func TestCountCrossings(t *testing.T) {
	g := crossGraph()
	got := CountCrossings(g, map[int][]string{0: {"a", "b"}, 1: {"x", "y"}})
	if got != 1 {
		t.Errorf("CountCrossings() = %d, want 1", got)
	}
}

func TestCountPairCrossingsWithPos(t *testing.T) {
	g := crossGraph()
	lower := PosMap([]string{"x", "y"})
	if got := CountPairCrossingsWithPos(g, "a", "b", lower, false); got != 1 {
		t.Errorf("a|b = %d, want 1", got)
	}
	if got := CountPairCrossingsWithPos(g, "b", "a", lower, false); got != 0 {
		t.Errorf("b|a = %d, want 0", got)
	}
	upper := PosMap([]string{"a", "b"})
	if got := CountPairCrossingsWithPos(g, "x", "y", upper, true); got != 1 {
		t.Errorf("x|y = %d, want 1", got)
	}
}
