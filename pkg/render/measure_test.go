package render

import (
	"testing"

	"github.com/matzehuels/jsongraph/pkg/graph"
)

func TestSize(t *testing.T) {
	tests := []struct {
		name       string
		rows       []graph.Row
		wantWidth  float64
		wantHeight float64
	}{
		{
			name:       "no rows",
			rows:       nil,
			wantWidth:  Padding,
			wantHeight: RowHeight,
		},
		{
			name: "longest line wins",
			rows: []graph.Row{
				{Key: "a", Type: graph.KindNumber, Value: float64(1)},        // "a: 1"
				{Key: "name", Type: graph.KindString, Value: "banana"},       // "name: banana"
				{Key: "d", Type: graph.KindObject, ChildrenCount: intPtr(2)}, // "d: {2 keys}"
			},
			wantWidth:  12*CharWidth + Padding,
			wantHeight: 3 * RowHeight,
		},
		{
			name:       "runes not bytes",
			rows:       []graph.Row{{Type: graph.KindString, Value: "ünï"}},
			wantWidth:  3*CharWidth + Padding,
			wantHeight: RowHeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Size(&graph.Node{Rows: tt.rows})
			if w != tt.wantWidth || h != tt.wantHeight {
				t.Errorf("Size() = %v x %v, want %v x %v", w, h, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestMeasure(t *testing.T) {
	g := &graph.Graph{Nodes: []graph.Node{
		{ID: "1", Rows: []graph.Row{{Key: "k", Type: graph.KindString, Value: "v"}}},
		{ID: "2"},
	}}
	Measure(g)
	for _, n := range g.Nodes {
		if n.Width == 0 || n.Height == 0 {
			t.Errorf("node %s not measured: %v x %v", n.ID, n.Width, n.Height)
		}
	}
}
