package render

import (
	"unicode/utf8"

	"github.com/matzehuels/jsongraph/pkg/graph"
)

// Node dimensions in display units.
const (
	RowHeight = 24.0
	CharWidth = 8.0
	Padding   = 20.0
)

// Size returns the width and height of a node from its projected rows.
// Width fits the longest "key: text" line; height is one RowHeight per row,
// with a minimum of one row.
func Size(n *graph.Node) (width, height float64) {
	longest := 0
	for _, l := range Lines(n, 0, 0) {
		if c := utf8.RuneCountInString(l.Label()); c > longest {
			longest = c
		}
	}
	rows := max(len(n.Rows), 1)
	return float64(longest)*CharWidth + Padding, float64(rows) * RowHeight
}

// Measure sets Width and Height on every node of g.
func Measure(g *graph.Graph) {
	for i := range g.Nodes {
		g.Nodes[i].Width, g.Nodes[i].Height = Size(&g.Nodes[i])
	}
}
