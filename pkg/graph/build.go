package graph

import (
	"maps"
	"slices"
	"strconv"

	"github.com/matzehuels/jsongraph/pkg/jsonpath"
)

// Build derives the display graph of a decoded JSON document.
// The document is only read.
func Build(doc any) *Graph {
	b := &builder{g: &Graph{Nodes: []Node{}, Edges: []Edge{}}}
	b.visit(doc, jsonpath.Path{})
	return b.g
}

type builder struct {
	g    *Graph
	next int
}

func (b *builder) newNode(p jsonpath.Path, kind Kind) int {
	b.next++
	b.g.Nodes = append(b.g.Nodes, Node{
		ID:   strconv.Itoa(b.next),
		Path: p,
		Kind: kind,
		Rows: []Row{},
	})
	return len(b.g.Nodes) - 1
}

// visit adds the node for v and its container descendants, returning the ID.
func (b *builder) visit(v any, p jsonpath.Path) string {
	kind := KindOf(v)
	idx := b.newNode(p, kind)
	id := b.g.Nodes[idx].ID

	switch c := v.(type) {
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(c)) {
			child := c[k]
			b.g.Nodes[idx].Rows = append(b.g.Nodes[idx].Rows, rowFor(k, child))
			if KindOf(child).IsContainer() {
				childID := b.visit(child, p.Child(jsonpath.Key(k)))
				b.g.Edges = append(b.g.Edges, Edge{From: id, To: childID})
			}
		}
	case []any:
		for i, child := range c {
			b.g.Nodes[idx].Rows = append(b.g.Nodes[idx].Rows, rowFor("", child))
			if KindOf(child).IsContainer() {
				childID := b.visit(child, p.Child(jsonpath.Index(i)))
				b.g.Edges = append(b.g.Edges, Edge{From: id, To: childID})
			}
		}
	default:
		b.g.Nodes[idx].Rows = append(b.g.Nodes[idx].Rows, rowFor("", v))
	}
	return id
}

func rowFor(key string, v any) Row {
	kind := KindOf(v)
	switch c := v.(type) {
	case map[string]any:
		n := len(c)
		return Row{Key: key, Type: kind, ChildrenCount: &n}
	case []any:
		n := len(c)
		return Row{Key: key, Type: kind, ChildrenCount: &n}
	default:
		return Row{Key: key, Type: kind, Value: v}
	}
}
