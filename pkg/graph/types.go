package graph

import (
	"github.com/matzehuels/jsongraph/pkg/jsonpath"
)

// Kind classifies a JSON value.
type Kind string

// Value kinds.
const (
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindNull    Kind = "null"
)

// IsContainer reports whether the kind is object or array.
func (k Kind) IsContainer() bool { return k == KindObject || k == KindArray }

// KindOf returns the kind of a decoded JSON value.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	case string:
		return KindString
	case bool:
		return KindBoolean
	default:
		return KindNumber
	}
}

// =============================================================================
// Row - One Displayed Line
// =============================================================================

// Row is the display projection of one child of a node.
// Container rows carry ChildrenCount and no Value.
// An empty Key means the row is unkeyed (array elements, scalar documents).
type Row struct {
	Key           string `json:"key,omitempty"`
	Type          Kind   `json:"type"`
	Value         any    `json:"value,omitempty"`
	ChildrenCount *int   `json:"childrenCount,omitempty"`
}

// Keyed reports whether the row belongs to an object member.
func (r Row) Keyed() bool { return r.Key != "" }

// Count returns ChildrenCount, or 0 when it is absent.
func (r Row) Count() int {
	if r.ChildrenCount == nil {
		return 0
	}
	return *r.ChildrenCount
}

// =============================================================================
// Node, Edge, Graph
// =============================================================================

// Node is one box in the graph: an object, an array, or a scalar document.
type Node struct {
	ID     string        `json:"id"`
	Path   jsonpath.Path `json:"path"`
	Kind   Kind          `json:"kind"`
	Rows   []Row         `json:"rows"`
	Width  float64       `json:"width,omitempty"`
	Height float64       `json:"height,omitempty"`
}

// Edge connects a container node to the node of one of its container children.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the node-link view of a document.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// NodeByPath returns the node whose path equals p.
func (g *Graph) NodeByPath(p jsonpath.Path) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].Path.Equal(p) {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// Children returns the IDs of nodes reached by edges from id, in edge order.
func (g *Graph) Children(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}
