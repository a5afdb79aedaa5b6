// Package graph turns decoded JSON documents into display graphs.
//
// Every object and array in a document becomes a [Node]. A node carries its
// [jsonpath.Path] from the document root and a list of [Row] values, one per
// child. Rows never carry nested structure: scalar children show their value,
// container children show only their kind and child count, and get a node of
// their own connected by an [Edge].
//
// # Building
//
//	var doc any
//	_ = json.Unmarshal(data, &doc)
//	g := graph.Build(doc)
//	for _, n := range g.Nodes {
//	    fmt.Println(n.ID, jsonpath.Format(n.Path), len(n.Rows))
//	}
//
// Object members are visited in sorted key order and node IDs are assigned
// depth-first ("1", "2", ...), so the same document always produces the same
// graph.
//
// A scalar document produces a single node with one unkeyed row.
//
// # Serialization
//
// Graphs serialize to a node-link JSON format:
//
//	{
//	  "nodes": [{"id": "1", "path": [], "rows": [...]}],
//	  "edges": [{"from": "1", "to": "2"}]
//	}
//
// Width and Height are filled in by render.Measure; Build leaves them zero.
//
// # Concurrency
//
// Graphs are plain values. They are safe for concurrent reads but not
// concurrent writes.
package graph
