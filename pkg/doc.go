// Package pkg provides the libraries behind jsongraph, a browser and editor
// for JSON documents drawn as graphs of container nodes.
//
// # Overview
//
// A document is decoded once and turned into a display graph: one node per
// object or array, each carrying the rows it shows and the path that leads
// to it from the root. Selected nodes of a known record shape can be edited
// through a small form; saving replaces exactly the subtree at the node's
// path and leaves the rest of the document untouched.
//
// # Architecture
//
// The typical data flow:
//
//	Store (file, memory, Redis, MongoDB)
//	         ↓
//	    [document] handle (decode, revision metadata)
//	         ↓
//	    [graph] package (nodes, rows, edges, paths)
//	         ↓
//	    [render] package (row projection, node sizes) → [render/nodelink] (Graphviz)
//	         ↓
//	    [edit] session (field extraction, merge, save through the handle)
//	         ↓
//	    [jsonpath] Patch → Store
//
// # Quick Start
//
//	store, _ := document.NewFileStore("fruits.json")
//	h, _ := document.Load(ctx, store, nil)
//
//	g := h.Graph(ctx)
//	n, _ := g.NodeByPath(jsonpath.MustOf("fruits", 0))
//
//	sess := edit.NewSession(edit.DefaultCollection, nil)
//	sess.Open(n)
//	_ = sess.BeginEdit()
//	_ = sess.Set("name", "Pear")
//	note := sess.Save(ctx, h)
//	fmt.Println(note.Message) // Changes saved successfully!
//
// # Main Packages
//
// [jsonpath] - Paths into decoded JSON, bracket notation ($["fruits"][0]),
// RFC 6901 pointers, and the copy-on-write [jsonpath.Patch].
//
// [graph] - The display graph built from a document, with JSON
// serialization.
//
// [render] - Row projection ("key: value" texts), node measurement and a
// memo that skips re-projecting unchanged nodes.
//
// [render/nodelink] - DOT generation and Graphviz rendering to SVG, PDF and
// PNG, with SVG caching.
//
// [edit] - Shape classification, editable field extraction, content
// normalization and the edit session.
//
// [document] - The document handle and its stores.
//
// [cache] - Render cache backends (file, Redis, null) and cache keys.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for saves, renders, cache and store activity.
//
// [buildinfo] - Version information.
package pkg
