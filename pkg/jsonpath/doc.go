// Package jsonpath addresses and replaces nodes inside decoded JSON documents.
//
// A [Path] is an ordered list of [Segment] values leading from the document
// root to a node. Each segment is either an object key or an array index.
// Paths are computed when the graph is built and stay fixed for the lifetime
// of the node they describe.
//
// # Documents
//
// Documents are the values produced by encoding/json when decoding into any:
// map[string]any, []any, string, float64, bool and nil. Functions in this
// package never modify their input documents.
//
// # Patching
//
// [Patch] produces a new document with exactly one subtree replaced:
//
//	doc := map[string]any{"fruits": []any{map[string]any{"name": "apple"}}}
//	next, err := jsonpath.Patch(doc, jsonpath.MustOf("fruits", 0, "name"), "pear")
//	// doc is unchanged, next["fruits"][0]["name"] == "pear"
//
// When the document no longer has the shape the path was computed against
// (for example an array shrank after a reload), Patch and [Resolve] fail with
// a [*StalePathError]. Such failures are not retryable: the caller has to
// derive a fresh path first.
//
// # Notation
//
// [Format] renders the user-visible bracket notation used by "copy JSON path":
//
//	$                        empty path
//	$["fruits"][0]["details"]
//
// [Parse] reads the same notation back. [Pointer] renders an RFC 6901 JSON
// pointer for diagnostics and merge-patch logs.
package jsonpath
