// Package edit decides which graph nodes can be edited and turns their rows
// into form fields.
//
// Only three node shapes are editable, recognized by their path alone:
//
//	[collection, i]              fruit     fields name, color
//	[collection, i, "details"]   details   fields type, season
//	[collection, i, "nutrients"] nutrients one field per scalar key
//
// [Classify] is the single place where a path is matched against these
// patterns. Every other node is [ShapeNone] and is shown read-only.
//
// A [Session] holds the state of one open node: its shape, the values
// loaded from the rows, the user's drafts and whether edit mode is on. Saving
// merges the drafts over the node's current value (see [Merge]) and hands the
// result to an [Applier], normally a document.Handle. The outcome is reported
// as a single [Notification].
//
// Malformed row content never produces an error for the user: fields fall
// back to empty values.
package edit
