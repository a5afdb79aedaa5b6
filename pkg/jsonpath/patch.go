package jsonpath

import (
	"fmt"

	errs "github.com/matzehuels/jsongraph/pkg/errors"
)

// StalePathError reports that a path no longer resolves in a document,
// usually because the document changed shape after the path was computed.
// It is not retryable; callers must derive the path again.
type StalePathError struct {
	Path   Path   // The path that failed to resolve
	Depth  int    // Index of the segment that could not be applied
	Reason string // What was found instead
}

// Error implements the error interface.
func (e *StalePathError) Error() string {
	return fmt.Sprintf("stale path %s: segment %d (%s): %s", Format(e.Path), e.Depth, e.Path[e.Depth], e.Reason)
}

// Code returns the error code for this error type.
func (e *StalePathError) Code() errs.Code {
	return errs.ErrCodeStalePath
}

// Resolve returns the value at p inside doc. The returned value is not a
// copy; use [Clone] before modifying it.
func Resolve(doc any, p Path) (any, error) {
	cur := doc
	for i, seg := range p {
		next, err := step(cur, seg)
		if err != nil {
			return nil, &StalePathError{Path: p, Depth: i, Reason: err.Error()}
		}
		cur = next
	}
	return cur, nil
}

// Patch returns a copy of doc in which the value at p is replaced by value.
//
// An empty path yields a copy of value. Otherwise doc is deep-cloned, the
// clone is walked along every segment but the last, and a copy of value is
// assigned at the last segment. Neither doc nor value is modified and the
// result shares no containers with them. Assigning a new key on an existing
// object is allowed; indexing past the end of an array is not.
func Patch(doc any, p Path, value any) (any, error) {
	if len(p) == 0 {
		return Clone(value), nil
	}

	root := Clone(doc)
	parent := root
	last := len(p) - 1
	for i, seg := range p[:last] {
		next, err := step(parent, seg)
		if err != nil {
			return nil, &StalePathError{Path: p, Depth: i, Reason: err.Error()}
		}
		parent = next
	}

	seg := p[last]
	switch c := parent.(type) {
	case map[string]any:
		if seg.isIndex {
			return nil, &StalePathError{Path: p, Depth: last, Reason: "index segment on object"}
		}
		c[seg.key] = Clone(value)
	case []any:
		if !seg.isIndex {
			return nil, &StalePathError{Path: p, Depth: last, Reason: "key segment on array"}
		}
		if seg.index < 0 || seg.index >= len(c) {
			return nil, &StalePathError{Path: p, Depth: last, Reason: fmt.Sprintf("index out of range (len %d)", len(c))}
		}
		c[seg.index] = Clone(value)
	default:
		return nil, &StalePathError{Path: p, Depth: last, Reason: "parent is " + kindOf(parent)}
	}
	return root, nil
}

// step applies one segment to a container.
func step(cur any, seg Segment) (any, error) {
	switch c := cur.(type) {
	case map[string]any:
		if seg.isIndex {
			return nil, fmt.Errorf("index segment on object")
		}
		v, ok := c[seg.key]
		if !ok {
			return nil, fmt.Errorf("missing key")
		}
		return v, nil
	case []any:
		if !seg.isIndex {
			return nil, fmt.Errorf("key segment on array")
		}
		if seg.index < 0 || seg.index >= len(c) {
			return nil, fmt.Errorf("index out of range (len %d)", len(c))
		}
		return c[seg.index], nil
	default:
		return nil, fmt.Errorf("not a container: %s", kindOf(cur))
	}
}

// Clone deep-copies a decoded JSON value. Maps and slices are copied
// recursively; scalars are returned as-is.
func Clone(v any) any {
	switch c := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(c))
		for k, child := range c {
			out[k] = Clone(child)
		}
		return out
	case []any:
		out := make([]any, len(c))
		for i, child := range c {
			out[i] = Clone(child)
		}
		return out
	default:
		return v
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return "number"
	}
}
