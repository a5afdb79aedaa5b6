package jsonpath

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// Segment is a single step in a [Path]: an object key or an array index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a segment addressing an object member.
func Key(k string) Segment { return Segment{key: k} }

// Index returns a segment addressing an array element.
// Negative indices never resolve; they are rejected by [Of] and [Parse].
func Index(i int) Segment { return Segment{index: i, isIndex: true} }

// IsIndex reports whether the segment addresses an array element.
func (s Segment) IsIndex() bool { return s.isIndex }

// Key returns the object key and true for key segments.
func (s Segment) Key() (string, bool) { return s.key, !s.isIndex }

// Index returns the array index and true for index segments.
func (s Segment) Index() (int, bool) { return s.index, s.isIndex }

// String renders the segment as it appears inside brackets.
func (s Segment) String() string {
	if s.isIndex {
		return fmt.Sprintf("%d", s.index)
	}
	return quote(s.key)
}

// Path locates a node from the document root. The zero value is the root.
type Path []Segment

// Of builds a path from strings (keys) and integers (indices).
func Of(parts ...any) (Path, error) {
	p := make(Path, 0, len(parts))
	for i, part := range parts {
		seg, err := segmentOf(part)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		p = append(p, seg)
	}
	return p, nil
}

// MustOf is like [Of] but panics on unsupported segment values.
// It is intended for literals in tests and examples.
func MustOf(parts ...any) Path {
	p, err := Of(parts...)
	if err != nil {
		panic(err)
	}
	return p
}

func segmentOf(part any) (Segment, error) {
	switch v := part.(type) {
	case string:
		return Key(v), nil
	case int:
		if v < 0 {
			return Segment{}, fmt.Errorf("negative index %d", v)
		}
		return Index(v), nil
	case int64:
		if v < 0 || v > math.MaxInt32 {
			return Segment{}, fmt.Errorf("index %d out of range", v)
		}
		return Index(int(v)), nil
	case float64:
		if v < 0 || v != math.Trunc(v) || v > math.MaxInt32 {
			return Segment{}, fmt.Errorf("index %v is not a non-negative integer", v)
		}
		return Index(int(v)), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return Segment{}, fmt.Errorf("index %s is not an integer", v)
		}
		return segmentOf(n)
	case Segment:
		return v, nil
	default:
		return Segment{}, fmt.Errorf("unsupported segment type %T", part)
	}
}

// Len returns the number of segments.
func (p Path) Len() int { return len(p) }

// IsRoot reports whether the path addresses the document root.
func (p Path) IsRoot() bool { return len(p) == 0 }

// Child returns a new path extended by seg. The receiver is not modified.
func (p Path) Child(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Parent returns the path without its last segment. The root's parent is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return slices.Clone(p[:len(p)-1])
}

// Last returns the final segment and false for the root path.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Equal reports whether both paths have the same segments.
func (p Path) Equal(o Path) bool {
	return slices.Equal(p, o)
}

// HasPrefix reports whether o is a prefix of p (or equal to it).
func (p Path) HasPrefix(o Path) bool {
	return len(o) <= len(p) && slices.Equal(p[:len(o)], o)
}

// Overlaps reports whether one path is a prefix of the other, i.e. a patch at
// one of them can change what the other resolves to.
func (p Path) Overlaps(o Path) bool {
	return p.HasPrefix(o) || o.HasPrefix(p)
}

// String returns the bracket notation; see [Format].
func (p Path) String() string { return Format(p) }

// MarshalJSON encodes the path as an array of strings and numbers.
func (p Path) MarshalJSON() ([]byte, error) {
	parts := make([]any, len(p))
	for i, s := range p {
		if s.isIndex {
			parts[i] = s.index
		} else {
			parts[i] = s.key
		}
	}
	return json.Marshal(parts)
}

// UnmarshalJSON accepts either an array of keys/indices or a string in
// bracket notation.
func (p *Path) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		parsed, err := Parse(text)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	var parts []any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&parts); err != nil {
		return fmt.Errorf("decode path: %w", err)
	}
	parsed, err := Of(parts...)
	if err != nil {
		return fmt.Errorf("decode path: %w", err)
	}
	*p = parsed
	return nil
}
