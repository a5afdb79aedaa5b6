package edit

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"strings"

	errs "github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/render"
)

// Normalize returns the read-only content view of a node's rows.
//
// No rows yield "{}". A single unkeyed row yields its display text. Anything
// else yields a 2-space indented JSON object of the keyed scalar rows in row
// order; container rows are left out.
func Normalize(rows []graph.Row) string {
	if len(rows) == 0 {
		return "{}"
	}
	if len(rows) == 1 && !rows[0].Keyed() {
		return render.Project(rows[0])
	}

	var keys []string
	values := make(map[string]any)
	for _, row := range rows {
		if row.Type.IsContainer() || !row.Keyed() {
			continue
		}
		if _, seen := values[row.Key]; !seen {
			keys = append(keys, row.Key)
		}
		values[row.Key] = row.Value
	}

	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			compact.WriteByte(',')
		}
		compact.Write(encode(k))
		compact.WriteByte(':')
		compact.Write(encode(values[k]))
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return compact.String()
	}
	return out.String()
}

// encode marshals v without HTML escaping. Unencodable values become null.
func encode(v any) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return []byte("null")
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}

// ExtractFields parses the normalized content of rows as a JSON object and
// returns its members as display strings. Content that is not a JSON object
// fails with ErrCodeParseFailure.
func ExtractFields(rows []graph.Row) (map[string]string, error) {
	obj, err := parseContent(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		out[k] = render.DisplayValue(v)
	}
	return out, nil
}

func parseContent(rows []graph.Row) (map[string]any, error) {
	content := Normalize(rows)
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, errs.Wrap(errs.ErrCodeParseFailure, err, "node content is not a JSON object")
	}
	if obj == nil {
		return nil, errs.New(errs.ErrCodeParseFailure, "node content is null")
	}
	return obj, nil
}

// =============================================================================
// Field sets
// =============================================================================

// Field is one editable input.
type Field struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Value       string `json:"value"`
}

// FieldSet is the ordered list of inputs shown for a node.
type FieldSet struct {
	Shape  Shape   `json:"-"`
	Fields []Field `json:"fields"`
}

type fieldSpec struct{ key, label, placeholder string }

var fixedFields = map[Shape][]fieldSpec{
	ShapeFruit: {
		{"name", "Name", "Enter name"},
		{"color", "Color", "Enter color (e.g., #FF0000)"},
	},
	ShapeDetails: {
		{"type", "Type", "Enter type"},
		{"season", "Season", "Enter season"},
	},
}

// FieldsFor builds the field set for a node of the given shape.
//
// Fruit and details nodes always get their two fields; a member that is
// missing or null starts empty. Nutrients nodes get one field per scalar
// member, sorted by key. Content that cannot be parsed degrades silently to
// empty values (or no fields for nutrients). ShapeNone has no fields.
func FieldsFor(shape Shape, rows []graph.Row) FieldSet {
	fs := FieldSet{Shape: shape}
	if !shape.Editable() {
		return fs
	}

	obj, err := parseContent(rows)
	if err != nil {
		obj = nil
	}

	if shape == ShapeNutrients {
		for _, k := range slices.Sorted(maps.Keys(obj)) {
			fs.Fields = append(fs.Fields, Field{
				Key:         k,
				Label:       k,
				Placeholder: "Enter " + k,
				Value:       render.DisplayValue(obj[k]),
			})
		}
		return fs
	}

	for _, spec := range fixedFields[shape] {
		value := ""
		if v, ok := obj[spec.key]; ok && v != nil {
			value = render.DisplayValue(v)
		}
		fs.Fields = append(fs.Fields, Field{
			Key:         spec.key,
			Label:       spec.label,
			Placeholder: spec.placeholder,
			Value:       value,
		})
	}
	return fs
}

// Len returns the number of fields.
func (fs FieldSet) Len() int { return len(fs.Fields) }

// Keys returns the field keys in display order.
func (fs FieldSet) Keys() []string {
	keys := make([]string, len(fs.Fields))
	for i, f := range fs.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Value returns the value of the field with the given key.
func (fs FieldSet) Value(key string) (string, bool) {
	for _, f := range fs.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Set updates the value of an existing field and reports whether it exists.
func (fs *FieldSet) Set(key, value string) bool {
	for i := range fs.Fields {
		if fs.Fields[i].Key == key {
			fs.Fields[i].Value = value
			return true
		}
	}
	return false
}

// Values returns the fields as a key to value map.
func (fs FieldSet) Values() map[string]string {
	out := make(map[string]string, len(fs.Fields))
	for _, f := range fs.Fields {
		out[f.Key] = f.Value
	}
	return out
}

// Clone returns a copy that shares no memory with fs.
func (fs FieldSet) Clone() FieldSet {
	return FieldSet{Shape: fs.Shape, Fields: slices.Clone(fs.Fields)}
}

// Merge returns the shallow merge of fields over existing. Members of
// existing that are not edited survive unchanged. A non-object existing
// value contributes nothing.
func Merge(existing any, fields map[string]string) map[string]any {
	out := make(map[string]any, len(fields))
	if obj, ok := existing.(map[string]any); ok {
		maps.Copy(out, obj)
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}
