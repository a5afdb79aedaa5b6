package edit

import (
	"encoding/json"
	"reflect"
	"testing"

	errs "github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/graph"
)

func count(n int) *int { return &n }

func fruitRows() []graph.Row {
	return []graph.Row{
		{Key: "color", Type: graph.KindString, Value: "#FF0000"},
		{Key: "details", Type: graph.KindObject, ChildrenCount: count(2)},
		{Key: "name", Type: graph.KindString, Value: "Apple"},
		{Key: "nutrients", Type: graph.KindObject, ChildrenCount: count(3)},
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		rows []graph.Row
		want string
	}{
		{"no rows", nil, "{}"},
		{"single unkeyed string", []graph.Row{{Type: graph.KindString, Value: "hello"}}, "hello"},
		{"single unkeyed number", []graph.Row{{Type: graph.KindNumber, Value: float64(3)}}, "3"},
		{"single unkeyed null", []graph.Row{{Type: graph.KindNull}}, "null"},
		{
			name: "containers dropped",
			rows: fruitRows(),
			want: "{\n  \"color\": \"#FF0000\",\n  \"name\": \"Apple\"\n}",
		},
		{
			name: "only containers",
			rows: []graph.Row{{Key: "a", Type: graph.KindArray, ChildrenCount: count(1)}},
			want: "{}",
		},
		{
			name: "row order kept",
			rows: []graph.Row{
				{Key: "z", Type: graph.KindBoolean, Value: true},
				{Key: "a", Type: graph.KindNull},
				{Key: "m", Type: graph.KindString, Value: "<b>"},
			},
			want: "{\n  \"z\": true,\n  \"a\": null,\n  \"m\": \"<b>\"\n}",
		},
		{
			name: "duplicate key keeps first position",
			rows: []graph.Row{
				{Key: "a", Type: graph.KindNumber, Value: float64(1)},
				{Key: "b", Type: graph.KindNumber, Value: float64(2)},
				{Key: "a", Type: graph.KindNumber, Value: float64(3)},
			},
			want: "{\n  \"a\": 3,\n  \"b\": 2\n}",
		},
		{
			name: "unkeyed rows among many are skipped",
			rows: []graph.Row{
				{Type: graph.KindString, Value: "x"},
				{Type: graph.KindString, Value: "y"},
			},
			want: "{}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.rows); got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractFields(t *testing.T) {
	rows := []graph.Row{
		{Key: "calories", Type: graph.KindNumber, Value: float64(52)},
		{Key: "fiber", Type: graph.KindString, Value: "2.4g"},
		{Key: "organic", Type: graph.KindBoolean, Value: false},
		{Key: "vitamins", Type: graph.KindArray, ChildrenCount: count(2)},
	}

	got, err := ExtractFields(rows)
	if err != nil {
		t.Fatalf("ExtractFields() error = %v", err)
	}
	want := map[string]string{"calories": "52", "fiber": "2.4g", "organic": "false"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractFields() = %v, want %v", got, want)
	}
}

func TestExtractFieldsParseFailure(t *testing.T) {
	tests := []struct {
		name string
		rows []graph.Row
	}{
		{"plain string", []graph.Row{{Type: graph.KindString, Value: "not json"}}},
		{"number", []graph.Row{{Type: graph.KindNumber, Value: float64(7)}}},
		{"null", []graph.Row{{Type: graph.KindNull}}},
		{"array summary", []graph.Row{{Type: graph.KindArray, ChildrenCount: count(2)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractFields(tt.rows)
			if !errs.Is(err, errs.ErrCodeParseFailure) {
				t.Errorf("ExtractFields() error = %v, want PARSE_FAILURE", err)
			}
		})
	}
}

func TestFieldsFor(t *testing.T) {
	fruit := FieldsFor(ShapeFruit, fruitRows())
	if got := fruit.Keys(); !reflect.DeepEqual(got, []string{"name", "color"}) {
		t.Errorf("fruit Keys() = %v, want [name color]", got)
	}
	if fruit.Fields[0].Label != "Name" || fruit.Fields[1].Placeholder != "Enter color (e.g., #FF0000)" {
		t.Errorf("fruit fields = %+v", fruit.Fields)
	}
	if v, _ := fruit.Value("name"); v != "Apple" {
		t.Errorf("fruit name = %q, want Apple", v)
	}

	details := FieldsFor(ShapeDetails, []graph.Row{
		{Key: "type", Type: graph.KindString, Value: "pome"},
		{Key: "season", Type: graph.KindNull},
	})
	if got := details.Values(); !reflect.DeepEqual(got, map[string]string{"type": "pome", "season": ""}) {
		t.Errorf("details Values() = %v", got)
	}

	nutrients := FieldsFor(ShapeNutrients, []graph.Row{
		{Key: "sugar", Type: graph.KindString, Value: "10g"},
		{Key: "calories", Type: graph.KindNumber, Value: float64(52)},
	})
	if got := nutrients.Keys(); !reflect.DeepEqual(got, []string{"calories", "sugar"}) {
		t.Errorf("nutrients Keys() = %v, want sorted", got)
	}
	if nutrients.Fields[0].Placeholder != "Enter calories" || nutrients.Fields[0].Value != "52" {
		t.Errorf("nutrients field = %+v", nutrients.Fields[0])
	}

	if none := FieldsFor(ShapeNone, fruitRows()); none.Len() != 0 {
		t.Errorf("ShapeNone fields = %v, want none", none.Fields)
	}
}

func TestFieldsForParseFailureIsSilent(t *testing.T) {
	bad := []graph.Row{{Type: graph.KindString, Value: "{broken"}}

	fruit := FieldsFor(ShapeFruit, bad)
	if !reflect.DeepEqual(fruit.Values(), map[string]string{"name": "", "color": ""}) {
		t.Errorf("fruit fallback = %v, want empty name and color", fruit.Values())
	}
	details := FieldsFor(ShapeDetails, bad)
	if !reflect.DeepEqual(details.Values(), map[string]string{"type": "", "season": ""}) {
		t.Errorf("details fallback = %v", details.Values())
	}
	if n := FieldsFor(ShapeNutrients, bad); n.Len() != 0 {
		t.Errorf("nutrients fallback = %v, want no fields", n.Fields)
	}
}

func TestFieldSetSetAndClone(t *testing.T) {
	fs := FieldsFor(ShapeFruit, fruitRows())
	clone := fs.Clone()

	if !clone.Set("name", "Pear") {
		t.Fatal("Set(name) = false")
	}
	if clone.Set("weight", "1") {
		t.Error("Set(unknown) = true")
	}
	if v, _ := fs.Value("name"); v != "Apple" {
		t.Errorf("Clone shares memory: original name = %q", v)
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		fields   map[string]string
		want     string
	}{
		{"edited key replaced", `{"a":1,"b":2}`, map[string]string{"b": "9"}, `{"a":1,"b":"9"}`},
		{"extra keys survive", `{"name":"a","color":"b","weight":120,"tags":["x"]}`,
			map[string]string{"name": "c", "color": "d"},
			`{"name":"c","color":"d","weight":120,"tags":["x"]}`},
		{"new key added", `{}`, map[string]string{"k": "v"}, `{"k":"v"}`},
		{"non-object existing", `[1,2]`, map[string]string{"k": "v"}, `{"k":"v"}`},
		{"null existing", `null`, map[string]string{"k": "v"}, `{"k":"v"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var existing, want any
			if err := json.Unmarshal([]byte(tt.existing), &existing); err != nil {
				t.Fatal(err)
			}
			if err := json.Unmarshal([]byte(tt.want), &want); err != nil {
				t.Fatal(err)
			}
			if got := Merge(existing, tt.fields); !reflect.DeepEqual(any(got), want) {
				t.Errorf("Merge() = %v, want %v", got, want)
			}
		})
	}
}

func TestMergeDoesNotModifyExisting(t *testing.T) {
	existing := map[string]any{"a": float64(1), "b": float64(2)}
	Merge(existing, map[string]string{"b": "9", "c": "3"})

	want := map[string]any{"a": float64(1), "b": float64(2)}
	if !reflect.DeepEqual(existing, want) {
		t.Errorf("existing modified: %v", existing)
	}
}
