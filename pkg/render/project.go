package render

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/matzehuels/jsongraph/pkg/graph"
)

// Project returns the display text of a row.
// Objects render as "{N keys}", arrays as "[N items]" (N defaults to 0), and
// every other row as its value's display string.
func Project(row graph.Row) string {
	switch row.Type {
	case graph.KindObject:
		return fmt.Sprintf("{%d keys}", row.Count())
	case graph.KindArray:
		return fmt.Sprintf("[%d items]", row.Count())
	default:
		return DisplayValue(row.Value)
	}
}

// DisplayValue renders a scalar the way it is shown in a row: strings
// verbatim, numbers in shortest JSON form, booleans and null as literals.
func DisplayValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	}
}

// Line is one projected row placed relative to its node's anchor.
type Line struct {
	Index int     `json:"index"`
	Key   string  `json:"key,omitempty"`
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Label returns "key: text" for keyed rows and text otherwise.
func (l Line) Label() string {
	if l.Key == "" {
		return l.Text
	}
	return l.Key + ": " + l.Text
}

// Lines projects every row of n, placing row i at (x, y + i*RowHeight).
func Lines(n *graph.Node, x, y float64) []Line {
	out := make([]Line, len(n.Rows))
	for i, row := range n.Rows {
		out[i] = Line{
			Index: i,
			Key:   row.Key,
			Text:  Project(row),
			X:     x,
			Y:     y + float64(i)*RowHeight,
		}
	}
	return out
}
