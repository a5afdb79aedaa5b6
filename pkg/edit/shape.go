package edit

import "github.com/matzehuels/jsongraph/pkg/jsonpath"

// DefaultCollection is the top-level key holding the editable array.
const DefaultCollection = "fruits"

// Shape identifies an editable node layout.
type Shape int

// Node shapes. ShapeNone is the zero value.
const (
	ShapeNone Shape = iota
	ShapeFruit
	ShapeDetails
	ShapeNutrients
)

func (s Shape) String() string {
	switch s {
	case ShapeFruit:
		return "fruit"
	case ShapeDetails:
		return "details"
	case ShapeNutrients:
		return "nutrients"
	default:
		return "none"
	}
}

// Editable reports whether nodes of this shape have fields.
func (s Shape) Editable() bool { return s != ShapeNone }

// Classify returns the shape of the node at p. An empty collection means
// [DefaultCollection]. Paths must match a pattern exactly, including its
// length.
func Classify(p jsonpath.Path, collection string) Shape {
	if collection == "" {
		collection = DefaultCollection
	}
	if len(p) < 2 || len(p) > 3 {
		return ShapeNone
	}
	if key, ok := p[0].Key(); !ok || key != collection {
		return ShapeNone
	}
	if !p[1].IsIndex() {
		return ShapeNone
	}
	if len(p) == 2 {
		return ShapeFruit
	}

	switch key, _ := p[2].Key(); {
	case p[2].IsIndex():
		return ShapeNone
	case key == "details":
		return ShapeDetails
	case key == "nutrients":
		return ShapeNutrients
	default:
		return ShapeNone
	}
}
