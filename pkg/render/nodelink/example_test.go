package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/render/nodelink"
)

func ExampleToDOT() {
	doc := map[string]any{
		"fruits": []any{
			map[string]any{"name": "apple", "color": "#FF0000"},
		},
	}

	dot := nodelink.ToDOT(graph.Build(doc), nodelink.Options{})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "2" -> "3";
	// "1" -> "2";
}
