package graph_test

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/jsonpath"
)

func ExampleBuild() {
	var doc any
	_ = json.Unmarshal([]byte(`{"fruits":[{"name":"apple","details":{"type":"pome"}}]}`), &doc)

	g := graph.Build(doc)
	for _, n := range g.Nodes {
		fmt.Printf("%s %s rows=%d\n", n.ID, jsonpath.Format(n.Path), len(n.Rows))
	}
	fmt.Println("edges:", len(g.Edges))
	// Output:
	// 1 $ rows=1
	// 2 $["fruits"] rows=1
	// 3 $["fruits"][0] rows=2
	// 4 $["fruits"][0]["details"] rows=1
	// edges: 3
}
