package nodelink_test

import (
	"fmt"

	"github.com/matzehuels/pomwalk/pkg/closure"
	"github.com/matzehuels/pomwalk/pkg/maven"
	"github.com/matzehuels/pomwalk/pkg/render/nodelink"
)

func ExampleToDOT() {
	report := &closure.Report{
		Descriptors: []closure.Descriptor{{Coordinate: "com.example:app:1.0"}},
		Edges: []closure.Edge{{
			From: "com.example:app:1.0",
			To:   maven.Coordinate{GroupID: "org.slf4j", ArtifactID: "slf4j-api", Version: "2.0.9"},
			Kind: closure.EdgeDependency,
		}},
	}

	fmt.Print(nodelink.ToDOT(report, nodelink.Options{PURL: true}))
	// Output:
	// digraph G {
	//   rankdir=TB;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"];
	//   ranksep=0.5;
	//   nodesep=0.3;
	//
	//   "com.example:app:1.0" [label="pkg:maven/com.example/app@1.0", fillcolor=lightblue];
	//   "org.slf4j:slf4j-api:2.0.9" [label="pkg:maven/org.slf4j/slf4j-api@2.0.9"];
	//
	//   "com.example:app:1.0" -> "org.slf4j:slf4j-api:2.0.9";
	// }
}
