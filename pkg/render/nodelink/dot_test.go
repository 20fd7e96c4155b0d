package nodelink

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/pomwalk/pkg/closure"
	"github.com/matzehuels/pomwalk/pkg/errors"
	"github.com/matzehuels/pomwalk/pkg/maven"
)

func sampleReport() *closure.Report {
	parent := maven.Coordinate{GroupID: "com.example", ArtifactID: "parent", Version: "3"}
	lib := maven.Coordinate{GroupID: "org.slf4j", ArtifactID: "slf4j-api", Version: "2.0.9"}
	bom := maven.Coordinate{GroupID: "org.platform", ArtifactID: "bom", Version: "7"}
	gone := maven.Coordinate{GroupID: "com.example", ArtifactID: "gone", Version: "1.0"}

	return &closure.Report{
		Descriptors: []closure.Descriptor{
			{Coordinate: "com.example:app:3", Depth: 0},
			{Coordinate: parent.String(), Depth: 1},
			{Coordinate: lib.String(), Depth: 1},
		},
		Edges: []closure.Edge{
			{From: "com.example:app:3", To: bom, Kind: closure.EdgeImport},
			{From: "com.example:app:3", To: parent, Kind: closure.EdgeParent},
			{From: "com.example:app:3", To: lib, Kind: closure.EdgeDependency},
			{From: "com.example:app:3", To: gone, Kind: closure.EdgeDependency},
		},
		Fetches: []maven.FetchResult{
			{
				Coordinate: lib,
				JAR:        maven.FileResult{Kind: maven.KindJAR, Outcome: maven.Downloaded},
				POM:        maven.FileResult{Kind: maven.KindPOM, Outcome: maven.AlreadyPresent},
			},
			{
				Coordinate: gone,
				JAR:        maven.FileResult{Kind: maven.KindJAR, Outcome: maven.NotFound},
				POM:        maven.FileResult{Kind: maven.KindPOM, Outcome: maven.NotFound},
			},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sampleReport(), Options{})

	for _, want := range []string{
		"digraph G",
		`"com.example:app:3" [label="com.example:app:3", fillcolor=lightblue]`,
		`"com.example:app:3" -> "com.example:parent:3" [style=dashed, label="parent"]`,
		`"com.example:app:3" -> "org.platform:bom:7" [style=dotted, label="import"]`,
		`"com.example:app:3" -> "org.slf4j:slf4j-api:2.0.9";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s\n%s", want, dot)
		}
	}
}

func TestToDOT_Missing(t *testing.T) {
	dot := ToDOT(sampleReport(), Options{})

	line := lineFor(dot, `"com.example:gone:1.0" [`)
	if !strings.Contains(line, "dashed") || !strings.Contains(line, "mistyrose") {
		t.Errorf("missing descriptor not highlighted: %q", line)
	}
	if line := lineFor(dot, `"org.slf4j:slf4j-api:2.0.9" [`); strings.Contains(line, "mistyrose") {
		t.Errorf("present descriptor highlighted: %q", line)
	}
}

func TestToDOT_PURL(t *testing.T) {
	dot := ToDOT(sampleReport(), Options{PURL: true})

	if !strings.Contains(dot, `label="pkg:maven/org.slf4j/slf4j-api@2.0.9"`) {
		t.Errorf("ToDOT() PURL label missing\n%s", dot)
	}
	if !strings.Contains(dot, `"org.slf4j:slf4j-api:2.0.9" -> `) && !strings.Contains(dot, `-> "org.slf4j:slf4j-api:2.0.9"`) {
		t.Error("node ids must stay groupId:artifactId:version")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	n := &node{
		id:     "org.slf4j:slf4j-api:2.0.9",
		walked: true,
		depth:  1,
		files: []maven.FileResult{
			{Kind: maven.KindJAR, Outcome: maven.Downloaded},
			{Kind: maven.KindPOM, Outcome: maven.AlreadyPresent},
		},
	}

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"simple", Options{}, "org.slf4j:slf4j-api:2.0.9"},
		{"detailed", Options{Detailed: true}, "org.slf4j:slf4j-api:2.0.9\ndepth: 1\njar: downloaded\npom: already_present"},
		{"purl", Options{PURL: true}, "pkg:maven/org.slf4j/slf4j-api@2.0.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtLabel(n, tt.opts); got != tt.want {
				t.Errorf("fmtLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToDOT_Empty(t *testing.T) {
	dot := ToDOT(&closure.Report{}, Options{})
	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT() of an empty report = %q", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 120.50 80.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))

	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120.50 80.00" width="120" height="80"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %q, want %q", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() without viewBox changed input: %q", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleReport(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	// graphviz writes "-" as "&#45;" in SVG text.
	out := string(svg)
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "com.example:app:3") || !strings.Contains(out, "slf4j&#45;api") {
		t.Errorf("RenderSVG() output is not the expected drawing: %.200s", svg)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	dotPath := filepath.Join(dir, "closure.dot")
	if err := WriteFile(context.Background(), dotPath, sampleReport(), Options{}); err != nil {
		t.Fatalf("WriteFile(.dot) error: %v", err)
	}
	data, err := os.ReadFile(dotPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph G") {
		t.Errorf("dot file = %.40q", data)
	}

	err = WriteFile(context.Background(), filepath.Join(dir, "closure.png"), sampleReport(), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("WriteFile(.png) err = %v, want INVALID_INPUT", err)
	}
}

func lineFor(dot, prefix string) string {
	for _, line := range strings.Split(dot, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			return line
		}
	}
	return ""
}
