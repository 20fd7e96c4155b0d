package closure

import (
	"time"

	"github.com/matzehuels/pomwalk/pkg/errors"
	"github.com/matzehuels/pomwalk/pkg/maven"
)

// EdgeKind tells how one descriptor reached another.
type EdgeKind string

const (
	EdgeParent     EdgeKind = "parent"
	EdgeDependency EdgeKind = "dependency"
	EdgeImport     EdgeKind = "import"
)

// Edge links a descriptor to a coordinate it references.
type Edge struct {
	From string // "groupId:artifactId:version" of the referencing descriptor
	To   maven.Coordinate
	Kind EdgeKind
}

// Descriptor is one parsed pom.xml.
type Descriptor struct {
	Coordinate string
	Path       string
	Depth      int
	Packaging  string
}

// Skip records a branch that was not walked.
type Skip struct {
	Code       errors.Code
	Dependency string   // the reference that failed, "groupId:artifactId[:version]"
	Project    string   // the descriptor holding the reference
	Trace      []string // descriptors from the root down to Project
	Err        error
}

// Report is the outcome of one walk.
type Report struct {
	RunID       string
	Root        string
	Policy      Policy
	Started     time.Time
	Duration    time.Duration
	Descriptors []Descriptor
	Fetches     []maven.FetchResult
	Edges       []Edge
	Skips       []Skip
	Managed     map[maven.Key]string
}

// Downloads returns the number of files written during the walk.
func (r *Report) Downloads() int {
	n := 0
	for _, f := range r.Fetches {
		n += f.Downloads()
	}
	return n
}

// CountOutcome returns how many files ended with outcome.
func (r *Report) CountOutcome(outcome maven.Outcome) int {
	n := 0
	for _, f := range r.Fetches {
		for _, file := range f.Files() {
			if file.Outcome == outcome {
				n++
			}
		}
	}
	return n
}

// NotFound returns the files the remote repository did not have. The missing
// jar of a descriptor with pom packaging is expected and left out.
func (r *Report) NotFound() []maven.FileResult {
	aggregators := make(map[string]bool)
	for _, d := range r.Descriptors {
		if d.Packaging == "pom" {
			aggregators[d.Coordinate] = true
		}
	}
	var out []maven.FileResult
	for _, f := range r.Fetches {
		if f.JAR.Outcome == maven.NotFound && !aggregators[f.Coordinate.String()] {
			out = append(out, f.JAR)
		}
		if f.POM.Outcome == maven.NotFound {
			out = append(out, f.POM)
		}
	}
	return out
}

// SkipsWithCode returns the skips recorded with code.
func (r *Report) SkipsWithCode(code errors.Code) []Skip {
	var out []Skip
	for _, s := range r.Skips {
		if s.Code == code {
			out = append(out, s)
		}
	}
	return out
}

// Walked reports whether the descriptor of coordinate c was parsed.
func (r *Report) Walked(c maven.Coordinate) bool {
	key := c.String()
	for _, d := range r.Descriptors {
		if d.Coordinate == key {
			return true
		}
	}
	return false
}
