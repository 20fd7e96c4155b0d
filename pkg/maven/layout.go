package maven

import (
	"path"
	"path/filepath"
	"strings"
)

// Kind is the type of file a coordinate owns in a repository.
type Kind string

const (
	KindJAR Kind = "jar"
	KindPOM Kind = "pom"
)

// Kinds lists the files fetched for every coordinate, in fetch order.
var Kinds = []Kind{KindJAR, KindPOM}

// RelativePath returns the slash-separated repository path of c's file of
// the given kind.
func RelativePath(c Coordinate, kind Kind) string {
	return path.Join(
		strings.ReplaceAll(c.GroupID, ".", "/"),
		c.ArtifactID,
		c.Version,
		c.ArtifactID+"-"+c.Version+"."+string(kind),
	)
}

// Layout places relative repository paths under a local root and a remote
// base URL.
type Layout struct {
	Root    string // local repository directory, e.g. ~/.m2/repository
	BaseURL string // remote repository, e.g. https://repo.maven.apache.org/maven2
}

// LocalPath returns where c's file of the given kind lives on disk.
func (l Layout) LocalPath(c Coordinate, kind Kind) string {
	return filepath.Join(l.Root, filepath.FromSlash(RelativePath(c, kind)))
}

// URL returns the remote location of c's file of the given kind.
func (l Layout) URL(c Coordinate, kind Kind) string {
	return strings.TrimRight(l.BaseURL, "/") + "/" + RelativePath(c, kind)
}
