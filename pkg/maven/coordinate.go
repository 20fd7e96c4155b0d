package maven

import (
	"strings"

	"github.com/package-url/packageurl-go"

	"github.com/matzehuels/pomwalk/pkg/errors"
)

// Key identifies an artifact independent of its version. It is the key of
// the managed-versions table.
type Key struct {
	GroupID    string
	ArtifactID string
}

// String returns "groupId:artifactId".
func (k Key) String() string {
	return k.GroupID + ":" + k.ArtifactID
}

// Coordinate is a fully resolved groupId:artifactId:version triple.
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string
}

// ParseCoordinate parses "groupId:artifactId:version".
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Coordinate{}, errors.New(errors.ErrCodeInvalidCoordinate, "expected groupId:artifactId:version, got %q", s)
	}
	c := Coordinate{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Key returns the versionless part of c.
func (c Coordinate) Key() Key {
	return Key{GroupID: c.GroupID, ArtifactID: c.ArtifactID}
}

// String returns "groupId:artifactId:version".
func (c Coordinate) String() string {
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
}

// Validate rejects coordinates that are unsafe to turn into paths or URLs.
func (c Coordinate) Validate() error {
	return errors.ValidateCoordinate(c.GroupID, c.ArtifactID, c.Version)
}

// PURL returns the Package URL of c, e.g.
// "pkg:maven/org.slf4j/slf4j-api@2.0.9".
func (c Coordinate) PURL() string {
	return packageurl.NewPackageURL(packageurl.TypeMaven, c.GroupID, c.ArtifactID, c.Version, nil, "").ToString()
}
