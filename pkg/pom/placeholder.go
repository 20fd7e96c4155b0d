package pom

import (
	"regexp"
	"strings"
)

// placeholderMarker opens every ${key} token.
const placeholderMarker = "${"

// maxExpansions bounds transitive expansion so self-referencing properties
// terminate.
const maxExpansions = 10

var placeholderRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// Scope answers placeholder lookups for a single descriptor.
type Scope struct {
	Properties    Properties
	GroupID       string
	ArtifactID    string
	Version       string
	ParentGroupID string
	ParentVersion string
}

// NewScope builds the lookup scope of p. The descriptor's own properties are
// layered on top of inherited, which is not modified.
func NewScope(p *Project, inherited Properties) Scope {
	s := Scope{
		Properties: Merge(inherited, p.Properties),
		GroupID:    p.GroupID,
		ArtifactID: p.ArtifactID,
		Version:    p.Version.String(),
	}
	if p.Parent != nil {
		s.ParentGroupID = p.Parent.GroupID
		s.ParentVersion = p.Parent.Version.String()
	}
	return s
}

// Lookup returns the value of key. Synthetic project.* keys take precedence
// over the property table.
func (s Scope) Lookup(key string) (string, bool) {
	switch key {
	case "project.version", "pom.version":
		return firstNonEmpty(s.Version, s.ParentVersion)
	case "project.groupId", "pom.groupId":
		return firstNonEmpty(s.GroupID, s.ParentGroupID)
	case "project.artifactId", "pom.artifactId":
		return firstNonEmpty(s.ArtifactID)
	case "project.parent.version":
		return firstNonEmpty(s.ParentVersion)
	case "project.parent.groupId":
		return firstNonEmpty(s.ParentGroupID)
	}
	v, ok := s.Properties[key]
	return v, ok
}

// Resolve substitutes placeholders in raw.
//
// A value that does not start with "${" is returned unchanged. Otherwise each
// ${key} token is replaced by its lookup result, repeatedly, so properties
// defined in terms of other properties expand fully. Tokens with no value are
// kept verbatim.
func (s Scope) Resolve(raw string) string {
	if !strings.HasPrefix(raw, placeholderMarker) {
		return raw
	}
	out := raw
	for range maxExpansions {
		next := placeholderRe.ReplaceAllStringFunc(out, func(tok string) string {
			if v, ok := s.Lookup(tok[2 : len(tok)-1]); ok {
				return v
			}
			return tok
		})
		if next == out {
			break
		}
		out = next
	}
	return out
}

// Resolve is the standalone form of [Scope.Resolve]. ownVersion and
// parentVersion answer ${project.version}; pass "" when absent.
func Resolve(raw string, props Properties, ownVersion, parentVersion string) string {
	return Scope{Properties: props, Version: ownVersion, ParentVersion: parentVersion}.Resolve(raw)
}

// HasPlaceholder reports whether s still contains a ${key} token.
func HasPlaceholder(s string) bool {
	return placeholderRe.MatchString(s)
}

func firstNonEmpty(vals ...string) (string, bool) {
	for _, v := range vals {
		if v != "" {
			return v, true
		}
	}
	return "", false
}
