package pom

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/matzehuels/pomwalk/pkg/errors"
)

// Project is one parsed pom.xml.
type Project struct {
	XMLName              xml.Name     `xml:"project"`
	GroupID              string       `xml:"groupId"`
	ArtifactID           string       `xml:"artifactId"`
	Version              Text         `xml:"version"`
	Packaging            string       `xml:"packaging"`
	Parent               *Dependency  `xml:"parent"`
	Properties           Properties   `xml:"properties"`
	Dependencies         []Dependency `xml:"dependencies>dependency"`
	DependencyManagement []Dependency `xml:"dependencyManagement>dependencies>dependency"`
}

// Dependency is a coordinate-shaped reference: a <dependency> entry, a
// dependencyManagement entry or the <parent> element.
type Dependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    Text   `xml:"version"`
	Type       string `xml:"type"`
	Scope      string `xml:"scope"`
}

// IsImport reports whether d is a BOM import inside dependencyManagement.
func (d Dependency) IsImport() bool {
	return d.Scope == "import" && d.Type == "pom"
}

// String returns "groupId:artifactId[:version]" with the raw version token.
func (d Dependency) String() string {
	if v, ok := d.Version.Value(); ok && v != "" {
		return d.GroupID + ":" + d.ArtifactID + ":" + v
	}
	return d.GroupID + ":" + d.ArtifactID
}

// EffectiveGroupID returns the project's groupId, falling back to the parent's.
func (p *Project) EffectiveGroupID() string {
	if p.GroupID != "" || p.Parent == nil {
		return p.GroupID
	}
	return p.Parent.GroupID
}

// EffectiveVersion returns the project's version, falling back to the parent's.
func (p *Project) EffectiveVersion() string {
	if v := p.Version.String(); v != "" || p.Parent == nil {
		return v
	}
	return p.Parent.Version.String()
}

// EffectivePackaging returns the declared packaging, "jar" when absent.
func (p *Project) EffectivePackaging() string {
	if p.Packaging == "" {
		return "jar"
	}
	return p.Packaging
}

// String returns the "groupId:artifactId:version" label used in traces.
func (p *Project) String() string {
	return p.EffectiveGroupID() + ":" + p.ArtifactID + ":" + p.EffectiveVersion()
}

// Load reads and parses the descriptor at path.
//
// Returns an [errors.ErrCodeDescriptorUnreadable] error if the file cannot be
// read and an [errors.ErrCodeDescriptorMalformed] error if it does not decode.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDescriptorUnreadable, err, "read %s", path)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDescriptorMalformed, err, "parse %s", path)
	}
	return p, nil
}

// Parse decodes a descriptor document. Only XML errors and a missing
// artifactId are reported.
func Parse(data []byte) (*Project, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	var p Project
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}

	p.normalize()
	if p.ArtifactID == "" {
		return nil, fmt.Errorf("missing required element <artifactId>")
	}
	return &p, nil
}

func (p *Project) normalize() {
	p.GroupID = strings.TrimSpace(p.GroupID)
	p.ArtifactID = strings.TrimSpace(p.ArtifactID)
	p.Packaging = strings.TrimSpace(p.Packaging)
	if p.Properties == nil {
		p.Properties = Properties{}
	}
	if p.Parent != nil {
		p.Parent.normalize()
	}
	for i := range p.Dependencies {
		p.Dependencies[i].normalize()
	}
	for i := range p.DependencyManagement {
		p.DependencyManagement[i].normalize()
	}
}

func (d *Dependency) normalize() {
	d.GroupID = strings.TrimSpace(d.GroupID)
	d.ArtifactID = strings.TrimSpace(d.ArtifactID)
	d.Type = strings.TrimSpace(d.Type)
	d.Scope = strings.TrimSpace(d.Scope)
}

// charsetReader lets older descriptors declare encodings such as ISO-8859-1.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
