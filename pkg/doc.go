// Package pkg provides the libraries behind pomwalk, which downloads the
// transitive closure of a Maven project descriptor into a local repository.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Domain: [pom] (descriptor model and placeholder resolution), [maven]
//     (coordinates, repository layout, artifact fetch) and [closure] (the
//     recursive walk and its managed-versions table)
//  2. Infrastructure: [httputil] (transport, retry, circuit breaking),
//     [cache] (negative lookup cache), [config], [errors] and [observability]
//  3. Outputs: [mirror] (serve a local repository over HTTP) and
//     [render/nodelink] (closure graph as DOT or SVG)
//
// # Architecture
//
//	pom.xml
//	   ↓
//	[pom] parse, resolve ${...} placeholders
//	   ↓
//	[closure] absorb dependencyManagement, resolve versions, recurse
//	   ↓
//	[maven] fetch jar + pom unless present  ←  [httputil] + [cache]
//	   ↓
//	<root>/<group path>/<artifact>/<version>/<artifact>-<version>.{jar,pom}
//
// # Quick Start
//
//	client := httputil.NewClient()
//	defer client.Close()
//
//	repo := maven.NewRepository(maven.Layout{
//	    Root:    filepath.Join(home, ".m2", "repository"),
//	    BaseURL: "https://repo.maven.apache.org/maven2",
//	}, client)
//
//	report, err := closure.New(repo, closure.Options{}).Walk(ctx, "pom.xml")
//	if err != nil {
//	    return err // root descriptor unreadable or malformed
//	}
//	for _, s := range report.Skips {
//	    fmt.Println(s.Code, s.Dependency)
//	}
//
// [pom]: github.com/matzehuels/pomwalk/pkg/pom
// [maven]: github.com/matzehuels/pomwalk/pkg/maven
// [closure]: github.com/matzehuels/pomwalk/pkg/closure
// [httputil]: github.com/matzehuels/pomwalk/pkg/httputil
// [cache]: github.com/matzehuels/pomwalk/pkg/cache
// [config]: github.com/matzehuels/pomwalk/pkg/config
// [errors]: github.com/matzehuels/pomwalk/pkg/errors
// [observability]: github.com/matzehuels/pomwalk/pkg/observability
// [mirror]: github.com/matzehuels/pomwalk/pkg/mirror
// [render/nodelink]: github.com/matzehuels/pomwalk/pkg/render/nodelink
package pkg
