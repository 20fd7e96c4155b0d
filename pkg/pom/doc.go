// Package pom reads Maven project descriptors (pom.xml files).
//
// # Overview
//
// [Parse] and [Load] decode a descriptor into a [Project]: coordinates, the
// optional parent reference, the dependency list, the dependencyManagement
// list and the property table. Absent optional sections decode to empty
// values; only malformed XML or a missing artifactId is an error.
//
// # Text Nodes
//
// Version and property values may arrive as plain character data or as an
// element wrapping its text in further markup. Both decode to [Text], whose
// [Text.Value] flattens them to a plain string so resolution code never sees
// the difference.
//
// # Placeholders
//
// A [Scope] answers ${key} lookups for one descriptor: the synthetic
// project.* keys first, then the merged property table. [Resolve] is the
// single-shot form:
//
//	v := pom.Resolve("${guava.version}", props, "1.0", "")
//
// Unresolvable tokens are left verbatim.
package pom
