// Package closure walks the transitive closure of a project descriptor.
//
// Starting from a root pom.xml, the [Walker] reads each descriptor, absorbs
// its dependencyManagement block into a shared [ManagedVersions] table,
// follows its parent, then resolves and fetches each direct dependency,
// recursing into every descriptor that ends up on disk.
//
// # Version resolution
//
// [ResolveVersion] applies a fixed order:
//
//  1. an explicit <version>, after placeholder substitution
//  2. the managed-versions table, keyed by groupId:artifactId
//  3. otherwise the dependency is skipped with UNRESOLVED_VERSION
//
// Managed entries keep the first value seen for a key by default
// ([FirstWins]); [LastWins] lets later descriptors override.
//
// # Failure containment
//
// Only an unreadable or malformed root descriptor fails the walk. Every other
// failure ends one branch and is recorded as a [Skip] in the [Report], with
// the chain of descriptors that led to it.
//
// # Termination
//
// Each coordinate is walked at most once per run, so dependency cycles and
// diamonds terminate. BOM imports are guarded separately.
package closure
