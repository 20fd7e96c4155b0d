// Package maven maps artifact coordinates onto the Maven repository layout
// and fetches artifact files into a local repository.
//
// # Layout
//
// A coordinate groupId:artifactId:version owns two files, found at the same
// relative path locally and remotely:
//
//	<groupId with '.' replaced by '/'>/<artifactId>/<version>/<artifactId>-<version>.jar
//	<groupId with '.' replaced by '/'>/<artifactId>/<version>/<artifactId>-<version>.pom
//
// [Layout] joins that path onto a local root and a remote base URL.
//
// # Fetching
//
// [Repository.Fetch] handles the jar and the pom independently:
//
//   - a file already on disk is [AlreadyPresent] and nothing is requested
//   - a remote 404 is [NotFound], which is not an error for the walk
//   - any other failure is [TransportError]
//   - a successful response is streamed to a temporary file next to the
//     target and renamed into place, reported as [Downloaded]
//
// Existence on disk is the only validity test; files are never re-verified.
// Optionally, "not found" answers are remembered in a negative cache so later
// runs do not ask again.
package maven
