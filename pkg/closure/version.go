package closure

import (
	"github.com/matzehuels/pomwalk/pkg/errors"
	"github.com/matzehuels/pomwalk/pkg/maven"
	"github.com/matzehuels/pomwalk/pkg/pom"
)

// ResolveVersion returns the version to use for dep, which is identified by
// k after groupId and artifactId substitution.
//
// An explicit version is resolved against scope and wins. Without one, the
// managed table is consulted. Returns an [errors.ErrCodeUnresolvedVersion]
// error when neither yields a concrete version, including when placeholders
// remain after substitution or substitution leaves nothing.
func ResolveVersion(dep pom.Dependency, k maven.Key, scope pom.Scope, managed *ManagedVersions) (string, error) {
	if raw, ok := dep.Version.Value(); ok && raw != "" {
		v := scope.Resolve(raw)
		if v == "" || pom.HasPlaceholder(v) {
			return "", errors.New(errors.ErrCodeUnresolvedVersion, "%s: cannot resolve version %q", k, raw)
		}
		return v, nil
	}
	if managed != nil {
		if v, ok := managed.Get(k); ok && v != "" {
			return v, nil
		}
	}
	return "", errors.New(errors.ErrCodeUnresolvedVersion, "%s: no version and no managed entry", k)
}
