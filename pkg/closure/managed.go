package closure

import (
	"fmt"
	"strings"
	"sync"

	"github.com/matzehuels/pomwalk/pkg/errors"
	"github.com/matzehuels/pomwalk/pkg/maven"
)

// Policy decides which value a managed-versions key keeps when several
// descriptors declare it.
type Policy int

const (
	// FirstWins keeps the first value inserted for a key.
	FirstWins Policy = iota
	// LastWins replaces the value on every insert.
	LastWins
)

// ParsePolicy parses "first-wins" or "last-wins". The empty string is
// [FirstWins].
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first-wins", "first":
		return FirstWins, nil
	case "last-wins", "last":
		return LastWins, nil
	}
	return FirstWins, errors.New(errors.ErrCodeInvalidConfig, "unknown managed version policy %q (want first-wins or last-wins)", s)
}

func (p Policy) String() string {
	switch p {
	case FirstWins:
		return "first-wins"
	case LastWins:
		return "last-wins"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ManagedVersions maps groupId:artifactId to an already resolved version.
// It is shared by every descriptor of one walk.
//
// All methods are safe for concurrent use.
type ManagedVersions struct {
	policy Policy
	mu     sync.RWMutex
	m      map[maven.Key]string
}

// NewManagedVersions creates an empty table using policy.
func NewManagedVersions(policy Policy) *ManagedVersions {
	return &ManagedVersions{policy: policy, m: make(map[maven.Key]string)}
}

// Put inserts version for k according to the table's policy and reports
// whether the stored value changed. Empty versions are ignored.
func (mv *ManagedVersions) Put(k maven.Key, version string) bool {
	if version == "" {
		return false
	}
	mv.mu.Lock()
	defer mv.mu.Unlock()

	old, exists := mv.m[k]
	if exists && (mv.policy == FirstWins || old == version) {
		return false
	}
	mv.m[k] = version
	return true
}

// Get returns the managed version of k.
func (mv *ManagedVersions) Get(k maven.Key) (string, bool) {
	mv.mu.RLock()
	defer mv.mu.RUnlock()
	v, ok := mv.m[k]
	return v, ok
}

// Len returns the number of managed keys.
func (mv *ManagedVersions) Len() int {
	mv.mu.RLock()
	defer mv.mu.RUnlock()
	return len(mv.m)
}

// Snapshot returns a copy of the table.
func (mv *ManagedVersions) Snapshot() map[maven.Key]string {
	mv.mu.RLock()
	defer mv.mu.RUnlock()
	out := make(map[maven.Key]string, len(mv.m))
	for k, v := range mv.m {
		out[k] = v
	}
	return out
}
