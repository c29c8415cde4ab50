package domain

import (
	"slices"
	"strings"
)

// LockfileVersion is the lock file format version written by kiln.
const LockfileVersion = 1

// Lockfile represents the complete state of pinned package dependencies.
// It provides a reproducible snapshot of all dependencies across platforms.
type Lockfile struct {
	// Version is the lockfile format version.
	Version int

	// Digest is the content address of the lock file bytes (e.g., "sha256:…").
	// Two lock files with the same digest describe the same dependency graph.
	Digest string

	// Packages maps package keys (see PackageKey) to their pinned information.
	Packages map[string]LockedPackage
}

// PackageKey returns the canonical lock key for a package name and version.
func PackageKey(name, version string) string {
	return name + "@" + version
}

// SplitPackageKey splits a lock key into name and version.
// A key without a version yields an empty version.
func SplitPackageKey(key string) (name, version string) {
	name, version, _ = strings.Cut(key, "@")
	return name, version
}

// Lookup returns the locked package stored under key.
func (l *Lockfile) Lookup(key string) (LockedPackage, bool) {
	if l == nil {
		return LockedPackage{}, false
	}
	pkg, ok := l.Packages[key]
	return pkg, ok
}

// Keys returns the lock keys in sorted order.
func (l *Lockfile) Keys() []string {
	if l == nil {
		return nil
	}
	keys := make([]string, 0, len(l.Packages))
	for key := range l.Packages {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
