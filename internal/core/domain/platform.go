package domain

import (
	"iter"
	"runtime"
	"slices"
)

// PlatformID identifies a target platform (e.g., "x86_64-linux", "aarch64-darwin").
// It is opaque to kiln: only equality and ordering matter.
type PlatformID string

// String returns the platform identifier as a string.
func (p PlatformID) String() string {
	return string(p)
}

// DefaultPlatforms is the set of systems kiln knows how to plan for out of the box.
// It mirrors the systems NixHub publishes binaries for.
var DefaultPlatforms = []PlatformID{
	"aarch64-darwin",
	"aarch64-linux",
	"x86_64-darwin",
	"x86_64-linux",
}

// HostPlatform returns the platform identifier of the running machine.
func HostPlatform() PlatformID {
	return PlatformFor(runtime.GOOS, runtime.GOARCH)
}

// PlatformFor maps a Go GOOS/GOARCH pair to a kiln platform identifier.
// Unknown architectures keep their Go name so they never silently alias a supported system.
func PlatformFor(goos, goarch string) PlatformID {
	arch := goarch
	switch goarch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	}
	return PlatformID(arch + "-" + goos)
}

// PlatformSet is an immutable, sorted set of platform identifiers.
type PlatformSet struct {
	ids []PlatformID
}

// NewPlatformSet creates a set from the given identifiers.
// Duplicates and empty identifiers are dropped.
func NewPlatformSet(ids ...PlatformID) PlatformSet {
	out := make([]PlatformID, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		out = append(out, id)
	}
	slices.Sort(out)
	return PlatformSet{ids: slices.Compact(out)}
}

// Contains reports whether id is a member of the set.
func (s PlatformSet) Contains(id PlatformID) bool {
	_, found := slices.BinarySearch(s.ids, id)
	return found
}

// Len returns the number of platforms in the set.
func (s PlatformSet) Len() int {
	return len(s.ids)
}

// All returns an iterator over the platforms in sorted order.
func (s PlatformSet) All() iter.Seq[PlatformID] {
	return slices.Values(s.ids)
}

// Slice returns a copy of the platforms in sorted order.
func (s PlatformSet) Slice() []PlatformID {
	return slices.Clone(s.ids)
}

// Restrict returns the members of s that also appear in allow, together with the
// entries of allow that s does not contain. An empty allow list leaves s unchanged.
func (s PlatformSet) Restrict(allow []PlatformID) (kept PlatformSet, dropped []PlatformID) {
	if len(allow) == 0 {
		return s, nil
	}

	keep := make([]PlatformID, 0, len(allow))
	for _, id := range allow {
		if s.Contains(id) {
			keep = append(keep, id)
			continue
		}
		dropped = append(dropped, id)
	}

	return NewPlatformSet(keep...), dropped
}
