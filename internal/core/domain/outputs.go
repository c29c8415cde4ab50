package domain

import (
	"encoding/json"
	"maps"
	"slices"

	"go.trai.ch/zerr"
)

// OutputMapping maps each platform to its build descriptor (the package export).
type OutputMapping struct {
	entries map[PlatformID]BuildDescriptor
}

// NewOutputMapping creates an empty OutputMapping.
func NewOutputMapping() *OutputMapping {
	return &OutputMapping{entries: make(map[PlatformID]BuildDescriptor)}
}

// Set records the descriptor for its platform, replacing any previous entry.
func (m *OutputMapping) Set(d BuildDescriptor) {
	m.entries[d.Platform] = d
}

// Get returns the descriptor for the given platform.
func (m *OutputMapping) Get(platform PlatformID) (BuildDescriptor, bool) {
	d, ok := m.entries[platform]
	return d, ok
}

// Default returns the descriptor for the given host platform.
// It returns ErrUnsupportedHostPlatform when the mapping has no entry for it.
func (m *OutputMapping) Default(host PlatformID) (BuildDescriptor, error) {
	d, ok := m.entries[host]
	if !ok {
		return BuildDescriptor{}, zerr.With(ErrUnsupportedHostPlatform, "platform", host.String())
	}
	return d, nil
}

// Len returns the number of entries.
func (m *OutputMapping) Len() int {
	return len(m.entries)
}

// Platforms returns the platforms with an entry, sorted.
func (m *OutputMapping) Platforms() []PlatformID {
	return slices.Sorted(maps.Keys(m.entries))
}

// MarshalJSON encodes the mapping as a platform-keyed object.
func (m *OutputMapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.entries)
}
