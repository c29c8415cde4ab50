package domain

import (
	"maps"
	"slices"
)

// EffectKind is the kind of change a module fragment asks the host to make.
type EffectKind int

const (
	// EffectNoOp leaves the host untouched.
	EffectNoOp EffectKind = iota
	// EffectInstall adds a build descriptor to the host's installed set.
	EffectInstall
)

// String returns the string representation of the EffectKind.
func (k EffectKind) String() string {
	switch k {
	case EffectInstall:
		return "install"
	default:
		return "noop"
	}
}

// Effect describes the outcome of evaluating a module fragment against a host.
// Evaluation never performs I/O; effects are applied by the caller.
type Effect struct {
	Kind       EffectKind
	Descriptor BuildDescriptor
}

// NoOp returns an effect that changes nothing.
func NoOp() Effect {
	return Effect{Kind: EffectNoOp}
}

// Install returns an effect that adds d to the installed set.
func Install(d BuildDescriptor) Effect {
	return Effect{Kind: EffectInstall, Descriptor: d}
}

// InstalledPackage is one member of a host's installed-software set.
type InstalledPackage struct {
	ID       string     `yaml:"id" json:"id"`
	Name     string     `yaml:"name" json:"name"`
	Version  string     `yaml:"version,omitempty" json:"version,omitzero"`
	Platform PlatformID `yaml:"platform,omitempty" json:"platform,omitzero"`
}

// InstalledSet is the host's collection of packages to be present on the system.
// It is a set keyed by package ID: adding an existing member is a no-op.
// Members listed by name only stand for any build of that name.
type InstalledSet struct {
	items map[string]InstalledPackage
}

// NewInstalledSet creates a set holding the given packages.
func NewInstalledSet(pkgs ...InstalledPackage) *InstalledSet {
	s := &InstalledSet{items: make(map[string]InstalledPackage, len(pkgs))}
	for _, p := range pkgs {
		s.Add(p)
	}
	return s
}

// Add inserts p, keyed by its ID (or name when it has none).
// A name-only member is replaced by the first full entry with the same name,
// and a name-only p is dropped when a member of that name exists.
// It reports whether the set changed.
func (s *InstalledSet) Add(p InstalledPackage) bool {
	if p.ID == "" {
		if p.Name == "" || s.hasName(p.Name) {
			return false
		}
		s.items[p.Name] = p
		return true
	}

	if _, exists := s.items[p.ID]; exists {
		return false
	}
	if placeholder, ok := s.items[p.Name]; ok && placeholder.ID == "" {
		delete(s.items, p.Name)
	}
	s.items[p.ID] = p
	return true
}

func (s *InstalledSet) hasName(name string) bool {
	for _, p := range s.items {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Apply merges an effect into the set. It reports whether the set changed.
func (s *InstalledSet) Apply(e Effect) bool {
	if e.Kind != EffectInstall {
		return false
	}
	d := e.Descriptor
	return s.Add(InstalledPackage{
		ID:       d.ID,
		Name:     d.Name,
		Version:  d.Version,
		Platform: d.Platform,
	})
}

// Contains reports whether a package with the given ID (or name) is in the set.
func (s *InstalledSet) Contains(key string) bool {
	_, ok := s.items[key]
	return ok
}

// Len returns the number of packages in the set.
func (s *InstalledSet) Len() int {
	return len(s.items)
}

// Items returns the members sorted by key.
func (s *InstalledSet) Items() []InstalledPackage {
	keys := slices.Sorted(maps.Keys(s.items))
	out := make([]InstalledPackage, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.items[k])
	}
	return out
}
