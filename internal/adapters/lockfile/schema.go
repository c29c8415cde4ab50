package lockfile

import "go.trai.ch/kiln/internal/core/domain"

// File is the on-disk shape of kiln.lock.
//
// It follows Cargo.lock: a flat list of packages whose dependencies name other
// entries as "name" or "name version". Packages that differ per platform carry a
// systems table keyed by platform.
type File struct {
	Version  int          `toml:"version"`
	Packages []PackageDTO `toml:"package"`
}

// PackageDTO is one [[package]] entry.
type PackageDTO struct {
	Name         domain.InternedString `toml:"name"`
	Version      domain.InternedString `toml:"version"`
	Source       string                `toml:"source,omitempty"`
	Checksum     string                `toml:"checksum,omitempty"`
	Dependencies []string              `toml:"dependencies,omitempty"`
	Systems      map[string]PinDTO     `toml:"systems,omitempty"`
}

// PinDTO is the pin of a package on one platform. Its fields decode directly into
// domain.Pin values, so identical owners and revisions share one interned string.
type PinDTO struct {
	Owner    domain.InternedString `toml:"owner,omitempty"`
	Repo     domain.InternedString `toml:"repo,omitempty"`
	Rev      domain.InternedString `toml:"rev"`
	Hash     domain.InternedString `toml:"hash,omitempty"`
	AttrPath domain.InternedString `toml:"attr_path,omitempty"`
}

func (p PinDTO) toDomain() domain.Pin {
	return domain.Pin(p)
}

func pinFromDomain(pin domain.Pin) PinDTO {
	return PinDTO(pin)
}
