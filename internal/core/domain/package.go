package domain

import (
	"go.trai.ch/zerr"
)

// Pin represents the Nix-specific coordinates of a package on a particular platform.
type Pin struct {
	// Owner is the GitHub repository owner (e.g., "NixOS").
	Owner InternedString

	// Repo is the GitHub repository name (e.g., "nixpkgs").
	Repo InternedString

	// Rev is the Git revision (commit SHA) pinning the exact version.
	Rev InternedString

	// Hash is the Nix hash (e.g., NAR hash) for content verification.
	Hash InternedString

	// AttrPath is the Nix attribute path to the package (e.g., "openssl_3").
	AttrPath InternedString
}

// LockedPackage is a single entry of the lock file.
//
// A package without Systems is platform independent: its Checksum pins it everywhere.
// A package with Systems is only resolvable on the platforms listed there.
type LockedPackage struct {
	// Name is the canonical package name (e.g., "serde").
	Name InternedString

	// Version is the pinned version string (e.g., "1.0.210").
	Version InternedString

	// Source is where the package comes from (registry URL, git URL, or empty for the root).
	Source string

	// Checksum is the content checksum recorded by the toolchain.
	Checksum string

	// Dependencies are lock keys of the direct dependencies.
	Dependencies []string

	// Systems maps platforms to their platform-specific pins.
	Systems map[PlatformID]Pin
}

// Key returns the lock key of the package.
func (p *LockedPackage) Key() string {
	return PackageKey(p.Name.String(), p.Version.String())
}

// PlatformIndependent reports whether the package resolves identically on every platform.
func (p *LockedPackage) PlatformIndependent() bool {
	return len(p.Systems) == 0
}

// PinFor retrieves the pin for the given platform.
// Returns ErrUnresolvedDependency if the package has no resolution on that platform.
// Platform independent packages return a zero Pin and no error.
func (p *LockedPackage) PinFor(platform PlatformID) (Pin, error) {
	if p.PlatformIndependent() {
		return Pin{}, nil
	}
	pin, exists := p.Systems[platform]
	if !exists {
		err := zerr.With(ErrUnresolvedDependency, "dependency", p.Name.String())
		err = zerr.With(err, "version", p.Version.String())
		err = zerr.With(err, "platform", platform.String())
		return Pin{}, err
	}
	return pin, nil
}
