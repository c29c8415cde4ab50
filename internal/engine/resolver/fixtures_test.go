package resolver_test

import (
	"go.trai.ch/kiln/internal/core/domain"
)

const (
	linux  domain.PlatformID = "linux-x64"
	darwin domain.PlatformID = "darwin-arm64"
)

func pkg(name, version string, deps ...string) domain.LockedPackage {
	return domain.LockedPackage{
		Name:         domain.NewInternedString(name),
		Version:      domain.NewInternedString(version),
		Checksum:     "sum-" + name,
		Dependencies: deps,
	}
}

func pinned(p domain.LockedPackage, platforms ...domain.PlatformID) domain.LockedPackage {
	p.Systems = make(map[domain.PlatformID]domain.Pin, len(platforms))
	for _, id := range platforms {
		p.Systems[id] = domain.Pin{
			Owner:    domain.NewInternedString("NixOS"),
			Repo:     domain.NewInternedString("nixpkgs"),
			Rev:      domain.NewInternedString("rev-" + id.String()),
			AttrPath: domain.NewInternedString(p.Name.String()),
		}
	}
	return p
}

func lockOf(digest string, pkgs ...domain.LockedPackage) *domain.Lockfile {
	lock := &domain.Lockfile{
		Version:  domain.LockfileVersion,
		Digest:   digest,
		Packages: make(map[string]domain.LockedPackage, len(pkgs)),
	}
	for _, p := range pkgs {
		lock.Packages[p.Key()] = p
	}
	return lock
}

// clovisLock is a small lock where everything resolves on both test platforms.
func clovisLock() *domain.Lockfile {
	return lockOf("sha256:clovis",
		pkg("clovis", "0.1.0", "clap@4.5.0", "serde@1.0.0", "openssl@3.3.2"),
		pkg("clap", "4.5.0", "clap_lex@0.7.0"),
		pkg("clap_lex", "0.7.0"),
		pkg("serde", "1.0.0", "serde_derive@1.0.0"),
		pkg("serde_derive", "1.0.0", "serde@1.0.0"),
		pinned(pkg("openssl", "3.3.2"), linux, darwin),
	)
}

func cargoSource() domain.SourceTree {
	return domain.SourceTree{
		Root:   "/src/clovis",
		Digest: "src-digest",
		Files:  []string{"Cargo.lock", "Cargo.toml", "src/main.rs"},
	}
}
