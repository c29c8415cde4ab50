package platform

import (
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// Scope is the evaluation context for one platform.
// It answers package lookups as seen from that platform.
type Scope struct {
	platform domain.PlatformID
}

// NewScope creates a scope for platform without checking it against a supported set.
// Most callers should obtain scopes from Enumerator.Scope instead.
func NewScope(platform domain.PlatformID) *Scope {
	return &Scope{platform: platform}
}

// Platform returns the scope's platform.
func (s *Scope) Platform() domain.PlatformID {
	return s.platform
}

// Lookup returns the locked package for key together with its pin on this platform.
// It returns ErrUnresolvedDependency when the lock has no entry for key, or the entry
// is not pinned for this platform.
func (s *Scope) Lookup(lock *domain.Lockfile, key string) (domain.LockedPackage, domain.Pin, error) {
	pkg, ok := lock.Lookup(key)
	if !ok {
		err := zerr.With(domain.ErrUnresolvedDependency, "dependency", key)
		return domain.LockedPackage{}, domain.Pin{}, zerr.With(err, "platform", s.platform.String())
	}

	pin, err := pkg.PinFor(s.platform)
	if err != nil {
		return domain.LockedPackage{}, domain.Pin{}, err
	}

	return pkg, pin, nil
}
