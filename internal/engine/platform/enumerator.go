// Package platform enumerates the supported target platforms and hands out per-platform scopes.
package platform

import (
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Enumerator produces the supported platform set for one evaluation session.
// The set is fixed when the Enumerator is created.
type Enumerator struct {
	platforms domain.PlatformSet
}

// NewEnumerator creates an Enumerator from the catalog's platforms.
func NewEnumerator(catalog ports.PlatformCatalog) *Enumerator {
	return &Enumerator{platforms: domain.NewPlatformSet(catalog.Platforms()...)}
}

// Restrict returns an Enumerator limited to the platforms in allow.
// Entries of allow the catalog does not know are returned as dropped.
func (e *Enumerator) Restrict(allow []domain.PlatformID) (*Enumerator, []domain.PlatformID) {
	kept, dropped := e.platforms.Restrict(allow)
	return &Enumerator{platforms: kept}, dropped
}

// Enumerate returns the supported platform set.
func (e *Enumerator) Enumerate() domain.PlatformSet {
	return e.platforms
}

// Scope returns the evaluation scope for the given platform.
// It returns ErrUnsupportedHostPlatform if the platform is not supported.
func (e *Enumerator) Scope(id domain.PlatformID) (*Scope, error) {
	if !e.platforms.Contains(id) {
		return nil, zerr.With(domain.ErrUnsupportedHostPlatform, "platform", id.String())
	}
	return &Scope{platform: id}, nil
}
