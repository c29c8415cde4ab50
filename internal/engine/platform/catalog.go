package platform

import (
	"slices"

	"go.trai.ch/kiln/internal/core/domain"
)

// StaticCatalog is a PlatformCatalog over a fixed list of platforms.
type StaticCatalog struct {
	platforms []domain.PlatformID
}

// NewStaticCatalog creates a catalog over the given platforms.
func NewStaticCatalog(platforms ...domain.PlatformID) *StaticCatalog {
	return &StaticCatalog{platforms: slices.Clone(platforms)}
}

// NewDefaultCatalog creates a catalog over domain.DefaultPlatforms.
func NewDefaultCatalog() *StaticCatalog {
	return NewStaticCatalog(domain.DefaultPlatforms...)
}

// Platforms returns the catalog's platforms.
func (c *StaticCatalog) Platforms() []domain.PlatformID {
	return slices.Clone(c.platforms)
}
