package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// PackageIndex looks up a package version in a platform-aware package registry.
//
//go:generate mockgen -source=package_index.go -destination=mocks/mock_package_index.go -package=mocks
type PackageIndex interface {
	// Lookup returns the locked package with a pin for every platform the registry publishes.
	Lookup(ctx context.Context, name, version string) (*domain.LockedPackage, error)
}
