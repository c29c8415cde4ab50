// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/kiln/internal/core/domain"

// PlatformCatalog supplies the platforms the evaluation environment knows about.
//
//go:generate mockgen -source=platform.go -destination=mocks/mock_platform.go -package=mocks
type PlatformCatalog interface {
	// Platforms returns the known platform identifiers. Order is not significant.
	Platforms() []domain.PlatformID
}
