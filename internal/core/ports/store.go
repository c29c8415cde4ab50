package ports

import "go.trai.ch/kiln/internal/core/domain"

// PlanStore defines the interface for storing and retrieving build plans.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type PlanStore interface {
	// Get retrieves the plan with the given descriptor ID under root.
	// Returns nil, nil if not found.
	Get(root, id string) (*domain.BuildDescriptor, error)

	// Put stores the plan under root.
	Put(root string, plan domain.BuildDescriptor) error
}
