package ports

import "go.trai.ch/kiln/internal/core/domain"

// LockStore reads and writes dependency lock files.
//
//go:generate mockgen -source=lockfile.go -destination=mocks/mock_lockfile.go -package=mocks
type LockStore interface {
	// Read loads and parses the lock file at path.
	Read(path string) (*domain.Lockfile, error)

	// Write serializes the lock file to path and returns the new digest.
	Write(path string, lock *domain.Lockfile) (string, error)
}
