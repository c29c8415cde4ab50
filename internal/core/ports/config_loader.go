package ports

import "go.trai.ch/kiln/internal/core/domain"

// ConfigLoader defines the interface for loading project and host configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load walks up from cwd to find kiln.yaml and returns the project it describes.
	Load(cwd string) (*domain.Project, error)

	// LoadHost reads a host configuration file.
	LoadHost(path string) (*domain.Host, error)

	// SaveHost writes a host configuration back to its Path.
	SaveHost(host *domain.Host) error
}
