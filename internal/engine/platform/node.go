package platform

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	// CatalogNodeID is the unique identifier for the platform catalog Graft node.
	CatalogNodeID graft.ID = "engine.platform.catalog"
	// NodeID is the unique identifier for the platform enumerator Graft node.
	NodeID graft.ID = "engine.platform"
)

func init() {
	graft.Register(graft.Node[ports.PlatformCatalog]{
		ID:        CatalogNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PlatformCatalog, error) {
			return NewDefaultCatalog(), nil
		},
	})

	graft.Register(graft.Node[*Enumerator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{CatalogNodeID},
		Run: func(ctx context.Context) (*Enumerator, error) {
			catalog, err := graft.Dep[ports.PlatformCatalog](ctx)
			if err != nil {
				return nil, err
			}
			return NewEnumerator(catalog), nil
		},
	})
}
