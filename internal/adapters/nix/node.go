package nix

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/platform"
)

// IndexNodeID is the unique identifier for the NixHub package index Graft node.
const IndexNodeID graft.ID = "adapter.nix.index"

func init() {
	graft.Register(graft.Node[ports.PackageIndex]{
		ID:        IndexNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{platform.NodeID},
		Run: func(ctx context.Context) (ports.PackageIndex, error) {
			enumerator, err := graft.Dep[*platform.Enumerator](ctx)
			if err != nil {
				return nil, err
			}
			return NewIndex(domain.DefaultNixHubCachePath(), enumerator.Enumerate()), nil
		},
	})
}
