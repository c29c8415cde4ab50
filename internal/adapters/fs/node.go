package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	// WalkerNodeID is the unique identifier for the walker Graft node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// ScannerNodeID is the unique identifier for the source scanner Graft node.
	ScannerNodeID graft.ID = "adapter.fs.scanner"
	// ToolchainsNodeID is the unique identifier for the toolchain registry Graft node.
	ToolchainsNodeID graft.ID = "adapter.fs.toolchains"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.SourceScanner]{
		ID:        ScannerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (ports.SourceScanner, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewScanner(walker, DefaultIgnores...), nil
		},
	})

	graft.Register(graft.Node[ports.ToolchainRegistry]{
		ID:        ToolchainsNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ToolchainRegistry, error) {
			return NewDefaultRegistry(), nil
		},
	})
}
