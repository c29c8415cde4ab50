package ports

import "go.trai.ch/kiln/internal/core/domain"

// Toolchain is the external collaborator that turns a source tree and a lock into a binary.
// kiln only asks it whether it recognizes a tree; it never runs it.
//
//go:generate mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type Toolchain interface {
	// Name returns the toolchain name (e.g., "cargo").
	Name() string

	// Recognize returns nil if the toolchain can build the given tree.
	// It must be pure: the tree is an already-scanned value.
	Recognize(src domain.SourceTree) error
}

// SourceScanner snapshots a source directory into an immutable SourceTree.
type SourceScanner interface {
	// Scan walks root and returns its file list and content digest.
	Scan(root string) (domain.SourceTree, error)
}

// ToolchainRegistry looks up toolchains by the name a project declares.
type ToolchainRegistry interface {
	// Lookup returns the named toolchain or ErrUnknownToolchain.
	Lookup(name string) (Toolchain, error)
}
