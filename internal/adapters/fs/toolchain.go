package fs

import (
	"maps"
	"slices"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.Toolchain         = (*ManifestToolchain)(nil)
	_ ports.ToolchainRegistry = (*Registry)(nil)
)

// ManifestToolchain recognizes a source tree by the manifest files at its root.
type ManifestToolchain struct {
	name      string
	manifests []string
}

// NewManifestToolchain creates a toolchain that requires every listed manifest.
func NewManifestToolchain(name string, manifests ...string) *ManifestToolchain {
	return &ManifestToolchain{name: name, manifests: manifests}
}

// Name returns the toolchain name.
func (t *ManifestToolchain) Name() string {
	return t.name
}

// Recognize returns ErrInvalidSource unless every manifest is present in src.
func (t *ManifestToolchain) Recognize(src domain.SourceTree) error {
	var missing []string
	for _, m := range t.manifests {
		if !src.Has(m) {
			missing = append(missing, m)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	err := zerr.With(domain.ErrInvalidSource, "source", src.Root)
	err = zerr.With(err, "toolchain", t.name)
	return zerr.With(err, "missing", strings.Join(missing, ", "))
}

// Registry holds the known toolchains by name.
type Registry struct {
	toolchains map[string]ports.Toolchain
}

// NewRegistry creates a registry over the given toolchains.
func NewRegistry(toolchains ...ports.Toolchain) *Registry {
	r := &Registry{toolchains: make(map[string]ports.Toolchain, len(toolchains))}
	for _, tc := range toolchains {
		r.toolchains[tc.Name()] = tc
	}
	return r
}

// NewDefaultRegistry creates a registry with the toolchains kiln knows out of the box.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		NewManifestToolchain("cargo", "Cargo.toml"),
		NewManifestToolchain("go", "go.mod"),
		NewManifestToolchain("npm", "package.json"),
	)
}

// Lookup returns the named toolchain.
func (r *Registry) Lookup(name string) (ports.Toolchain, error) {
	tc, ok := r.toolchains[name]
	if !ok {
		err := zerr.With(domain.ErrUnknownToolchain, "toolchain", name)
		return nil, zerr.With(err, "known", strings.Join(r.Names(), ", "))
	}
	return tc, nil
}

// Names returns the registered toolchain names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.toolchains))
}
