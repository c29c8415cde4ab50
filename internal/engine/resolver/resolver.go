// Package resolver plans builds: it turns a platform scope, a source tree and a lock into a build descriptor.
package resolver

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/platform"
	"go.trai.ch/zerr"
)

// Planner resolves a package for one platform.
type Planner interface {
	Resolve(
		scope *platform.Scope,
		src domain.SourceTree,
		lock *domain.Lockfile,
		name, version string,
	) (domain.BuildDescriptor, error)
}

var _ Planner = (*Resolver)(nil)

// Resolver is the pure package resolver. It performs no I/O.
type Resolver struct {
	toolchain ports.Toolchain
}

// New creates a Resolver that validates sources with the given toolchain.
func New(toolchain ports.Toolchain) *Resolver {
	return &Resolver{toolchain: toolchain}
}

// Resolve plans the build of name@version for the scope's platform.
//
// It fails with ErrInvalidSource when the toolchain does not recognize src, and with
// ErrUnresolvedDependency when the package or any transitive dependency has no
// resolution on the scope's platform.
func (r *Resolver) Resolve(
	scope *platform.Scope,
	src domain.SourceTree,
	lock *domain.Lockfile,
	name, version string,
) (domain.BuildDescriptor, error) {
	if err := r.toolchain.Recognize(src); err != nil {
		return domain.BuildDescriptor{}, zerr.With(err, "platform", scope.Platform().String())
	}

	root := domain.PackageKey(name, version)
	inputs, err := closure(scope, lock, root)
	if err != nil {
		return domain.BuildDescriptor{}, zerr.With(err, "package", root)
	}

	d := domain.BuildDescriptor{
		Name:     name,
		Version:  version,
		Source:   src.Digest,
		Lock:     lock.Digest,
		Platform: scope.Platform(),
		Inputs:   inputs,
	}
	d.ID = descriptorID(&d)

	return d, nil
}

// closure walks the lock from root and returns every transitive dependency resolved
// for the scope's platform, sorted by key. The root itself must resolve but is not
// part of the result.
func closure(scope *platform.Scope, lock *domain.Lockfile, root string) ([]domain.ResolvedInput, error) {
	visited := make(map[string]bool)
	var inputs []domain.ResolvedInput

	var visit func(key string) error
	visit = func(key string) error {
		visited[key] = true

		pkg, pin, err := scope.Lookup(lock, key)
		if err != nil {
			return err
		}

		if key != root {
			inputs = append(inputs, domain.ResolvedInput{
				Key:      key,
				Checksum: pkg.Checksum,
				Rev:      pin.Rev.String(),
				AttrPath: pin.AttrPath.String(),
				Hash:     pin.Hash.String(),
			})
		}

		// Lock files may contain cycles; visited guards against walking them twice.
		deps := slices.Clone(pkg.Dependencies)
		slices.Sort(deps)
		for _, dep := range deps {
			if visited[dep] {
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}

	slices.SortFunc(inputs, func(a, b domain.ResolvedInput) int {
		return strings.Compare(a.Key, b.Key)
	})

	return inputs, nil
}

// descriptorID hashes every field of the descriptor except the ID itself.
func descriptorID(d *domain.BuildDescriptor) string {
	hasher := xxhash.New()

	for _, field := range []string{d.Name, d.Version, d.Source, d.Lock, d.Platform.String()} {
		_, _ = hasher.WriteString(field)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	for _, in := range d.Inputs {
		for _, field := range []string{in.Key, in.Checksum, in.Rev, in.AttrPath, in.Hash} {
			_, _ = hasher.WriteString(field)
			_, _ = hasher.Write([]byte{0})
		}
		_, _ = hasher.Write([]byte{0})
	}

	return fmt.Sprintf("%016x", hasher.Sum64())
}
