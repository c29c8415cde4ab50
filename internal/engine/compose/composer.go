// Package compose is the composition root: it builds the per-platform package export and the module export.
package compose

import (
	"context"
	"maps"
	"runtime"
	"slices"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/module"
	"go.trai.ch/kiln/internal/engine/platform"
	"go.trai.ch/kiln/internal/engine/resolver"
	"golang.org/x/sync/errgroup"
)

// Input is the loaded state of one evaluation session.
type Input struct {
	Project *domain.Project
	Source  domain.SourceTree
	Lock    *domain.Lockfile
}

// Composition is the result of composing a project.
type Composition struct {
	// Packages is the package export: one descriptor per platform that resolved.
	Packages *domain.OutputMapping

	// Failures holds the resolution error of every platform that did not resolve.
	Failures map[domain.PlatformID]error

	// ModuleName is the stable export name of Module.
	ModuleName string

	// Module is the module export.
	Module *module.Fragment
}

// Failed returns the platforms that failed to resolve, sorted.
func (c *Composition) Failed() []domain.PlatformID {
	return slices.Sorted(maps.Keys(c.Failures))
}

// Composer builds compositions.
type Composer struct {
	enumerator *platform.Enumerator
	planner    resolver.Planner
	telemetry  ports.Telemetry
}

// NewComposer creates a Composer. The planner is expected to be memoized so the
// module export and the package export share resolutions.
func NewComposer(enumerator *platform.Enumerator, planner resolver.Planner, telemetry ports.Telemetry) *Composer {
	return &Composer{
		enumerator: enumerator,
		planner:    planner,
		telemetry:  telemetry,
	}
}

// Restrict returns a Composer limited to the platforms in allow, together with the
// entries of allow that are not supported. An empty allow list keeps every platform.
func (c *Composer) Restrict(allow []domain.PlatformID) (*Composer, []domain.PlatformID) {
	enumerator, dropped := c.enumerator.Restrict(allow)
	return NewComposer(enumerator, c.planner, c.telemetry), dropped
}

// Platforms returns the platforms this composer resolves for.
func (c *Composer) Platforms() domain.PlatformSet {
	return c.enumerator.Enumerate()
}

// Compose resolves the package for every supported platform in parallel and defines the module export.
// A platform that fails to resolve is recorded in Failures and does not affect the others.
// Compose only returns an error when ctx is canceled.
func (c *Composer) Compose(ctx context.Context, in Input) (*Composition, error) {
	platforms := c.enumerator.Enumerate()

	var mu sync.Mutex
	outputs := domain.NewOutputMapping()
	failures := make(map[domain.PlatformID]error)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for p := range platforms.All() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			d, err := c.Resolve(gctx, in, p)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[p] = err
				return nil
			}
			outputs.Set(d)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	name := moduleName(in.Project)
	lookup := func(p domain.PlatformID) (domain.BuildDescriptor, error) {
		return c.Resolve(ctx, in, p)
	}

	return &Composition{
		Packages:   outputs,
		Failures:   failures,
		ModuleName: name,
		Module:     module.Define(name, in.Project.Module.Default, lookup, platforms),
	}, nil
}

// Resolve plans the project's package for a single platform.
func (c *Composer) Resolve(ctx context.Context, in Input, p domain.PlatformID) (domain.BuildDescriptor, error) {
	scope, err := c.enumerator.Scope(p)
	if err != nil {
		return domain.BuildDescriptor{}, err
	}

	_, vertex := c.telemetry.Record(ctx, "resolve "+in.Project.Name+" ("+p.String()+")")
	d, err := c.planner.Resolve(scope, in.Source, in.Lock, in.Project.Name, in.Project.Version)
	vertex.Complete(err)

	return d, err
}

func moduleName(p *domain.Project) string {
	if p.Module.Name != "" {
		return p.Module.Name
	}
	return p.Name
}
