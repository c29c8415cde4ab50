// Package app implements the application layer for kiln.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/compose"
	"go.trai.ch/kiln/internal/engine/platform"
	"go.trai.ch/kiln/internal/engine/resolver"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	lockStore    ports.LockStore
	scanner      ports.SourceScanner
	toolchains   ports.ToolchainRegistry
	index        ports.PackageIndex
	store        ports.PlanStore
	telemetry    ports.Telemetry
	logger       ports.Logger
	enumerator   *platform.Enumerator
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	lockStore ports.LockStore,
	scanner ports.SourceScanner,
	toolchains ports.ToolchainRegistry,
	index ports.PackageIndex,
	store ports.PlanStore,
	telemetry ports.Telemetry,
	log ports.Logger,
	enumerator *platform.Enumerator,
) *App {
	return &App{
		configLoader: loader,
		lockStore:    lockStore,
		scanner:      scanner,
		toolchains:   toolchains,
		index:        index,
		store:        store,
		telemetry:    telemetry,
		logger:       log,
		enumerator:   enumerator,
	}
}

// session is the loaded state of one evaluation.
type session struct {
	project  *domain.Project
	input    compose.Input
	composer *compose.Composer
}

// load reads the project, its lock and its source tree, and prepares a composer
// whose resolutions are memoized for the lifetime of the session.
func (a *App) load(cwd string) (*session, error) {
	project, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	toolchain, err := a.toolchains.Lookup(project.Toolchain)
	if err != nil {
		return nil, err
	}

	lock, err := a.lockStore.Read(project.LockPath)
	if err != nil {
		return nil, err
	}

	src, err := a.scanner.Scan(project.SourceRoot)
	if err != nil {
		return nil, err
	}

	memo := resolver.NewMemo(resolver.New(toolchain))
	composer, dropped := compose.NewComposer(a.enumerator, memo, a.telemetry).Restrict(project.Platforms)
	for _, p := range dropped {
		a.logger.Warn(fmt.Sprintf("platform %s in %s is not supported, ignoring it", p, domain.ProjectFileName))
	}

	return &session{
		project:  project,
		input:    compose.Input{Project: project, Source: src, Lock: lock},
		composer: composer,
	}, nil
}

// Outputs composes the project: the package export for every supported platform and the module export.
func (a *App) Outputs(ctx context.Context, cwd string) (*compose.Composition, error) {
	s, err := a.load(cwd)
	if err != nil {
		return nil, err
	}
	return s.composer.Compose(ctx, s.input)
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	// Platform to plan for. Empty means the running machine's platform.
	Platform domain.PlatformID
}

// Build resolves the project for one platform and persists the plan in the store.
func (a *App) Build(ctx context.Context, cwd string, opts BuildOptions) (domain.BuildDescriptor, error) {
	s, err := a.load(cwd)
	if err != nil {
		return domain.BuildDescriptor{}, err
	}

	target := opts.Platform
	if target == "" {
		target = domain.HostPlatform()
	}

	plan, err := s.composer.Resolve(ctx, s.input, target)
	if err != nil {
		return domain.BuildDescriptor{}, err
	}

	if err := a.store.Put(s.project.Root, plan); err != nil {
		return domain.BuildDescriptor{}, err
	}

	a.logger.Info(fmt.Sprintf("planned %s for %s (%s)", plan.Ref(), plan.Platform, plan.ID))
	return plan, nil
}

// EvalOptions configuration for the Eval method.
type EvalOptions struct {
	// HostPath is a host.yaml to evaluate against. When empty a host is synthesized.
	HostPath string
	// Platform overrides the host platform.
	Platform domain.PlatformID
	// Enable overrides the module toggle when non-nil.
	Enable *bool
	// Write persists the merged installed set back to HostPath.
	Write bool
}

// EvalResult is the outcome of evaluating the module export against a host.
type EvalResult struct {
	Module    string
	Host      *domain.Host
	Effect    domain.Effect
	Installed []domain.InstalledPackage
	Changed   bool
}

// Eval evaluates the module export against a host and merges the effect into its installed set.
func (a *App) Eval(ctx context.Context, cwd string, opts EvalOptions) (*EvalResult, error) {
	if opts.Write && opts.HostPath == "" {
		return nil, domain.ErrHostFileRequired
	}

	s, err := a.load(cwd)
	if err != nil {
		return nil, err
	}

	host, err := a.host(opts)
	if err != nil {
		return nil, err
	}

	comp, err := s.composer.Compose(ctx, s.input)
	if err != nil {
		return nil, err
	}

	if opts.Enable != nil {
		if host.Modules == nil {
			host.Modules = make(map[string]domain.ModuleSetting)
		}
		host.Modules[comp.ModuleName] = domain.ModuleSetting{Enable: opts.Enable}
	}

	installed := domain.NewInstalledSet(host.Packages...)
	effect, changed, err := comp.Module.Merge(host.Context(comp.ModuleName), installed)
	if err != nil {
		return nil, err
	}

	result := &EvalResult{
		Module:    comp.ModuleName,
		Host:      host,
		Effect:    effect,
		Installed: installed.Items(),
		Changed:   changed,
	}

	if opts.Write && changed {
		host.Packages = result.Installed
		if err := a.configLoader.SaveHost(host); err != nil {
			return nil, err
		}
		a.logger.Info(fmt.Sprintf("added %s to %s", effect.Descriptor.Ref(), host.Path))
	}

	return result, nil
}

func (a *App) host(opts EvalOptions) (*domain.Host, error) {
	var host *domain.Host
	if opts.HostPath != "" {
		loaded, err := a.configLoader.LoadHost(opts.HostPath)
		if err != nil {
			return nil, err
		}
		host = loaded
	} else {
		host = &domain.Host{Platform: domain.HostPlatform()}
	}

	if opts.Platform != "" {
		host.Platform = opts.Platform
	}
	return host, nil
}

// LockResult summarizes a lock run.
type LockResult struct {
	Path     string
	Digest   string
	Packages []string
}

// Lock pins the given "name@version" dependencies for every supported platform and
// records them as dependencies of the project package. Without arguments it re-pins
// every package previously pinned through the package index.
func (a *App) Lock(ctx context.Context, cwd string, specs []string) (*LockResult, error) {
	project, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	lock, err := a.readLockOrEmpty(project.LockPath)
	if err != nil {
		return nil, err
	}

	rootKey := domain.PackageKey(project.Name, project.Version)
	root := projectRoot(lock, project)

	wanted, err := lockTargets(lock, specs)
	if err != nil {
		return nil, err
	}

	pinned, err := a.pinAll(ctx, wanted)
	if err != nil {
		return nil, err
	}

	for _, pkg := range pinned {
		key := pkg.Key()
		lock.Packages[key] = *pkg
		if len(specs) > 0 {
			root.Dependencies = addDependency(root.Dependencies, pkg.Name.String(), key)
		}
	}
	slices.Sort(root.Dependencies)
	lock.Packages[rootKey] = root
	pruneUnreferenced(lock, rootKey)

	digest, err := a.lockStore.Write(project.LockPath, lock)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(pinned))
	for _, pkg := range pinned {
		keys = append(keys, pkg.Key())
	}
	slices.Sort(keys)

	a.logger.Info(fmt.Sprintf("pinned %d package(s) in %s", len(keys), project.LockPath))
	return &LockResult{Path: project.LockPath, Digest: digest, Packages: keys}, nil
}

// addDependency adds key to deps, replacing any other version of the same package.
func addDependency(deps []string, name, key string) []string {
	deps = slices.DeleteFunc(deps, func(dep string) bool {
		depName, _ := domain.SplitPackageKey(dep)
		return depName == name && dep != key
	})
	if !slices.Contains(deps, key) {
		deps = append(deps, key)
	}
	return deps
}

// projectRoot returns the lock entry of the project package. When the lock records the
// project under another version, that entry is re-keyed to the current version and keeps
// its dependencies.
func projectRoot(lock *domain.Lockfile, project *domain.Project) domain.LockedPackage {
	rootKey := domain.PackageKey(project.Name, project.Version)
	if root, ok := lock.Lookup(rootKey); ok {
		return root
	}

	root := domain.LockedPackage{
		Name:    domain.NewInternedString(project.Name),
		Version: domain.NewInternedString(project.Version),
	}
	for _, key := range lock.Keys() {
		stale := lock.Packages[key]
		if stale.Name.String() != project.Name || !stale.PlatformIndependent() {
			continue
		}
		root.Source = stale.Source
		root.Dependencies = slices.Clone(stale.Dependencies)
		delete(lock.Packages, key)
		break
	}
	return root
}

// pruneUnreferenced removes index-pinned packages that are no longer reachable from
// the root package. Platform independent entries belong to the toolchain and are kept.
func pruneUnreferenced(lock *domain.Lockfile, rootKey string) {
	reachable := map[string]bool{}
	stack := []string{rootKey}
	for len(stack) > 0 {
		key := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reachable[key] {
			continue
		}
		reachable[key] = true
		if pkg, ok := lock.Packages[key]; ok {
			stack = append(stack, pkg.Dependencies...)
		}
	}

	for key, pkg := range lock.Packages {
		if !reachable[key] && !pkg.PlatformIndependent() {
			delete(lock.Packages, key)
		}
	}
}

func (a *App) readLockOrEmpty(path string) (*domain.Lockfile, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return &domain.Lockfile{
			Version:  domain.LockfileVersion,
			Packages: make(map[string]domain.LockedPackage),
		}, nil
	}
	lock, err := a.lockStore.Read(path)
	if err != nil {
		return nil, err
	}
	if lock.Packages == nil {
		lock.Packages = make(map[string]domain.LockedPackage)
	}
	return lock, nil
}

// lockTargets returns the name/version pairs to pin.
func lockTargets(lock *domain.Lockfile, specs []string) ([][2]string, error) {
	var targets [][2]string
	if len(specs) == 0 {
		for _, key := range lock.Keys() {
			pkg := lock.Packages[key]
			if !pkg.PlatformIndependent() {
				targets = append(targets, [2]string{pkg.Name.String(), pkg.Version.String()})
			}
		}
		return targets, nil
	}

	for _, spec := range specs {
		name, version, found := strings.Cut(spec, "@")
		if !found || name == "" || version == "" {
			return nil, zerr.With(domain.ErrInvalidDependencySpec, "spec", spec)
		}
		targets = append(targets, [2]string{name, version})
	}
	return targets, nil
}

// pinAll looks up every target in parallel.
func (a *App) pinAll(ctx context.Context, targets [][2]string) ([]*domain.LockedPackage, error) {
	var mu sync.Mutex
	pinned := make([]*domain.LockedPackage, 0, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, t := range targets {
		g.Go(func() error {
			_, vertex := a.telemetry.Record(gctx, "pin "+domain.PackageKey(t[0], t[1]))
			pkg, err := a.index.Lookup(gctx, t[0], t[1])
			vertex.Complete(err)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			pinned = append(pinned, pkg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pinned, nil
}

// ValidationReport lists the per-platform outcome of a validation run.
type ValidationReport struct {
	Platforms []domain.PlatformID
	Failures  map[domain.PlatformID]error
}

// Validate checks that the project resolves on every supported platform.
// It returns ErrValidationFailed, together with the report, when any platform fails.
func (a *App) Validate(ctx context.Context, cwd string) (*ValidationReport, error) {
	comp, err := a.Outputs(ctx, cwd)
	if err != nil {
		return nil, err
	}

	report := &ValidationReport{
		Platforms: comp.Module.Supported().Slice(),
		Failures:  comp.Failures,
	}
	if len(comp.Failures) > 0 {
		return report, domain.ErrValidationFailed
	}
	return report, nil
}

// Show returns the loaded project configuration.
func (a *App) Show(cwd string) (*domain.Project, error) {
	project, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return project, nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Store bool
	Cache bool
}

// Clean removes the plan store of the project containing cwd and the package index cache.
// Outside a project the store is looked up in cwd itself.
func (a *App) Clean(_ context.Context, cwd string, options CleanOptions) error {
	root := cwd
	if project, err := a.configLoader.Load(cwd); err == nil {
		root = project.Root
	}

	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if options.Store {
		remove(filepath.Join(root, domain.DefaultStorePath()), "plan store")
	}
	if options.Cache {
		remove(domain.DefaultNixHubCachePath(), "package index cache")
	}

	return errs
}
