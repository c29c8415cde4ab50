package compose_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/compose"
	"go.trai.ch/kiln/internal/engine/platform"
	"go.trai.ch/kiln/internal/engine/resolver"
	"go.uber.org/mock/gomock"
)

const (
	linux  domain.PlatformID = "linux-x64"
	darwin domain.PlatformID = "darwin-arm64"
)

func pkg(name, version string, deps ...string) domain.LockedPackage {
	return domain.LockedPackage{
		Name:         domain.NewInternedString(name),
		Version:      domain.NewInternedString(version),
		Checksum:     "sum-" + name,
		Dependencies: deps,
	}
}

func pinned(p domain.LockedPackage, platforms ...domain.PlatformID) domain.LockedPackage {
	p.Systems = make(map[domain.PlatformID]domain.Pin, len(platforms))
	for _, id := range platforms {
		p.Systems[id] = domain.Pin{Rev: domain.NewInternedString("rev-" + id.String())}
	}
	return p
}

func lockOf(pkgs ...domain.LockedPackage) *domain.Lockfile {
	lock := &domain.Lockfile{
		Version:  domain.LockfileVersion,
		Digest:   "sha256:test",
		Packages: make(map[string]domain.LockedPackage, len(pkgs)),
	}
	for _, p := range pkgs {
		lock.Packages[p.Key()] = p
	}
	return lock
}

func input(lock *domain.Lockfile) compose.Input {
	return compose.Input{
		Project: &domain.Project{
			Name:    "clovis",
			Version: "0.1.0",
			Module:  domain.ToggleOption{Name: "clovis"},
		},
		Source: domain.SourceTree{Root: "/src", Digest: "src", Files: []string{"Cargo.toml"}},
		Lock:   lock,
	}
}

type harness struct {
	composer *compose.Composer
	memo     *resolver.Memo
}

func newHarness(t *testing.T, platforms ...domain.PlatformID) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	toolchain := mocks.NewMockToolchain(ctrl)
	toolchain.EXPECT().Recognize(gomock.Any()).Return(nil).AnyTimes()

	vertex := mocks.NewMockVertex(ctrl)
	vertex.EXPECT().Complete(gomock.Any()).AnyTimes()
	tel := mocks.NewMockTelemetry(ctrl)
	tel.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ctx, vertex
		}).AnyTimes()

	enumerator := platform.NewEnumerator(platform.NewStaticCatalog(platforms...))
	memo := resolver.NewMemo(resolver.New(toolchain))

	return &harness{
		composer: compose.NewComposer(enumerator, memo, tel),
		memo:     memo,
	}
}

func TestCompose_TwoPlatforms(t *testing.T) {
	h := newHarness(t, linux, darwin)
	lock := lockOf(
		pkg("clovis", "0.1.0", "openssl@3.3.2"),
		pinned(pkg("openssl", "3.3.2"), linux, darwin),
	)

	comp, err := h.composer.Compose(t.Context(), input(lock))
	require.NoError(t, err)

	assert.Equal(t, 2, comp.Packages.Len())
	assert.Empty(t, comp.Failures)

	l, ok := comp.Packages.Get(linux)
	require.True(t, ok)
	d, ok := comp.Packages.Get(darwin)
	require.True(t, ok)

	assert.Equal(t, linux, l.Platform)
	assert.Equal(t, darwin, d.Platform)
	assert.NotEqual(t, l.ID, d.ID)

	assert.Equal(t, "clovis", comp.ModuleName)
	require.NotNil(t, comp.Module)
	assert.False(t, comp.Module.Default())
}

func TestCompose_IsolatesPlatformFailures(t *testing.T) {
	h := newHarness(t, linux, darwin)
	lock := lockOf(
		pkg("clovis", "0.1.0", "glibc@2.40"),
		pinned(pkg("glibc", "2.40"), linux),
	)

	comp, err := h.composer.Compose(t.Context(), input(lock))
	require.NoError(t, err)

	assert.Equal(t, []domain.PlatformID{linux}, comp.Packages.Platforms())
	assert.Equal(t, []domain.PlatformID{darwin}, comp.Failed())
	assert.ErrorContains(t, comp.Failures[darwin], domain.ErrUnresolvedDependency.Error())

	// The linux result is the same as resolving it alone.
	solo := newHarness(t, linux)
	alone, err := solo.composer.Compose(t.Context(), input(lock))
	require.NoError(t, err)

	got, _ := comp.Packages.Get(linux)
	want, _ := alone.Packages.Get(linux)
	assert.Equal(t, want, got)
}

func TestCompose_ModuleUsesPackageExport(t *testing.T) {
	h := newHarness(t, linux, darwin)
	lock := lockOf(pkg("clovis", "0.1.0"))

	comp, err := h.composer.Compose(t.Context(), input(lock))
	require.NoError(t, err)
	resolved := h.memo.Len()

	enable := true
	effect, err := comp.Module.Evaluate(domain.HostContext{Platform: linux, Enable: &enable})
	require.NoError(t, err)

	want, _ := comp.Packages.Get(linux)
	assert.Equal(t, domain.EffectInstall, effect.Kind)
	assert.Equal(t, want, effect.Descriptor)
	assert.Equal(t, linux, effect.Descriptor.Platform)
	assert.Equal(t, resolved, h.memo.Len())

	_, err = comp.Module.Evaluate(domain.HostContext{Platform: "windows-x64", Enable: &enable})
	assert.ErrorContains(t, err, domain.ErrUnsupportedHostPlatform.Error())
}

func TestCompose_Restrict(t *testing.T) {
	h := newHarness(t, linux, darwin)

	restricted, dropped := h.composer.Restrict([]domain.PlatformID{darwin, "riscv64-linux"})
	assert.Equal(t, []domain.PlatformID{"riscv64-linux"}, dropped)
	assert.Equal(t, []domain.PlatformID{darwin}, restricted.Platforms().Slice())

	comp, err := restricted.Compose(t.Context(), input(lockOf(pkg("clovis", "0.1.0"))))
	require.NoError(t, err)
	assert.Equal(t, []domain.PlatformID{darwin}, comp.Packages.Platforms())
	assert.False(t, comp.Module.Supported().Contains(linux))
}

func TestCompose_Canceled(t *testing.T) {
	h := newHarness(t, linux, darwin)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := h.composer.Compose(ctx, input(lockOf(pkg("clovis", "0.1.0"))))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolve_UnsupportedPlatform(t *testing.T) {
	h := newHarness(t, linux)

	_, err := h.composer.Resolve(t.Context(), input(lockOf(pkg("clovis", "0.1.0"))), darwin)
	assert.ErrorContains(t, err, domain.ErrUnsupportedHostPlatform.Error())
}
