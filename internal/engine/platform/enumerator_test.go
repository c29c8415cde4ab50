package platform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/platform"
	"go.uber.org/mock/gomock"
)

func TestEnumerator_Enumerate(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockPlatformCatalog(ctrl)
	catalog.EXPECT().Platforms().Return([]domain.PlatformID{"linux-x64", "darwin-arm64", "linux-x64"})

	e := platform.NewEnumerator(catalog)

	first := e.Enumerate()
	second := e.Enumerate()

	assert.Equal(t, []domain.PlatformID{"darwin-arm64", "linux-x64"}, first.Slice())
	assert.Equal(t, first.Slice(), second.Slice(), "enumeration must be deterministic")
}

func TestEnumerator_Scope(t *testing.T) {
	e := platform.NewEnumerator(platform.NewStaticCatalog("linux-x64", "darwin-arm64"))

	scope, err := e.Scope("linux-x64")
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformID("linux-x64"), scope.Platform())

	_, err = e.Scope("windows-x64")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrUnsupportedHostPlatform.Error())
}

func TestEnumerator_Restrict(t *testing.T) {
	e := platform.NewEnumerator(platform.NewDefaultCatalog())

	restricted, dropped := e.Restrict([]domain.PlatformID{"x86_64-linux", "sparc-solaris"})

	assert.Equal(t, []domain.PlatformID{"x86_64-linux"}, restricted.Enumerate().Slice())
	assert.Equal(t, []domain.PlatformID{"sparc-solaris"}, dropped)
	assert.Equal(t, len(domain.DefaultPlatforms), e.Enumerate().Len(), "original enumerator is unchanged")
}

func TestScope_Lookup(t *testing.T) {
	lock := &domain.Lockfile{
		Version: domain.LockfileVersion,
		Packages: map[string]domain.LockedPackage{
			"serde@1.0.0": {
				Name:     domain.NewInternedString("serde"),
				Version:  domain.NewInternedString("1.0.0"),
				Checksum: "abc",
			},
			"openssl@3.3.2": {
				Name:    domain.NewInternedString("openssl"),
				Version: domain.NewInternedString("3.3.2"),
				Systems: map[domain.PlatformID]domain.Pin{
					"linux-x64": {AttrPath: domain.NewInternedString("openssl_3")},
				},
			},
		},
	}

	linux := platform.NewScope("linux-x64")
	darwin := platform.NewScope("darwin-arm64")

	t.Run("platform independent package resolves everywhere", func(t *testing.T) {
		for _, scope := range []*platform.Scope{linux, darwin} {
			pkg, _, err := scope.Lookup(lock, "serde@1.0.0")
			require.NoError(t, err)
			assert.Equal(t, "abc", pkg.Checksum)
		}
	})

	t.Run("pinned package resolves on its platform only", func(t *testing.T) {
		_, pin, err := linux.Lookup(lock, "openssl@3.3.2")
		require.NoError(t, err)
		assert.Equal(t, "openssl_3", pin.AttrPath.String())

		_, _, err = darwin.Lookup(lock, "openssl@3.3.2")
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrUnresolvedDependency.Error())
	})

	t.Run("missing package", func(t *testing.T) {
		_, _, err := linux.Lookup(lock, "zlib@1.3")
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrUnresolvedDependency.Error())
	})
}
