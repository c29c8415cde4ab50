package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/config"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func createFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger)
}

func TestLoader_Load(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, domain.ProjectFileName, `
version: "1"
package:
  name: clovis
  version: "0.1.0"
  source: crates/clovis
  toolchain: cargo
lock: Cargo.lock
platforms: [x86_64-linux, aarch64-darwin]
module:
  name: clovis-cli
  enable: true
`)

	project, err := newLoader(t).Load(root)
	require.NoError(t, err)

	assert.Equal(t, root, project.Root)
	assert.Equal(t, "clovis", project.Name)
	assert.Equal(t, "0.1.0", project.Version)
	assert.Equal(t, filepath.Join(root, "crates", "clovis"), project.SourceRoot)
	assert.Equal(t, "cargo", project.Toolchain)
	assert.Equal(t, filepath.Join(root, "Cargo.lock"), project.LockPath)
	assert.Equal(t, []domain.PlatformID{"x86_64-linux", "aarch64-darwin"}, project.Platforms)
	assert.Equal(t, domain.ToggleOption{Name: "clovis-cli", Default: true}, project.Module)
}

func TestLoader_Load_Defaults(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, domain.ProjectFileName, `
package:
  name: clovis
  version: "0.1.0"
`)

	project, err := newLoader(t).Load(root)
	require.NoError(t, err)

	assert.Equal(t, root, project.SourceRoot)
	assert.Equal(t, "cargo", project.Toolchain)
	assert.Equal(t, filepath.Join(root, domain.LockFileName), project.LockPath)
	assert.Empty(t, project.Platforms)
	assert.Equal(t, domain.ToggleOption{Name: "clovis", Default: false}, project.Module)
}

func TestLoader_Load_Discovery(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, domain.ProjectFileName, `
package:
  name: clovis
  version: "0.1.0"
`)
	nested := filepath.Join(root, "src", "bin")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	project, err := newLoader(t).Load(nested)
	require.NoError(t, err)
	assert.Equal(t, root, project.Root)
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "missing name", content: "package:\n  version: \"1\"\n", wantErr: domain.ErrMissingPackageName},
		{name: "missing version", content: "package:\n  name: clovis\n", wantErr: domain.ErrMissingPackageVersion},
		{
			name:    "invalid module name",
			content: "package:\n  name: clovis\n  version: \"1\"\nmodule:\n  name: \"bad name\"\n",
			wantErr: domain.ErrInvalidModuleName,
		},
		{name: "invalid yaml", content: "package: [", wantErr: domain.ErrConfigParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			createFile(t, root, domain.ProjectFileName, tt.content)

			_, err := newLoader(t).Load(root)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestLoader_Load_NotFound(t *testing.T) {
	cwd := t.TempDir()

	_, err := newLoader(t).Load(cwd)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigNotFound.Error())

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, cwd, zErr.Metadata()["cwd"])
}

func TestLoader_LoadHost(t *testing.T) {
	dir := t.TempDir()
	path := createFile(t, dir, domain.HostFileName, `
name: workstation
platform: x86_64-linux
modules:
  clovis:
    enable: true
  other: {}
packages:
  - name: git
`)

	host, err := newLoader(t).LoadHost(path)
	require.NoError(t, err)

	assert.Equal(t, path, host.Path)
	assert.Equal(t, "workstation", host.Name)
	assert.Equal(t, domain.PlatformID("x86_64-linux"), host.Platform)
	require.NotNil(t, host.Modules["clovis"].Enable)
	assert.True(t, *host.Modules["clovis"].Enable)
	assert.Nil(t, host.Modules["other"].Enable)
	assert.Equal(t, []domain.InstalledPackage{{Name: "git"}}, host.Packages)
}

func TestLoader_LoadHost_MissingPlatform(t *testing.T) {
	path := createFile(t, t.TempDir(), domain.HostFileName, "name: workstation\n")

	_, err := newLoader(t).LoadHost(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrMissingHostPlatform.Error())
}

func TestLoader_SaveHost_RoundTrip(t *testing.T) {
	loader := newLoader(t)
	enable := true
	host := &domain.Host{
		Path:     filepath.Join(t.TempDir(), domain.HostFileName),
		Platform: "aarch64-darwin",
		Modules:  map[string]domain.ModuleSetting{"clovis": {Enable: &enable}},
		Packages: []domain.InstalledPackage{
			{ID: "0011223344556677", Name: "clovis", Version: "0.1.0", Platform: "aarch64-darwin"},
		},
	}

	require.NoError(t, loader.SaveHost(host))

	loaded, err := loader.LoadHost(host.Path)
	require.NoError(t, err)
	assert.Equal(t, host, loaded)
}
