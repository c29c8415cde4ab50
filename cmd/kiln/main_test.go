package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kilnfile = `version: "1"
package:
  name: clovis
  version: "0.1.0"
platforms: [x86_64-linux, aarch64-darwin]
`

const lockfile = `version = 1

[[package]]
name = "clovis"
version = "0.1.0"
dependencies = ["glibc"]

[[package]]
name = "glibc"
version = "2.40"
source = "nixhub"

[package.systems.x86_64-linux]
owner = "NixOS"
repo = "nixpkgs"
rev = "5ed627539ac84809c78b2dd6d26a5cebeb5ae269"
attr_path = "glibc"
`

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestRun(t *testing.T) {
	tests := []struct {
		name         string
		files        map[string]string
		args         []string
		expectedExit int
	}{
		{
			name:         "version",
			args:         []string{"version"},
			expectedExit: 0,
		},
		{
			name: "show",
			files: map[string]string{
				"kiln.yaml": kilnfile,
			},
			args:         []string{"show"},
			expectedExit: 0,
		},
		{
			name: "build for a pinned platform",
			files: map[string]string{
				"kiln.yaml":  kilnfile,
				"kiln.lock":  lockfile,
				"Cargo.toml": "[package]\nname = \"clovis\"\n",
			},
			args:         []string{"build", "--platform", "x86_64-linux"},
			expectedExit: 0,
		},
		{
			name: "validate reports the unpinned platform",
			files: map[string]string{
				"kiln.yaml":  kilnfile,
				"kiln.lock":  lockfile,
				"Cargo.toml": "[package]\nname = \"clovis\"\n",
			},
			args:         []string{"validate"},
			expectedExit: 1,
		},
		{
			name: "source without a manifest",
			files: map[string]string{
				"kiln.yaml": kilnfile,
				"kiln.lock": lockfile,
			},
			args:         []string{"outputs"},
			expectedExit: 0,
		},
		{
			name:         "missing configuration",
			args:         []string{"outputs"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeProject(t, tt.files)
			t.Chdir(dir)

			exitCode := run(tt.args)
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}

func TestRun_BuildStoresPlan(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"kiln.yaml":  kilnfile,
		"kiln.lock":  lockfile,
		"Cargo.toml": "[package]\nname = \"clovis\"\n",
	})
	t.Chdir(dir)

	require.Equal(t, 0, run([]string{"build", "--platform", "x86_64-linux"}))

	entries, err := os.ReadDir(filepath.Join(dir, ".kiln", "store"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
