package fs_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
		require.NoError(t, os.WriteFile(path, []byte(content), domain.PrivateFilePerm))
	}
	return root
}

func crate() map[string]string {
	return map[string]string{
		"Cargo.toml":        "[package]\nname = \"clovis\"\n",
		"src/main.rs":       "fn main() {}\n",
		".git/config":       "[core]\n",
		".kiln/store/x":     "{}",
		"target/debug/bin":  "elf",
		"README.md":         "# clovis\n",
		"src/cli/mod.rs":    "pub mod args;\n",
		"src/cli/args.rs":   "",
		"node_modules/x.js": "",
	}
}

func TestWalker_WalkFiles(t *testing.T) {
	root := writeTree(t, crate())

	var got []string
	for path, err := range fs.NewWalker().WalkFiles(root, []string{"target", "*.md"}) {
		require.NoError(t, err)
		rel, relErr := filepath.Rel(root, path)
		require.NoError(t, relErr)
		got = append(got, filepath.ToSlash(rel))
	}
	slices.Sort(got)

	assert.Equal(t, []string{
		"Cargo.toml",
		"node_modules/x.js",
		"src/cli/args.rs",
		"src/cli/mod.rs",
		"src/main.rs",
	}, got)
}

func TestWalker_WalkFiles_MissingRoot(t *testing.T) {
	var errs int
	for _, err := range fs.NewWalker().WalkFiles(filepath.Join(t.TempDir(), "missing"), nil) {
		if err != nil {
			errs++
		}
	}
	assert.Equal(t, 1, errs)
}

func TestScanner_Scan(t *testing.T) {
	root := writeTree(t, crate())
	scanner := fs.NewScanner(fs.NewWalker(), fs.DefaultIgnores...)

	tree, err := scanner.Scan(root)
	require.NoError(t, err)

	assert.Equal(t, root, tree.Root)
	assert.Equal(t, []string{
		"Cargo.toml",
		"README.md",
		"src/cli/args.rs",
		"src/cli/mod.rs",
		"src/main.rs",
	}, tree.Files)
	assert.Contains(t, tree.Digest, "sha256:")
	assert.True(t, tree.Has("Cargo.toml"))
}

func TestScanner_Scan_DigestTracksContent(t *testing.T) {
	scanner := fs.NewScanner(fs.NewWalker(), fs.DefaultIgnores...)

	a, err := scanner.Scan(writeTree(t, crate()))
	require.NoError(t, err)
	b, err := scanner.Scan(writeTree(t, crate()))
	require.NoError(t, err)
	assert.Equal(t, a.Digest, b.Digest, "same content in different roots")

	edited := crate()
	edited["src/main.rs"] = "fn main() { println!(\"hi\"); }\n"
	c, err := scanner.Scan(writeTree(t, edited))
	require.NoError(t, err)
	assert.NotEqual(t, a.Digest, c.Digest)

	renamed := crate()
	delete(renamed, "README.md")
	renamed["README"] = "# clovis\n"
	d, err := scanner.Scan(writeTree(t, renamed))
	require.NoError(t, err)
	assert.NotEqual(t, a.Digest, d.Digest)

	ignoredOnly := crate()
	ignoredOnly["target/release/bin"] = "elf"
	e, err := scanner.Scan(writeTree(t, ignoredOnly))
	require.NoError(t, err)
	assert.Equal(t, a.Digest, e.Digest)
}

func TestScanner_Scan_Errors(t *testing.T) {
	scanner := fs.NewScanner(fs.NewWalker())

	_, err := scanner.Scan(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, domain.ErrSourceScanFailed.Error())

	root := writeTree(t, map[string]string{"file": ""})
	_, err = scanner.Scan(filepath.Join(root, "file"))
	assert.ErrorContains(t, err, domain.ErrInvalidSource.Error())
}

func TestManifestToolchain_Recognize(t *testing.T) {
	cargo := fs.NewManifestToolchain("cargo", "Cargo.toml")

	assert.Equal(t, "cargo", cargo.Name())
	require.NoError(t, cargo.Recognize(domain.SourceTree{Files: []string{"Cargo.toml", "src/main.rs"}}))

	err := cargo.Recognize(domain.SourceTree{Root: "/src", Files: []string{"go.mod"}})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidSource.Error())
}

func TestRegistry_Lookup(t *testing.T) {
	registry := fs.NewDefaultRegistry()
	assert.Equal(t, []string{"cargo", "go", "npm"}, registry.Names())

	tc, err := registry.Lookup("go")
	require.NoError(t, err)
	assert.Equal(t, "go", tc.Name())

	_, err = registry.Lookup("bazel")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrUnknownToolchain.Error())
}
