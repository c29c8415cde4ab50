package lockfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/lockfile"
	"go.trai.ch/kiln/internal/core/domain"
)

const sample = `
version = 1

[[package]]
name = "clovis"
version = "0.1.0"
dependencies = ["openssl", "serde 1.0.210"]

[[package]]
name = "serde"
version = "1.0.210"
source = "registry+https://github.com/rust-lang/crates.io-index"
checksum = "c8e3592472072e6e22e0a54d5904d9febf8508f65fb8552499a1abc7d1078c3a"

[[package]]
name = "openssl"
version = "3.3.2"
source = "nixhub"

[package.systems.x86_64-linux]
owner = "NixOS"
repo = "nixpkgs"
rev = "5ed627539ac84809c78b2dd6d26a5cebeb5ae269"
attr_path = "openssl_3"

[package.systems.aarch64-darwin]
owner = "NixOS"
repo = "nixpkgs"
rev = "5ed627539ac84809c78b2dd6d26a5cebeb5ae269"
attr_path = "openssl_3"
`

func writeLock(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), domain.LockFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestStore_Read(t *testing.T) {
	path := writeLock(t, sample)

	lock, err := lockfile.New().Read(path)
	require.NoError(t, err)

	assert.Equal(t, domain.LockfileVersion, lock.Version)
	assert.Equal(t, digest.FromString(sample).String(), lock.Digest)
	assert.Equal(t, []string{"clovis@0.1.0", "openssl@3.3.2", "serde@1.0.210"}, lock.Keys())

	root, ok := lock.Lookup("clovis@0.1.0")
	require.True(t, ok)
	assert.Equal(t, []string{"openssl@3.3.2", "serde@1.0.210"}, root.Dependencies)
	assert.True(t, root.PlatformIndependent())

	openssl, ok := lock.Lookup("openssl@3.3.2")
	require.True(t, ok)
	assert.False(t, openssl.PlatformIndependent())

	pin, err := openssl.PinFor("x86_64-linux")
	require.NoError(t, err)
	assert.Equal(t, "openssl_3", pin.AttrPath.String())
	assert.Equal(t, "NixOS", pin.Owner.String())

	_, err = openssl.PinFor("x86_64-darwin")
	assert.ErrorContains(t, err, domain.ErrUnresolvedDependency.Error())
}

func TestStore_Read_InternsPins(t *testing.T) {
	lock, err := lockfile.Decode([]byte(sample))
	require.NoError(t, err)

	openssl, _ := lock.Lookup("openssl@3.3.2")
	linuxPin := openssl.Systems["x86_64-linux"]
	darwinPin := openssl.Systems["aarch64-darwin"]

	// Both systems pin the same nixpkgs revision; decoding yields one interned value.
	assert.True(t, linuxPin.Rev == darwinPin.Rev)
	assert.Equal(t, domain.NewInternedString("5ed627539ac84809c78b2dd6d26a5cebeb5ae269"), linuxPin.Rev)
	assert.Equal(t, domain.NewInternedString("openssl"), openssl.Name)

	// Fields absent from the file stay zero and are not written back.
	assert.True(t, linuxPin.Hash.IsZero())
	data, err := lockfile.Encode(lock)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hash =")
}

func TestStore_Read_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "invalid toml", content: "[[package]\n", wantErr: domain.ErrLockParseFailed},
		{name: "unknown version", content: "version = 7\n", wantErr: domain.ErrLockUnsupportedVersion},
		{
			name: "ambiguous dependency",
			content: `
[[package]]
name = "app"
version = "1.0.0"
dependencies = ["syn"]

[[package]]
name = "syn"
version = "1.0.109"

[[package]]
name = "syn"
version = "2.0.77"
`,
			wantErr: domain.ErrAmbiguousDependency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lockfile.New().Read(writeLock(t, tt.content))
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestStore_Read_Missing(t *testing.T) {
	_, err := lockfile.New().Read(filepath.Join(t.TempDir(), domain.LockFileName))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrLockReadFailed.Error())
}

func TestStore_Read_DigestTracksContent(t *testing.T) {
	a, err := lockfile.New().Read(writeLock(t, sample))
	require.NoError(t, err)
	b, err := lockfile.New().Read(writeLock(t, sample))
	require.NoError(t, err)
	c, err := lockfile.New().Read(writeLock(t, sample+"\n# changed\n"))
	require.NoError(t, err)

	assert.Equal(t, a.Digest, b.Digest)
	assert.NotEqual(t, a.Digest, c.Digest)
}

func TestStore_WriteThenRead(t *testing.T) {
	store := lockfile.New()
	original, err := store.Read(writeLock(t, sample))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), domain.LockFileName)
	written, err := store.Write(path, original)
	require.NoError(t, err)

	reread, err := store.Read(path)
	require.NoError(t, err)

	assert.Equal(t, written, reread.Digest)
	assert.Equal(t, original.Keys(), reread.Keys())
	for _, key := range original.Keys() {
		want, _ := original.Lookup(key)
		got, _ := reread.Lookup(key)
		assert.Equal(t, want, got, key)
	}

	// Writing the same lock twice yields the same bytes.
	again, err := store.Write(path, reread)
	require.NoError(t, err)
	assert.Equal(t, written, again)
}
