package domain

import "path/filepath"

const (
	// KilnDirName is the name of the internal workspace directory.
	KilnDirName = ".kiln"

	// StoreDirName is the name of the build plan store directory.
	StoreDirName = "store"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// NixHubDirName is the name of the NixHub cache directory.
	NixHubDirName = "nixhub"

	// ProjectFileName is the name of the project configuration file.
	ProjectFileName = "kiln.yaml"

	// LockFileName is the default name of the dependency lock file.
	LockFileName = "kiln.lock"

	// HostFileName is the default name of a host configuration file.
	HostFileName = "host.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultKilnPath returns the default root directory for kiln metadata.
func DefaultKilnPath() string {
	return KilnDirName
}

// DefaultStorePath returns the default path for the build plan store.
// It joins .kiln and store.
func DefaultStorePath() string {
	return filepath.Join(KilnDirName, StoreDirName)
}

// DefaultNixHubCachePath returns the default path for the NixHub cache.
// It joins .kiln, cache, and nixhub.
func DefaultNixHubCachePath() string {
	return filepath.Join(KilnDirName, CacheDirName, NixHubDirName)
}
