package domain

import "go.trai.ch/zerr"

var (
	// ErrUnresolvedDependency is returned when the lock references a package with no resolution for a platform.
	ErrUnresolvedDependency = zerr.New("unresolved dependency")

	// ErrInvalidSource is returned when the source tree is not recognized by the toolchain.
	ErrInvalidSource = zerr.New("invalid source")

	// ErrUnsupportedHostPlatform is returned when a host platform is not in the supported set.
	ErrUnsupportedHostPlatform = zerr.New("unsupported host platform")

	// ErrUnknownToolchain is returned when a project names a toolchain kiln does not know.
	ErrUnknownToolchain = zerr.New("unknown toolchain")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no kiln.yaml can be found.
	ErrConfigNotFound = zerr.New("could not find kiln.yaml")

	// ErrConfigWriteFailed is returned when a config file cannot be written.
	ErrConfigWriteFailed = zerr.New("failed to write config file")

	// ErrMissingPackageName is returned when kiln.yaml does not name a package.
	ErrMissingPackageName = zerr.New("missing package name")

	// ErrMissingPackageVersion is returned when kiln.yaml does not give a package version.
	ErrMissingPackageVersion = zerr.New("missing package version")

	// ErrInvalidModuleName is returned when a module export name contains invalid characters.
	ErrInvalidModuleName = zerr.New("module name can only contain alphanumeric characters, hyphens and underscores")

	// ErrMissingHostPlatform is returned when a host configuration does not declare its platform.
	ErrMissingHostPlatform = zerr.New("missing host platform")

	// ErrHostFileRequired is returned when an evaluation result is to be written without a host file.
	ErrHostFileRequired = zerr.New("writing the installed set requires a host file")

	// ErrLockReadFailed is returned when the lock file cannot be read.
	ErrLockReadFailed = zerr.New("failed to read lock file")

	// ErrLockParseFailed is returned when the lock file cannot be parsed.
	ErrLockParseFailed = zerr.New("failed to parse lock file")

	// ErrLockWriteFailed is returned when the lock file cannot be written.
	ErrLockWriteFailed = zerr.New("failed to write lock file")

	// ErrLockUnsupportedVersion is returned when the lock file format version is unknown.
	ErrLockUnsupportedVersion = zerr.New("unsupported lock file version")

	// ErrAmbiguousDependency is returned when a lock dependency names a package that is locked at several versions.
	ErrAmbiguousDependency = zerr.New("ambiguous dependency reference")

	// ErrSourceScanFailed is returned when the source tree cannot be walked or hashed.
	ErrSourceScanFailed = zerr.New("failed to scan source tree")

	// ErrStoreCreateFailed is returned when the plan store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create plan store directory")

	// ErrStoreReadFailed is returned when a stored plan cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build plan")

	// ErrStoreUnmarshalFailed is returned when a stored plan cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build plan")

	// ErrStoreMarshalFailed is returned when a plan cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build plan")

	// ErrStoreWriteFailed is returned when a plan cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build plan")

	// ErrNixCacheReadFailed is returned when reading from the Nix cache fails.
	ErrNixCacheReadFailed = zerr.New("failed to read from Nix cache")

	// ErrNixCacheWriteFailed is returned when writing to the Nix cache fails.
	ErrNixCacheWriteFailed = zerr.New("failed to write to Nix cache")

	// ErrNixCacheMarshalFailed is returned when marshaling Nix cache data fails.
	ErrNixCacheMarshalFailed = zerr.New("failed to marshal Nix cache data")

	// ErrNixCacheUnmarshalFailed is returned when unmarshaling Nix cache data fails.
	ErrNixCacheUnmarshalFailed = zerr.New("failed to unmarshal Nix cache data")

	// ErrNixAPIRequestFailed is returned when a NixHub API request fails.
	ErrNixAPIRequestFailed = zerr.New("failed to make NixHub API request")

	// ErrNixAPIParseFailed is returned when parsing a NixHub API response fails.
	ErrNixAPIParseFailed = zerr.New("failed to parse NixHub API response")

	// ErrNixPackageNotFound is returned when a package version is not found in NixHub.
	ErrNixPackageNotFound = zerr.New("package version not found in NixHub")

	// ErrInvalidDependencySpec is returned when a dependency specification is missing the @ symbol.
	ErrInvalidDependencySpec = zerr.New("invalid dependency specification, expected format: package@version")

	// ErrValidationFailed is returned when validate finds at least one platform that does not resolve.
	ErrValidationFailed = zerr.New("validation failed")
)
