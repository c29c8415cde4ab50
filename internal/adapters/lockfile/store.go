// Package lockfile reads and writes kiln.lock.
package lockfile

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/opencontainers/go-digest"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.LockStore = (*Store)(nil)

// Store implements ports.LockStore on TOML files.
type Store struct{}

// New creates a new lock file store.
func New() *Store {
	return &Store{}
}

// Read parses the lock file at path. The digest of the lock is the digest of its bytes.
func (s *Store) Read(path string) (*domain.Lockfile, error) {
	// #nosec G304 -- path comes from the project configuration
	data, err := os.ReadFile(path)
	if err != nil {
		err = zerr.Wrap(err, domain.ErrLockReadFailed.Error())
		return nil, zerr.With(err, "path", path)
	}

	lock, err := Decode(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return lock, nil
}

// Decode parses lock file contents.
func Decode(data []byte) (*domain.Lockfile, error) {
	var file File
	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, zerr.Wrap(err, domain.ErrLockParseFailed.Error())
	}

	if file.Version == 0 {
		file.Version = domain.LockfileVersion
	}
	if file.Version != domain.LockfileVersion {
		return nil, zerr.With(domain.ErrLockUnsupportedVersion, "version", file.Version)
	}

	index := indexByName(file.Packages)
	lock := &domain.Lockfile{
		Version:  file.Version,
		Digest:   digest.FromBytes(data).String(),
		Packages: make(map[string]domain.LockedPackage, len(file.Packages)),
	}

	for _, dto := range file.Packages {
		pkg, err := toDomain(dto, index)
		if err != nil {
			return nil, zerr.With(err, "package", domain.PackageKey(dto.Name.String(), dto.Version.String()))
		}
		lock.Packages[pkg.Key()] = pkg
	}

	return lock, nil
}

// Write encodes lock to path and returns the digest of the written bytes.
func (s *Store) Write(path string, lock *domain.Lockfile) (string, error) {
	data, err := Encode(lock)
	if err != nil {
		return "", err
	}

	if err := atomicWriteFile(path, data); err != nil {
		err = zerr.Wrap(err, domain.ErrLockWriteFailed.Error())
		return "", zerr.With(err, "path", path)
	}

	return digest.FromBytes(data).String(), nil
}

// Encode renders lock in kiln.lock format. Packages are sorted by key.
func Encode(lock *domain.Lockfile) ([]byte, error) {
	file := File{Version: domain.LockfileVersion}
	for _, key := range lock.Keys() {
		file.Packages = append(file.Packages, fromDomain(lock.Packages[key]))
	}

	var buf bytes.Buffer
	buf.WriteString("# This file is generated by kiln. Do not edit it by hand.\n")
	if err := toml.NewEncoder(&buf).Encode(file); err != nil {
		return nil, zerr.Wrap(err, domain.ErrLockWriteFailed.Error())
	}
	return buf.Bytes(), nil
}

func indexByName(pkgs []PackageDTO) map[string][]string {
	index := make(map[string][]string, len(pkgs))
	for _, p := range pkgs {
		name := p.Name.String()
		index[name] = append(index[name], p.Version.String())
	}
	return index
}

// dependencyKey normalizes a Cargo-style dependency reference into a lock key.
// "name" is accepted when exactly one version of name is locked.
func dependencyKey(ref string, index map[string][]string) (string, error) {
	fields := strings.Fields(ref)
	if len(fields) == 0 {
		return "", zerr.With(domain.ErrUnresolvedDependency, "dependency", ref)
	}

	name := fields[0]
	if len(fields) > 1 {
		return domain.PackageKey(name, fields[1]), nil
	}

	versions := index[name]
	switch len(versions) {
	case 0:
		// Left to resolution, which reports it per platform.
		return name, nil
	case 1:
		return domain.PackageKey(name, versions[0]), nil
	default:
		err := zerr.With(domain.ErrAmbiguousDependency, "dependency", name)
		return "", zerr.With(err, "versions", strings.Join(versions, ", "))
	}
}

func toDomain(dto PackageDTO, index map[string][]string) (domain.LockedPackage, error) {
	pkg := domain.LockedPackage{
		Name:     dto.Name,
		Version:  dto.Version,
		Source:   dto.Source,
		Checksum: dto.Checksum,
	}

	for _, ref := range dto.Dependencies {
		key, err := dependencyKey(ref, index)
		if err != nil {
			return domain.LockedPackage{}, err
		}
		pkg.Dependencies = append(pkg.Dependencies, key)
	}

	if len(dto.Systems) > 0 {
		pkg.Systems = make(map[domain.PlatformID]domain.Pin, len(dto.Systems))
		for system, pin := range dto.Systems {
			pkg.Systems[domain.PlatformID(system)] = pin.toDomain()
		}
	}

	return pkg, nil
}

func fromDomain(pkg domain.LockedPackage) PackageDTO {
	dto := PackageDTO{
		Name:     pkg.Name,
		Version:  pkg.Version,
		Source:   pkg.Source,
		Checksum: pkg.Checksum,
	}

	for _, key := range pkg.Dependencies {
		name, version := domain.SplitPackageKey(key)
		if version == "" {
			dto.Dependencies = append(dto.Dependencies, name)
			continue
		}
		dto.Dependencies = append(dto.Dependencies, name+" "+version)
	}
	slices.Sort(dto.Dependencies)

	if len(pkg.Systems) > 0 {
		dto.Systems = make(map[string]PinDTO, len(pkg.Systems))
		for system, pin := range pkg.Systems {
			dto.Systems[system.String()] = pinFromDomain(pin)
		}
	}

	return dto
}

// atomicWriteFile writes data to a temporary file and renames it into place.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".kiln-lock-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
