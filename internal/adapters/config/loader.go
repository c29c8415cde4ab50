// Package config provides the configuration loader for kiln.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	defaultToolchain = "cargo"
	defaultSource    = "."
)

var validModuleNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Loader implements ports.ConfigLoader using YAML files.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds kiln.yaml in cwd or one of its parents and returns the project it describes.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	configPath, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var kilnfile Kilnfile
	if err := readAndUnmarshalYAML(configPath, &kilnfile); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	return l.buildProject(configPath, &kilnfile)
}

func (l *Loader) buildProject(configPath string, kf *Kilnfile) (*domain.Project, error) {
	if kf.Package.Name == "" {
		return nil, zerr.With(domain.ErrMissingPackageName, "path", configPath)
	}
	if kf.Package.Version == "" {
		err := zerr.With(domain.ErrMissingPackageVersion, "package", kf.Package.Name)
		return nil, zerr.With(err, "path", configPath)
	}

	moduleName := kf.Module.Name
	if moduleName == "" {
		moduleName = kf.Package.Name
	}
	if !validModuleNameRegex.MatchString(moduleName) {
		return nil, zerr.With(domain.ErrInvalidModuleName, "module", moduleName)
	}

	toolchain := kf.Package.Toolchain
	if toolchain == "" {
		toolchain = defaultToolchain
	}

	root := filepath.Dir(configPath)
	source := kf.Package.Source
	if source == "" {
		source = defaultSource
	}
	lock := kf.Lock
	if lock == "" {
		lock = domain.LockFileName
	}

	if kf.Version != "" && kf.Version != "1" {
		l.Logger.Warn(fmt.Sprintf("unknown %s version %q, reading it as version 1", domain.ProjectFileName, kf.Version))
	}

	platforms := make([]domain.PlatformID, 0, len(kf.Platforms))
	for _, p := range kf.Platforms {
		platforms = append(platforms, domain.PlatformID(p))
	}

	return &domain.Project{
		Root:       root,
		Name:       kf.Package.Name,
		Version:    kf.Package.Version,
		SourceRoot: resolvePath(root, source),
		Toolchain:  toolchain,
		LockPath:   resolvePath(root, lock),
		Platforms:  platforms,
		Module: domain.ToggleOption{
			Name:    moduleName,
			Default: kf.Module.Enable,
		},
	}, nil
}

// LoadHost reads a host configuration from path.
func (l *Loader) LoadHost(path string) (*domain.Host, error) {
	var hostfile Hostfile
	if err := readAndUnmarshalYAML(path, &hostfile); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	if hostfile.Platform == "" {
		return nil, zerr.With(domain.ErrMissingHostPlatform, "path", path)
	}

	host := &domain.Host{
		Path:     path,
		Name:     hostfile.Name,
		Platform: domain.PlatformID(hostfile.Platform),
		Modules:  make(map[string]domain.ModuleSetting, len(hostfile.Modules)),
		Packages: make([]domain.InstalledPackage, 0, len(hostfile.Packages)),
	}
	for name, setting := range hostfile.Modules {
		host.Modules[name] = domain.ModuleSetting{Enable: setting.Enable}
	}
	for _, p := range hostfile.Packages {
		host.Packages = append(host.Packages, domain.InstalledPackage{
			ID:       p.ID,
			Name:     p.Name,
			Version:  p.Version,
			Platform: domain.PlatformID(p.Platform),
		})
	}

	return host, nil
}

// SaveHost writes host back to the file it was loaded from.
func (l *Loader) SaveHost(host *domain.Host) error {
	hostfile := Hostfile{
		Name:     host.Name,
		Platform: host.Platform.String(),
	}
	if len(host.Modules) > 0 {
		hostfile.Modules = make(map[string]ModuleSettingDTO, len(host.Modules))
		for name, setting := range host.Modules {
			hostfile.Modules[name] = ModuleSettingDTO{Enable: setting.Enable}
		}
	}
	for _, p := range host.Packages {
		hostfile.Packages = append(hostfile.Packages, InstalledPackageDTO{
			ID:       p.ID,
			Name:     p.Name,
			Version:  p.Version,
			Platform: p.Platform.String(),
		})
	}

	data, err := yaml.Marshal(&hostfile)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigWriteFailed.Error())
	}

	if err := os.WriteFile(host.Path, data, domain.FilePerm); err != nil {
		err = zerr.Wrap(err, domain.ErrConfigWriteFailed.Error())
		return zerr.With(err, "path", host.Path)
	}
	return nil
}

func findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ProjectFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func resolvePath(root, configured string) string {
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Clean(filepath.Join(root, configured))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
