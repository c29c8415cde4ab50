package config

// Kilnfile represents the structure of the kiln.yaml configuration file.
type Kilnfile struct {
	Version   string     `yaml:"version"`
	Package   PackageDTO `yaml:"package"`
	Lock      string     `yaml:"lock"`
	Platforms []string   `yaml:"platforms"`
	Module    ModuleDTO  `yaml:"module"`
}

// PackageDTO represents the package section of kiln.yaml.
type PackageDTO struct {
	Name      string `yaml:"name"`
	Version   string `yaml:"version"`
	Source    string `yaml:"source"`
	Toolchain string `yaml:"toolchain"`
}

// ModuleDTO represents the module export section of kiln.yaml.
type ModuleDTO struct {
	Name   string `yaml:"name"`
	Enable bool   `yaml:"enable"`
}

// Hostfile represents the structure of a host.yaml file.
type Hostfile struct {
	Name     string                      `yaml:"name,omitempty"`
	Platform string                      `yaml:"platform"`
	Modules  map[string]ModuleSettingDTO `yaml:"modules,omitempty"`
	Packages []InstalledPackageDTO       `yaml:"packages,omitempty"`
}

// ModuleSettingDTO is a host's setting for one module export.
type ModuleSettingDTO struct {
	Enable *bool `yaml:"enable,omitempty"`
}

// InstalledPackageDTO is one entry of a host's installed set.
type InstalledPackageDTO struct {
	ID       string `yaml:"id,omitempty"`
	Name     string `yaml:"name"`
	Version  string `yaml:"version,omitempty"`
	Platform string `yaml:"platform,omitempty"`
}
