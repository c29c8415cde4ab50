package domain

// Project is the loaded kiln.yaml: what to package, from where, and how to expose it.
type Project struct {
	// Root is the directory containing kiln.yaml.
	Root string

	// Name and Version identify the package being planned.
	Name    string
	Version string

	// SourceRoot is the absolute path of the source tree.
	SourceRoot string

	// Toolchain names the toolchain that must recognize the source tree (e.g., "cargo").
	Toolchain string

	// LockPath is the absolute path of the lock file.
	LockPath string

	// Platforms is an optional allow-list restricting the supported platforms.
	Platforms []PlatformID

	// Module describes the module export.
	Module ToggleOption
}

// ToggleOption is the single option exposed by the module export.
type ToggleOption struct {
	// Name is the stable, platform independent export name of the module.
	Name string

	// Default is the value of the enable toggle when a host does not set it.
	Default bool
}

// Host is a host configuration: the machine a module is evaluated on.
type Host struct {
	// Path is the file the host was loaded from, if any.
	Path string

	// Name is an optional human readable host name.
	Name string

	// Platform is the host's own platform. It is always required.
	Platform PlatformID

	// Modules holds per-module settings keyed by module export name.
	Modules map[string]ModuleSetting

	// Packages is the host's installed-software set.
	Packages []InstalledPackage
}

// ModuleSetting is a host's configuration for one module export.
type ModuleSetting struct {
	// Enable overrides the module's default toggle when non-nil.
	Enable *bool
}

// Context returns the evaluation context for the named module on this host.
func (h *Host) Context(module string) HostContext {
	ctx := HostContext{Platform: h.Platform}
	if setting, ok := h.Modules[module]; ok {
		ctx.Enable = setting.Enable
	}
	return ctx
}

// HostContext is what a module fragment is evaluated against.
type HostContext struct {
	// Platform is the host's platform.
	Platform PlatformID

	// Enable is the toggle's current value; nil means "use the module default".
	Enable *bool
}
