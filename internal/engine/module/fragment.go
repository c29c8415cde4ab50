// Package module builds the toggle-gated configuration fragment a host can enable to install a package.
package module

import (
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// LookupFunc returns the build descriptor for a platform.
// It is bound late: a Fragment only calls it while being evaluated.
type LookupFunc func(platform domain.PlatformID) (domain.BuildDescriptor, error)

// Fragment is a platform independent, composable unit of host configuration.
// It exposes a single boolean option and, when that option is on, installs the
// host platform's build descriptor.
type Fragment struct {
	name      string
	enable    bool
	lookup    LookupFunc
	supported domain.PlatformSet
}

// Define creates a fragment exporting the package under name.
func Define(name string, toggleDefault bool, lookup LookupFunc, supported domain.PlatformSet) *Fragment {
	return &Fragment{
		name:      name,
		enable:    toggleDefault,
		lookup:    lookup,
		supported: supported,
	}
}

// Name returns the export name of the fragment.
func (f *Fragment) Name() string {
	return f.name
}

// Default returns the toggle value used when a host leaves it unset.
func (f *Fragment) Default() bool {
	return f.enable
}

// Supported returns the platforms the fragment can install on.
func (f *Fragment) Supported() domain.PlatformSet {
	return f.supported
}

// Enabled reports the effective toggle for a host.
func (f *Fragment) Enabled(host domain.HostContext) bool {
	if host.Enable == nil {
		return f.enable
	}
	return *host.Enable
}

// Evaluate computes the effect of the fragment on a host.
//
// An unsupported host platform is an error even when the toggle is off.
func (f *Fragment) Evaluate(host domain.HostContext) (domain.Effect, error) {
	if !f.supported.Contains(host.Platform) {
		err := zerr.With(domain.ErrUnsupportedHostPlatform, "platform", host.Platform.String())
		return domain.Effect{}, zerr.With(err, "module", f.name)
	}

	if !f.Enabled(host) {
		return domain.NoOp(), nil
	}

	descriptor, err := f.lookup(host.Platform)
	if err != nil {
		return domain.Effect{}, zerr.With(err, "module", f.name)
	}

	return domain.Install(descriptor), nil
}

// Merge evaluates the fragment against host and applies the effect to set.
// It reports whether the set changed. Merging twice leaves the set as after the first merge.
func (f *Fragment) Merge(host domain.HostContext, set *domain.InstalledSet) (domain.Effect, bool, error) {
	effect, err := f.Evaluate(host)
	if err != nil {
		return domain.Effect{}, false, err
	}
	return effect, set.Apply(effect), nil
}
