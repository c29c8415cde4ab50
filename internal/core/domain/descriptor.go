package domain

// ResolvedInput is one member of a build descriptor's dependency closure.
type ResolvedInput struct {
	Key      string `json:"key"`
	Checksum string `json:"checksum,omitzero"`
	Rev      string `json:"rev,omitzero"`
	AttrPath string `json:"attr_path,omitzero"`
	Hash     string `json:"hash,omitzero"`
}

// BuildDescriptor is the planned, not yet executed, result of resolving a package for one platform.
// It is never mutated after creation.
type BuildDescriptor struct {
	// ID is the content identifier of the descriptor. Identical inputs yield identical IDs.
	ID string `json:"id"`

	Name     string     `json:"name"`
	Version  string     `json:"version"`
	Source   string     `json:"source"`
	Lock     string     `json:"lock"`
	Platform PlatformID `json:"platform"`

	// Inputs is the resolved dependency closure, sorted by key.
	Inputs []ResolvedInput `json:"inputs,omitempty"`
}

// Ref returns a short human readable reference ("name-version").
func (d *BuildDescriptor) Ref() string {
	return d.Name + "-" + d.Version
}
