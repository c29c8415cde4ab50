package domain

import "unique"

// InternedString is a string backed by a unique.Handle.
// Lock files repeat the same names, owners and revisions across many entries;
// interning makes every copy share one allocation and compare by handle.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s. The empty string maps to the zero value.
func NewInternedString(s string) InternedString {
	if s == "" {
		return InternedString{}
	}
	return InternedString{h: unique.Make(s)}
}

// String returns the underlying string value.
func (is InternedString) String() string {
	var zero unique.Handle[string]
	if is.h == zero {
		return ""
	}
	return is.h.Value()
}

// IsZero reports whether the value is empty, so encoders can omit it.
func (is InternedString) IsZero() bool {
	var zero unique.Handle[string]
	return is.h == zero
}

// MarshalText implements encoding.TextMarshaler.
func (is InternedString) MarshalText() ([]byte, error) {
	return []byte(is.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Lock file fields decode straight into interned values.
func (is *InternedString) UnmarshalText(text []byte) error {
	*is = NewInternedString(string(text))
	return nil
}
