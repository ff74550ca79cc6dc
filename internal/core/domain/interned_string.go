package domain

import "unique"

// InternedString wraps a unique.Handle[string].
// Project names and config sources repeat across thousands of cached files, so they are interned.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s.
func NewInternedString(s string) InternedString {
	return InternedString{h: unique.Make(s)}
}

// IsZero reports whether the value was never assigned.
func (is InternedString) IsZero() bool {
	return is == InternedString{}
}

// String returns the underlying string value, or "" for the zero value.
func (is InternedString) String() string {
	if is.IsZero() {
		return ""
	}
	return is.h.Value()
}

// MarshalText implements encoding.TextMarshaler.
func (is InternedString) MarshalText() ([]byte, error) {
	return []byte(is.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (is *InternedString) UnmarshalText(text []byte) error {
	is.h = unique.Make(string(text))
	return nil
}
