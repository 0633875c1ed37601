// Package bundle provides template bundle manifests and the virtual path
// rules for files inside a bundle.
//
// A bundle is a directory of templates shipped with a `stencil.toml`
// manifest describing the bundle, its entry template, and third-party tool
// configuration.
package bundle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cast"
)

// ManifestFileName is the file name of a bundle manifest.
const ManifestFileName = "stencil.toml"

// Manifest represents a parsed bundle manifest.
type Manifest struct {
	// Bundle contains details about the bundle itself.
	Bundle Info `toml:"bundle"`
	// Tool is the tools section for third-party configuration.
	Tool ToolInfo `toml:"tool"`
}

// Info represents the [bundle] key in the manifest.
type Info struct {
	// Name is the name of the bundle within its namespace.
	Name string `toml:"name"`
	// Version is the bundle's version.
	Version Version `toml:"version"`
	// Entry is the path of the entry template of the bundle.
	Entry string `toml:"entry"`
	// Authors is a list of the bundle's authors.
	Authors []string `toml:"authors,omitempty"`
	// License is the bundle's license.
	License string `toml:"license,omitempty"`
	// Description is a short description of the bundle.
	Description string `toml:"description,omitempty"`
	// Exclude is an array of globs specifying files that should not be
	// part of the published bundle.
	Exclude []string `toml:"exclude,omitempty"`
}

// ToolInfo represents the [tool] key in the manifest. Third-party tools
// store their configuration in free-form sub-tables.
type ToolInfo struct {
	// Sections contains the fields parsed in the tool section.
	Sections map[string]map[string]any `toml:"-"`
}

// Section returns a tool's configuration table, or nil if absent.
func (t *ToolInfo) Section(name string) map[string]any {
	return t.Sections[name]
}

// GetString reads a string value from a tool section, coercing scalars.
func (t *ToolInfo) GetString(tool, key string) (string, bool) {
	section := t.Sections[tool]
	if section == nil {
		return "", false
	}
	v, ok := section[key]
	if !ok {
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return s, true
}

// GetBool reads a boolean value from a tool section, coercing scalars.
func (t *ToolInfo) GetBool(tool, key string) (bool, bool) {
	section := t.Sections[tool]
	if section == nil {
		return false, false
	}
	v, ok := section[key]
	if !ok {
		return false, false
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// ParseManifest decodes a manifest from TOML text and validates its
// required fields.
func ParseManifest(text string) (*Manifest, error) {
	var raw struct {
		Bundle Info           `toml:"bundle"`
		Tool   map[string]any `toml:"tool"`
	}
	if _, err := toml.Decode(text, &raw); err != nil {
		return nil, fmt.Errorf("invalid bundle manifest: %w", err)
	}

	m := &Manifest{
		Bundle: raw.Bundle,
		Tool:   ToolInfo{Sections: make(map[string]map[string]any)},
	}
	for name, value := range raw.Tool {
		table, err := cast.ToStringMapE(value)
		if err != nil {
			return nil, fmt.Errorf("tool section `%s` must be a table", name)
		}
		m.Tool.Sections[name] = table
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the manifest's required fields.
func (m *Manifest) Validate() error {
	if m.Bundle.Name == "" {
		return errors.New("bundle manifest is missing `bundle.name`")
	}
	if !isValidBundleName(m.Bundle.Name) {
		return fmt.Errorf("invalid bundle name `%s`", m.Bundle.Name)
	}
	if m.Bundle.Entry == "" {
		return errors.New("bundle manifest is missing `bundle.entry`")
	}
	if err := ValidateBundlePath(m.Bundle.Entry); err != nil {
		return fmt.Errorf("invalid bundle entry: %w", err)
	}
	return nil
}

// isValidBundleName accepts lowercase names with dash separators.
func isValidBundleName(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-' && i > 0 && i < len(name)-1:
		default:
			return false
		}
	}
	return len(name) > 0
}

// Version is a semantic bundle version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a `major.minor.patch` version string.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version `%s`, expecting `major.minor.patch`", s)
	}
	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version component `%s`", part)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String returns the version in `major.minor.patch` form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare orders two versions. It returns a negative number if v is older
// than other, zero if equal, and a positive number if newer.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		return v.Major - other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor - other.Minor
	}
	return v.Patch - other.Patch
}

// UnmarshalTOML decodes a version from its string form.
func (v *Version) UnmarshalTOML(data any) error {
	s, err := cast.ToStringE(data)
	if err != nil {
		return errors.New("version must be a string")
	}
	parsed, err := ParseVersion(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
