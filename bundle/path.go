package bundle

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Spec identifies a bundle by namespace, name and version, in the form
// `@namespace/name:version`.
type Spec struct {
	Namespace string
	Name      string
	Version   Version
}

// ParseSpec parses a bundle specification string.
func ParseSpec(s string) (*Spec, error) {
	if !strings.HasPrefix(s, "@") {
		return nil, errors.New("bundle specification must start with `@`")
	}
	rest := s[1:]
	slash := strings.IndexByte(rest, '/')
	if slash <= 0 {
		return nil, errors.New("bundle specification is missing `/name`")
	}
	namespace := rest[:slash]
	rest = rest[slash+1:]
	colon := strings.IndexByte(rest, ':')
	if colon <= 0 {
		return nil, errors.New("bundle specification is missing `:version`")
	}
	name := rest[:colon]
	version, err := ParseVersion(rest[colon+1:])
	if err != nil {
		return nil, err
	}
	if !isValidBundleName(namespace) || !isValidBundleName(name) {
		return nil, fmt.Errorf("invalid bundle specification `%s`", s)
	}
	return &Spec{Namespace: namespace, Name: name, Version: version}, nil
}

// String returns the `@namespace/name:version` form.
func (s *Spec) String() string {
	return fmt.Sprintf("@%s/%s:%s", s.Namespace, s.Name, s.Version)
}

// ValidateBundlePath checks a path for use inside a bundle: it must be
// relative, must not escape the bundle root, and must consist of
// printable characters or tabs.
func ValidateBundlePath(path string) error {
	if path == "" {
		return errors.New("path is empty")
	}
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\") {
		return fmt.Errorf("path `%s` must be relative", path)
	}
	if len(path) >= 2 && path[1] == ':' {
		return fmt.Errorf("path `%s` must not carry a drive prefix", path)
	}
	for _, r := range path {
		if r != '\t' && !unicode.IsPrint(r) {
			return fmt.Errorf("path `%s` contains non-printable characters", path)
		}
	}
	depth := 0
	for _, segment := range strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	}) {
		switch segment {
		case ".", "":
		case "..":
			depth--
			if depth < 0 {
				return fmt.Errorf("path `%s` escapes the bundle root", path)
			}
		default:
			depth++
		}
	}
	return nil
}
