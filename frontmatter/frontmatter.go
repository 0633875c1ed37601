// Package frontmatter extracts and decodes data front matter from
// template sources.
//
// The parser in package syntax treats front matter as script code. Hosts
// that ship data front matter instead — TOML between `+++` markers or
// YAML between `---` markers — use this package to split and decode it.
package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies the data format of a front matter block.
type Format uint8

const (
	// FormatNone means the source has no front matter.
	FormatNone Format = iota
	// FormatTOML is front matter between `+++` markers.
	FormatTOML
	// FormatYAML is front matter between `---` markers.
	FormatYAML
)

// markerOf returns the marker string of a format.
func (f Format) markerOf() string {
	switch f {
	case FormatTOML:
		return "+++"
	case FormatYAML:
		return "---"
	default:
		return ""
	}
}

// Split separates a source into its front matter text and body. The
// returned format is FormatNone when the source carries no front matter,
// in which case the body is the whole source.
func Split(source string) (format Format, matter, body string, err error) {
	switch {
	case strings.HasPrefix(source, "+++"):
		format = FormatTOML
	case strings.HasPrefix(source, "---"):
		format = FormatYAML
	default:
		return FormatNone, "", source, nil
	}

	marker := format.markerOf()
	rest := source[len(marker):]
	rest = strings.TrimPrefix(rest, "\r")
	if !strings.HasPrefix(rest, "\n") {
		return FormatNone, "", source, nil
	}
	rest = rest[1:]

	idx := closingMarkerIndex(rest, marker)
	if idx < 0 {
		return format, "", "", fmt.Errorf("missing closing front matter marker `%s`", marker)
	}
	matter = rest[:idx]
	body = rest[idx+len(marker):]
	// Eat at most one line terminator directly after the closing marker.
	// Spaces or tabs before it are kept, unlike the parser, which skips them.
	body = strings.TrimPrefix(body, "\r")
	body = strings.TrimPrefix(body, "\n")
	return format, matter, body, nil
}

// closingMarkerIndex finds the closing marker at the start of a line.
func closingMarkerIndex(text, marker string) int {
	if strings.HasPrefix(text, marker) {
		return 0
	}
	idx := strings.Index(text, "\n"+marker)
	if idx < 0 {
		return -1
	}
	return idx + 1
}

// Decode splits a source and decodes its front matter into a map. The
// body is returned alongside. Sources without front matter decode to a
// nil map.
func Decode(source string) (map[string]any, string, error) {
	format, matter, body, err := Split(source)
	if err != nil {
		return nil, "", err
	}
	data, err := DecodeData(format, matter)
	if err != nil {
		return nil, "", err
	}
	return data, body, nil
}

// DecodeData decodes a front matter block of a known format.
func DecodeData(format Format, matter string) (map[string]any, error) {
	switch format {
	case FormatNone:
		return nil, nil
	case FormatTOML:
		var data map[string]any
		if _, err := toml.Decode(matter, &data); err != nil {
			return nil, fmt.Errorf("invalid TOML front matter: %w", err)
		}
		return data, nil
	case FormatYAML:
		var data map[string]any
		if err := yaml.Unmarshal([]byte(matter), &data); err != nil {
			return nil, fmt.Errorf("invalid YAML front matter: %w", err)
		}
		return data, nil
	}
	return nil, errors.New("unknown front matter format")
}
