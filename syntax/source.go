package syntax

import (
	"sort"
	"strings"

	"github.com/rivo/uniseg"
)

// Source bundles a template text with its path and a lazily built line
// index. It is the unit handed to diagnostics rendering.
type Source struct {
	path  string
	text  string
	lines *Lines
}

// NewSource creates a source from a path and text.
func NewSource(path, text string) *Source {
	return &Source{path: path, text: text}
}

// Path returns the source path.
func (s *Source) Path() string {
	return s.path
}

// Text returns the source text.
func (s *Source) Text() string {
	return s.text
}

// Lines returns the line index, building it on first use.
func (s *Source) Lines() *Lines {
	if s.lines == nil {
		s.lines = NewLines(s.text)
	}
	return s.lines
}

// Lines is a byte-offset to line/column index over a text. Columns are
// measured in grapheme clusters so that diagnostics point where a human
// sees the character.
type Lines struct {
	text string
	// starts holds the byte offset of each line start.
	starts []int
}

// NewLines builds the index for a text.
func NewLines(text string) *Lines {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Lines{text: text, starts: starts}
}

// Len returns the number of lines.
func (l *Lines) Len() int {
	return len(l.starts)
}

// Line returns the text of the zero-based line, without its terminator.
func (l *Lines) Line(line int) string {
	if line < 0 || line >= len(l.starts) {
		return ""
	}
	start := l.starts[line]
	end := len(l.text)
	if line+1 < len(l.starts) {
		end = l.starts[line+1]
	}
	return strings.TrimRight(l.text[start:end], "\r\n")
}

// LineStart returns the byte offset of a line's start.
func (l *Lines) LineStart(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(l.starts) {
		return len(l.text)
	}
	return l.starts[line]
}

// ByteToLine returns the zero-based line containing a byte offset.
func (l *Lines) ByteToLine(offset int) int {
	if offset < 0 {
		return 0
	}
	idx := sort.Search(len(l.starts), func(i int) bool {
		return l.starts[i] > offset
	})
	return idx - 1
}

// ByteToColumn returns the zero-based grapheme-cluster column of a byte
// offset within its line.
func (l *Lines) ByteToColumn(offset int) int {
	line := l.ByteToLine(offset)
	start := l.LineStart(line)
	if offset > len(l.text) {
		offset = len(l.text)
	}
	return uniseg.GraphemeClusterCount(l.text[start:offset])
}

// ByteToLineColumn returns line and grapheme-cluster column for a byte
// offset.
func (l *Lines) ByteToLineColumn(offset int) (line, column int) {
	line = l.ByteToLine(offset)
	column = l.ByteToColumn(offset)
	return line, column
}
