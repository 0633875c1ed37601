package syntax

import "fmt"

// TextPosition is a location in a source text. Offset is the byte offset,
// Line and Column are zero-based; Column counts runes. Human-facing output
// converts to one-based coordinates.
type TextPosition struct {
	Offset int
	Line   int
	Column int
}

// String implements fmt.Stringer.
func (p TextPosition) String() string {
	return fmt.Sprintf("(%d,%d)", p.Line+1, p.Column+1)
}

// Span defines a range in a source file. Start is inclusive, End exclusive.
type Span struct {
	File  string
	Start TextPosition
	End   TextPosition
}

// NewSpan creates a span from a file and two positions.
func NewSpan(file string, start, end TextPosition) Span {
	return Span{File: file, Start: start, End: end}
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

// Contains returns true if the byte offset lies within the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// String implements fmt.Stringer in the form `file(line,column)-(line,column)`.
func (s Span) String() string {
	return fmt.Sprintf("%s%s-%s", s.File, s.Start, s.End)
}

// spanOfToken builds a span for a single token.
func spanOfToken(file string, tok Token) Span {
	return Span{File: file, Start: tok.Start, End: tok.End}
}
