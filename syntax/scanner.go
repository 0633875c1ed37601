package syntax

import "unicode/utf8"

// Scanner is a string iterator with peek/eat capabilities. It tracks the
// cursor as a full TextPosition so every token carries line and column
// information without a separate pass.
type Scanner struct {
	text string
	pos  TextPosition
}

// NewScanner creates a new scanner for the given text.
func NewScanner(text string) *Scanner {
	return &Scanner{text: text}
}

// String returns the underlying text being scanned.
func (s *Scanner) String() string {
	return s.text
}

// Pos returns the current position in the text.
func (s *Scanner) Pos() TextPosition {
	return s.pos
}

// Done returns true if the scanner has reached the end of the text.
func (s *Scanner) Done() bool {
	return s.pos.Offset >= len(s.text)
}

// Peek returns the next rune without consuming it.
// Returns 0 if at end.
func (s *Scanner) Peek() rune {
	if s.Done() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.text[s.pos.Offset:])
	return r
}

// Scout looks at a rune at a relative rune offset ahead of the cursor.
// Returns 0 if the position is out of bounds.
func (s *Scanner) Scout(offset int) rune {
	pos := s.pos.Offset
	for i := 0; i < offset; i++ {
		if pos >= len(s.text) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(s.text[pos:])
		pos += size
	}
	if pos >= len(s.text) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.text[pos:])
	return r
}

// Eat consumes and returns the next rune, updating line and column.
// Returns 0 if at end.
func (s *Scanner) Eat() rune {
	if s.Done() {
		return 0
	}
	r, size := utf8.DecodeRuneInString(s.text[s.pos.Offset:])
	s.pos.Offset += size
	if r == '\n' {
		s.pos.Line++
		s.pos.Column = 0
	} else {
		s.pos.Column++
	}
	return r
}

// EatIf consumes the next rune if it matches the given rune.
// Returns true if consumed.
func (s *Scanner) EatIf(r rune) bool {
	if s.Peek() == r {
		s.Eat()
		return true
	}
	return false
}

// EatIfStr consumes the string if it matches at the current position.
// Returns true if consumed.
func (s *Scanner) EatIfStr(str string) bool {
	if !s.At(str) {
		return false
	}
	for range str {
		s.Eat()
	}
	return true
}

// EatWhile consumes runes while the predicate returns true.
// Returns the consumed string.
func (s *Scanner) EatWhile(pred func(rune) bool) string {
	start := s.pos.Offset
	for !s.Done() && pred(s.Peek()) {
		s.Eat()
	}
	return s.text[start:s.pos.Offset]
}

// EatUntil consumes runes until the predicate returns true.
// Returns the consumed string.
func (s *Scanner) EatUntil(pred func(rune) bool) string {
	start := s.pos.Offset
	for !s.Done() && !pred(s.Peek()) {
		s.Eat()
	}
	return s.text[start:s.pos.Offset]
}

// EatNewline consumes one line terminator (handles \r\n).
// Returns true if a newline was consumed.
func (s *Scanner) EatNewline() bool {
	if s.EatIf('\r') {
		s.EatIf('\n')
		return true
	}
	return s.EatIf('\n')
}

// At checks if the current position starts with the given string.
func (s *Scanner) At(str string) bool {
	end := s.pos.Offset + len(str)
	if end > len(s.text) {
		return false
	}
	return s.text[s.pos.Offset:end] == str
}

// AtAny checks if the current position matches any of the given runes.
func (s *Scanner) AtAny(runes ...rune) bool {
	if s.Done() {
		return false
	}
	r := s.Peek()
	for _, target := range runes {
		if r == target {
			return true
		}
	}
	return false
}

// From returns the text from the given byte offset to the cursor.
func (s *Scanner) From(start int) string {
	if start < 0 {
		start = 0
	}
	if start > s.pos.Offset {
		return ""
	}
	return s.text[start:s.pos.Offset]
}

// Get returns a substring of the text.
func (s *Scanner) Get(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s.text) {
		end = len(s.text)
	}
	if start >= end {
		return ""
	}
	return s.text[start:end]
}
