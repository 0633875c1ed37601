package syntax

// TriviaKind classifies a piece of trivia attached to an AST node.
type TriviaKind uint8

const (
	// TriviaWhitespace is a run of spaces and tabs.
	TriviaWhitespace TriviaKind = iota
	// TriviaComment is a single-line `#` comment.
	TriviaComment
	// TriviaCommentMulti is a `##`-delimited comment.
	TriviaCommentMulti
	// TriviaNewLine is a line terminator consumed as a statement separator.
	TriviaNewLine
	// TriviaSemiColon is a `;` consumed as a statement separator.
	TriviaSemiColon
	// TriviaEnd is an `end` (or `end<tag>`) token recorded on the statement
	// it terminates.
	TriviaEnd
	// TriviaEmpty marks a synthesized placeholder with no source text.
	TriviaEmpty
)

// String returns a human-readable name for the trivia kind.
func (k TriviaKind) String() string {
	switch k {
	case TriviaWhitespace:
		return "whitespace"
	case TriviaComment:
		return "comment"
	case TriviaCommentMulti:
		return "multi-line comment"
	case TriviaNewLine:
		return "newline"
	case TriviaSemiColon:
		return "semicolon"
	case TriviaEnd:
		return "end"
	case TriviaEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Trivia is a hidden token preserved for lossless round-tripping. The text
// is not duplicated; it is addressed through the span into the source.
type Trivia struct {
	Kind TriviaKind
	Span Span
}

// Text slices the trivia's source text out of the given source string.
// Synthesized trivia have no text.
func (t Trivia) Text(source string) string {
	if t.Kind == TriviaEmpty {
		return ""
	}
	start, end := t.Span.Start.Offset, t.Span.End.Offset
	if start < 0 || end > len(source) || start > end {
		return ""
	}
	return source[start:end]
}

// triviaKindOfToken maps a hidden or separator token kind to its trivia kind.
func triviaKindOfToken(kind TokenKind) TriviaKind {
	switch kind {
	case Whitespace:
		return TriviaWhitespace
	case Comment:
		return TriviaComment
	case CommentMulti:
		return TriviaCommentMulti
	case NewLine:
		return TriviaNewLine
	case SemiColon:
		return TriviaSemiColon
	default:
		return TriviaEmpty
	}
}
