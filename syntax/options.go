package syntax

// ParsingMode selects what the top level of a source text contains.
type ParsingMode uint8

const (
	// ModeDefault interleaves raw text with code sections.
	ModeDefault ParsingMode = iota
	// ModeScriptOnly treats the whole input as one code section.
	ModeScriptOnly
	// ModeFrontMatterOnly parses the leading front matter and stops.
	ModeFrontMatterOnly
	// ModeFrontMatterAndContent parses the front matter, then the body.
	ModeFrontMatterAndContent
)

// String returns a human-readable name for the parsing mode.
func (m ParsingMode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeScriptOnly:
		return "script only"
	case ModeFrontMatterOnly:
		return "front matter only"
	case ModeFrontMatterAndContent:
		return "front matter and content"
	default:
		return "unknown"
	}
}

// Dialect selects the surface syntax.
type Dialect uint8

const (
	// DialectDefault is the expression/statement language with `{{ }}`
	// code sections.
	DialectDefault Dialect = iota
	// DialectLiquid is the restricted dialect with `{% %}` tag sections
	// and `{{ }}` object sections.
	DialectLiquid
)

// String returns a human-readable name for the dialect.
func (d Dialect) String() string {
	switch d {
	case DialectDefault:
		return "default"
	case DialectLiquid:
		return "liquid"
	default:
		return "unknown"
	}
}

// DefaultFrontMatterMarker delimits front matter blocks unless overridden.
const DefaultFrontMatterMarker = "+++"

// LexerOptions configures a Lexer.
type LexerOptions struct {
	// Mode selects the top-level parsing mode.
	Mode ParsingMode
	// Dialect selects the surface syntax.
	Dialect Dialect
	// KeepTrivia retains hidden tokens for trivia attachment.
	KeepTrivia bool
	// FrontMatterMarker delimits the front matter block.
	// Defaults to DefaultFrontMatterMarker when empty.
	FrontMatterMarker string
}

// marker returns the effective front matter marker.
func (o LexerOptions) marker() string {
	if o.FrontMatterMarker == "" {
		return DefaultFrontMatterMarker
	}
	return o.FrontMatterMarker
}

// DefaultExpressionDepthLimit bounds expression and block nesting unless a
// ParserOptions overrides it.
const DefaultExpressionDepthLimit = 1024

// ParserOptions configures a Parser.
type ParserOptions struct {
	// ExpressionDepthLimit bounds recursive descent. Zero selects
	// DefaultExpressionDepthLimit; a negative value disables the check.
	ExpressionDepthLimit int
	// LiquidFunctionsToStencil rewrites liquid builtin calls (such as
	// `cycle`) to their default-dialect library equivalents.
	LiquidFunctionsToStencil bool
}

// depthLimit returns the effective nesting limit, or a negative value if
// the check is disabled.
func (o ParserOptions) depthLimit() int {
	if o.ExpressionDepthLimit == 0 {
		return DefaultExpressionDepthLimit
	}
	return o.ExpressionDepthLimit
}
