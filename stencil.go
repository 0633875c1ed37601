// Package stencil provides a Go implementation of the stencil text
// templating language.
//
// A template mixes literal text with code sections (`{{ ... }}`) and, in
// the liquid dialect, tag sections (`{% ... %}`). This package exposes the
// parsing front end: templates are lexed and parsed into a typed AST
// suitable for evaluation by a host.
package stencil

import "github.com/boergens/stencil/syntax"

// Parse parses a template in the default dialect and mode.
// It returns the page, or nil together with the diagnostics when the
// source does not parse.
func Parse(text string) (*syntax.Page, []syntax.LogMessage) {
	return ParseWithOptions(text, "", syntax.LexerOptions{}, nil)
}

// ParseLiquid parses a template in the liquid dialect.
func ParseLiquid(text string) (*syntax.Page, []syntax.LogMessage) {
	return ParseWithOptions(text, "", syntax.LexerOptions{Dialect: syntax.DialectLiquid}, nil)
}

// ParseScriptOnly parses a source that holds only code, with no text
// sections.
func ParseScriptOnly(text string) (*syntax.Page, []syntax.LogMessage) {
	return ParseWithOptions(text, "", syntax.LexerOptions{Mode: syntax.ModeScriptOnly}, nil)
}

// ParseWithOptions parses a template with full control over the lexer and
// parser configuration.
func ParseWithOptions(text, path string, lexOpts syntax.LexerOptions, parseOpts *syntax.ParserOptions) (*syntax.Page, []syntax.LogMessage) {
	lexer := syntax.NewLexer(text, path, lexOpts)
	parser := syntax.NewParser(lexer, parseOpts)
	page := parser.Run()
	return page, parser.Messages()
}
