// Package syntax implements the stencil template language front end: the
// lexer, the trivia-aware token stream, the statement and expression
// parsers for the default and liquid dialects, the typed AST, and a
// printer that round-trips parsed templates back to text.
package syntax
