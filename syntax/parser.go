// Package syntax provides the parser for stencil templates.
//
// The parser is a hand-written, state-driven recursive-descent builder. It
// consumes the lexer's token stream through a trivia-aware adapter and
// emits a typed AST. Two surface dialects share the engine: the default
// expression/statement language and a restricted liquid dialect.
package syntax

import "fmt"

// Parser builds a Page from a lexed token stream. A parser is single-use:
// one instance supports exactly one Run call.
type Parser struct {
	lexer *Lexer
	ts    *tokenStream
	opts  ParserOptions
	file  string

	messages  []LogMessage
	hasErrors bool
	// hasFatal short-circuits statement production once a fatal
	// diagnostic was raised.
	hasFatal bool

	// blockStack is the chain of open block-bearing statements, the
	// authoritative source for `end` resolution.
	blockStack []Statement

	inCodeSection    bool
	liquidTagSection bool
	inFrontMatter    bool
	currentMode      ParsingMode

	// pendingStatements queues statements when one dispatch step emits
	// more than one (a synthesized raw plus a nop).
	pendingStatements []Statement

	depth        int
	depthReached bool

	// hasAnonymousFunction is set by the expression parser when the tail
	// of the parsed expression already consumed the statement terminator.
	hasAnonymousFunction bool
}

// NewParser creates a parser over a configured lexer. A nil options value
// selects the defaults.
func NewParser(lexer *Lexer, opts *ParserOptions) *Parser {
	var o ParserOptions
	if opts != nil {
		o = *opts
	}
	return &Parser{
		lexer:       lexer,
		ts:          newTokenStream(lexer),
		opts:        o,
		file:        lexer.SourcePath(),
		currentMode: lexer.Options().Mode,
	}
}

// Messages returns the diagnostics accumulated during Run.
func (p *Parser) Messages() []LogMessage {
	return p.messages
}

// HasErrors returns true if any error was logged.
func (p *Parser) HasErrors() bool {
	return p.hasErrors
}

// Run parses the source and returns the page, or nil if any error was
// logged. Lexer errors are flushed into the parser's messages.
func (p *Parser) Run() *Page {
	page := &Page{}
	page.SetSpan(Span{File: p.file, Start: p.ts.Current().Start, End: p.ts.Current().Start})

	switch p.currentMode {
	case ModeScriptOnly:
		p.inCodeSection = true
	case ModeFrontMatterOnly, ModeFrontMatterAndContent:
		p.parseFrontMatter(page)
	}

	if p.currentMode == ModeFrontMatterOnly {
		body := &Block{}
		cur := p.ts.Current()
		body.SetSpan(Span{File: p.file, Start: cur.Start, End: cur.Start})
		page.Body = body
	} else {
		page.Body, _ = p.parseBlock(nil)
		if p.lexer.Options().Mode == ModeFrontMatterAndContent {
			p.nudgeAfterFrontMatter(page)
		}
	}
	p.close(page)

	for _, msg := range p.lexer.Errors() {
		p.messages = append(p.messages, msg)
		p.hasErrors = true
	}
	if p.hasErrors {
		return nil
	}
	return page
}

// parseFrontMatter parses the leading front matter block into the page.
func (p *Parser) parseFrontMatter(page *Page) {
	marker := p.lexer.Options().marker()
	if p.ts.Current().Kind != FrontMatterMarker {
		p.errorTok(p.ts.Current(), "expecting the front matter marker `%s` at the start of the source", marker)
		return
	}
	p.inFrontMatter = true
	p.inCodeSection = true
	p.ts.Advance()
	page.FrontMatter, _ = p.parseBlock(nil)
	if p.inFrontMatter {
		p.errorTok(p.ts.Current(), "missing the closing front matter marker `%s`", marker)
		p.inFrontMatter = false
		p.inCodeSection = false
	}
}

// nudgeAfterFrontMatter advances the first raw statement of the body past
// at most one line terminator following the closing marker, skipping
// spaces and tabs on the marker line.
func (p *Parser) nudgeAfterFrontMatter(page *Page) {
	if page.Body == nil || len(page.Body.Statements) == 0 {
		return
	}
	raw, ok := page.Body.Statements[0].(*RawStatement)
	if !ok || raw.EscapeCount > 0 {
		return
	}
	text := raw.Text
	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	switch {
	case i+1 < len(text) && text[i] == '\r' && text[i+1] == '\n':
		i += 2
	case i < len(text) && text[i] == '\n':
		i++
	default:
		return
	}
	raw.Text = text[i:]
	span := raw.Span()
	span.Start.Offset += i
	span.Start.Line++
	span.Start.Column = 0
	raw.SetSpan(span)
}

// --- Block parsing ---

// parseBlock parses statements into a block until the block terminates.
// The parent statement is pushed on the block stack for the duration.
// The returned flag reports whether an `end` terminated the block.
func (p *Parser) parseBlock(parent Statement) (*Block, bool) {
	block := &Block{}
	cur := p.ts.Current()
	block.SetSpan(Span{File: p.file, Start: cur.Start, End: cur.Start})

	if !p.enterDepth(cur) {
		return block, false
	}
	defer p.leaveDepth()

	if parent != nil {
		p.blockStack = append(p.blockStack, parent)
		defer func() { p.blockStack = p.blockStack[:len(p.blockStack)-1] }()
	}

	hasEnd := false
	for {
		s, end, cont := p.tryParseStatement(parent)
		if s != nil {
			block.Statements = append(block.Statements, s)
		}
		if end {
			hasEnd = true
			break
		}
		if !cont {
			break
		}
	}
	p.close(block)
	return block, hasEnd
}

// findFirstStatementExpectingEnd walks the block stack top-down and
// returns the innermost statement that expects an `end`.
func (p *Parser) findFirstStatementExpectingEnd() Statement {
	for i := len(p.blockStack) - 1; i >= 0; i-- {
		if expectsEnd(p.blockStack[i]) {
			return p.blockStack[i]
		}
	}
	return nil
}

// isInLoop returns true if the block stack holds an enclosing loop within
// the current function boundary.
func (p *Parser) isInLoop() bool {
	for i := len(p.blockStack) - 1; i >= 0; i-- {
		switch p.blockStack[i].(type) {
		case *ForStatement, *WhileStatement:
			return true
		case *FunctionStatement:
			return false
		}
	}
	return false
}

// expectsEnd returns true if the statement's body is terminated by an
// `end`. Elseif branches are chained rather than ended.
func expectsEnd(s Statement) bool {
	switch v := s.(type) {
	case *IfStatement:
		return !v.IsElseIf
	case *ForStatement, *WhileStatement, *CaseStatement, *CaptureStatement,
		*WithStatement, *WrapStatement, *FunctionStatement:
		return true
	}
	return false
}

// --- Statement dispatch ---

// tryParseStatement classifies the current token and routes to a statement
// parser. It returns the parsed statement (possibly nil), whether an `end`
// closed the enclosing block, and whether the caller should continue.
func (p *Parser) tryParseStatement(parent Statement) (Statement, bool, bool) {
	if len(p.pendingStatements) > 0 {
		s := p.pendingStatements[0]
		p.pendingStatements = p.pendingStatements[1:]
		return s, false, true
	}
	if p.hasFatal {
		return nil, false, false
	}

	tok := p.ts.Current()
	switch {
	case tok.Kind == Eof:
		return nil, false, false
	case tok.Kind == Raw || tok.Kind.IsEscape():
		s := p.parseRaw()
		if _, inCase := parent.(*CaseStatement); inCase {
			// Raw text between case branches carries no meaning.
			return nil, false, true
		}
		return s, false, true
	case tok.Kind.IsCodeEnter():
		return p.parseCodeEnter(parent, tok)
	case tok.Kind == FrontMatterMarker:
		return p.parseFrontMatterMarker(tok)
	case tok.Kind.IsCodeExit():
		return p.parseCodeExit(tok)
	}

	if !p.inCodeSection {
		p.errorTok(tok, "unexpected %s outside of a code section", tok.Kind)
		p.ts.Advance()
		return nil, false, true
	}

	switch tok.Kind {
	case NewLine:
		p.ts.pushTrivia(TriviaNewLine, tok)
		p.ts.Advance()
		return nil, false, true
	case SemiColon:
		p.ts.pushTrivia(TriviaSemiColon, tok)
		p.ts.Advance()
		return nil, false, true
	case Identifier, IdentifierSpecial:
		if p.lexer.Options().Dialect == DialectLiquid {
			return p.parseLiquidStatement(parent, tok)
		}
		if tok.Kind == IdentifierSpecial {
			return p.parseExpressionStatement(parent)
		}
		return p.parseDefaultKeyword(parent, tok)
	}
	if p.lexer.Options().Dialect == DialectLiquid {
		return p.parseLiquidStatement(parent, tok)
	}
	if ExprStartSet.Contains(tok.Kind) {
		return p.parseExpressionStatement(parent)
	}
	p.errorTok(tok, "unexpected token %s", tok.Kind)
	return nil, false, false
}

// parseCodeEnter handles `{{` and `{%`. It may synthesize an empty raw
// statement to anchor trivia between adjacent code sections, and a nop
// statement for empty sections. Case bodies accept neither.
func (p *Parser) parseCodeEnter(parent Statement, tok Token) (Statement, bool, bool) {
	if p.inCodeSection {
		p.errorTok(tok, "cannot enter a code section while already in one")
		p.ts.Advance()
		return nil, false, true
	}
	p.inCodeSection = true
	p.liquidTagSection = tok.Kind == LiquidTagEnter
	_, inCase := parent.(*CaseStatement)

	var syn *RawStatement
	if p.keepTrivia() && !inCase && (p.ts.hasPending() || p.ts.Previous().Kind.IsCodeExit() || p.ts.Previous().Kind.IsCodeEnter()) {
		syn = &RawStatement{}
		syn.SetSpan(Span{File: p.file, Start: tok.Start, End: tok.Start})
		pending := p.ts.takePending()
		if len(pending) == 0 {
			pending = []Trivia{{Kind: TriviaEmpty, Span: Span{File: p.file, Start: tok.Start, End: tok.Start}}}
		}
		// The trivia belong after the emitted raw placeholder.
		syn.addAfter(pending)
	}

	p.ts.Advance()

	var nop *NopStatement
	if p.ts.Current().Kind.IsCodeExit() && !inCase {
		nop = &NopStatement{Tag: p.liquidTagSection}
		nop.SetSpan(Span{File: p.file, Start: tok.End, End: p.ts.Current().Start})
		if p.keepTrivia() {
			nop.addBefore(p.ts.takePending())
		}
	}

	switch {
	case syn != nil && nop != nil:
		p.pendingStatements = append(p.pendingStatements, nop)
		return syn, false, true
	case syn != nil:
		return syn, false, true
	case nop != nil:
		return nop, false, true
	}
	return nil, false, true
}

// parseFrontMatterMarker handles the closing front matter marker.
func (p *Parser) parseFrontMatterMarker(tok Token) (Statement, bool, bool) {
	if !p.inFrontMatter {
		p.errorTok(tok, "unexpected front matter marker")
		p.ts.Advance()
		return nil, false, true
	}
	p.inFrontMatter = false
	p.inCodeSection = false
	switch p.lexer.Options().Mode {
	case ModeFrontMatterAndContent:
		p.currentMode = ModeDefault
		p.ts.Advance()
	case ModeFrontMatterOnly:
		// Do not advance past the marker; parsing stops here.
	default:
		p.ts.Advance()
	}
	return nil, false, false
}

// parseCodeExit handles `}}` and `%}`.
func (p *Parser) parseCodeExit(tok Token) (Statement, bool, bool) {
	if !p.inCodeSection {
		p.errorTok(tok, "unexpected %s without a matching code section enter", tok.Kind)
		p.ts.Advance()
		return nil, false, true
	}
	if p.lexer.Options().Mode == ModeScriptOnly {
		p.errorTok(tok, "unexpected %s in script-only mode", tok.Kind)
		p.ts.Advance()
		return nil, false, true
	}
	// Orphan trivia between a statement and the exit were already
	// attached; anything left is discarded.
	p.ts.clearPending()
	p.inCodeSection = false
	p.ts.Advance()
	return nil, false, true
}

// --- End-of-statement handling ---

// expectEndOfStatement requires a statement terminator and attaches the
// consumed separator (and any pending trivia) to the node. A missing
// terminator is fatal.
func (p *Parser) expectEndOfStatement(n Node) bool {
	tok := p.ts.Current()
	liquid := p.lexer.Options().Dialect == DialectLiquid
	switch tok.Kind {
	case Eof, CodeExit:
		if liquid && p.liquidTagSection && tok.Kind == CodeExit {
			p.fatalTok(tok, "expecting `%%}` to close the tag, found %s", tok.Kind)
			return false
		}
		p.flushAfter(n)
		return true
	case LiquidTagExit:
		if !liquid || !p.liquidTagSection {
			p.fatalTok(tok, "expecting end of statement, found %s", tok.Kind)
			return false
		}
		p.flushAfter(n)
		return true
	case NewLine, SemiColon:
		if liquid {
			p.fatalTok(tok, "expecting end of statement, found %s", tok.Kind)
			return false
		}
		kind := TriviaNewLine
		if tok.Kind == SemiColon {
			kind = TriviaSemiColon
		}
		p.ts.pushTrivia(kind, tok)
		p.flushAfter(n)
		p.ts.Advance()
		return true
	}
	p.fatalTok(tok, "expecting end of statement, found %s", tok.Kind)
	return false
}

// parseEndKeyword consumes an `end` (or liquid `end<tag>`) token, resolves
// it against the block stack and records its trivia on the owner.
func (p *Parser) parseEndKeyword(tok Token, matches func(Statement) bool) (Statement, bool, bool) {
	owner := p.findFirstStatementExpectingEnd()
	if owner == nil || (matches != nil && !matches(owner)) {
		p.errorTok(tok, "unable to find a matching statement for `%s`", p.ts.Text(tok))
		owner = nil
	}

	var trivia []Trivia
	if p.keepTrivia() {
		trivia = append(p.ts.takePending(), Trivia{Kind: TriviaEnd, Span: spanOfToken(p.file, tok)})
	}
	p.ts.Advance()

	cur := p.ts.Current()
	if p.lexer.Options().Dialect == DialectDefault && (cur.Kind == NewLine || cur.Kind == SemiColon) {
		kind := TriviaNewLine
		if cur.Kind == SemiColon {
			kind = TriviaSemiColon
		}
		if p.keepTrivia() {
			trivia = append(trivia, Trivia{Kind: kind, Span: spanOfToken(p.file, cur)})
		}
		p.ts.Advance()
	}
	if p.keepTrivia() {
		trivia = append(trivia, p.ts.takePending()...)
	}
	if owner != nil {
		if an, ok := owner.(astNode); ok {
			an.addEnd(trivia)
		}
	}
	return nil, true, true
}

// --- Node lifecycle and trivia ---

// astNode is the internal mutation surface shared by all AST nodes.
type astNode interface {
	Node
	SetSpan(Span)
	setStart(TextPosition)
	setEnd(TextPosition)
	addBefore([]Trivia)
	addAfter([]Trivia)
	addEnd([]Trivia)
}

// open starts a node at the current token and attaches pending trivia as
// its before list.
func (p *Parser) open(n Node) {
	an, ok := n.(astNode)
	if !ok {
		return
	}
	cur := p.ts.Current()
	an.SetSpan(Span{File: p.file, Start: cur.Start, End: cur.Start})
	if p.keepTrivia() {
		an.addBefore(p.ts.takePending())
	}
}

// close ends a node at the previous token.
func (p *Parser) close(n Node) {
	an, ok := n.(astNode)
	if !ok {
		return
	}
	prev := p.ts.Previous()
	if prev.End.Offset >= n.Span().Start.Offset {
		an.setEnd(prev.End)
	}
}

// flushBefore attaches pending trivia before the node.
func (p *Parser) flushBefore(n Node) {
	if n == nil || !p.keepTrivia() {
		return
	}
	if an, ok := n.(astNode); ok {
		an.addBefore(p.ts.takePending())
	}
}

// flushAfter attaches pending trivia after the node.
func (p *Parser) flushAfter(n Node) {
	if n == nil || !p.keepTrivia() {
		return
	}
	if an, ok := n.(astNode); ok {
		an.addAfter(p.ts.takePending())
	}
}

// keepTrivia returns true if trivia retention is enabled.
func (p *Parser) keepTrivia() bool {
	return p.lexer.Options().KeepTrivia
}

// --- Depth limiting ---

// enterDepth counts one level of statement or expression nesting. At the
// configured limit a single fatal diagnostic is raised; further recursion
// unwinds without producing more errors. Callers must call leaveDepth only
// when enterDepth returned true.
func (p *Parser) enterDepth(tok Token) bool {
	limit := p.opts.depthLimit()
	if limit >= 0 && p.depth >= limit {
		if !p.depthReached {
			p.depthReached = true
			p.errorTok(tok, "the nesting of statements and expressions is too deep (limit is %d)", limit)
			p.hasFatal = true
		}
		return false
	}
	if p.hasFatal {
		return false
	}
	p.depth++
	return true
}

// leaveDepth undoes one enterDepth.
func (p *Parser) leaveDepth() {
	p.depth--
}

// --- Diagnostics ---

// errorTok logs a recoverable error at a token.
func (p *Parser) errorTok(tok Token, format string, args ...any) {
	p.logMessage(MessageError, spanOfToken(p.file, tok), format, args...)
}

// errorSpan logs a recoverable error at a span.
func (p *Parser) errorSpan(span Span, format string, args ...any) {
	p.logMessage(MessageError, span, format, args...)
}

// fatalTok logs an error and stops further statement production.
func (p *Parser) fatalTok(tok Token, format string, args ...any) {
	p.logMessage(MessageError, spanOfToken(p.file, tok), format, args...)
	p.hasFatal = true
}

// warnTok logs a warning at a token.
func (p *Parser) warnTok(tok Token, format string, args ...any) {
	p.logMessage(MessageWarning, spanOfToken(p.file, tok), format, args...)
}

// logMessage records a diagnostic. After a fatal error further messages
// are suppressed to avoid cascades.
func (p *Parser) logMessage(typ MessageType, span Span, format string, args ...any) {
	if p.hasFatal {
		return
	}
	p.messages = append(p.messages, NewLogMessage(typ, span, fmt.Sprintf(format, args...)))
	if typ == MessageError {
		p.hasErrors = true
	}
}
