package syntax

// This file implements the default-dialect keyword routing and the
// individual statement parsers. The liquid dialect reuses most of them
// with its own routing in parser_liquid.go.

// parseDefaultKeyword routes an identifier token in the default dialect.
func (p *Parser) parseDefaultKeyword(parent Statement, tok Token) (Statement, bool, bool) {
	switch p.ts.Text(tok) {
	case "end":
		return p.parseEndKeyword(tok, nil)
	case "if":
		p.checkNotInCase(parent, tok)
		s, _ := p.parseIf(parent, false, false)
		return s, false, true
	case "else":
		return p.parseElseClause(parent, tok, true)
	case "when":
		return p.parseWhenClause(parent, tok)
	case "for":
		if p.peekDirectlyAtDot(tok) {
			return p.parseExpressionStatement(parent)
		}
		p.checkNotInCase(parent, tok)
		return p.parseFor(parent), false, true
	case "while":
		if p.peekDirectlyAtDot(tok) {
			return p.parseExpressionStatement(parent)
		}
		p.checkNotInCase(parent, tok)
		return p.parseWhile(parent), false, true
	case "case":
		p.checkNotInCase(parent, tok)
		return p.parseCase(parent), false, true
	case "capture":
		p.checkNotInCase(parent, tok)
		return p.parseCapture(parent), false, true
	case "with":
		p.checkNotInCase(parent, tok)
		return p.parseWith(parent), false, true
	case "wrap":
		p.checkNotInCase(parent, tok)
		return p.parseWrap(parent), false, true
	case "func":
		p.checkNotInCase(parent, tok)
		return p.parseFunc(parent), false, true
	case "import":
		p.checkNotInCase(parent, tok)
		return p.parseImport(parent), false, true
	case "readonly":
		p.checkNotInCase(parent, tok)
		return p.parseReadOnly(parent), false, true
	case "ret":
		p.checkNotInCase(parent, tok)
		return p.parseReturn(parent), false, true
	case "break":
		return p.parseBreak(), false, true
	case "continue":
		return p.parseContinue(), false, true
	}
	return p.parseExpressionStatement(parent)
}

// checkNotInCase logs an error when a code statement appears directly in a
// `case` body. The statement is still parsed to keep diagnostics flowing.
func (p *Parser) checkNotInCase(parent Statement, tok Token) {
	if _, ok := parent.(*CaseStatement); ok {
		p.errorTok(tok, "unexpected statement `%s` inside a `case` body, expecting `when` or `else`", p.ts.Text(tok))
	}
}

// peekDirectlyAtDot returns true if the next token is a `.` with no trivia
// in between. `for.index` is an expression, not a loop.
func (p *Parser) peekDirectlyAtDot(tok Token) bool {
	pk := p.ts.Peek()
	return pk.Kind == Dot && pk.Start.Offset == tok.End.Offset
}

// --- Raw text ---

// parseRaw parses a raw or escape token into a raw statement.
func (p *Parser) parseRaw() Statement {
	tok := p.ts.Current()
	raw := &RawStatement{}
	p.open(raw)
	if tok.Kind == Raw {
		raw.Text = p.ts.Text(tok)
	} else {
		count := tok.Kind.EscapeCount()
		raw.EscapeCount = count
		raw.Text = escapeInnerText(p.ts.Text(tok), count)
	}
	p.ts.Advance()
	p.close(raw)
	return raw
}

// escapeInnerText strips the delimiters off an escape region's text.
func escapeInnerText(text string, count int) string {
	delim := count + 2
	if len(text) < 2*delim {
		if len(text) > delim {
			return text[delim:]
		}
		return ""
	}
	return text[delim : len(text)-delim]
}

// --- Conditionals ---

// parseIf parses an `if` (or liquid `unless`/`elsif`) statement. For
// elseif branches the returned flag propagates the body's `end` to the
// enclosing chain.
func (p *Parser) parseIf(parent Statement, isElseIf, invert bool) (*IfStatement, bool) {
	s := &IfStatement{IsElseIf: isElseIf, InvertCondition: invert}
	p.open(s)
	kw := p.ts.Text(p.ts.Current())
	p.ts.Advance()
	s.Condition = p.expectExpression()
	if !p.expectEndOfStatement(s) {
		p.close(s)
		return s, false
	}
	var hasEnd bool
	s.Then, hasEnd = p.parseBlock(s)
	p.close(s)
	if isElseIf {
		return s, hasEnd
	}
	p.checkMissingEnd(s, hasEnd, kw)
	return s, false
}

// parseElseClause handles an `else` inside an if or when body. The clause
// is attached to the parent chain rather than appended to the block.
func (p *Parser) parseElseClause(parent Statement, tok Token, allowElseIf bool) (Statement, bool, bool) {
	parentIf, okIf := parent.(*IfStatement)
	parentWhen, okWhen := parent.(*WhenStatement)
	if !okIf && !okWhen {
		p.errorTok(tok, "`else` must follow an `if` or `when` statement")
		p.ts.Advance()
		return nil, false, true
	}

	var cond ConditionStatement
	var hasEnd bool
	if allowElseIf && p.peekIsIdent("if") {
		p.ts.Advance() // the `else` of an `else if` chain
		cond, hasEnd = p.parseIf(parent, true, false)
	} else {
		s := &ElseStatement{}
		p.open(s)
		p.ts.Advance()
		if !p.expectEndOfStatement(s) {
			p.close(s)
			return nil, false, false
		}
		s.Body, hasEnd = p.parseBlock(s)
		p.close(s)
		cond = s
	}

	if okIf {
		parentIf.Else = cond
	} else {
		parentWhen.Next = cond
	}
	return nil, hasEnd, false
}

// parseWhenClause handles a `when` inside a case or when body. A `when`
// after another `when` chains through Next and terminates that body.
func (p *Parser) parseWhenClause(parent Statement, tok Token) (Statement, bool, bool) {
	_, okCase := parent.(*CaseStatement)
	parentWhen, okWhen := parent.(*WhenStatement)
	if !okCase && !okWhen {
		p.errorTok(tok, "a `when` statement is expected only inside a `case`")
		p.ts.Advance()
		return nil, false, true
	}
	s, hasEnd := p.parseWhen()
	if okWhen {
		parentWhen.Next = s
		return nil, hasEnd, false
	}
	return s, hasEnd, true
}

// parseWhen parses a `when` branch with its value list and body.
func (p *Parser) parseWhen() (*WhenStatement, bool) {
	s := &WhenStatement{}
	p.open(s)
	tok := p.ts.Current()
	p.ts.Advance()

	for ExprStartSet.Contains(p.ts.Current().Kind) {
		v := p.parseVariableOrLiteral()
		if v == nil {
			break
		}
		s.Values = append(s.Values, v)
		cur := p.ts.Current()
		isOr := cur.Kind == Or || (cur.Kind == Identifier && p.ts.Text(cur) == "or")
		if cur.Kind == Comma || isOr {
			p.flushAfter(v)
			p.ts.Advance()
			continue
		}
		break
	}
	if len(s.Values) == 0 {
		p.errorTok(tok, "a `when` statement expects at least one value")
	}

	var hasEnd bool
	if p.expectEndOfStatement(s) {
		s.Body, hasEnd = p.parseBlock(s)
	}
	p.close(s)
	return s, hasEnd
}

// parseCase parses a `case` statement. Its body filters to when/else
// branches; raw text in between is dropped by the dispatcher.
func (p *Parser) parseCase(parent Statement) *CaseStatement {
	s := &CaseStatement{}
	p.open(s)
	p.ts.Advance()
	s.Value = p.expectExpression()
	var hasEnd bool
	if p.expectEndOfStatement(s) {
		s.Body, hasEnd = p.parseBlock(s)
	}
	p.close(s)
	p.checkMissingEnd(s, hasEnd, "case")
	return s
}

// --- Loops ---

// parseFor parses a `for variable in iterator` loop.
func (p *Parser) parseFor(parent Statement) *ForStatement {
	s := &ForStatement{}
	p.open(s)
	p.ts.Advance()
	s.Variable = p.parseVariableRef()

	cur := p.ts.Current()
	if cur.Kind == Identifier && p.ts.Text(cur) == "in" {
		p.flushAfter(s.Variable)
		p.ts.Advance()
	} else {
		p.errorTok(cur, "expecting `in` after the variable of a `for` loop, found %s", cur.Kind)
	}
	s.Iterator = p.expectExpression()

	var hasEnd bool
	if p.expectEndOfStatement(s) {
		s.Body, hasEnd = p.parseBlock(s)
	}
	p.close(s)
	p.checkMissingEnd(s, hasEnd, "for")
	return s
}

// parseWhile parses a `while condition` loop.
func (p *Parser) parseWhile(parent Statement) *WhileStatement {
	s := &WhileStatement{}
	p.open(s)
	p.ts.Advance()
	s.Condition = p.expectExpression()
	var hasEnd bool
	if p.expectEndOfStatement(s) {
		s.Body, hasEnd = p.parseBlock(s)
	}
	p.close(s)
	p.checkMissingEnd(s, hasEnd, "while")
	return s
}

// --- Body-capturing statements ---

// parseCapture parses a `capture target` statement.
func (p *Parser) parseCapture(parent Statement) *CaptureStatement {
	s := &CaptureStatement{}
	p.open(s)
	p.ts.Advance()
	s.Target = p.expectExpression()
	var hasEnd bool
	if p.expectEndOfStatement(s) {
		s.Body, hasEnd = p.parseBlock(s)
	}
	p.close(s)
	p.checkMissingEnd(s, hasEnd, "capture")
	return s
}

// parseWith parses a `with name` statement.
func (p *Parser) parseWith(parent Statement) *WithStatement {
	s := &WithStatement{}
	p.open(s)
	p.ts.Advance()
	s.Name = p.expectExpression()
	var hasEnd bool
	if p.expectEndOfStatement(s) {
		s.Body, hasEnd = p.parseBlock(s)
	}
	p.close(s)
	p.checkMissingEnd(s, hasEnd, "with")
	return s
}

// parseWrap parses a `wrap target` statement.
func (p *Parser) parseWrap(parent Statement) *WrapStatement {
	s := &WrapStatement{}
	p.open(s)
	p.ts.Advance()
	s.Target = p.expectExpression()
	var hasEnd bool
	if p.expectEndOfStatement(s) {
		s.Body, hasEnd = p.parseBlock(s)
	}
	p.close(s)
	p.checkMissingEnd(s, hasEnd, "wrap")
	return s
}

// parseFunc parses a `func` declaration with an optional name.
func (p *Parser) parseFunc(parent Statement) *FunctionStatement {
	s := &FunctionStatement{}
	p.open(s)
	p.ts.Advance()
	if p.ts.Current().Kind == Identifier || p.ts.Current().Kind == IdentifierSpecial {
		s.Name = p.parseVariableRef()
	}
	var hasEnd bool
	if p.expectEndOfStatement(s) {
		s.Body, hasEnd = p.parseBlock(s)
	}
	p.close(s)
	p.checkMissingEnd(s, hasEnd, "func")
	return s
}

// --- Simple statements ---

// parseImport parses an `import expression` statement.
func (p *Parser) parseImport(parent Statement) *ImportStatement {
	s := &ImportStatement{}
	p.open(s)
	p.ts.Advance()
	s.Expression = p.expectExpression()
	p.expectEndOfStatement(s)
	p.close(s)
	return s
}

// parseReadOnly parses a `readonly variable` statement.
func (p *Parser) parseReadOnly(parent Statement) *ReadOnlyStatement {
	s := &ReadOnlyStatement{}
	p.open(s)
	p.ts.Advance()
	s.Variable = p.parseVariableRef()
	p.expectEndOfStatement(s)
	p.close(s)
	return s
}

// parseReturn parses a `ret` statement with an optional value.
func (p *Parser) parseReturn(parent Statement) *ReturnStatement {
	s := &ReturnStatement{}
	p.open(s)
	p.ts.Advance()
	p.hasAnonymousFunction = false
	if ExprStartSet.Contains(p.ts.Current().Kind) {
		s.Expression = p.parseStatementLevelOperand()
	}
	if !p.hasAnonymousFunction {
		p.expectEndOfStatement(s)
	} else {
		p.flushAfter(s)
	}
	p.close(s)
	return s
}

// parseBreak parses a `break` statement. Validity outside a loop is left
// to evaluation time because of the interaction with `wrap`.
func (p *Parser) parseBreak() *BreakStatement {
	s := &BreakStatement{}
	p.open(s)
	p.ts.Advance()
	p.expectEndOfStatement(s)
	p.close(s)
	return s
}

// parseContinue parses a `continue` statement.
func (p *Parser) parseContinue() *ContinueStatement {
	s := &ContinueStatement{}
	p.open(s)
	p.ts.Advance()
	p.expectEndOfStatement(s)
	p.close(s)
	return s
}

// --- Expression statements ---

// parseExpressionStatement parses a full expression statement, honoring
// the anonymous-function terminator contract.
func (p *Parser) parseExpressionStatement(parent Statement) (Statement, bool, bool) {
	if _, ok := parent.(*CaseStatement); ok {
		p.errorTok(p.ts.Current(), "unexpected statement inside a `case` body, expecting `when` or `else`")
	}
	s := &ExpressionStatement{Tag: p.liquidTagSection && p.lexer.Options().Dialect == DialectLiquid}
	p.open(s)
	p.hasAnonymousFunction = false
	s.Expression = p.parseExpressionStatementExpr()
	if s.Expression == nil {
		// The expression parser already reported; resynchronize.
		p.ts.Advance()
	}
	if !p.hasAnonymousFunction {
		if !p.expectEndOfStatement(s) {
			p.close(s)
			return s, false, false
		}
	} else {
		p.flushAfter(s)
	}
	p.close(s)
	return s, false, true
}

// peekIsIdent returns true if the next visible token is the identifier.
func (p *Parser) peekIsIdent(name string) bool {
	pk := p.ts.Peek()
	return pk.Kind == Identifier && p.ts.Text(pk) == name
}

// checkMissingEnd reports a block left open at the end of its body.
func (p *Parser) checkMissingEnd(s Statement, hasEnd bool, kw string) {
	if hasEnd || p.hasFatal {
		return
	}
	p.errorSpan(s.Span(), "missing `end` to close the `%s` statement", kw)
}
