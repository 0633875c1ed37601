package syntax

import (
	"strconv"
	"strings"
)

// This file implements the expression side of the parser: precedence
// climbing over binary operators, unary prefixes, postfix member access,
// indexing and calls, pipes, and the anonymous-function tail.

// binaryOperatorOf maps a token kind to its binary operator and
// precedence. The pipe is handled separately at the lowest level.
func binaryOperatorOf(kind TokenKind) (BinaryOperator, int, bool) {
	switch kind {
	case DoubleQuestion:
		return OpEmptyCoalescing, 1, true
	case Or:
		return OpOr, 2, true
	case And:
		return OpAnd, 3, true
	case CompareEqual:
		return OpCompareEqual, 4, true
	case CompareNotEqual:
		return OpCompareNotEqual, 4, true
	case Less:
		return OpLess, 4, true
	case LessEqual:
		return OpLessEqual, 4, true
	case Greater:
		return OpGreater, 4, true
	case GreaterEqual:
		return OpGreaterEqual, 4, true
	case DoubleDot:
		return OpRange, 5, true
	case Plus:
		return OpAdd, 6, true
	case Minus:
		return OpSubtract, 6, true
	case Asterisk:
		return OpMultiply, 7, true
	case Divide:
		return OpDivide, 7, true
	case DoubleDivide:
		return OpDivideRound, 7, true
	case Percent:
		return OpModulus, 7, true
	}
	return 0, 0, false
}

// expectExpression parses an expression at a statement position, with
// space-separated call arguments allowed, or logs an error.
func (p *Parser) expectExpression() Expression {
	tok := p.ts.Current()
	if !ExprStartSet.Contains(tok.Kind) {
		p.errorTok(tok, "expecting an expression, found %s", tok.Kind)
		return nil
	}
	return p.parseStatementLevelOperand()
}

// parseExpressionStatementExpr parses the expression of an expression
// statement, including top-level assignment.
func (p *Parser) parseExpressionStatementExpr() Expression {
	left := p.parseStatementLevelOperand()
	if left == nil {
		return nil
	}
	if p.ts.Current().Kind != Equal {
		return left
	}

	a := &AssignExpression{}
	a.SetSpan(left.Span())
	p.checkAssignTarget(left)
	p.flushAfter(left)
	p.ts.Advance()
	a.Target = left
	a.Value = p.parseStatementLevelOperand()
	if a.Value != nil {
		a.setEnd(a.Value.Span().End)
	} else {
		p.close(a)
	}
	return a
}

// checkAssignTarget validates the left side of an assignment.
func (p *Parser) checkAssignTarget(e Expression) {
	switch e.(type) {
	case *Variable, *VariablePath, *IndexerExpression:
	default:
		p.errorSpan(e.Span(), "the left side of an assignment must be a variable, member or indexer")
	}
}

// parseStatementLevelOperand parses a unary operand, a possible
// space-separated call, and the binary/pipe tail.
func (p *Parser) parseStatementLevelOperand() Expression {
	if !p.enterDepth(p.ts.Current()) {
		return nil
	}
	defer p.leaveDepth()
	left := p.parseUnary()
	left = p.parseBareCall(left)
	return p.parseBinaryRest(left, 0)
}

// parseExpression parses an expression with the given minimum binary
// precedence. A minimum of zero includes pipes.
func (p *Parser) parseExpression(minPrec int) Expression {
	if !p.enterDepth(p.ts.Current()) {
		return nil
	}
	defer p.leaveDepth()
	left := p.parseUnary()
	return p.parseBinaryRest(left, minPrec)
}

// parseBinaryRest climbs binary operators and pipes after a parsed
// operand.
func (p *Parser) parseBinaryRest(left Expression, minPrec int) Expression {
	for left != nil {
		tok := p.ts.Current()
		if op, prec, ok := binaryOperatorOf(tok.Kind); ok && prec >= minPrec {
			b := &BinaryExpression{Op: op}
			b.SetSpan(left.Span())
			p.flushAfter(left)
			p.ts.Advance()
			b.Left = left
			b.Right = p.parseExpression(prec + 1)
			if b.Right != nil {
				b.setEnd(b.Right.Span().End)
			} else {
				p.close(b)
			}
			left = b
			continue
		}
		if tok.Kind == Pipe && minPrec <= 0 {
			pc := &PipeCall{}
			pc.SetSpan(left.Span())
			p.flushAfter(left)
			p.ts.Advance()
			pc.From = left
			pc.To = p.parsePipeTarget()
			if pc.To != nil {
				pc.setEnd(pc.To.Span().End)
			} else {
				p.close(pc)
			}
			left = pc
			continue
		}
		break
	}
	return left
}

// parsePipeTarget parses the right side of a pipe: a call target with
// optional space-separated arguments. Binary operators above the pipe
// level still bind inside the segment.
func (p *Parser) parsePipeTarget() Expression {
	if !p.enterDepth(p.ts.Current()) {
		return nil
	}
	defer p.leaveDepth()
	t := p.parseUnary()
	if p.lexer.Options().Dialect == DialectLiquid {
		t = p.parseLiquidFilterArgs(t)
	} else {
		t = p.parseBareCall(t)
	}
	return p.parseBinaryRest(t, 1)
}

// parseBareCall turns a variable or path followed by expression-start
// tokens into a call with space-separated arguments.
func (p *Parser) parseBareCall(target Expression) Expression {
	switch target.(type) {
	case *Variable, *VariablePath:
	default:
		return target
	}
	var call *FunctionCall
	for ArgStartSet.Contains(p.ts.Current().Kind) {
		if call == nil {
			call = &FunctionCall{Target: target}
			call.SetSpan(target.Span())
		}
		arg := p.parseExpression(1)
		if arg == nil {
			break
		}
		call.Arguments = append(call.Arguments, arg)
		call.setEnd(arg.Span().End)
	}
	if call != nil {
		return call
	}
	return target
}

// parseUnary parses prefix operators and a postfix chain.
func (p *Parser) parseUnary() Expression {
	tok := p.ts.Current()
	var op UnaryOperator
	switch tok.Kind {
	case Not:
		op = OpNot
	case Minus:
		op = OpNegate
	case Plus:
		op = OpPlusSign
	default:
		return p.parsePostfix()
	}
	if !p.enterDepth(tok) {
		return nil
	}
	defer p.leaveDepth()

	u := &UnaryExpression{Op: op}
	p.open(u)
	p.ts.Advance()
	u.Operand = p.parseUnary()
	if u.Operand != nil {
		u.setEnd(u.Operand.Span().End)
	} else {
		p.close(u)
	}
	return u
}

// parsePostfix parses a primary followed by member access, indexing and
// parenthesized calls.
func (p *Parser) parsePostfix() Expression {
	e := p.parsePrimary()
	for e != nil {
		switch p.ts.Current().Kind {
		case Dot:
			p.flushAfter(e)
			p.ts.Advance()
			member := p.parseMemberVariable()
			if member == nil {
				return e
			}
			vp := &VariablePath{Target: e, Member: member}
			vp.SetSpan(e.Span())
			vp.setEnd(member.Span().End)
			e = vp
		case OpenBracket:
			e = p.parseIndexer(e)
		case OpenParen:
			e = p.parseParenCall(e)
		default:
			return e
		}
	}
	return e
}

// parseIndexer parses `target[index]`.
func (p *Parser) parseIndexer(target Expression) Expression {
	idx := &IndexerExpression{Target: target}
	idx.SetSpan(target.Span())
	p.flushAfter(target)
	p.ts.Advance()
	p.ts.enterNewLineScope()
	idx.Index = p.parseExpression(0)
	p.flushAfter(idx.Index)
	if p.ts.Current().Kind == CloseBracket {
		p.ts.Advance()
	} else {
		p.errorTok(p.ts.Current(), "expecting `]` to close the indexer, found %s", p.ts.Current().Kind)
	}
	p.ts.leaveNewLineScope()
	p.close(idx)
	return idx
}

// parseParenCall parses `target(arguments)`.
func (p *Parser) parseParenCall(target Expression) Expression {
	call := &FunctionCall{Target: target, Parens: true}
	call.SetSpan(target.Span())
	p.flushAfter(target)
	p.ts.Advance()
	p.ts.enterNewLineScope()
	for p.ts.Current().Kind != CloseParen && p.ts.Current().Kind != Eof {
		arg := p.parseExpression(0)
		if arg == nil {
			break
		}
		call.Arguments = append(call.Arguments, arg)
		p.flushAfter(arg)
		if p.ts.Current().Kind == Comma {
			p.ts.Advance()
			continue
		}
		break
	}
	if p.ts.Current().Kind == CloseParen {
		p.ts.Advance()
	} else {
		p.errorTok(p.ts.Current(), "expecting `)` to close the call, found %s", p.ts.Current().Kind)
	}
	p.ts.leaveNewLineScope()
	p.close(call)
	return call
}

// parsePrimary parses a leaf expression: literals, variables, nested
// expressions, array initializers and anonymous functions.
func (p *Parser) parsePrimary() Expression {
	tok := p.ts.Current()
	switch tok.Kind {
	case Identifier:
		switch p.ts.Text(tok) {
		case "true":
			return p.parseLiteralToken(true)
		case "false":
			return p.parseLiteralToken(false)
		case "null":
			return p.parseLiteralToken(nil)
		case "do", "func":
			return p.parseAnonymousFunction()
		}
		v := &Variable{Name: p.ts.Text(tok)}
		p.open(v)
		p.ts.Advance()
		p.close(v)
		return v
	case IdentifierSpecial:
		v := &Variable{Name: strings.TrimPrefix(p.ts.Text(tok), "$"), Special: true}
		p.open(v)
		p.ts.Advance()
		p.close(v)
		return v
	case Integer:
		value, err := strconv.ParseInt(p.ts.Text(tok), 10, 64)
		if err != nil {
			p.errorTok(tok, "invalid integer literal `%s`", p.ts.Text(tok))
		}
		return p.parseLiteralToken(value)
	case Float:
		value, err := strconv.ParseFloat(p.ts.Text(tok), 64)
		if err != nil {
			p.errorTok(tok, "invalid float literal `%s`", p.ts.Text(tok))
		}
		return p.parseLiteralToken(value)
	case String:
		return p.parseLiteralToken(unquoteString(p.ts.Text(tok)))
	case VerbatimString:
		text := p.ts.Text(tok)
		text = strings.TrimPrefix(text, "`")
		text = strings.TrimSuffix(text, "`")
		return p.parseLiteralToken(text)
	case OpenParen:
		return p.parseNested()
	case OpenBracket:
		return p.parseArrayInitializer()
	}
	p.errorTok(tok, "expecting an expression, found %s", tok.Kind)
	return nil
}

// parseLiteralToken wraps the current token into a literal.
func (p *Parser) parseLiteralToken(value any) *Literal {
	lit := &Literal{Value: value}
	p.open(lit)
	p.ts.Advance()
	p.close(lit)
	return lit
}

// parseNested parses a parenthesized expression.
func (p *Parser) parseNested() Expression {
	n := &NestedExpression{}
	p.open(n)
	p.ts.Advance()
	p.ts.enterNewLineScope()
	n.Expression = p.parseExpression(0)
	p.flushAfter(n.Expression)
	if p.ts.Current().Kind == CloseParen {
		p.ts.Advance()
	} else {
		p.errorTok(p.ts.Current(), "expecting `)`, found %s", p.ts.Current().Kind)
	}
	p.ts.leaveNewLineScope()
	p.close(n)
	return n
}

// parseArrayInitializer parses `[a, b, c]`.
func (p *Parser) parseArrayInitializer() Expression {
	arr := &ArrayInitializer{}
	p.open(arr)
	p.ts.Advance()
	p.ts.enterNewLineScope()
	for p.ts.Current().Kind != CloseBracket && p.ts.Current().Kind != Eof {
		v := p.parseExpression(0)
		if v == nil {
			break
		}
		arr.Values = append(arr.Values, v)
		p.flushAfter(v)
		if p.ts.Current().Kind == Comma {
			p.ts.Advance()
			continue
		}
		break
	}
	if p.ts.Current().Kind == CloseBracket {
		p.ts.Advance()
	} else {
		p.errorTok(p.ts.Current(), "expecting `]`, found %s", p.ts.Current().Kind)
	}
	p.ts.leaveNewLineScope()
	p.close(arr)
	return arr
}

// parseAnonymousFunction parses a `do ... end` function body used as an
// expression. The body consumes the shared `end`, so the enclosing
// statement must skip its end-of-statement check.
func (p *Parser) parseAnonymousFunction() Expression {
	fn := &AnonymousFunction{}
	p.open(fn)
	p.ts.Advance()

	// The holder statement carries the body on the block stack so that
	// `end` resolution finds a function boundary.
	holder := &FunctionStatement{}
	holder.SetSpan(fn.Span())

	if !p.expectEndOfStatement(fn) {
		p.close(fn)
		return fn
	}
	var hasEnd bool
	fn.Body, hasEnd = p.parseBlock(holder)
	if !hasEnd && !p.hasFatal {
		p.errorSpan(fn.Span(), "missing `end` to close the anonymous function")
	}
	// The end region was resolved against the holder; keep it with the
	// expression node for round-tripping.
	fn.addEnd(holder.EndTrivia())
	p.close(fn)
	p.hasAnonymousFunction = true
	return fn
}

// parseVariableRef parses a single variable reference.
func (p *Parser) parseVariableRef() Expression {
	tok := p.ts.Current()
	if tok.Kind != Identifier && tok.Kind != IdentifierSpecial {
		p.errorTok(tok, "expecting a variable, found %s", tok.Kind)
		return nil
	}
	name := p.ts.Text(tok)
	special := tok.Kind == IdentifierSpecial
	if special {
		name = strings.TrimPrefix(name, "$")
	}
	v := &Variable{Name: name, Special: special}
	p.open(v)
	p.ts.Advance()
	p.close(v)
	return v
}

// parseMemberVariable parses the member name after a `.`.
func (p *Parser) parseMemberVariable() *Variable {
	tok := p.ts.Current()
	if tok.Kind != Identifier && tok.Kind != IdentifierSpecial {
		p.errorTok(tok, "expecting a member name after `.`, found %s", tok.Kind)
		return nil
	}
	v := &Variable{Name: p.ts.Text(tok), Special: tok.Kind == IdentifierSpecial}
	p.open(v)
	p.ts.Advance()
	p.close(v)
	return v
}

// parseVariableOrLiteral parses the restricted value forms of `when` and
// liquid `cycle`: variables, literals and signed literals.
func (p *Parser) parseVariableOrLiteral() Expression {
	tok := p.ts.Current()
	switch tok.Kind {
	case Identifier:
		switch p.ts.Text(tok) {
		case "true":
			return p.parseLiteralToken(true)
		case "false":
			return p.parseLiteralToken(false)
		case "null":
			return p.parseLiteralToken(nil)
		}
		return p.parseVariableRef()
	case IdentifierSpecial:
		return p.parseVariableRef()
	case Integer, Float, String, VerbatimString:
		return p.parsePrimary()
	case Minus, Plus:
		op := OpNegate
		if tok.Kind == Plus {
			op = OpPlusSign
		}
		u := &UnaryExpression{Op: op}
		p.open(u)
		p.ts.Advance()
		u.Operand = p.parseVariableOrLiteral()
		if u.Operand != nil {
			u.setEnd(u.Operand.Span().End)
		} else {
			p.close(u)
		}
		return u
	}
	p.errorTok(tok, "expecting a variable or literal, found %s", tok.Kind)
	return nil
}

// unquoteString decodes a quoted string literal's escapes.
func unquoteString(text string) string {
	if len(text) < 2 {
		return ""
	}
	quote := text[0]
	inner := text[1:]
	if inner[len(inner)-1] == quote {
		inner = inner[:len(inner)-1]
	}
	if !strings.ContainsRune(inner, '\\') {
		return inner
	}
	var sb strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c != '\\' || i+1 >= len(inner) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch inner[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '0':
			sb.WriteByte(0)
		case '\\':
			sb.WriteByte('\\')
		case '\'':
			sb.WriteByte('\'')
		case '"':
			sb.WriteByte('"')
		case 'u':
			if i+4 < len(inner) {
				if v, err := strconv.ParseUint(inner[i+1:i+5], 16, 32); err == nil {
					sb.WriteRune(rune(v))
					i += 4
					continue
				}
			}
			sb.WriteByte('u')
		default:
			sb.WriteByte(inner[i])
		}
	}
	return sb.String()
}
