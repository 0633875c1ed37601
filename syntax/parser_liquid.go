package syntax

import "strings"

// This file implements the liquid dialect: tag-section keyword routing,
// object-section validation, and the liquid-only directives.

// parseLiquidStatement routes a token in the liquid dialect. Object
// sections hold a single output expression; tag sections hold directives.
func (p *Parser) parseLiquidStatement(parent Statement, tok Token) (Statement, bool, bool) {
	if !p.liquidTagSection {
		s, end, cont := p.parseExpressionStatement(parent)
		if es, ok := s.(*ExpressionStatement); ok {
			p.validateLiquidObject(es)
		}
		return s, end, cont
	}
	if tok.Kind != Identifier {
		p.errorTok(tok, "unexpected token %s in a liquid tag, expecting a tag name", tok.Kind)
		p.ts.Advance()
		return nil, false, true
	}

	kw := p.ts.Text(tok)
	if _, inCase := parent.(*CaseStatement); inCase {
		if kw != "when" && kw != "case" && !strings.HasPrefix(kw, "end") {
			p.errorTok(tok, "unexpected tag `%s` inside a `case` body, expecting `when`, `else` or `endcase`", kw)
		}
	}

	switch kw {
	case "if":
		s, _ := p.parseIf(parent, false, false)
		return s, false, true
	case "unless":
		s, _ := p.parseIf(parent, false, true)
		return s, false, true
	case "elsif":
		return p.parseLiquidElsif(parent, tok)
	case "else":
		return p.parseElseClause(parent, tok, false)
	case "ifchanged":
		return p.parseLiquidIfChanged(parent), false, true
	case "case":
		return p.parseCase(parent), false, true
	case "when":
		return p.parseWhenClause(parent, tok)
	case "for":
		return p.parseFor(parent), false, true
	case "capture":
		return p.parseCapture(parent), false, true
	case "cycle":
		return p.parseLiquidCycle(parent), false, true
	case "assign":
		return p.parseLiquidAssign(parent)
	case "increment":
		return p.parseLiquidIncDec(parent, OpAdd), false, true
	case "decrement":
		return p.parseLiquidIncDec(parent, OpSubtract), false, true
	case "break":
		return p.parseBreak(), false, true
	case "continue":
		return p.parseContinue(), false, true
	}
	if strings.HasPrefix(kw, "end") {
		return p.parseEndKeyword(tok, liquidEndMatcher(kw[3:]))
	}
	p.errorTok(tok, "unknown tag `%s`", kw)
	return p.parseExpressionStatement(parent)
}

// validateLiquidObject checks that an object section holds a variable
// path or pipe call.
func (p *Parser) validateLiquidObject(s *ExpressionStatement) {
	if s.Expression == nil {
		return
	}
	switch s.Expression.(type) {
	case *Variable, *VariablePath, *IndexerExpression, *PipeCall:
	default:
		p.errorSpan(s.Span(), "expecting a variable or pipe expression in a liquid object section")
	}
}

// liquidEndMatcher maps an `end<tag>` suffix to the statement type it
// closes. An empty suffix (a bare `end`) matches anything.
func liquidEndMatcher(tag string) func(Statement) bool {
	if tag == "" {
		return nil
	}
	return func(s Statement) bool {
		switch tag {
		case "if", "unless", "ifchanged":
			_, ok := s.(*IfStatement)
			return ok
		case "for":
			_, ok := s.(*ForStatement)
			return ok
		case "case":
			_, ok := s.(*CaseStatement)
			return ok
		case "capture":
			_, ok := s.(*CaptureStatement)
			return ok
		}
		return false
	}
}

// parseLiquidElsif continues a conditional chain with `elsif`.
func (p *Parser) parseLiquidElsif(parent Statement, tok Token) (Statement, bool, bool) {
	parentIf, ok := parent.(*IfStatement)
	if !ok {
		p.errorTok(tok, "`elsif` must follow an `if` statement")
		p.ts.Advance()
		return nil, false, true
	}
	s, hasEnd := p.parseIf(parent, true, false)
	parentIf.Else = s
	return nil, hasEnd, false
}

// parseLiquidIfChanged desugars `ifchanged` into a conditional on the
// loop's change tracking.
func (p *Parser) parseLiquidIfChanged(parent Statement) *IfStatement {
	s := &IfStatement{}
	p.open(s)
	kwTok := p.ts.Current()
	p.ts.Advance()

	at := Span{File: p.file, Start: kwTok.Start, End: kwTok.Start}
	loop := &Variable{Name: "loop"}
	loop.SetSpan(at)
	changed := &Variable{Name: "changed"}
	changed.SetSpan(at)
	path := &VariablePath{Target: loop, Member: changed}
	path.SetSpan(at)
	s.Condition = path

	var hasEnd bool
	if p.expectEndOfStatement(s) {
		s.Then, hasEnd = p.parseBlock(s)
	}
	p.close(s)
	p.checkMissingEnd(s, hasEnd, "ifchanged")
	return s
}

// parseLiquidCycle parses `{% cycle 'a', 'b' %}` and the grouped form
// `{% cycle group: 'a', 'b' %}` into a call on the cycle function.
func (p *Parser) parseLiquidCycle(parent Statement) *ExpressionStatement {
	s := &ExpressionStatement{Tag: true}
	p.open(s)
	kwTok := p.ts.Current()

	call := &FunctionCall{}
	call.SetSpan(spanOfToken(p.file, kwTok))
	call.Target = p.liquidFunctionTarget(kwTok, "array", "cycle")
	p.ts.Advance()

	arr := &ArrayInitializer{}
	p.open(arr)
	var group Expression
	if ExprStartSet.Contains(p.ts.Current().Kind) {
		first := p.parseVariableOrLiteral()
		if p.ts.Current().Kind == Colon {
			group = first
			p.flushAfter(first)
			p.ts.Advance()
		} else if first != nil {
			arr.Values = append(arr.Values, first)
			if p.ts.Current().Kind == Comma {
				p.flushAfter(first)
				p.ts.Advance()
			}
		}
	}
	for ExprStartSet.Contains(p.ts.Current().Kind) {
		v := p.parseVariableOrLiteral()
		if v == nil {
			break
		}
		arr.Values = append(arr.Values, v)
		if p.ts.Current().Kind == Comma {
			p.flushAfter(v)
			p.ts.Advance()
			continue
		}
		break
	}
	p.close(arr)
	if len(arr.Values) == 0 {
		p.errorTok(kwTok, "`cycle` expects at least one value")
	}

	call.Arguments = append(call.Arguments, arr)
	if group != nil {
		call.Arguments = append(call.Arguments, group)
	}
	call.setEnd(p.ts.Previous().End)
	s.Expression = call

	p.expectEndOfStatement(s)
	p.close(s)
	return s
}

// liquidFunctionTarget builds the call target for a liquid builtin,
// honoring the opt-in rewrite to the default-dialect library.
func (p *Parser) liquidFunctionTarget(tok Token, object, member string) Expression {
	at := spanOfToken(p.file, tok)
	if !p.opts.LiquidFunctionsToStencil {
		v := &Variable{Name: member}
		v.SetSpan(at)
		return v
	}
	obj := &Variable{Name: object}
	obj.SetSpan(at)
	m := &Variable{Name: member}
	m.SetSpan(at)
	path := &VariablePath{Target: obj, Member: m}
	path.SetSpan(at)
	return path
}

// parseLiquidAssign parses `{% assign x = value %}`.
func (p *Parser) parseLiquidAssign(parent Statement) (Statement, bool, bool) {
	p.ts.clearPending()
	p.ts.Advance()
	s, end, cont := p.parseExpressionStatement(parent)
	if es, ok := s.(*ExpressionStatement); ok {
		es.Tag = true
		if es.Expression != nil {
			if _, isAssign := es.Expression.(*AssignExpression); !isAssign {
				p.errorSpan(es.Span(), "`assign` expects an assignment expression")
			}
		}
	}
	return s, end, cont
}

// parseLiquidIncDec desugars `increment x` / `decrement x` into
// `x = x ± 1`.
func (p *Parser) parseLiquidIncDec(parent Statement, op BinaryOperator) *ExpressionStatement {
	s := &ExpressionStatement{Tag: true}
	p.open(s)
	p.ts.Advance()

	target := p.parseVariableRef()
	if v, ok := target.(*Variable); ok {
		right := &Variable{Name: v.Name, Special: v.Special}
		right.SetSpan(v.Span())
		one := &Literal{Value: int64(1)}
		one.SetSpan(Span{File: p.file, Start: v.Span().End, End: v.Span().End})
		bin := &BinaryExpression{Op: op, Left: right, Right: one}
		bin.SetSpan(v.Span())
		assign := &AssignExpression{Target: v, Value: bin}
		assign.SetSpan(v.Span())
		s.Expression = assign
	}

	p.expectEndOfStatement(s)
	p.close(s)
	return s
}

// parseLiquidFilterArgs parses liquid filter arguments after a pipe
// target: `a | truncate: 3, '...'`.
func (p *Parser) parseLiquidFilterArgs(target Expression) Expression {
	if target == nil || p.ts.Current().Kind != Colon {
		return target
	}
	switch target.(type) {
	case *Variable, *VariablePath:
	default:
		return target
	}
	call := &FunctionCall{Target: target}
	call.SetSpan(target.Span())
	p.flushAfter(target)
	p.ts.Advance()
	for ExprStartSet.Contains(p.ts.Current().Kind) {
		arg := p.parseExpression(1)
		if arg == nil {
			break
		}
		call.Arguments = append(call.Arguments, arg)
		call.setEnd(arg.Span().End)
		if p.ts.Current().Kind == Comma {
			p.flushAfter(arg)
			p.ts.Advance()
			continue
		}
		break
	}
	if len(call.Arguments) == 0 {
		p.errorTok(p.ts.Current(), "expecting at least one filter argument after `:`")
	}
	return call
}
