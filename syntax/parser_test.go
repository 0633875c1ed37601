package syntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseInput parses with the given options and requires success.
func parseInput(t *testing.T, input string, lexOpts LexerOptions, parseOpts *ParserOptions) *Page {
	t.Helper()
	lexer := NewLexer(input, "test.tpl", lexOpts)
	parser := NewParser(lexer, parseOpts)
	page := parser.Run()
	require.Falsef(t, parser.HasErrors(), "unexpected errors: %v", parser.Messages())
	require.NotNil(t, page)
	return page
}

// parseDefault parses default-dialect input without trivia retention.
func parseDefault(t *testing.T, input string) *Page {
	t.Helper()
	return parseInput(t, input, LexerOptions{}, nil)
}

// parseErr parses input and requires failure, returning the messages.
func parseErr(t *testing.T, input string, lexOpts LexerOptions) []LogMessage {
	t.Helper()
	lexer := NewLexer(input, "test.tpl", lexOpts)
	parser := NewParser(lexer, nil)
	page := parser.Run()
	require.Nil(t, page)
	require.True(t, parser.HasErrors())
	return parser.Messages()
}

// messagesContain asserts that one of the messages contains the text.
func messagesContain(t *testing.T, messages []LogMessage, substr string) {
	t.Helper()
	for _, m := range messages {
		if strings.Contains(m.Text, substr) {
			return
		}
	}
	t.Fatalf("no message contains %q in %v", substr, messages)
}

func TestParseRawAndExpression(t *testing.T) {
	page := parseDefault(t, "Hello {{ name }} World")
	stmts := page.Body.Statements
	require.Len(t, stmts, 3)

	raw, ok := stmts[0].(*RawStatement)
	require.True(t, ok)
	assert.Equal(t, "Hello ", raw.Text)

	es, ok := stmts[1].(*ExpressionStatement)
	require.True(t, ok)
	v, ok := es.Expression.(*Variable)
	require.True(t, ok)
	assert.Equal(t, "name", v.Name)

	raw, ok = stmts[2].(*RawStatement)
	require.True(t, ok)
	assert.Equal(t, " World", raw.Text)
}

func TestParseEmptyInput(t *testing.T) {
	page := parseDefault(t, "")
	assert.Empty(t, page.Body.Statements)
	assert.Nil(t, page.FrontMatter)
}

func TestParseForLoopOverArray(t *testing.T) {
	page := parseDefault(t, "{{ for x in [1,2,3] }}{{ x }}{{ end }}")
	require.Len(t, page.Body.Statements, 1)

	loop, ok := page.Body.Statements[0].(*ForStatement)
	require.True(t, ok)

	v, ok := loop.Variable.(*Variable)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name)

	arr, ok := loop.Iterator.(*ArrayInitializer)
	require.True(t, ok)
	require.Len(t, arr.Values, 3)
	for i, want := range []int64{1, 2, 3} {
		lit, ok := arr.Values[i].(*Literal)
		require.True(t, ok)
		assert.Equal(t, want, lit.Value)
	}

	require.Len(t, loop.Body.Statements, 1)
	es, ok := loop.Body.Statements[0].(*ExpressionStatement)
	require.True(t, ok)
	bodyVar, ok := es.Expression.(*Variable)
	require.True(t, ok)
	assert.Equal(t, "x", bodyVar.Name)
}

func TestParseWhileLoop(t *testing.T) {
	page := parseDefault(t, "{{ while x < 3 }}X{{ end }}")
	loop, ok := page.Body.Statements[0].(*WhileStatement)
	require.True(t, ok)
	bin, ok := loop.Condition.(*BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, OpLess, bin.Op)
	require.Len(t, loop.Body.Statements, 1)
}

func TestParseElseIfChain(t *testing.T) {
	page := parseDefault(t, "{{ if a }}A{{ else if b }}B{{ else }}C{{ end }}")
	require.Len(t, page.Body.Statements, 1)

	outer, ok := page.Body.Statements[0].(*IfStatement)
	require.True(t, ok)
	assert.False(t, outer.IsElseIf)
	require.Len(t, outer.Then.Statements, 1)

	elseif, ok := outer.Else.(*IfStatement)
	require.True(t, ok)
	assert.True(t, elseif.IsElseIf)
	cond, ok := elseif.Condition.(*Variable)
	require.True(t, ok)
	assert.Equal(t, "b", cond.Name)

	last, ok := elseif.Else.(*ElseStatement)
	require.True(t, ok)
	require.Len(t, last.Body.Statements, 1)
	raw, ok := last.Body.Statements[0].(*RawStatement)
	require.True(t, ok)
	assert.Equal(t, "C", raw.Text)
}

func TestParseCaseWhenChain(t *testing.T) {
	input := "{% case a %}{% when 1,2 %}A{% when 3 %}B{% else %}C{% endcase %}"
	page := parseInput(t, input, LexerOptions{Dialect: DialectLiquid}, nil)
	require.Len(t, page.Body.Statements, 1)

	c, ok := page.Body.Statements[0].(*CaseStatement)
	require.True(t, ok)
	value, ok := c.Value.(*Variable)
	require.True(t, ok)
	assert.Equal(t, "a", value.Name)

	require.Len(t, c.Body.Statements, 1)
	when1, ok := c.Body.Statements[0].(*WhenStatement)
	require.True(t, ok)
	require.Len(t, when1.Values, 2)
	require.Len(t, when1.Body.Statements, 1)
	assert.Equal(t, "A", when1.Body.Statements[0].(*RawStatement).Text)

	when2, ok := when1.Next.(*WhenStatement)
	require.True(t, ok)
	require.Len(t, when2.Values, 1)
	lit, ok := when2.Values[0].(*Literal)
	require.True(t, ok)
	assert.Equal(t, int64(3), lit.Value)
	assert.Equal(t, "B", when2.Body.Statements[0].(*RawStatement).Text)

	final, ok := when2.Next.(*ElseStatement)
	require.True(t, ok)
	assert.Equal(t, "C", final.Body.Statements[0].(*RawStatement).Text)
}

func TestParseCaseDropsRawChildren(t *testing.T) {
	page := parseDefault(t, "{{ case a }}ignored{{ when 1 }}A{{ end }}")
	c, ok := page.Body.Statements[0].(*CaseStatement)
	require.True(t, ok)
	require.Len(t, c.Body.Statements, 1)
	_, ok = c.Body.Statements[0].(*WhenStatement)
	assert.True(t, ok)
}

func TestParseCaseRejectsCodeStatements(t *testing.T) {
	lexer := NewLexer("{{ case a }}{{ if b }}X{{ end }}{{ end }}", "test.tpl", LexerOptions{})
	parser := NewParser(lexer, nil)
	parser.Run()
	require.True(t, parser.HasErrors())
	messagesContain(t, parser.Messages(), "case")
}

func TestParseLiquidIfElse(t *testing.T) {
	page := parseInput(t, "{% if a %}X{% else %}Y{% endif %}", LexerOptions{Dialect: DialectLiquid}, nil)
	require.Len(t, page.Body.Statements, 1)

	s, ok := page.Body.Statements[0].(*IfStatement)
	require.True(t, ok)
	cond, ok := s.Condition.(*Variable)
	require.True(t, ok)
	assert.Equal(t, "a", cond.Name)
	require.Len(t, s.Then.Statements, 1)
	assert.Equal(t, "X", s.Then.Statements[0].(*RawStatement).Text)

	e, ok := s.Else.(*ElseStatement)
	require.True(t, ok)
	assert.Equal(t, "Y", e.Body.Statements[0].(*RawStatement).Text)
}

func TestParseLiquidElsif(t *testing.T) {
	page := parseInput(t, "{% if a %}A{% elsif b %}B{% endif %}", LexerOptions{Dialect: DialectLiquid}, nil)
	s := page.Body.Statements[0].(*IfStatement)
	elsif, ok := s.Else.(*IfStatement)
	require.True(t, ok)
	assert.True(t, elsif.IsElseIf)
}

func TestParseLiquidUnless(t *testing.T) {
	page := parseInput(t, "{% unless a %}X{% endunless %}", LexerOptions{Dialect: DialectLiquid}, nil)
	s, ok := page.Body.Statements[0].(*IfStatement)
	require.True(t, ok)
	assert.True(t, s.InvertCondition)
}

func TestParseLiquidIfChanged(t *testing.T) {
	page := parseInput(t, "{% ifchanged %}X{% endifchanged %}", LexerOptions{Dialect: DialectLiquid}, nil)
	s, ok := page.Body.Statements[0].(*IfStatement)
	require.True(t, ok)
	path, ok := s.Condition.(*VariablePath)
	require.True(t, ok)
	target, ok := path.Target.(*Variable)
	require.True(t, ok)
	assert.Equal(t, "loop", target.Name)
	assert.Equal(t, "changed", path.Member.Name)
}

func TestParseLiquidAssign(t *testing.T) {
	page := parseInput(t, "{% assign a = b %}", LexerOptions{Dialect: DialectLiquid}, nil)
	es, ok := page.Body.Statements[0].(*ExpressionStatement)
	require.True(t, ok)
	assert.True(t, es.Tag)
	_, ok = es.Expression.(*AssignExpression)
	assert.True(t, ok)
}

func TestParseLiquidAssignRequiresAssignment(t *testing.T) {
	messages := parseErr(t, "{% assign a %}", LexerOptions{Dialect: DialectLiquid})
	messagesContain(t, messages, "assignment")
}

func TestParseLiquidIncrementDecrement(t *testing.T) {
	tests := []struct {
		name  string
		input string
		op    BinaryOperator
	}{
		{"increment", "{% increment c %}", OpAdd},
		{"decrement", "{% decrement c %}", OpSubtract},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := parseInput(t, tt.input, LexerOptions{Dialect: DialectLiquid}, nil)
			es := page.Body.Statements[0].(*ExpressionStatement)
			assign, ok := es.Expression.(*AssignExpression)
			require.True(t, ok)
			target, ok := assign.Target.(*Variable)
			require.True(t, ok)
			assert.Equal(t, "c", target.Name)
			bin, ok := assign.Value.(*BinaryExpression)
			require.True(t, ok)
			assert.Equal(t, tt.op, bin.Op)
			lit, ok := bin.Right.(*Literal)
			require.True(t, ok)
			assert.Equal(t, int64(1), lit.Value)
		})
	}
}

func TestParseLiquidCycle(t *testing.T) {
	page := parseInput(t, "{% cycle 'a', 'b' %}", LexerOptions{Dialect: DialectLiquid}, nil)
	es := page.Body.Statements[0].(*ExpressionStatement)
	call, ok := es.Expression.(*FunctionCall)
	require.True(t, ok)
	target, ok := call.Target.(*Variable)
	require.True(t, ok)
	assert.Equal(t, "cycle", target.Name)
	require.Len(t, call.Arguments, 1)
	arr, ok := call.Arguments[0].(*ArrayInitializer)
	require.True(t, ok)
	require.Len(t, arr.Values, 2)
}

func TestParseLiquidCycleGrouped(t *testing.T) {
	opts := &ParserOptions{LiquidFunctionsToStencil: true}
	page := parseInput(t, "{% cycle 'g': 'a', 'b' %}", LexerOptions{Dialect: DialectLiquid}, opts)
	es := page.Body.Statements[0].(*ExpressionStatement)
	call := es.Expression.(*FunctionCall)
	path, ok := call.Target.(*VariablePath)
	require.True(t, ok)
	assert.Equal(t, "cycle", path.Member.Name)
	require.Len(t, call.Arguments, 2)
	_, ok = call.Arguments[0].(*ArrayInitializer)
	assert.True(t, ok)
	group, ok := call.Arguments[1].(*Literal)
	require.True(t, ok)
	assert.Equal(t, "g", group.Value)
}

func TestParseLiquidObjectSection(t *testing.T) {
	page := parseInput(t, "{{ a.b }}", LexerOptions{Dialect: DialectLiquid}, nil)
	es := page.Body.Statements[0].(*ExpressionStatement)
	assert.False(t, es.Tag)
	_, ok := es.Expression.(*VariablePath)
	assert.True(t, ok)
}

func TestParseLiquidObjectSectionRejectsArithmetic(t *testing.T) {
	messages := parseErr(t, "{{ 1 + 2 }}", LexerOptions{Dialect: DialectLiquid})
	messagesContain(t, messages, "variable or pipe")
}

func TestParseLiquidFilter(t *testing.T) {
	page := parseInput(t, "{{ a | truncate: 3 }}", LexerOptions{Dialect: DialectLiquid}, nil)
	es := page.Body.Statements[0].(*ExpressionStatement)
	pipe, ok := es.Expression.(*PipeCall)
	require.True(t, ok)
	from, ok := pipe.From.(*Variable)
	require.True(t, ok)
	assert.Equal(t, "a", from.Name)
	call, ok := pipe.To.(*FunctionCall)
	require.True(t, ok)
	require.Len(t, call.Arguments, 1)
}

func TestParseFrontMatter(t *testing.T) {
	input := "+++\nx = 1\n+++\nHello"
	page := parseInput(t, input, LexerOptions{Mode: ModeFrontMatterAndContent}, nil)

	require.NotNil(t, page.FrontMatter)
	require.Len(t, page.FrontMatter.Statements, 1)
	es, ok := page.FrontMatter.Statements[0].(*ExpressionStatement)
	require.True(t, ok)
	assign, ok := es.Expression.(*AssignExpression)
	require.True(t, ok)
	target, ok := assign.Target.(*Variable)
	require.True(t, ok)
	assert.Equal(t, "x", target.Name)
	lit, ok := assign.Value.(*Literal)
	require.True(t, ok)
	assert.Equal(t, int64(1), lit.Value)

	require.Len(t, page.Body.Statements, 1)
	raw, ok := page.Body.Statements[0].(*RawStatement)
	require.True(t, ok)
	assert.Equal(t, "Hello", raw.Text)
	// The span was advanced past the newline that follows the marker.
	assert.Equal(t, 14, raw.Span().Start.Offset)
}

func TestParseFrontMatterOnly(t *testing.T) {
	page := parseInput(t, "+++\nx = 1\n+++\nHello", LexerOptions{Mode: ModeFrontMatterOnly}, nil)
	require.NotNil(t, page.FrontMatter)
	require.Len(t, page.FrontMatter.Statements, 1)
	assert.Empty(t, page.Body.Statements)
}

func TestParseFrontMatterMissingMarker(t *testing.T) {
	messages := parseErr(t, "Hello", LexerOptions{Mode: ModeFrontMatterAndContent})
	messagesContain(t, messages, "front matter marker")
}

func TestParseScriptOnly(t *testing.T) {
	page := parseInput(t, "x = 1\ny = x + 1\n", LexerOptions{Mode: ModeScriptOnly}, nil)
	require.Len(t, page.Body.Statements, 2)
	for _, s := range page.Body.Statements {
		es, ok := s.(*ExpressionStatement)
		require.True(t, ok)
		_, ok = es.Expression.(*AssignExpression)
		assert.True(t, ok)
	}
}

func TestParseFunctionAndReturn(t *testing.T) {
	page := parseInput(t, "func inc\nret $0 + 1\nend\n", LexerOptions{Mode: ModeScriptOnly}, nil)
	require.Len(t, page.Body.Statements, 1)
	fn, ok := page.Body.Statements[0].(*FunctionStatement)
	require.True(t, ok)
	name, ok := fn.Name.(*Variable)
	require.True(t, ok)
	assert.Equal(t, "inc", name.Name)

	require.Len(t, fn.Body.Statements, 1)
	ret, ok := fn.Body.Statements[0].(*ReturnStatement)
	require.True(t, ok)
	bin, ok := ret.Expression.(*BinaryExpression)
	require.True(t, ok)
	special, ok := bin.Left.(*Variable)
	require.True(t, ok)
	assert.True(t, special.Special)
	assert.Equal(t, "0", special.Name)
}

func TestParseAnonymousFunction(t *testing.T) {
	page := parseDefault(t, "{{ x = do }}A{{ end }}")
	es := page.Body.Statements[0].(*ExpressionStatement)
	assign, ok := es.Expression.(*AssignExpression)
	require.True(t, ok)
	fn, ok := assign.Value.(*AnonymousFunction)
	require.True(t, ok)
	require.Len(t, fn.Body.Statements, 1)
	assert.Equal(t, "A", fn.Body.Statements[0].(*RawStatement).Text)
}

func TestParseWithWrapCaptureImportReadonly(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, s Statement)
	}{
		{"with", "{{ with a }}X{{ end }}", func(t *testing.T, s Statement) {
			v, ok := s.(*WithStatement)
			require.True(t, ok)
			require.Len(t, v.Body.Statements, 1)
		}},
		{"wrap", "{{ wrap a }}X{{ end }}", func(t *testing.T, s Statement) {
			v, ok := s.(*WrapStatement)
			require.True(t, ok)
			require.Len(t, v.Body.Statements, 1)
		}},
		{"capture", "{{ capture a }}X{{ end }}", func(t *testing.T, s Statement) {
			v, ok := s.(*CaptureStatement)
			require.True(t, ok)
			require.Len(t, v.Body.Statements, 1)
		}},
		{"import", "{{ import 'lib' }}", func(t *testing.T, s Statement) {
			v, ok := s.(*ImportStatement)
			require.True(t, ok)
			lit, ok := v.Expression.(*Literal)
			require.True(t, ok)
			assert.Equal(t, "lib", lit.Value)
		}},
		{"readonly", "{{ readonly x }}", func(t *testing.T, s Statement) {
			v, ok := s.(*ReadOnlyStatement)
			require.True(t, ok)
			name, ok := v.Variable.(*Variable)
			require.True(t, ok)
			assert.Equal(t, "x", name.Name)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := parseDefault(t, tt.input)
			require.Len(t, page.Body.Statements, 1)
			tt.check(t, page.Body.Statements[0])
		})
	}
}

func TestParseBreakContinueInLoop(t *testing.T) {
	page := parseDefault(t, "{{ for x in y }}{{ break }}{{ continue }}{{ end }}")
	loop := page.Body.Statements[0].(*ForStatement)
	require.Len(t, loop.Body.Statements, 2)
	_, ok := loop.Body.Statements[0].(*BreakStatement)
	assert.True(t, ok)
	_, ok = loop.Body.Statements[1].(*ContinueStatement)
	assert.True(t, ok)
}

func TestParseBreakOutsideLoopIsDeferred(t *testing.T) {
	// Loop-scope validity is an evaluation-time concern because of wrap.
	page := parseDefault(t, "{{ break }}")
	_, ok := page.Body.Statements[0].(*BreakStatement)
	assert.True(t, ok)
}

func TestParseKeywordMemberAccessPromotion(t *testing.T) {
	page := parseDefault(t, "{{ for.index }}")
	es, ok := page.Body.Statements[0].(*ExpressionStatement)
	require.True(t, ok)
	path, ok := es.Expression.(*VariablePath)
	require.True(t, ok)
	target, ok := path.Target.(*Variable)
	require.True(t, ok)
	assert.Equal(t, "for", target.Name)
	assert.Equal(t, "index", path.Member.Name)
}

func TestParsePipeChain(t *testing.T) {
	page := parseDefault(t, "{{ a | f 1 | g }}")
	es := page.Body.Statements[0].(*ExpressionStatement)
	outer, ok := es.Expression.(*PipeCall)
	require.True(t, ok)
	to, ok := outer.To.(*Variable)
	require.True(t, ok)
	assert.Equal(t, "g", to.Name)

	inner, ok := outer.From.(*PipeCall)
	require.True(t, ok)
	call, ok := inner.To.(*FunctionCall)
	require.True(t, ok)
	require.Len(t, call.Arguments, 1)
}

// --- Error handling ---

func TestParseDanglingEnd(t *testing.T) {
	messages := parseErr(t, "{{ end }}", LexerOptions{})
	messagesContain(t, messages, "unable to find a matching statement")
}

func TestParseDanglingCodeExit(t *testing.T) {
	messages := parseErr(t, "}}", LexerOptions{})
	messagesContain(t, messages, "without a matching code section enter")
}

func TestParseMissingEnd(t *testing.T) {
	messages := parseErr(t, "{{ if a }}X", LexerOptions{})
	messagesContain(t, messages, "missing `end`")
}

func TestParseNestedCodeEnter(t *testing.T) {
	messages := parseErr(t, "{{ {{ x }}", LexerOptions{})
	messagesContain(t, messages, "already in one")
}

func TestParseCodeExitInScriptOnly(t *testing.T) {
	messages := parseErr(t, "x = 1\n}}", LexerOptions{Mode: ModeScriptOnly})
	messagesContain(t, messages, "script-only")
}

func TestParseElseWithoutConditional(t *testing.T) {
	messages := parseErr(t, "{{ else }}", LexerOptions{})
	messagesContain(t, messages, "`else` must follow")
}

func TestParseWhenOutsideCase(t *testing.T) {
	messages := parseErr(t, "{{ when 1 }}", LexerOptions{})
	messagesContain(t, messages, "inside a `case`")
}

func TestParseWhenWithoutValues(t *testing.T) {
	lexer := NewLexer("{{ case a }}{{ when }}A{{ end }}", "test.tpl", LexerOptions{})
	parser := NewParser(lexer, nil)
	parser.Run()
	require.True(t, parser.HasErrors())
	messagesContain(t, parser.Messages(), "at least one value")
}

func TestParseDepthLimitSingleError(t *testing.T) {
	opts := &ParserOptions{ExpressionDepthLimit: 8}
	lexer := NewLexer("{{ ((((((((((1)))))))))) }}", "test.tpl", LexerOptions{})
	parser := NewParser(lexer, opts)
	page := parser.Run()
	require.Nil(t, page)

	count := 0
	for _, m := range parser.Messages() {
		if strings.Contains(m.Text, "too deep") {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, parser.Messages(), 1)
}

func TestParseMissingEndOfStatementIsFatal(t *testing.T) {
	messages := parseErr(t, "{{ readonly x y }}", LexerOptions{})
	messagesContain(t, messages, "expecting end of statement")
}

// --- Structural invariants ---

func TestSpanInvariants(t *testing.T) {
	inputs := []struct {
		name string
		text string
		opts LexerOptions
	}{
		{"raw and code", "Hello {{ name }} World", LexerOptions{}},
		{"nested blocks", "{{ if a }}{{ for x in y }}B{{ end }}{{ end }}", LexerOptions{}},
		{"liquid", "{% if a %}X{% else %}Y{% endif %}", LexerOptions{Dialect: DialectLiquid}},
		{"script", "x = 1\ny = [1,2]\n", LexerOptions{Mode: ModeScriptOnly}},
	}
	for _, tt := range inputs {
		t.Run(tt.name, func(t *testing.T) {
			page := parseInput(t, tt.text, tt.opts, nil)
			Walk(page, func(n Node) bool {
				span := n.Span()
				assert.LessOrEqual(t, span.Start.Offset, span.End.Offset, "span of %s", nodeName(n))
				return true
			})

			// Statement spans are non-decreasing inside each block, and a
			// block covers its statements.
			Walk(page, func(n Node) bool {
				block, ok := n.(*Block)
				if !ok {
					return true
				}
				last := -1
				for _, s := range block.Statements {
					assert.GreaterOrEqual(t, s.Span().Start.Offset, last)
					assert.GreaterOrEqual(t, s.Span().Start.Offset, block.Span().Start.Offset)
					assert.LessOrEqual(t, s.Span().End.Offset, block.Span().End.Offset)
					last = s.Span().Start.Offset
				}
				return true
			})
		})
	}
}

func TestParseIsDeterministic(t *testing.T) {
	input := "{{ if a }}Hello {{ name }}{{ else }}Bye{{ end }}"
	opts := LexerOptions{KeepTrivia: true}
	first := parseInput(t, input, opts, nil)
	second := parseInput(t, input, opts, nil)
	assert.Equal(t, first, second)
}

func TestCaseBodyHoldsOnlyBranches(t *testing.T) {
	input := "{% case a %} {% when 1 %}A{% else %}B{% endcase %}"
	page := parseInput(t, input, LexerOptions{Dialect: DialectLiquid, KeepTrivia: true}, nil)
	c := page.Body.Statements[0].(*CaseStatement)
	for _, s := range c.Body.Statements {
		switch s.(type) {
		case *WhenStatement, *ElseStatement:
		default:
			t.Fatalf("unexpected %s in case body", nodeName(s))
		}
	}
}

func TestAdjacentEmptySections(t *testing.T) {
	page := parseInput(t, "{% %}{% %}", LexerOptions{Dialect: DialectLiquid, KeepTrivia: true}, nil)
	stmts := page.Body.Statements
	require.Len(t, stmts, 3)

	_, ok := stmts[0].(*NopStatement)
	require.True(t, ok)

	raw, ok := stmts[1].(*RawStatement)
	require.True(t, ok)
	assert.True(t, raw.IsEmpty())
	require.Len(t, raw.AfterTrivia(), 1)
	assert.Equal(t, TriviaEmpty, raw.AfterTrivia()[0].Kind)

	_, ok = stmts[2].(*NopStatement)
	require.True(t, ok)
}

func TestEmptySectionIsNop(t *testing.T) {
	page := parseDefault(t, "{{ }}")
	require.Len(t, page.Body.Statements, 1)
	_, ok := page.Body.Statements[0].(*NopStatement)
	assert.True(t, ok)
}

func TestBreakNestedInLoopBody(t *testing.T) {
	// A break inside an if inside a for parses into the if's then-block.
	page := parseDefault(t, "{{ for x in y }}{{ if a }}{{ break }}{{ end }}{{ end }}")
	loop := page.Body.Statements[0].(*ForStatement)
	cond := loop.Body.Statements[0].(*IfStatement)
	_, ok := cond.Then.Statements[0].(*BreakStatement)
	assert.True(t, ok)
}

func TestEscapeRegions(t *testing.T) {
	page := parseDefault(t, "A{%{ {{x}} }%}B")
	require.Len(t, page.Body.Statements, 3)
	raw, ok := page.Body.Statements[1].(*RawStatement)
	require.True(t, ok)
	assert.Equal(t, 1, raw.EscapeCount)
	assert.Equal(t, " {{x}} ", raw.Text)
}

func TestEscapeRegionDoublePercent(t *testing.T) {
	page := parseDefault(t, "{%%{ }%} }%%}")
	require.Len(t, page.Body.Statements, 1)
	raw := page.Body.Statements[0].(*RawStatement)
	assert.Equal(t, 2, raw.EscapeCount)
	assert.Equal(t, " }%} ", raw.Text)
}
