package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// Printer renders an AST back to template source text. With trivia
// retention enabled at parse time the output reproduces the input, with
// three exceptions: whitespace-control markers (`{{-`, `~}}`, ...) are not
// printed, the spacing of `else if` is printed canonically, and raw text
// between the branches of a `case` is not in the tree and is not printed.
// Without trivia a canonical form is emitted instead.
type Printer struct {
	sb     strings.Builder
	source string
	opts   LexerOptions

	inCode bool
	tag    bool
}

// NewPrinter creates a printer. The source and options should be the ones
// the page was parsed with; trivia reference the source by span.
func NewPrinter(source string, opts LexerOptions) *Printer {
	return &Printer{source: source, opts: opts}
}

// Print renders a page and returns the text.
func Print(page *Page, source string, opts LexerOptions) string {
	pr := NewPrinter(source, opts)
	return pr.Print(page)
}

// Print renders a page.
func (pr *Printer) Print(page *Page) string {
	pr.sb.Reset()
	pr.inCode = pr.opts.Mode == ModeScriptOnly

	if page.FrontMatter != nil {
		marker := pr.opts.marker()
		pr.sb.WriteString(marker)
		inCode := pr.inCode
		pr.inCode = true
		pr.statements(page.FrontMatter.Statements)
		pr.inCode = inCode
		pr.sb.WriteString(marker)
		if page.Body != nil && len(page.Body.Statements) > 0 {
			pr.sb.WriteByte('\n')
		}
	}

	if page.Body != nil {
		pr.statements(page.Body.Statements)
	}
	pr.exitSection()
	return pr.sb.String()
}

// liquid returns true when printing the liquid dialect.
func (pr *Printer) liquid() bool {
	return pr.opts.Dialect == DialectLiquid
}

// scriptOnly returns true when no section delimiters are emitted.
func (pr *Printer) scriptOnly() bool {
	return pr.opts.Mode == ModeScriptOnly
}

// enterSection makes sure a code section of the wanted flavor is open.
// In liquid every statement sits in its own section.
func (pr *Printer) enterSection(tag bool) {
	if pr.scriptOnly() {
		return
	}
	if pr.inCode {
		if !pr.liquid() {
			return
		}
		pr.exitSection()
	}
	if tag {
		pr.sb.WriteString("{%")
	} else {
		pr.sb.WriteString("{{")
	}
	pr.inCode = true
	pr.tag = tag
}

// exitSection closes the open code section, if any.
func (pr *Printer) exitSection() {
	if pr.scriptOnly() || !pr.inCode {
		return
	}
	if pr.tag {
		pr.sb.WriteString("%}")
	} else {
		pr.sb.WriteString("}}")
	}
	pr.inCode = false
}

// sep writes a canonical statement separator when trivia are absent.
func (pr *Printer) sep() {
	if !pr.opts.KeepTrivia && !pr.liquid() {
		pr.sb.WriteByte('\n')
	}
}

// trivias writes a trivia list.
func (pr *Printer) trivias(ts []Trivia) {
	for _, t := range ts {
		pr.sb.WriteString(t.Text(pr.source))
	}
}

// statements prints a statement list.
func (pr *Printer) statements(list []Statement) {
	for _, s := range list {
		pr.statement(s)
	}
}

// keywordTag returns the section flavor of keyword statements.
func (pr *Printer) keywordTag() bool {
	return pr.liquid()
}

// statement prints a single statement.
func (pr *Printer) statement(s Statement) {
	switch v := s.(type) {
	case *RawStatement:
		pr.exitSection()
		pr.trivias(v.BeforeTrivia())
		if v.EscapeCount > 0 {
			delims := strings.Repeat("%", v.EscapeCount)
			pr.sb.WriteString("{" + delims + "{")
			pr.sb.WriteString(v.Text)
			pr.sb.WriteString("}" + delims + "}")
		} else {
			pr.sb.WriteString(v.Text)
		}
		pr.trivias(v.AfterTrivia())
	case *NopStatement:
		pr.enterSection(v.Tag)
		pr.trivias(v.BeforeTrivia())
		pr.trivias(v.AfterTrivia())
	case *ExpressionStatement:
		pr.enterSection(v.Tag)
		pr.trivias(v.BeforeTrivia())
		if v.Tag && pr.liquid() {
			pr.liquidTagExpression(v.Expression)
		} else {
			pr.expression(v.Expression)
		}
		pr.trivias(v.AfterTrivia())
		pr.sep()
	case *IfStatement:
		pr.ifChain(v)
	case *ElseStatement:
		pr.elseClause(v)
	case *WhenStatement:
		pr.whenClause(v)
	case *ForStatement:
		pr.enterSection(pr.keywordTag())
		pr.trivias(v.BeforeTrivia())
		pr.sb.WriteString("for")
		pr.exprSpaced(v.Variable)
		if v.Variable == nil || len(v.Variable.AfterTrivia()) == 0 {
			pr.sb.WriteByte(' ')
		}
		pr.sb.WriteString("in")
		pr.exprSpaced(v.Iterator)
		pr.trivias(v.AfterTrivia())
		pr.sep()
		pr.body(v.Body)
		pr.endRegion(v.EndTrivia(), "for")
	case *WhileStatement:
		pr.headerBody("while", v.Condition, v.AfterTrivia(), v.BeforeTrivia(), v.Body)
		pr.endRegion(v.EndTrivia(), "while")
	case *CaseStatement:
		pr.enterSection(pr.keywordTag())
		pr.trivias(v.BeforeTrivia())
		pr.sb.WriteString("case")
		pr.exprSpaced(v.Value)
		pr.trivias(v.AfterTrivia())
		pr.sep()
		// A header that ended at a section exit rather than at a newline or
		// `;` gets its own section back, so the first `when` is not read as
		// an argument of the case value.
		closeHeader := pr.opts.KeepTrivia
		for _, t := range v.AfterTrivia() {
			if t.Kind == TriviaNewLine || t.Kind == TriviaSemiColon {
				closeHeader = false
			}
		}
		if closeHeader {
			pr.exitSection()
		}
		pr.body(v.Body)
		pr.endRegion(v.EndTrivia(), "case")
	case *CaptureStatement:
		pr.headerBody("capture", v.Target, v.AfterTrivia(), v.BeforeTrivia(), v.Body)
		pr.endRegion(v.EndTrivia(), "capture")
	case *WithStatement:
		pr.headerBody("with", v.Name, v.AfterTrivia(), v.BeforeTrivia(), v.Body)
		pr.endRegion(v.EndTrivia(), "with")
	case *WrapStatement:
		pr.headerBody("wrap", v.Target, v.AfterTrivia(), v.BeforeTrivia(), v.Body)
		pr.endRegion(v.EndTrivia(), "wrap")
	case *FunctionStatement:
		pr.headerBody("func", v.Name, v.AfterTrivia(), v.BeforeTrivia(), v.Body)
		pr.endRegion(v.EndTrivia(), "func")
	case *ImportStatement:
		pr.simple("import", v.Expression, v.BeforeTrivia(), v.AfterTrivia())
	case *ReadOnlyStatement:
		pr.simple("readonly", v.Variable, v.BeforeTrivia(), v.AfterTrivia())
	case *ReturnStatement:
		pr.simple("ret", v.Expression, v.BeforeTrivia(), v.AfterTrivia())
	case *BreakStatement:
		pr.simple("break", nil, v.BeforeTrivia(), v.AfterTrivia())
	case *ContinueStatement:
		pr.simple("continue", nil, v.BeforeTrivia(), v.AfterTrivia())
	case *Block:
		pr.statements(v.Statements)
	}
}

// headerBody prints a `keyword expr` header followed by a body.
func (pr *Printer) headerBody(kw string, e Expression, after, before []Trivia, b *Block) {
	pr.enterSection(pr.keywordTag())
	pr.trivias(before)
	pr.sb.WriteString(kw)
	pr.exprSpaced(e)
	pr.trivias(after)
	pr.sep()
	pr.body(b)
}

// simple prints a bodyless `keyword expr?` statement.
func (pr *Printer) simple(kw string, e Expression, before, after []Trivia) {
	pr.enterSection(pr.keywordTag())
	pr.trivias(before)
	pr.sb.WriteString(kw)
	pr.exprSpaced(e)
	pr.trivias(after)
	pr.sep()
}

// body prints a block's statements.
func (pr *Printer) body(b *Block) {
	if b != nil {
		pr.statements(b.Statements)
	}
}

// ifChain prints a conditional chain including its shared end region.
func (pr *Printer) ifChain(v *IfStatement) {
	pr.enterSection(pr.keywordTag())
	pr.trivias(v.BeforeTrivia())
	kw := "if"
	switch {
	case v.IsElseIf && pr.liquid():
		kw = "elsif"
	case v.IsElseIf:
		kw = "else if"
	case v.InvertCondition && pr.liquid():
		kw = "unless"
	}
	pr.sb.WriteString(kw)
	pr.exprSpaced(v.Condition)
	pr.trivias(v.AfterTrivia())
	pr.sep()
	pr.body(v.Then)
	if v.Else != nil {
		pr.statement(v.Else)
	}
	if !v.IsElseIf {
		end := "end"
		if pr.liquid() {
			end = "endif"
			if v.InvertCondition {
				end = "endunless"
			}
		}
		pr.endRegion(v.EndTrivia(), end)
	}
}

// elseClause prints an `else` branch.
func (pr *Printer) elseClause(v *ElseStatement) {
	pr.enterSection(pr.keywordTag())
	pr.trivias(v.BeforeTrivia())
	pr.sb.WriteString("else")
	pr.trivias(v.AfterTrivia())
	pr.sep()
	pr.body(v.Body)
}

// whenClause prints a `when` branch and its chain.
func (pr *Printer) whenClause(v *WhenStatement) {
	pr.enterSection(pr.keywordTag())
	pr.trivias(v.BeforeTrivia())
	pr.sb.WriteString("when")
	for i, value := range v.Values {
		if i > 0 {
			pr.sb.WriteByte(',')
		}
		pr.exprSpaced(value)
	}
	pr.trivias(v.AfterTrivia())
	pr.sep()
	pr.body(v.Body)
	if v.Next != nil {
		pr.statement(v.Next)
	}
}

// endRegion prints a statement's terminating end region. In liquid the
// suffix selects the `end<tag>` form when no trivia were recorded.
func (pr *Printer) endRegion(ts []Trivia, suffix string) {
	pr.enterSection(pr.keywordTag())
	if len(ts) > 0 {
		pr.trivias(ts)
		return
	}
	if pr.liquid() {
		pr.sb.WriteString("end" + suffix)
	} else {
		pr.sb.WriteString("end")
	}
	pr.sep()
}

// exprSpaced prints an expression, inserting a canonical space when the
// expression carries no leading trivia.
func (pr *Printer) exprSpaced(e Expression) {
	if e == nil {
		return
	}
	if len(leadingTrivia(e)) == 0 {
		pr.sb.WriteByte(' ')
	}
	pr.expression(e)
}

// leadingTrivia returns the before-trivia of an expression's leftmost
// leaf, where the source's leading whitespace actually attaches.
func leadingTrivia(e Expression) []Trivia {
	for {
		if e == nil {
			return nil
		}
		if before := e.BeforeTrivia(); len(before) > 0 {
			return before
		}
		switch v := e.(type) {
		case *BinaryExpression:
			e = v.Left
		case *PipeCall:
			e = v.From
		case *AssignExpression:
			e = v.Target
		case *VariablePath:
			e = v.Target
		case *IndexerExpression:
			e = v.Target
		case *FunctionCall:
			e = v.Target
		default:
			return nil
		}
	}
}

// liquidTagExpression prints a tag-section expression, undoing the
// desugarings so `assign`, `cycle`, `increment` and `decrement` print in
// their liquid form.
func (pr *Printer) liquidTagExpression(e Expression) {
	switch v := e.(type) {
	case *AssignExpression:
		if bin, ok := v.Value.(*BinaryExpression); ok && isIncDec(v.Target, bin) {
			kw := "increment"
			if bin.Op == OpSubtract {
				kw = "decrement"
			}
			pr.sb.WriteString(kw)
			pr.exprSpaced(v.Target)
			return
		}
		pr.sb.WriteString("assign")
		pr.exprSpaced(v.Target)
		pr.sb.WriteByte('=')
		pr.expressionSpacedValue(v.Value)
		return
	case *FunctionCall:
		if name, ok := cycleTargetName(v.Target); ok && name == "cycle" {
			pr.sb.WriteString("cycle")
			pr.printCycleArgs(v.Arguments)
			return
		}
	}
	pr.expression(e)
}

// isIncDec recognizes the `x = x ± 1` shape produced by increment and
// decrement.
func isIncDec(target Expression, bin *BinaryExpression) bool {
	tv, ok := target.(*Variable)
	if !ok || (bin.Op != OpAdd && bin.Op != OpSubtract) {
		return false
	}
	lv, ok := bin.Left.(*Variable)
	if !ok || lv.Name != tv.Name {
		return false
	}
	lit, ok := bin.Right.(*Literal)
	return ok && lit.Value == int64(1)
}

// cycleTargetName extracts the builtin name of a cycle call target.
func cycleTargetName(e Expression) (string, bool) {
	switch v := e.(type) {
	case *Variable:
		return v.Name, true
	case *VariablePath:
		if v.Member != nil {
			return v.Member.Name, true
		}
	}
	return "", false
}

// printCycleArgs prints a cycle call's array argument and optional group.
func (pr *Printer) printCycleArgs(args []Expression) {
	var arr *ArrayInitializer
	var group Expression
	for _, a := range args {
		if v, ok := a.(*ArrayInitializer); ok && arr == nil {
			arr = v
		} else {
			group = a
		}
	}
	if group != nil {
		pr.exprSpaced(group)
		pr.sb.WriteByte(':')
	}
	if arr == nil {
		return
	}
	for i, v := range arr.Values {
		if i > 0 {
			pr.sb.WriteByte(',')
		}
		pr.exprSpaced(v)
	}
}

// expressionSpacedValue prints the right side of a printed assignment.
func (pr *Printer) expressionSpacedValue(e Expression) {
	pr.exprSpaced(e)
}

// expression prints an expression with its trivia.
func (pr *Printer) expression(e Expression) {
	if e == nil {
		return
	}
	pr.trivias(e.BeforeTrivia())
	switch v := e.(type) {
	case *Variable:
		if v.Special {
			pr.sb.WriteByte('$')
		}
		pr.sb.WriteString(v.Name)
	case *Literal:
		pr.literal(v)
	case *BinaryExpression:
		pr.expression(v.Left)
		pr.sb.WriteString(v.Op.String())
		pr.expression(v.Right)
	case *UnaryExpression:
		pr.sb.WriteString(v.Op.String())
		pr.expression(v.Operand)
	case *AssignExpression:
		pr.expression(v.Target)
		pr.sb.WriteByte('=')
		pr.expression(v.Value)
	case *PipeCall:
		pr.expression(v.From)
		pr.sb.WriteByte('|')
		pr.expression(v.To)
	case *VariablePath:
		pr.expression(v.Target)
		pr.sb.WriteByte('.')
		if v.Member != nil {
			pr.expression(v.Member)
		}
	case *IndexerExpression:
		pr.expression(v.Target)
		pr.sb.WriteByte('[')
		pr.expression(v.Index)
		pr.sb.WriteByte(']')
	case *FunctionCall:
		pr.expression(v.Target)
		if v.Parens {
			pr.sb.WriteByte('(')
			for i, a := range v.Arguments {
				if i > 0 {
					pr.sb.WriteByte(',')
				}
				pr.expression(a)
			}
			pr.sb.WriteByte(')')
		} else if pr.liquid() {
			// Liquid filter arguments: `name: a, b`.
			pr.sb.WriteByte(':')
			for i, a := range v.Arguments {
				if i > 0 {
					pr.sb.WriteByte(',')
				}
				pr.exprSpaced(a)
			}
		} else {
			for _, a := range v.Arguments {
				pr.exprSpaced(a)
			}
		}
	case *ArrayInitializer:
		pr.sb.WriteByte('[')
		for i, val := range v.Values {
			if i > 0 {
				pr.sb.WriteByte(',')
			}
			pr.expression(val)
		}
		pr.sb.WriteByte(']')
	case *NestedExpression:
		pr.sb.WriteByte('(')
		pr.expression(v.Expression)
		pr.sb.WriteByte(')')
	case *AnonymousFunction:
		pr.sb.WriteString("do")
		pr.trivias(v.AfterTrivia())
		pr.sep()
		pr.body(v.Body)
		pr.endRegion(v.EndTrivia(), "")
		return
	}
	pr.trivias(e.AfterTrivia())
}

// literal prints a literal, preferring the original source text when the
// span still addresses it.
func (pr *Printer) literal(v *Literal) {
	span := v.Span()
	if span.Len() > 0 && span.End.Offset <= len(pr.source) {
		pr.sb.WriteString(pr.source[span.Start.Offset:span.End.Offset])
		return
	}
	switch value := v.Value.(type) {
	case nil:
		pr.sb.WriteString("null")
	case bool:
		pr.sb.WriteString(strconv.FormatBool(value))
	case string:
		pr.sb.WriteString(strconv.Quote(value))
	case int64:
		pr.sb.WriteString(strconv.FormatInt(value, 10))
	case float64:
		pr.sb.WriteString(strconv.FormatFloat(value, 'g', -1, 64))
	default:
		fmt.Fprintf(&pr.sb, "%v", value)
	}
}
