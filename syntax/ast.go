package syntax

import (
	"fmt"
	"strings"
)

// Node is implemented by every AST node. Nodes carry a span and two
// optional trivia lists used for lossless round-tripping.
type Node interface {
	// Span returns the node's source location.
	Span() Span
	// BeforeTrivia returns the trivia attached before the node.
	BeforeTrivia() []Trivia
	// AfterTrivia returns the trivia attached after the node.
	AfterTrivia() []Trivia
}

// Statement is the statement side of the two disjoint node families.
type Statement interface {
	Node
	statementNode()
}

// Expression is the expression side of the two disjoint node families.
type Expression interface {
	Node
	expressionNode()
}

// ConditionStatement is the capability union of the statements that can
// chain behind an `if` or `when`: If, Else and When.
type ConditionStatement interface {
	Statement
	conditionStatementNode()
}

// node is the embedded base of every AST node.
type node struct {
	span   Span
	before []Trivia
	after  []Trivia
	// endTrivia records the terminating `end`/`end<tag>` region of
	// block-bearing statements.
	endTrivia []Trivia
}

// Span returns the node's source location.
func (n *node) Span() Span { return n.span }

// SetSpan overwrites the node's source location.
func (n *node) SetSpan(span Span) { n.span = span }

// BeforeTrivia returns the trivia attached before the node.
func (n *node) BeforeTrivia() []Trivia { return n.before }

// AfterTrivia returns the trivia attached after the node.
func (n *node) AfterTrivia() []Trivia { return n.after }

// EndTrivia returns the trivia of the node's terminating end region.
func (n *node) EndTrivia() []Trivia { return n.endTrivia }

func (n *node) addBefore(ts []Trivia)  { n.before = append(n.before, ts...) }
func (n *node) addAfter(ts []Trivia)   { n.after = append(n.after, ts...) }
func (n *node) addEnd(ts []Trivia)     { n.endTrivia = append(n.endTrivia, ts...) }
func (n *node) setStart(p TextPosition) { n.span.Start = p }
func (n *node) setEnd(p TextPosition)   { n.span.End = p }

// stmt is embedded by all statement nodes.
type stmt struct{ node }

func (*stmt) statementNode() {}

// expr is embedded by all expression nodes.
type expr struct{ node }

func (*expr) expressionNode() {}

// --- Statements ---

// Page is the root of a parsed template.
type Page struct {
	stmt
	// FrontMatter is non-nil only in the front matter parsing modes.
	FrontMatter *Block
	// Body holds the template's statements.
	Body *Block
}

// Block is a sequence of statements. Blocks never carry trivia; pending
// trivia migrate to the first or last child instead.
type Block struct {
	stmt
	Statements []Statement
}

// RawStatement emits a slice of source text verbatim. EscapeCount is the
// number of percent signs of the escape region delimiters, or zero for
// plain raw text.
type RawStatement struct {
	stmt
	Text        string
	EscapeCount int
}

// IsEmpty returns true for zero-length raw statements synthesized to
// anchor trivia between adjacent code sections.
func (r *RawStatement) IsEmpty() bool {
	return r.Text == "" && r.EscapeCount == 0
}

// NopStatement is an empty code section.
type NopStatement struct {
	stmt
	// Tag is true if the section was entered with `{%`.
	Tag bool
}

// ExpressionStatement evaluates an expression for its value or effect.
type ExpressionStatement struct {
	stmt
	Expression Expression
	// Tag is true if the statement was parsed in a liquid tag section.
	Tag bool
}

// IfStatement is a conditional with an optional chained alternative.
type IfStatement struct {
	stmt
	Condition Expression
	// IsElseIf is true when this node continues an `else if`/`elsif` chain.
	IsElseIf bool
	// InvertCondition is true for liquid `unless`.
	InvertCondition bool
	Then *Block
	Else ConditionStatement
}

func (*IfStatement) conditionStatementNode() {}

// ElseStatement terminates a conditional chain.
type ElseStatement struct {
	stmt
	Body *Block
}

func (*ElseStatement) conditionStatementNode() {}

// ForStatement iterates a variable over an iterator expression.
type ForStatement struct {
	stmt
	Variable Expression
	Iterator Expression
	Body     *Block
}

// WhileStatement loops while its condition holds.
type WhileStatement struct {
	stmt
	Condition Expression
	Body      *Block
}

// CaseStatement selects among `when` branches by value.
type CaseStatement struct {
	stmt
	Value Expression
	Body  *Block
}

// WhenStatement is a `case` branch. Next chains the following branch.
type WhenStatement struct {
	stmt
	Values []Expression
	Body   *Block
	Next   ConditionStatement
}

func (*WhenStatement) conditionStatementNode() {}

// CaptureStatement renders its body into a target variable.
type CaptureStatement struct {
	stmt
	Target Expression
	Body   *Block
}

// WithStatement pushes an object as the implicit scope for its body.
type WithStatement struct {
	stmt
	Name Expression
	Body *Block
}

// WrapStatement renders its body through a wrapping function.
type WrapStatement struct {
	stmt
	Target Expression
	Body   *Block
}

// FunctionStatement declares a function. Name is nil for the anonymous
// form.
type FunctionStatement struct {
	stmt
	Name Expression
	Body *Block
}

// ImportStatement imports an object's members into the current scope.
type ImportStatement struct {
	stmt
	Expression Expression
}

// ReturnStatement exits the enclosing function, optionally with a value.
type ReturnStatement struct {
	stmt
	Expression Expression
}

// BreakStatement exits the enclosing loop.
type BreakStatement struct{ stmt }

// ContinueStatement skips to the next iteration of the enclosing loop.
type ContinueStatement struct{ stmt }

// ReadOnlyStatement marks a variable as immutable.
type ReadOnlyStatement struct {
	stmt
	Variable Expression
}

// --- Expressions ---

// Variable references a variable by name. Special variables carry a `$`
// prefix in the source.
type Variable struct {
	expr
	Name    string
	Special bool
}

// Literal is a constant value. Value holds one of bool, int64, float64,
// string or nil.
type Literal struct {
	expr
	Value any
}

// BinaryOperator enumerates the binary operators.
type BinaryOperator uint8

// All binary operators.
const (
	OpOr BinaryOperator = iota
	OpAnd
	OpCompareEqual
	OpCompareNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpDivideRound
	OpModulus
	OpRange
	OpEmptyCoalescing
)

// String returns the operator's source form.
func (op BinaryOperator) String() string {
	switch op {
	case OpOr:
		return "||"
	case OpAnd:
		return "&&"
	case OpCompareEqual:
		return "=="
	case OpCompareNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpDivideRound:
		return "//"
	case OpModulus:
		return "%"
	case OpRange:
		return ".."
	case OpEmptyCoalescing:
		return "??"
	default:
		return "?"
	}
}

// UnaryOperator enumerates the unary operators.
type UnaryOperator uint8

// All unary operators.
const (
	OpNot UnaryOperator = iota
	OpNegate
	OpPlusSign
)

// String returns the operator's source form.
func (op UnaryOperator) String() string {
	switch op {
	case OpNot:
		return "!"
	case OpNegate:
		return "-"
	case OpPlusSign:
		return "+"
	default:
		return "?"
	}
}

// BinaryExpression combines two operands with a binary operator.
type BinaryExpression struct {
	expr
	Op    BinaryOperator
	Left  Expression
	Right Expression
}

// UnaryExpression applies a prefix operator to an operand.
type UnaryExpression struct {
	expr
	Op      UnaryOperator
	Operand Expression
}

// AssignExpression assigns a value to a target.
type AssignExpression struct {
	expr
	Target Expression
	Value  Expression
}

// FunctionCall applies arguments to a target.
type FunctionCall struct {
	expr
	Target    Expression
	Arguments []Expression
	// Parens is true for the `f(x)` form, false for space-separated
	// arguments.
	Parens bool
}

// ArrayInitializer builds an array from its element expressions.
type ArrayInitializer struct {
	expr
	Values []Expression
}

// PipeCall feeds the left expression as the first argument of the right.
type PipeCall struct {
	expr
	From Expression
	To   Expression
}

// VariablePath accesses a member of a target expression.
type VariablePath struct {
	expr
	Target Expression
	Member *Variable
}

// IndexerExpression accesses an element of a target by index.
type IndexerExpression struct {
	expr
	Target Expression
	Index  Expression
}

// NestedExpression is a parenthesized expression.
type NestedExpression struct {
	expr
	Expression Expression
}

// AnonymousFunction is an inline `do ... end` function body used as an
// expression.
type AnonymousFunction struct {
	expr
	Body *Block
}

// --- Traversal ---

// Walk calls fn for n and each of its descendants in depth-first source
// order. If fn returns false for a node, its children are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || isNilNode(n) || !fn(n) {
		return
	}
	for _, child := range children(n) {
		Walk(child, fn)
	}
}

// isNilNode guards against typed nil pointers from optional children.
func isNilNode(n Node) bool {
	v, ok := n.(*Block)
	return ok && v == nil
}

// children returns the direct children of a node in source order.
func children(n Node) []Node {
	var out []Node
	add := func(ns ...Node) {
		for _, c := range ns {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	switch v := n.(type) {
	case *Page:
		if v.FrontMatter != nil {
			add(v.FrontMatter)
		}
		if v.Body != nil {
			add(v.Body)
		}
	case *Block:
		for _, s := range v.Statements {
			add(s)
		}
	case *ExpressionStatement:
		add(v.Expression)
	case *IfStatement:
		add(v.Condition)
		if v.Then != nil {
			add(v.Then)
		}
		if v.Else != nil {
			add(v.Else)
		}
	case *ElseStatement:
		if v.Body != nil {
			add(v.Body)
		}
	case *ForStatement:
		add(v.Variable, v.Iterator)
		if v.Body != nil {
			add(v.Body)
		}
	case *WhileStatement:
		add(v.Condition)
		if v.Body != nil {
			add(v.Body)
		}
	case *CaseStatement:
		add(v.Value)
		if v.Body != nil {
			add(v.Body)
		}
	case *WhenStatement:
		for _, e := range v.Values {
			add(e)
		}
		if v.Body != nil {
			add(v.Body)
		}
		if v.Next != nil {
			add(v.Next)
		}
	case *CaptureStatement:
		add(v.Target)
		if v.Body != nil {
			add(v.Body)
		}
	case *WithStatement:
		add(v.Name)
		if v.Body != nil {
			add(v.Body)
		}
	case *WrapStatement:
		add(v.Target)
		if v.Body != nil {
			add(v.Body)
		}
	case *FunctionStatement:
		add(v.Name)
		if v.Body != nil {
			add(v.Body)
		}
	case *ImportStatement:
		add(v.Expression)
	case *ReturnStatement:
		add(v.Expression)
	case *ReadOnlyStatement:
		add(v.Variable)
	case *BinaryExpression:
		add(v.Left, v.Right)
	case *UnaryExpression:
		add(v.Operand)
	case *AssignExpression:
		add(v.Target, v.Value)
	case *FunctionCall:
		add(v.Target)
		for _, a := range v.Arguments {
			add(a)
		}
	case *ArrayInitializer:
		for _, e := range v.Values {
			add(e)
		}
	case *PipeCall:
		add(v.From, v.To)
	case *VariablePath:
		add(v.Target)
		if v.Member != nil {
			add(v.Member)
		}
	case *IndexerExpression:
		add(v.Target, v.Index)
	case *NestedExpression:
		add(v.Expression)
	case *AnonymousFunction:
		if v.Body != nil {
			add(v.Body)
		}
	}
	return out
}

// nodeName returns a short name for a node's kind, for debug output.
func nodeName(n Node) string {
	switch v := n.(type) {
	case *Page:
		return "Page"
	case *Block:
		return "Block"
	case *RawStatement:
		if v.EscapeCount > 0 {
			return fmt.Sprintf("Raw(escape=%d, %q)", v.EscapeCount, v.Text)
		}
		return fmt.Sprintf("Raw(%q)", v.Text)
	case *NopStatement:
		return "Nop"
	case *ExpressionStatement:
		return "ExpressionStatement"
	case *IfStatement:
		switch {
		case v.IsElseIf:
			return "If(elseif)"
		case v.InvertCondition:
			return "If(inverted)"
		}
		return "If"
	case *ElseStatement:
		return "Else"
	case *ForStatement:
		return "For"
	case *WhileStatement:
		return "While"
	case *CaseStatement:
		return "Case"
	case *WhenStatement:
		return "When"
	case *CaptureStatement:
		return "Capture"
	case *WithStatement:
		return "With"
	case *WrapStatement:
		return "Wrap"
	case *FunctionStatement:
		return "Function"
	case *ImportStatement:
		return "Import"
	case *ReturnStatement:
		return "Return"
	case *BreakStatement:
		return "Break"
	case *ContinueStatement:
		return "Continue"
	case *ReadOnlyStatement:
		return "ReadOnly"
	case *Variable:
		if v.Special {
			return fmt.Sprintf("Variable($%s)", v.Name)
		}
		return fmt.Sprintf("Variable(%s)", v.Name)
	case *Literal:
		return fmt.Sprintf("Literal(%v)", v.Value)
	case *BinaryExpression:
		return fmt.Sprintf("Binary(%s)", v.Op)
	case *UnaryExpression:
		return fmt.Sprintf("Unary(%s)", v.Op)
	case *AssignExpression:
		return "Assign"
	case *FunctionCall:
		return "FunctionCall"
	case *ArrayInitializer:
		return "Array"
	case *PipeCall:
		return "Pipe"
	case *VariablePath:
		return "VariablePath"
	case *IndexerExpression:
		return "Indexer"
	case *NestedExpression:
		return "Nested"
	case *AnonymousFunction:
		return "AnonymousFunction"
	default:
		return fmt.Sprintf("%T", n)
	}
}

// Dump renders a node tree as an indented debug listing.
func Dump(n Node) string {
	var sb strings.Builder
	dump(&sb, n, 0)
	return sb.String()
}

func dump(sb *strings.Builder, n Node, depth int) {
	if n == nil || isNilNode(n) {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(nodeName(n))
	sb.WriteByte('\n')
	for _, child := range children(n) {
		dump(sb, child, depth+1)
	}
}
