package syntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkVisitsDepthFirst(t *testing.T) {
	page := parseDefault(t, "{{ if a }}X{{ end }}")

	var names []string
	Walk(page, func(n Node) bool {
		names = append(names, nodeName(n))
		return true
	})
	assert.Equal(t, []string{
		"Page", "Block", "If", "Variable(a)", "Block", `Raw("X")`,
	}, names)
}

func TestWalkCanPrune(t *testing.T) {
	page := parseDefault(t, "{{ if a }}X{{ end }}")
	count := 0
	Walk(page, func(n Node) bool {
		count++
		_, isIf := n.(*IfStatement)
		return !isIf
	})
	// Page, Block and If are visited; the if's children are pruned.
	assert.Equal(t, 3, count)
}

func TestDumpListsNodes(t *testing.T) {
	page := parseDefault(t, "Hi {{ name }}")
	out := Dump(page)
	require.True(t, strings.Contains(out, "Page"))
	require.True(t, strings.Contains(out, `Raw("Hi ")`))
	require.True(t, strings.Contains(out, "Variable(name)"))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.True(t, strings.HasPrefix(lines[1], "  "), "children are indented")
}

func TestRawStatementIsEmpty(t *testing.T) {
	raw := &RawStatement{}
	assert.True(t, raw.IsEmpty())
	raw.Text = "x"
	assert.False(t, raw.IsEmpty())
	escaped := &RawStatement{EscapeCount: 1}
	assert.False(t, escaped.IsEmpty())
}

func TestBinaryOperatorNames(t *testing.T) {
	tests := []struct {
		op   BinaryOperator
		want string
	}{
		{OpOr, "||"},
		{OpAnd, "&&"},
		{OpCompareEqual, "=="},
		{OpRange, ".."},
		{OpEmptyCoalescing, "??"},
		{OpDivideRound, "//"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.op.String())
	}
}

func TestConditionStatementCapability(t *testing.T) {
	// If, Else and When form the condition capability union.
	var _ ConditionStatement = (*IfStatement)(nil)
	var _ ConditionStatement = (*ElseStatement)(nil)
	var _ ConditionStatement = (*WhenStatement)(nil)
}
