package stencil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boergens/stencil/syntax"
)

func TestParse(t *testing.T) {
	page, messages := Parse("Hello {{ name }}")
	require.NotNil(t, page)
	assert.Empty(t, messages)
	assert.Len(t, page.Body.Statements, 2)
}

func TestParseReportsErrors(t *testing.T) {
	page, messages := Parse("{{ end }}")
	assert.Nil(t, page)
	require.NotEmpty(t, messages)
	assert.Equal(t, syntax.MessageError, messages[0].Type)
}

func TestParseLiquid(t *testing.T) {
	page, messages := ParseLiquid("{% if a %}X{% endif %}")
	require.NotNilf(t, page, "messages: %v", messages)
	_, ok := page.Body.Statements[0].(*syntax.IfStatement)
	assert.True(t, ok)
}

func TestParseScriptOnly(t *testing.T) {
	page, _ := ParseScriptOnly("x = 1")
	require.NotNil(t, page)
	assert.Len(t, page.Body.Statements, 1)
}

func TestParseWithOptionsFrontMatter(t *testing.T) {
	opts := syntax.LexerOptions{Mode: syntax.ModeFrontMatterAndContent}
	page, _ := ParseWithOptions("+++\nx = 1\n+++\nHi", "page.tpl", opts, nil)
	require.NotNil(t, page)
	require.NotNil(t, page.FrontMatter)
	assert.Equal(t, "page.tpl", page.Span().File)
}
