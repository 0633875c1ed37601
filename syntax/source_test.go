package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinesIndex(t *testing.T) {
	lines := NewLines("ab\ncd\n\nef")
	assert.Equal(t, 4, lines.Len())
	assert.Equal(t, "ab", lines.Line(0))
	assert.Equal(t, "cd", lines.Line(1))
	assert.Equal(t, "", lines.Line(2))
	assert.Equal(t, "ef", lines.Line(3))

	assert.Equal(t, 0, lines.ByteToLine(0))
	assert.Equal(t, 0, lines.ByteToLine(2))
	assert.Equal(t, 1, lines.ByteToLine(3))
	assert.Equal(t, 3, lines.ByteToLine(8))

	line, col := lines.ByteToLineColumn(4)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)
}

func TestLinesGraphemeColumns(t *testing.T) {
	// The flag emoji is one grapheme cluster of eight bytes; columns count
	// clusters, not bytes.
	text := "🇩🇪x"
	lines := NewLines(text)
	assert.Equal(t, 1, lines.ByteToColumn(8))
}

func TestSourceLazyLines(t *testing.T) {
	src := NewSource("a.tpl", "one\ntwo")
	assert.Equal(t, "a.tpl", src.Path())
	assert.Equal(t, "one\ntwo", src.Text())
	assert.Equal(t, 2, src.Lines().Len())
}

func TestLogMessageFormat(t *testing.T) {
	span := Span{
		File:  "a.tpl",
		Start: TextPosition{Offset: 5, Line: 1, Column: 2},
		End:   TextPosition{Offset: 6, Line: 1, Column: 3},
	}
	msg := NewLogMessage(MessageError, span, "boom")
	assert.Equal(t, "a.tpl(2,3) : error : boom", msg.String())
}

func TestFilterMessages(t *testing.T) {
	messages := []LogMessage{
		{Type: MessageError, Text: "a"},
		{Type: MessageWarning, Text: "b"},
		{Type: MessageError, Text: "c"},
	}
	errs := FilterMessages(messages, MessageError)
	assert.Len(t, errs, 2)
	warnings := FilterMessages(messages, MessageWarning)
	assert.Len(t, warnings, 1)
	assert.Equal(t, "b", warnings[0].Text)
}
