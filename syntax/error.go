package syntax

import (
	"fmt"

	"github.com/samber/lo"
)

// MessageType is the severity of a log message.
type MessageType uint8

const (
	// MessageError marks a diagnostic that fails the parse.
	MessageError MessageType = iota
	// MessageWarning marks a diagnostic that does not fail the parse.
	MessageWarning
)

// String returns a human-readable name for the message type.
func (t MessageType) String() string {
	switch t {
	case MessageError:
		return "error"
	case MessageWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// LogMessage is a structured diagnostic with a source location.
type LogMessage struct {
	Type MessageType
	Span Span
	Text string
}

// NewLogMessage creates a log message.
func NewLogMessage(typ MessageType, span Span, text string) LogMessage {
	return LogMessage{Type: typ, Span: span, Text: text}
}

// String implements fmt.Stringer in the form `file(line,column) : error : text`.
func (m LogMessage) String() string {
	return fmt.Sprintf("%s%s : %s : %s", m.Span.File, m.Span.Start, m.Type, m.Text)
}

// Error implements the error interface.
func (m LogMessage) Error() string {
	return m.String()
}

// FilterMessages returns the messages of the given severity.
func FilterMessages(messages []LogMessage, typ MessageType) []LogMessage {
	return lo.Filter(messages, func(m LogMessage, _ int) bool {
		return m.Type == typ
	})
}
