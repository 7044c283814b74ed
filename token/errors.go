package token

import "fmt"

// LexError reports malformed lexical input: an unterminated string, an
// invalid escape or a malformed number. It is fatal to the current decode.
type LexError struct {
	Label   string
	Offset  int
	Message string
}

func (e *LexError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s: %s at %d", e.Label, e.Message, e.Offset)
	}
	return fmt.Sprintf("%s at %d", e.Message, e.Offset)
}

// ParseError reports a token that is valid on its own but not of the kind
// required at the current grammar position.
type ParseError struct {
	Label    string
	Offset   int
	Expected string
	Actual   Kind
	Message  string
}

func (e *ParseError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
	}
	if e.Label != "" {
		return fmt.Sprintf("%s: %s at %d", e.Label, msg, e.Offset)
	}
	return fmt.Sprintf("%s at %d", msg, e.Offset)
}
