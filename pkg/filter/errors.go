package filter

import "fmt"

// ParseError reports malformed or ill-typed filter and order text.
type ParseError struct {
	// Message is a human-readable description of the problem.
	Message string

	// Offset is the character offset of the offending token, or -1.
	Offset int

	// Token is the offending token text, if any.
	Token string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Offset < 0 {
		return e.Message
	}
	if e.Token != "" {
		return fmt.Sprintf("%s (at offset %d near %q)", e.Message, e.Offset, e.Token)
	}
	return fmt.Sprintf("%s (at offset %d)", e.Message, e.Offset)
}

func errorAt(tok Token, format string, args ...any) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Offset:  tok.Pos,
		Token:   tok.Text,
	}
}
