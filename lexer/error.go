package lexer

import "fmt"

// Error is a scan error: the lexer could not produce a token at the current
// cursor position. The compiler reports it and keeps pulling tokens.
type Error struct {
	Line    int32
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Line %d: %s", e.Line, e.Message)
}
