package vm

import "fmt"

// RuntimeError is produced when a running chunk hits a type mismatch, an
// unknown opcode, or an unknown global. It carries the source line
// attributed to the instruction that failed.
type RuntimeError struct {
	Line    int32
	Message string
}

// Error renders exactly the wire format the CLI writes to stderr: callers
// should not re-wrap or re-prefix it.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("Error at line %d: %s", e.Line, e.Message)
}
