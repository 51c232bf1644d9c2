package compiler

import "fmt"

// SyntaxError reports a malformed token stream: a missing token, an
// unexpected token where an expression was required, an invalid assignment
// target.
type SyntaxError struct {
	Line    int32
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("💥 SyntaxError: %s", e.Message)
}

// SemanticError reports a well-formed program that violates a naming or
// resolution rule: duplicate local, duplicate label, undeclared variable,
// constant reassignment, missing label, jump overflow.
type SemanticError struct {
	Line    int32
	Message string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("💥 SemanticError: %s", e.Message)
}

// DeveloperError marks an invariant violation that should be unreachable in
// a correct compiler.
type DeveloperError struct {
	Message string
}

func (e *DeveloperError) Error() string {
	return fmt.Sprintf("🤖 DeveloperError: %s", e.Message)
}
