package compiler

import "nilan/token"

// Precedence orders binding strength low to high for the Pratt parser.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecTernary
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

var rules map[token.Kind]parseRule

func init() {
	rules = map[token.Kind]parseRule{
		token.LEFT_PAREN:    {prefix: grouping},
		token.MINUS:         {prefix: unary, infix: binary, precedence: PrecTerm},
		token.PLUS:          {infix: binary, precedence: PrecTerm},
		token.STAR:          {infix: binary, precedence: PrecFactor},
		token.SLASH:         {infix: binary, precedence: PrecFactor},
		token.NUMBER:        {prefix: number},
		token.STRING:        {prefix: stringLiteral},
		token.CHAR:          {prefix: charLiteral},
		token.NIL:           {prefix: literal},
		token.TRUE:          {prefix: literal},
		token.FALSE:         {prefix: literal},
		token.BANG:          {prefix: unary},
		token.EQUAL_EQUAL:   {infix: binary, precedence: PrecEquality},
		token.BANG_EQUAL:    {infix: binary, precedence: PrecEquality},
		token.LESS:          {infix: binary, precedence: PrecComparison},
		token.LESS_EQUAL:    {infix: binary, precedence: PrecComparison},
		token.GREATER:       {infix: binary, precedence: PrecComparison},
		token.GREATER_EQUAL: {infix: binary, precedence: PrecComparison},
		token.IDENTIFIER:    {prefix: variable},
		token.QUESTION:      {infix: ternary, precedence: PrecTernary},
		token.AND:           {infix: and_, precedence: PrecAnd},
		token.OR:            {infix: or_, precedence: PrecOr},
	}
}

func getRule(k token.Kind) parseRule {
	return rules[k]
}
