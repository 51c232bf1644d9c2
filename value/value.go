// Package value implements the VM's tagged value representation: a
// discriminated union over number/bool/nil/string/char with structural
// equality and no coercion.
package value

import "strconv"

// Kind discriminates the Value union.
type Kind int

const (
	NilKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	CharKind
)

// Value is a tagged union. Only the field matching Kind is meaningful.
type Value struct {
	Kind   Kind
	number float64
	boolean bool
	str    string
	char   rune
}

func Nil() Value               { return Value{Kind: NilKind} }
func Bool(b bool) Value        { return Value{Kind: BoolKind, boolean: b} }
func Number(n float64) Value   { return Value{Kind: NumberKind, number: n} }
func String(s string) Value    { return Value{Kind: StringKind, str: s} }
func Char(c rune) Value        { return Value{Kind: CharKind, char: c} }

func (v Value) IsNil() bool    { return v.Kind == NilKind }
func (v Value) IsBool() bool   { return v.Kind == BoolKind }
func (v Value) IsNumber() bool { return v.Kind == NumberKind }
func (v Value) IsString() bool { return v.Kind == StringKind }
func (v Value) IsChar() bool   { return v.Kind == CharKind }

func (v Value) AsBool() bool      { return v.boolean }
func (v Value) AsNumber() float64 { return v.number }
func (v Value) AsString() string  { return v.str }
func (v Value) AsChar() rune      { return v.char }

// Truthy reports whether v counts as true in a boolean context: only Nil and
// Bool(false) are falsy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case NilKind:
		return false
	case BoolKind:
		return v.boolean
	default:
		return true
	}
}

// Equal is structural equality: values of different kinds are always
// unequal, no coercion is performed.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case NilKind:
		return true
	case BoolKind:
		return a.boolean == b.boolean
	case NumberKind:
		return a.number == b.number
	case StringKind:
		return a.str == b.str
	case CharKind:
		return a.char == b.char
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case NilKind:
		return "nil"
	case BoolKind:
		if v.boolean {
			return "true"
		}
		return "false"
	case NumberKind:
		return strconv.FormatFloat(v.number, 'g', -1, 64)
	case StringKind:
		return v.str
	case CharKind:
		return string(v.char)
	default:
		return "?"
	}
}

// TypeName names the runtime type, for diagnostics.
func (v Value) TypeName() string {
	switch v.Kind {
	case NilKind:
		return "nil"
	case BoolKind:
		return "bool"
	case NumberKind:
		return "number"
	case StringKind:
		return "string"
	case CharKind:
		return "char"
	default:
		return "unknown"
	}
}
