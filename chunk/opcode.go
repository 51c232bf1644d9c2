package chunk

// OpCode is a single byte identifying an instruction. The numeric values are
// part of the bytecode's on-disk contract and must not change.
type OpCode byte

const (
	OpReturn   OpCode = 0x01
	OpConstant OpCode = 0x02
	OpNegate   OpCode = 0x03
	OpAdd      OpCode = 0x04
	OpSubtract OpCode = 0x05
	OpMultiply OpCode = 0x06
	OpDivide   OpCode = 0x07
	OpNil      OpCode = 0x08
	OpTrue     OpCode = 0x09
	OpFalse    OpCode = 0x0A
	OpNot      OpCode = 0x0B
	OpEqual    OpCode = 0x0C
	OpGreater  OpCode = 0x0D
	OpLess     OpCode = 0x0E
	OpPrint    OpCode = 0x0F
	OpPop      OpCode = 0x10

	OpDefGlobal OpCode = 0x11
	OpGetGlobal OpCode = 0x12
	OpSetGlobal OpCode = 0x13
	OpGetLocal  OpCode = 0x14
	OpSetLocal  OpCode = 0x15

	// 0x16 intentionally unassigned.

	OpJumpIfFalse OpCode = 0x17
	OpJump        OpCode = 0x18
	OpLeave       OpCode = 0x19
)

var opNames = map[OpCode]string{
	OpReturn:      "RETURN",
	OpConstant:    "CONSTANT",
	OpNegate:      "NEGATE",
	OpAdd:         "ADD",
	OpSubtract:    "SUBTRACT",
	OpMultiply:    "MULTIPLY",
	OpDivide:      "DIVIDE",
	OpNil:         "NIL",
	OpTrue:        "TRUE",
	OpFalse:       "FALSE",
	OpNot:         "NOT",
	OpEqual:       "EQUAL",
	OpGreater:     "GREATER",
	OpLess:        "LESS",
	OpPrint:       "PRINT",
	OpPop:         "POP",
	OpDefGlobal:   "DEF_GLOBAL",
	OpGetGlobal:   "GET_GLOBAL",
	OpSetGlobal:   "SET_GLOBAL",
	OpGetLocal:    "GET_LOCAL",
	OpSetLocal:    "SET_LOCAL",
	OpJumpIfFalse: "JUMP_IF_FALSE",
	OpJump:        "JUMP",
	OpLeave:       "LEAVE",
}

func (op OpCode) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// OperandBytes reports how many operand bytes follow op in the instruction
// stream: 0, 1 (CONSTANT/DEF_GLOBAL/GET_GLOBAL/SET_GLOBAL/GET_LOCAL/SET_LOCAL/
// LEAVE), or 2 (JUMP/JUMP_IF_FALSE, signed big-endian).
func (op OpCode) OperandBytes() int {
	switch op {
	case OpConstant, OpDefGlobal, OpGetGlobal, OpSetGlobal, OpGetLocal, OpSetLocal, OpLeave:
		return 1
	case OpJump, OpJumpIfFalse:
		return 2
	default:
		return 0
	}
}
