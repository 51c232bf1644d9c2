package chunk

import (
	"fmt"
	"strings"
)

// Disassemble produces the full human-readable listing for the chunk:
// header "== name ==", then one line per instruction. The line column shows
// the source line for the first instruction of a line and "   |" for
// continuations on the same line.
func (c *Chunk) Disassemble(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)

	offset := 0
	lastLine := int32(-1)
	for offset < len(c.Code) {
		line := c.LineAt(offset)
		lineCol := "   |"
		if line != lastLine {
			lineCol = fmt.Sprintf("%4d", line)
			lastLine = line
		}
		text, next := DisassembleInstruction(c, offset)
		fmt.Fprintf(&b, "%s %04d %s\n", lineCol, offset, text)
		offset = next
	}
	return b.String()
}

// DisassembleInstruction renders the instruction at offset and returns the
// offset of the next instruction. Used both by Disassemble and, indirectly,
// by anything that needs to walk the code buffer one instruction at a time.
func DisassembleInstruction(c *Chunk, offset int) (string, int) {
	op := OpCode(c.Code[offset])

	switch op.OperandBytes() {
	case 0:
		return op.String(), offset + 1

	case 1:
		operand := c.Code[offset+1]
		if op == OpConstant {
			constText := "?"
			if int(operand) < len(c.Constants) {
				constText = c.Constants[operand].String()
			}
			return fmt.Sprintf("%-14s %4d '%s'", op.String(), operand, constText), offset + 2
		}
		return fmt.Sprintf("%-14s %4d", op.String(), operand), offset + 2

	case 2:
		hi, lo := c.Code[offset+1], c.Code[offset+2]
		rel := int16(uint16(hi)<<8 | uint16(lo))
		target := offset + 3 + int(rel)
		return fmt.Sprintf("%-14s %4d -> %d", op.String(), rel, target), offset + 3

	default:
		return fmt.Sprintf("unknown opcode %d", op), offset + 1
	}
}
