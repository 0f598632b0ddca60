package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of the constant pool and
// instruction stream. Undefined or truncated instructions are shown inline
// rather than aborting the listing.
func (b *Bytecode) Disassemble() string {
	var sb strings.Builder

	if len(b.Constants) > 0 {
		sb.WriteString("; Constants:\n")
		for i, c := range b.Constants {
			sb.WriteString(fmt.Sprintf(";   [%3d] %s %s\n", i, c.Type(), truncate(c.Inspect(), 40)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("; Code:\n")
	for offset := 0; offset < len(b.Instructions); {
		line, n := b.disassembleInstruction(offset)
		sb.WriteString(fmt.Sprintf("%04X  %s\n", offset, line))
		offset += n
	}
	return sb.String()
}

// disassembleInstruction formats the instruction at offset and returns its
// length.
func (b *Bytecode) disassembleInstruction(offset int) (string, int) {
	code := b.Instructions
	op := Opcode(code[offset])
	info, ok := Lookup(op)
	if !ok {
		return fmt.Sprintf("UNKNOWN(0x%02X)", byte(op)), 1
	}
	if offset+1+info.OperandLen > len(code) {
		return fmt.Sprintf("%s <truncated>", info.Name), len(code) - offset
	}

	switch op {
	case OpConstant, OpLoadName, OpUnsupported:
		idx := int(ReadUint16(code, offset+1))
		return fmt.Sprintf("%s %d ; %s", info.Name, idx, b.constantComment(idx)), 3
	case OpCall, OpArray, OpHash:
		return fmt.Sprintf("%s %d", info.Name, ReadOperand(code, offset)), 1 + info.OperandLen
	}
	return info.Name, 1 + info.OperandLen
}

func (b *Bytecode) constantComment(idx int) string {
	if idx >= len(b.Constants) {
		return "<out of range>"
	}
	return truncate(b.Constants[idx].Inspect(), 20)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\t", "\\t")
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}
