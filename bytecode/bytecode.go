// Package bytecode defines the instruction format executed by the virtual
// machine: a constant pool plus a flat byte stream of opcodes, each followed
// by a fixed number of big-endian operand bytes.
package bytecode

import (
	"encoding/binary"
	"fmt"

	"github.com/chazu/simian/ast"
	"github.com/chazu/simian/object"
)

// Bytecode is a compiled program. It is not modified after compilation and
// is consumed by a single VM run.
type Bytecode struct {
	Constants    []object.Object
	Instructions []byte
}

// Make encodes one instruction. Operands are truncated to the width the
// opcode declares; an undefined opcode encodes as the bare byte.
func Make(op Opcode, operands ...int) []byte {
	info, ok := Lookup(op)
	if !ok {
		return []byte{byte(op)}
	}
	ins := make([]byte, 1, 1+info.OperandLen)
	ins[0] = byte(op)
	if len(operands) == 0 {
		return append(ins, make([]byte, info.OperandLen)...)
	}
	switch info.OperandLen {
	case 1:
		ins = append(ins, byte(operands[0]))
	case 2:
		ins = binary.BigEndian.AppendUint16(ins, uint16(operands[0]))
	}
	return ins
}

// ReadUint16 decodes a big-endian u16 operand at offset.
func ReadUint16(code []byte, offset int) uint16 {
	return binary.BigEndian.Uint16(code[offset:])
}

// ReadOperand decodes the single operand of the instruction at offset. The
// caller has already checked that the instruction is complete.
func ReadOperand(code []byte, offset int) int {
	switch Opcode(code[offset]).OperandLen() {
	case 1:
		return int(code[offset+1])
	case 2:
		return int(ReadUint16(code, offset+1))
	}
	return 0
}

// Validate walks the instruction stream and reports the first undefined
// opcode or truncated instruction. The VM performs the same checks lazily;
// Validate lets loaders reject a bad file before running it.
func (b *Bytecode) Validate() error {
	code := b.Instructions
	for pc := 0; pc < len(code); {
		op := Opcode(code[pc])
		info, ok := Lookup(op)
		if !ok {
			return fmt.Errorf("unknown opcode 0x%02X at offset %d", byte(op), pc)
		}
		if pc+1+info.OperandLen > len(code) {
			return fmt.Errorf("truncated %s instruction at offset %d", info.Name, pc)
		}
		pc += 1 + info.OperandLen
	}
	return nil
}

// MaxStackDepth computes the deepest operand stack the instruction stream
// reaches, from the pop and push counts in the opcode table. The code has
// no jumps, so the result is exact. It fails like Validate on a malformed
// stream and reports instructions that would pop an empty stack.
func (b *Bytecode) MaxStackDepth() (int, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	code := b.Instructions
	depth, peak := 0, 0
	for pc := 0; pc < len(code); {
		op := Opcode(code[pc])
		info := GetOpcodeInfo(op)
		pops := info.StackPop
		if pops < 0 {
			n := ReadOperand(code, pc)
			switch op {
			case OpCall:
				pops = n + 1
			case OpHash:
				pops = 2 * n
			default:
				pops = n
			}
		}
		if pops > depth {
			return 0, fmt.Errorf("%s at offset %d pops %d values from a stack of %d", info.Name, pc, pops, depth)
		}
		depth += info.StackPush - pops
		peak = max(peak, depth)
		pc += 1 + info.OperandLen
	}
	return peak, nil
}

// ---------------------------------------------------------------------------
// Operator mapping
// ---------------------------------------------------------------------------

var infixOpcodes = map[ast.Operator]Opcode{
	ast.Add:   OpAdd,
	ast.Sub:   OpSub,
	ast.Mul:   OpMul,
	ast.Div:   OpDiv,
	ast.Mod:   OpMod,
	ast.Pow:   OpPow,
	ast.Eq:    OpEqual,
	ast.NotEq: OpNotEqual,
	ast.Lt:    OpLess,
	ast.LtEq:  OpLessEqual,
	ast.Gt:    OpGreater,
	ast.GtEq:  OpGreaterEqual,
}

var opcodeOperators = func() map[Opcode]ast.Operator {
	m := make(map[Opcode]ast.Operator, len(infixOpcodes)+2)
	for op, code := range infixOpcodes {
		m[code] = op
	}
	m[OpNeg] = ast.Neg
	m[OpNot] = ast.Not
	return m
}()

// InfixOpcode returns the opcode implementing an infix operator.
func InfixOpcode(op ast.Operator) (Opcode, bool) {
	code, ok := infixOpcodes[op]
	return code, ok
}

// PrefixOpcode returns the opcode implementing a prefix operator.
func PrefixOpcode(op ast.Operator) (Opcode, bool) {
	switch op {
	case ast.Neg:
		return OpNeg, true
	case ast.Not:
		return OpNot, true
	}
	return 0, false
}

// Operator returns the language operator an arithmetic, comparison or
// negation opcode applies.
func (op Opcode) Operator() (ast.Operator, bool) {
	o, ok := opcodeOperators[op]
	return o, ok
}
