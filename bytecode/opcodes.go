package bytecode

import "fmt"

// Opcode represents a bytecode instruction.
// Opcodes are organized into ranges by category for easy identification.
type Opcode byte

const (
	// ========================================================================
	// Stack manipulation (0x00-0x0F)
	// ========================================================================

	OpPop Opcode = 0x01 // Pop top of stack

	// ========================================================================
	// Constants (0x10-0x1F)
	// ========================================================================

	OpConstant Opcode = 0x10 // Push copy of constant: OpConstant <index:u16>
	OpNil      Opcode = 0x11 // Push nil
	OpTrue     Opcode = 0x12 // Push true
	OpFalse    Opcode = 0x13 // Push false

	// ========================================================================
	// Names (0x20-0x2F)
	// ========================================================================

	OpLoadName Opcode = 0x20 // Push builtin bound to a name: OpLoadName <name_index:u16>

	// ========================================================================
	// Arithmetic (0x50-0x5F)
	// ========================================================================

	OpAdd Opcode = 0x50 // Pop two, push sum
	OpSub Opcode = 0x51 // Pop two, push difference (a - b where b is TOS)
	OpMul Opcode = 0x52 // Pop two, push product
	OpDiv Opcode = 0x53 // Pop two, push quotient
	OpMod Opcode = 0x54 // Pop two, push remainder
	OpPow Opcode = 0x55 // Pop two, push power
	OpNeg Opcode = 0x56 // Negate top of stack

	// ========================================================================
	// Comparison (0x60-0x67)
	// ========================================================================

	OpEqual        Opcode = 0x60 // Pop two, push true if equal
	OpNotEqual     Opcode = 0x61 // Pop two, push true if not equal
	OpLess         Opcode = 0x62 // Pop two, push true if a < b
	OpLessEqual    Opcode = 0x63 // Pop two, push true if a <= b
	OpGreater      Opcode = 0x64 // Pop two, push true if a > b
	OpGreaterEqual Opcode = 0x65 // Pop two, push true if a >= b

	// ========================================================================
	// Logical operations (0x68-0x6F)
	// ========================================================================

	OpNot Opcode = 0x68 // Logical NOT: push true if TOS is falsy

	// ========================================================================
	// Calls (0x90-0x9F)
	// ========================================================================

	OpCall Opcode = 0x90 // Call builtin: OpCall <argc:u8>; callee sits below the args

	// ========================================================================
	// Collections (0xB0-0xBF)
	// ========================================================================

	OpArray Opcode = 0xB0 // Pop n elements, push array: OpArray <count:u16>
	OpHash  Opcode = 0xB8 // Pop 2n keys and values, push hash: OpHash <pairs:u16>

	// ========================================================================
	// Traps (0xF0-0xFF)
	// ========================================================================

	OpUnsupported Opcode = 0xFE // Fail with a description: OpUnsupported <desc_index:u16>
)

// OpcodeInfo provides metadata about each opcode for debugging and validation.
type OpcodeInfo struct {
	Name       string // Human-readable name
	StackPop   int    // How many values popped from stack (-1 = variable)
	StackPush  int    // How many values pushed to stack
	OperandLen int    // Number of operand bytes following the opcode
}

// opcodeInfoTable maps opcodes to their metadata.
var opcodeInfoTable = map[Opcode]OpcodeInfo{
	OpPop: {"POP", 1, 0, 0},

	// Constants
	OpConstant: {"CONSTANT", 0, 1, 2},
	OpNil:      {"NIL", 0, 1, 0},
	OpTrue:     {"TRUE", 0, 1, 0},
	OpFalse:    {"FALSE", 0, 1, 0},

	// Names
	OpLoadName: {"LOAD_NAME", 0, 1, 2},

	// Arithmetic
	OpAdd: {"ADD", 2, 1, 0},
	OpSub: {"SUB", 2, 1, 0},
	OpMul: {"MUL", 2, 1, 0},
	OpDiv: {"DIV", 2, 1, 0},
	OpMod: {"MOD", 2, 1, 0},
	OpPow: {"POW", 2, 1, 0},
	OpNeg: {"NEG", 1, 1, 0},

	// Comparison
	OpEqual:        {"EQUAL", 2, 1, 0},
	OpNotEqual:     {"NOT_EQUAL", 2, 1, 0},
	OpLess:         {"LESS", 2, 1, 0},
	OpLessEqual:    {"LESS_EQUAL", 2, 1, 0},
	OpGreater:      {"GREATER", 2, 1, 0},
	OpGreaterEqual: {"GREATER_EQUAL", 2, 1, 0},

	// Logical
	OpNot: {"NOT", 1, 1, 0},

	// Calls
	OpCall: {"CALL", -1, 1, 1}, // Pops callee + argc args

	// Collections
	OpArray: {"ARRAY", -1, 1, 2},
	OpHash:  {"HASH", -1, 1, 2},

	// Traps
	OpUnsupported: {"UNSUPPORTED", 0, 1, 2}, // Stands in for the value of the construct; never returns
}

// GetOpcodeInfo returns metadata for an opcode.
// Returns a zero OpcodeInfo with name "UNKNOWN" if the opcode is not recognized.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(0x%02X)", byte(op))}
}

// Lookup returns metadata for op and whether op is defined.
func Lookup(op Opcode) (OpcodeInfo, bool) {
	info, ok := opcodeInfoTable[op]
	return info, ok
}

// String returns the human-readable name of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// OperandLen returns the number of operand bytes for this opcode.
func (op Opcode) OperandLen() int {
	return GetOpcodeInfo(op).OperandLen
}

// InstructionLen returns the total length of an instruction (1 + operand bytes).
func (op Opcode) InstructionLen() int {
	return 1 + op.OperandLen()
}

// IsBinary reports whether op pops two operands and applies an infix operator.
func (op Opcode) IsBinary() bool {
	return (op >= OpAdd && op <= OpPow) || (op >= OpEqual && op <= OpGreaterEqual)
}

// AllOpcodes returns a slice of all defined opcodes.
// Useful for testing that all opcodes have metadata.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		opcodes = append(opcodes, op)
	}
	return opcodes
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}
