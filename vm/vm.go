// Package vm executes compiled bytecode on a fixed-capacity operand stack.
//
// The VM shares all value semantics with the tree-walking evaluator through
// the object package, so a program produces the same value, the same error
// and the same output under either engine. Decoding is bounds-checked:
// malformed bytecode fails with an error, never a panic.
package vm

import (
	"io"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/simian/builtin"
	"github.com/chazu/simian/bytecode"
	"github.com/chazu/simian/object"
)

// DefaultStackSize is the operand stack capacity used when none is given.
const DefaultStackSize = 2048

// Error kinds specific to bytecode execution. Failures carry one of these
// (or an object package kind) as the Kind of an *object.Error.
var (
	ErrStackOverflow  = object.NewKind("stack-overflow", "stack overflow")
	ErrStackUnderflow = object.NewKind("stack-underflow", "stack underflow")
	ErrConstantIndex  = object.NewKind("constant-index", "constant index out of range")
	ErrBadInstruction = object.NewKind("bad-instruction", "bad instruction")
)

var log = commonlog.GetLogger("simian.vm")

// Option configures a VM.
type Option func(*VM)

// WithStackSize sets the operand stack capacity. Values below 1 are
// ignored.
func WithStackSize(n int) Option {
	return func(vm *VM) {
		if n > 0 {
			vm.stackSize = n
		}
	}
}

// WithOutput sets the writer that puts writes to. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(vm *VM) {
		if w != nil {
			vm.out = w
		}
	}
}

// WithTrace logs every decoded instruction at debug level on the
// "simian.vm" logger.
func WithTrace(on bool) Option {
	return func(vm *VM) { vm.trace = on }
}

// VM executes one Bytecode. A VM is not safe for concurrent use.
type VM struct {
	constants []object.Object
	code      []byte

	stack     []object.Object
	stackSize int
	sp        int // next free slot; stack[sp-1] is the top
	pc        int

	out   io.Writer
	trace bool
}

// New creates a VM for bc. The stack is allocated up front and filled with
// nil.
func New(bc *bytecode.Bytecode, opts ...Option) *VM {
	vm := &VM{
		constants: bc.Constants,
		code:      bc.Instructions,
		stackSize: DefaultStackSize,
		out:       os.Stdout,
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.stack = make([]object.Object, vm.stackSize)
	for i := range vm.stack {
		vm.stack[i] = object.NIL
	}
	return vm
}

// StackTop returns the value on top of the stack without removing it. The
// boolean is false when the stack is empty.
func (vm *VM) StackTop() (object.Object, bool) {
	if vm.sp == 0 {
		return nil, false
	}
	return vm.stack[vm.sp-1], true
}

// Result returns the value of the program after Run: the top of the stack,
// or nil when the stack is empty.
func (vm *VM) Result() object.Object {
	if top, ok := vm.StackTop(); ok {
		return top
	}
	return object.NIL
}

// SP returns the current stack depth.
func (vm *VM) SP() int {
	return vm.sp
}

// Run executes the instruction stream from the start. It stops at the end
// of the stream or at the first failure, which is returned unchanged.
func (vm *VM) Run() error {
	vm.pc = 0
	vm.sp = 0
	for vm.pc < len(vm.code) {
		op := bytecode.Opcode(vm.code[vm.pc])
		info, ok := bytecode.Lookup(op)
		if !ok {
			return object.Errorf(ErrBadInstruction, "unknown opcode 0x%02X at offset %d", byte(op), vm.pc)
		}
		if vm.pc+1+info.OperandLen > len(vm.code) {
			return object.Errorf(ErrBadInstruction, "truncated %s instruction at offset %d", info.Name, vm.pc)
		}
		if vm.trace && log.AllowLevel(commonlog.Debug) {
			log.Debugf("%04X  %-14s sp=%d", vm.pc, info.Name, vm.sp)
		}
		operand := bytecode.ReadOperand(vm.code, vm.pc)
		if err := vm.execute(op, operand); err != nil {
			return err
		}
		vm.pc += 1 + info.OperandLen
	}
	return nil
}

func (vm *VM) execute(op bytecode.Opcode, operand int) error {
	switch op {
	case bytecode.OpPop:
		_, err := vm.pop()
		return err

	// Constants
	case bytecode.OpConstant:
		c, err := vm.constant(operand)
		if err != nil {
			return err
		}
		return vm.push(object.Copy(c))
	case bytecode.OpNil:
		return vm.push(object.NIL)
	case bytecode.OpTrue:
		return vm.push(object.TRUE)
	case bytecode.OpFalse:
		return vm.push(object.FALSE)

	// Names
	case bytecode.OpLoadName:
		name, err := vm.stringConstant(op, operand)
		if err != nil {
			return err
		}
		b, ok := builtin.Lookup(name)
		if !ok {
			return object.Errorf(object.ErrIdentifierNotFound, "identifier not found: %s", name)
		}
		return vm.push(b)

	// Operators
	case bytecode.OpNeg, bytecode.OpNot:
		right, err := vm.pop()
		if err != nil {
			return err
		}
		operator, _ := op.Operator()
		result, err := object.EvalPrefix(operator, right)
		if err != nil {
			return err
		}
		return vm.push(result)

	// Calls
	case bytecode.OpCall:
		if vm.sp < operand+1 {
			return vm.underflow()
		}
		args := make([]object.Object, operand)
		copy(args, vm.stack[vm.sp-operand:vm.sp])
		callee := vm.stack[vm.sp-operand-1]
		vm.sp -= operand + 1
		result, err := object.Call(vm.out, callee, args)
		if err != nil {
			return err
		}
		return vm.push(result)

	// Collections
	case bytecode.OpArray:
		elems, err := vm.popN(operand)
		if err != nil {
			return err
		}
		return vm.push(&object.Array{Elements: elems})
	case bytecode.OpHash:
		kvs, err := vm.popN(2 * operand)
		if err != nil {
			return err
		}
		h, err := object.BuildHash(kvs)
		if err != nil {
			return err
		}
		return vm.push(h)

	// Traps
	case bytecode.OpUnsupported:
		desc, err := vm.stringConstant(op, operand)
		if err != nil {
			return err
		}
		return object.Errorf(object.ErrUnsupported, "unsupported construct: %s", desc)
	}

	if op.IsBinary() {
		right, err := vm.pop()
		if err != nil {
			return err
		}
		left, err := vm.pop()
		if err != nil {
			return err
		}
		operator, _ := op.Operator()
		result, err := object.EvalInfix(operator, left, right)
		if err != nil {
			return err
		}
		return vm.push(result)
	}
	return object.Errorf(ErrBadInstruction, "no handler for %s at offset %d", op, vm.pc)
}

// ---------------------------------------------------------------------------
// Stack and constant pool access
// ---------------------------------------------------------------------------

func (vm *VM) push(o object.Object) error {
	if vm.sp >= len(vm.stack) {
		return object.Errorf(ErrStackOverflow, "stack overflow")
	}
	vm.stack[vm.sp] = o
	vm.sp++
	return nil
}

func (vm *VM) pop() (object.Object, error) {
	if vm.sp == 0 {
		return nil, vm.underflow()
	}
	vm.sp--
	return vm.stack[vm.sp], nil
}

// popN removes the top n values and returns them bottom first, in a fresh
// slice.
func (vm *VM) popN(n int) ([]object.Object, error) {
	if vm.sp < n {
		return nil, vm.underflow()
	}
	out := make([]object.Object, n)
	copy(out, vm.stack[vm.sp-n:vm.sp])
	vm.sp -= n
	return out, nil
}

func (vm *VM) underflow() error {
	return object.Errorf(ErrStackUnderflow, "stack underflow")
}

func (vm *VM) constant(idx int) (object.Object, error) {
	if idx >= len(vm.constants) {
		return nil, object.Errorf(ErrConstantIndex, "constant index %d out of range", idx)
	}
	return vm.constants[idx], nil
}

func (vm *VM) stringConstant(op bytecode.Opcode, idx int) (string, error) {
	c, err := vm.constant(idx)
	if err != nil {
		return "", err
	}
	s, ok := c.(*object.String)
	if !ok {
		return "", object.Errorf(ErrBadInstruction, "%s operand %d is %s, not string", op, idx, c.Type())
	}
	return s.Value, nil
}
