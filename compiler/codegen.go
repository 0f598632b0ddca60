package compiler

import (
	"fmt"
	"math"

	"github.com/chazu/simian/ast"
	"github.com/chazu/simian/bytecode"
	"github.com/chazu/simian/object"
)

// ---------------------------------------------------------------------------
// Codegen: Compile AST to bytecode
// ---------------------------------------------------------------------------

// Statement sequences compile to their statements separated by OpPop, so
// exactly one value is left on the stack: the value of the last statement.
// An empty sequence compiles to OpNil. Nodes the engines do not implement
// compile to an OpUnsupported trap placed where evaluation would reach
// them, so both engines fail at the same point and after the same side
// effects.

// Compiler compiles AST nodes to bytecode.
type Compiler struct {
	instructions []byte
	constants    []object.Object
	constIndex   map[object.HashKey]int // dedup integer and string constants
}

// NewCompiler creates a new compiler.
func NewCompiler() *Compiler {
	return &Compiler{constIndex: make(map[object.HashKey]int)}
}

// Compile compiles a program to bytecode.
func Compile(prog *ast.Program) (*bytecode.Bytecode, error) {
	c := NewCompiler()
	if err := c.Compile(prog); err != nil {
		return nil, err
	}
	return c.Bytecode(), nil
}

// CompileSource parses and compiles source text.
func CompileSource(source string) (*bytecode.Bytecode, error) {
	prog, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return Compile(prog)
}

// Bytecode returns the compiled program.
func (c *Compiler) Bytecode() *bytecode.Bytecode {
	return &bytecode.Bytecode{
		Constants:    c.constants,
		Instructions: c.instructions,
	}
}

// Compile compiles a program into the compiler's buffers.
func (c *Compiler) Compile(prog *ast.Program) error {
	return c.compileStatements(prog.Statements)
}

func (c *Compiler) emit(op bytecode.Opcode, operands ...int) int {
	offset := len(c.instructions)
	c.instructions = append(c.instructions, bytecode.Make(op, operands...)...)
	return offset
}

// addConstant adds a constant to the pool and returns its index. Integers
// and strings already in the pool are reused.
func (c *Compiler) addConstant(obj object.Object) (int, error) {
	h, hashable := obj.(object.Hashable)
	if hashable {
		if idx, ok := c.constIndex[h.HashKey()]; ok {
			return idx, nil
		}
	}
	if len(c.constants) > math.MaxUint16 {
		return 0, fmt.Errorf("too many constants: pool is limited to %d entries", math.MaxUint16+1)
	}
	idx := len(c.constants)
	c.constants = append(c.constants, obj)
	if hashable {
		c.constIndex[h.HashKey()] = idx
	}
	return idx, nil
}

func (c *Compiler) emitConstant(op bytecode.Opcode, obj object.Object) error {
	idx, err := c.addConstant(obj)
	if err != nil {
		return err
	}
	c.emit(op, idx)
	return nil
}

// emitUnsupported emits a trap that fails with the node's description.
func (c *Compiler) emitUnsupported(description string) error {
	return c.emitConstant(bytecode.OpUnsupported, &object.String{Value: description})
}

func (c *Compiler) compileStatements(stmts []ast.Statement) error {
	if len(stmts) == 0 {
		c.emit(bytecode.OpNil)
		return nil
	}
	for i, s := range stmts {
		if err := c.compileStatement(s); err != nil {
			return err
		}
		if i < len(stmts)-1 {
			c.emit(bytecode.OpPop)
		}
	}
	return nil
}

func (c *Compiler) compileStatement(stmt ast.Statement) error {
	switch stmt := stmt.(type) {
	case *ast.ExpressionStatement:
		return c.compileExpression(stmt.Expression)
	case *ast.BlockStatement:
		return c.compileStatements(stmt.Statements)
	case nil:
		return c.emitUnsupported("empty node")
	default:
		return c.emitUnsupported(stmt.Describe())
	}
}

func (c *Compiler) compileExpression(expr ast.Expression) error {
	switch expr := expr.(type) {
	// Literals
	case *ast.IntegerLiteral:
		return c.emitConstant(bytecode.OpConstant, &object.Integer{Value: expr.Value})
	case *ast.StringLiteral:
		return c.emitConstant(bytecode.OpConstant, &object.String{Value: expr.Value})
	case *ast.BooleanLiteral:
		if expr.Value {
			c.emit(bytecode.OpTrue)
		} else {
			c.emit(bytecode.OpFalse)
		}
		return nil
	case *ast.NilLiteral:
		c.emit(bytecode.OpNil)
		return nil
	case *ast.ArrayLiteral:
		if len(expr.Elements) > math.MaxUint16 {
			return fmt.Errorf("%s: array literal has %d elements, limit is %d", expr.Pos, len(expr.Elements), math.MaxUint16)
		}
		if err := c.compileExpressions(expr.Elements); err != nil {
			return err
		}
		c.emit(bytecode.OpArray, len(expr.Elements))
		return nil
	case *ast.HashLiteral:
		if len(expr.Pairs) > math.MaxUint16 {
			return fmt.Errorf("%s: hash literal has %d pairs, limit is %d", expr.Pos, len(expr.Pairs), math.MaxUint16)
		}
		for _, p := range expr.Pairs {
			if err := c.compileExpression(p.Key); err != nil {
				return err
			}
			if err := c.compileExpression(p.Value); err != nil {
				return err
			}
		}
		c.emit(bytecode.OpHash, len(expr.Pairs))
		return nil

	// Expressions
	case *ast.Identifier:
		return c.emitConstant(bytecode.OpLoadName, &object.String{Value: expr.Name})
	case *ast.PrefixExpression:
		op, ok := bytecode.PrefixOpcode(expr.Operator)
		if !ok {
			return fmt.Errorf("%s: unknown prefix operator %s", expr.Pos, expr.Operator)
		}
		if err := c.compileExpression(expr.Right); err != nil {
			return err
		}
		c.emit(op)
		return nil
	case *ast.InfixExpression:
		op, ok := bytecode.InfixOpcode(expr.Operator)
		if !ok {
			return fmt.Errorf("%s: unknown infix operator %s", expr.Pos, expr.Operator)
		}
		if err := c.compileExpression(expr.Left); err != nil {
			return err
		}
		if err := c.compileExpression(expr.Right); err != nil {
			return err
		}
		c.emit(op)
		return nil
	case *ast.CallExpression:
		if len(expr.Arguments) > math.MaxUint8 {
			return fmt.Errorf("%s: call has %d arguments, limit is %d", expr.Pos, len(expr.Arguments), math.MaxUint8)
		}
		if err := c.compileExpression(expr.Function); err != nil {
			return err
		}
		if err := c.compileExpressions(expr.Arguments); err != nil {
			return err
		}
		c.emit(bytecode.OpCall, len(expr.Arguments))
		return nil

	case nil:
		return c.emitUnsupported("empty node")
	default:
		return c.emitUnsupported(expr.Describe())
	}
}

func (c *Compiler) compileExpressions(exprs []ast.Expression) error {
	for _, e := range exprs {
		if err := c.compileExpression(e); err != nil {
			return err
		}
	}
	return nil
}
