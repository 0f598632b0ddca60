// Package evaluator executes a parsed program by walking its syntax tree.
//
// Evaluation is fail-fast: the first error anywhere in a subtree aborts the
// enclosing top-level evaluation and is returned unchanged.
package evaluator

import (
	"io"
	"os"

	"github.com/chazu/simian/ast"
	"github.com/chazu/simian/builtin"
	"github.com/chazu/simian/object"
)

// Evaluator walks AST nodes. An Evaluator is not safe for concurrent use;
// give each session its own.
type Evaluator struct {
	out io.Writer
}

// New creates an evaluator whose puts output goes to out. A nil out means
// os.Stdout.
func New(out io.Writer) *Evaluator {
	if out == nil {
		out = os.Stdout
	}
	return &Evaluator{out: out}
}

// EvalProgram evaluates every top-level statement and returns the value of
// the last one, or nil for an empty program.
func (e *Evaluator) EvalProgram(prog *ast.Program) (object.Object, error) {
	return e.evalStatements(prog.Statements)
}

// Eval evaluates a single node.
func (e *Evaluator) Eval(node ast.Node) (object.Object, error) {
	switch node := node.(type) {
	// Statements
	case *ast.Program:
		return e.EvalProgram(node)
	case *ast.ExpressionStatement:
		return e.Eval(node.Expression)
	case *ast.BlockStatement:
		return e.evalStatements(node.Statements)

	// Literals
	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}, nil
	case *ast.BooleanLiteral:
		return object.NativeBool(node.Value), nil
	case *ast.StringLiteral:
		return &object.String{Value: node.Value}, nil
	case *ast.NilLiteral:
		return object.NIL, nil
	case *ast.ArrayLiteral:
		elems, err := e.evalExpressions(node.Elements)
		if err != nil {
			return nil, err
		}
		return &object.Array{Elements: elems}, nil
	case *ast.HashLiteral:
		return e.evalHashLiteral(node)

	// Expressions
	case *ast.Identifier:
		return evalIdentifier(node)
	case *ast.PrefixExpression:
		right, err := e.Eval(node.Right)
		if err != nil {
			return nil, err
		}
		return object.EvalPrefix(node.Operator, right)
	case *ast.InfixExpression:
		left, err := e.Eval(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.Eval(node.Right)
		if err != nil {
			return nil, err
		}
		return object.EvalInfix(node.Operator, left, right)
	case *ast.CallExpression:
		return e.evalCall(node)

	case nil:
		return nil, object.Errorf(object.ErrUnsupported, "unsupported construct: empty node")
	default:
		return nil, object.Errorf(object.ErrUnsupported, "unsupported construct: %s", node.Describe())
	}
}

// evalStatements returns the value of the last statement, discarding the
// others.
func (e *Evaluator) evalStatements(stmts []ast.Statement) (object.Object, error) {
	var result object.Object = object.NIL
	for _, s := range stmts {
		v, err := e.Eval(s)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (e *Evaluator) evalExpressions(exprs []ast.Expression) ([]object.Object, error) {
	result := make([]object.Object, 0, len(exprs))
	for _, x := range exprs {
		v, err := e.Eval(x)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

// evalHashLiteral evaluates every key and value in source order before
// projecting keys, matching the order of effects in compiled code.
func (e *Evaluator) evalHashLiteral(node *ast.HashLiteral) (object.Object, error) {
	evaluated := make([]object.Object, 0, 2*len(node.Pairs))
	for _, p := range node.Pairs {
		k, err := e.Eval(p.Key)
		if err != nil {
			return nil, err
		}
		v, err := e.Eval(p.Value)
		if err != nil {
			return nil, err
		}
		evaluated = append(evaluated, k, v)
	}
	h, err := object.BuildHash(evaluated)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (e *Evaluator) evalCall(node *ast.CallExpression) (object.Object, error) {
	callee, err := e.Eval(node.Function)
	if err != nil {
		return nil, err
	}
	args, err := e.evalExpressions(node.Arguments)
	if err != nil {
		return nil, err
	}
	return object.Call(e.out, callee, args)
}

func evalIdentifier(node *ast.Identifier) (object.Object, error) {
	if b, ok := builtin.Lookup(node.Name); ok {
		return b, nil
	}
	return nil, object.Errorf(object.ErrIdentifierNotFound, "identifier not found: %s", node.Name)
}
