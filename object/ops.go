package object

import (
	"io"

	"github.com/chazu/simian/ast"
)

// EvalPrefix applies a prefix operator. Both engines call this, so prefix
// semantics cannot drift between them.
func EvalPrefix(op ast.Operator, right Object) (Object, error) {
	switch op {
	case ast.Not:
		return NativeBool(!IsTruthy(right)), nil
	case ast.Neg:
		i, ok := right.(*Integer)
		if !ok {
			return nil, Errorf(ErrType, "unsupported operand type for prefix operator %s: '%s'", op, right.Type())
		}
		return &Integer{Value: -i.Value}, nil
	}
	return nil, Errorf(ErrOperator, "unknown prefix operator: %s", op)
}

// EvalInfix applies an infix operator to operands that have already been
// evaluated left first.
func EvalInfix(op ast.Operator, left, right Object) (Object, error) {
	switch l := left.(type) {
	case *Integer:
		if r, ok := right.(*Integer); ok {
			return evalIntegerInfix(op, l.Value, r.Value, left, right)
		}
	case *Boolean:
		if r, ok := right.(*Boolean); ok {
			switch op {
			case ast.Eq:
				return NativeBool(l.Value == r.Value), nil
			case ast.NotEq:
				return NativeBool(l.Value != r.Value), nil
			}
		}
	}
	return nil, operandTypesError(op, left, right)
}

func evalIntegerInfix(op ast.Operator, l, r int64, left, right Object) (Object, error) {
	switch op {
	case ast.Add:
		return &Integer{Value: l + r}, nil
	case ast.Sub:
		return &Integer{Value: l - r}, nil
	case ast.Mul:
		return &Integer{Value: l * r}, nil
	case ast.Div:
		if r == 0 {
			return nil, Errorf(ErrDivisionByZero, "division by zero")
		}
		// Go defines MinInt64 / -1 as MinInt64, which matches wrapping.
		return &Integer{Value: l / r}, nil
	case ast.Eq:
		return NativeBool(l == r), nil
	case ast.NotEq:
		return NativeBool(l != r), nil
	case ast.Lt:
		return NativeBool(l < r), nil
	case ast.LtEq:
		return NativeBool(l <= r), nil
	case ast.Gt:
		return NativeBool(l > r), nil
	case ast.GtEq:
		return NativeBool(l >= r), nil
	}
	return nil, operandTypesError(op, left, right)
}

func operandTypesError(op ast.Operator, left, right Object) error {
	return Errorf(ErrOperator, "unsupported operand types for operator %s: '%s' and '%s'",
		op, left.Type(), right.Type())
}

// Call invokes callee with already evaluated arguments. Only builtins are
// callable.
func Call(out io.Writer, callee Object, args []Object) (Object, error) {
	b, ok := callee.(*Builtin)
	if !ok {
		return nil, Errorf(ErrNotCallable, "not a function: %s", callee.Type())
	}
	return b.Fn(out, args)
}

// BuildHash builds a hash from alternating keys and values. Later duplicate
// keys replace earlier ones.
func BuildHash(kvs []Object) (*Hash, error) {
	h := NewHash(len(kvs) / 2)
	for i := 0; i+1 < len(kvs); i += 2 {
		key, err := HashKeyOf(kvs[i])
		if err != nil {
			return nil, err
		}
		h.Pairs[key] = HashPair{Key: kvs[i], Value: kvs[i+1]}
	}
	return h, nil
}
