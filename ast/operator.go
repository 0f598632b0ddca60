package ast

import "fmt"

// Operator is the closed set of prefix and infix operators. It is
// independent of how the lexer spells a token.
type Operator int

const (
	// Arithmetic
	Add Operator = iota
	Sub
	Mul
	Div
	Mod
	Pow

	// Comparison
	Eq
	NotEq
	Lt
	LtEq
	Gt
	GtEq

	// Prefix
	Neg
	Not
)

var operatorSymbols = map[Operator]string{
	Add:   "+",
	Sub:   "-",
	Mul:   "*",
	Div:   "/",
	Mod:   "%",
	Pow:   "^",
	Eq:    "==",
	NotEq: "!=",
	Lt:    "<",
	LtEq:  "<=",
	Gt:    ">",
	GtEq:  ">=",
	Neg:   "-",
	Not:   "!",
}

func (op Operator) String() string {
	if s, ok := operatorSymbols[op]; ok {
		return s
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}
