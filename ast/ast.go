// Package ast defines the syntax tree consumed by the evaluator and the
// bytecode compiler.
//
// The node set is closed: every node implements the unexported marker
// methods below, so only this package can add node kinds. Engines switch
// exhaustively over the concrete types and reject anything they do not
// implement with an "unsupported construct" failure.
package ast

import (
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Node interfaces
// ---------------------------------------------------------------------------

// Position represents a source location.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	// String renders the node back to source-like text.
	String() string
	// Describe names the node kind, e.g. "let statement".
	Describe() string
	node() // marker method
}

// Statement is the interface for statement nodes.
type Statement interface {
	Node
	stmt() // marker method
}

// Expression is the interface for expression nodes.
type Expression interface {
	Node
	expr() // marker method
}

// Program is the root node: an ordered sequence of top-level statements.
type Program struct {
	Statements []Statement
}

func (p *Program) Describe() string { return "program" }
func (p *Program) node()            {}

func (p *Program) String() string {
	parts := make([]string, len(p.Statements))
	for i, s := range p.Statements {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// ExpressionStatement wraps an expression used as a statement.
type ExpressionStatement struct {
	Pos        Position
	Expression Expression
}

func (n *ExpressionStatement) String() string   { return n.Expression.String() + ";" }
func (n *ExpressionStatement) Describe() string { return "expression statement" }
func (n *ExpressionStatement) node()            {}
func (n *ExpressionStatement) stmt()            {}

// BlockStatement is a braced sequence of statements.
type BlockStatement struct {
	Pos        Position
	Statements []Statement
}

func (n *BlockStatement) Describe() string { return "block" }
func (n *BlockStatement) node()            {}
func (n *BlockStatement) stmt()            {}

func (n *BlockStatement) String() string {
	parts := make([]string, len(n.Statements))
	for i, s := range n.Statements {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

// LetStatement binds a name: let x = expr;
type LetStatement struct {
	Pos   Position
	Name  *Identifier
	Value Expression
}

func (n *LetStatement) String() string {
	return "let " + n.Name.String() + " = " + exprString(n.Value) + ";"
}
func (n *LetStatement) Describe() string { return "let statement" }
func (n *LetStatement) node()            {}
func (n *LetStatement) stmt()            {}

// ReturnStatement is return expr;
type ReturnStatement struct {
	Pos   Position
	Value Expression
}

func (n *ReturnStatement) String() string   { return "return " + exprString(n.Value) + ";" }
func (n *ReturnStatement) Describe() string { return "return statement" }
func (n *ReturnStatement) node()            {}
func (n *ReturnStatement) stmt()            {}

// ---------------------------------------------------------------------------
// Literals
// ---------------------------------------------------------------------------

// IntegerLiteral represents an integer literal.
type IntegerLiteral struct {
	Pos   Position
	Value int64
}

func (n *IntegerLiteral) String() string   { return strconv.FormatInt(n.Value, 10) }
func (n *IntegerLiteral) Describe() string { return "integer literal" }
func (n *IntegerLiteral) node()            {}
func (n *IntegerLiteral) expr()            {}

// BooleanLiteral represents true or false.
type BooleanLiteral struct {
	Pos   Position
	Value bool
}

func (n *BooleanLiteral) String() string   { return strconv.FormatBool(n.Value) }
func (n *BooleanLiteral) Describe() string { return "boolean literal" }
func (n *BooleanLiteral) node()            {}
func (n *BooleanLiteral) expr()            {}

// StringLiteral represents a double-quoted string literal.
type StringLiteral struct {
	Pos   Position
	Value string
}

func (n *StringLiteral) String() string   { return strconv.Quote(n.Value) }
func (n *StringLiteral) Describe() string { return "string literal" }
func (n *StringLiteral) node()            {}
func (n *StringLiteral) expr()            {}

// NilLiteral represents nil.
type NilLiteral struct {
	Pos Position
}

func (n *NilLiteral) String() string   { return "nil" }
func (n *NilLiteral) Describe() string { return "nil literal" }
func (n *NilLiteral) node()            {}
func (n *NilLiteral) expr()            {}

// ArrayLiteral represents [a, b, c].
type ArrayLiteral struct {
	Pos      Position
	Elements []Expression
}

func (n *ArrayLiteral) String() string   { return "[" + joinExprs(n.Elements) + "]" }
func (n *ArrayLiteral) Describe() string { return "array literal" }
func (n *ArrayLiteral) node()            {}
func (n *ArrayLiteral) expr()            {}

// HashPair is one key: value entry of a hash literal.
type HashPair struct {
	Key   Expression
	Value Expression
}

// HashLiteral represents {k: v, ...}. Pairs keep source order.
type HashLiteral struct {
	Pos   Position
	Pairs []HashPair
}

func (n *HashLiteral) Describe() string { return "hash literal" }
func (n *HashLiteral) node()            {}
func (n *HashLiteral) expr()            {}

func (n *HashLiteral) String() string {
	parts := make([]string, len(n.Pairs))
	for i, p := range n.Pairs {
		parts[i] = p.Key.String() + ": " + p.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FunctionLiteral represents fn(a, b) { ... }.
type FunctionLiteral struct {
	Pos        Position
	Parameters []*Identifier
	Body       *BlockStatement
}

func (n *FunctionLiteral) Describe() string { return "function literal" }
func (n *FunctionLiteral) node()            {}
func (n *FunctionLiteral) expr()            {}

func (n *FunctionLiteral) String() string {
	params := make([]string, len(n.Parameters))
	for i, p := range n.Parameters {
		params[i] = p.String()
	}
	return "fn(" + strings.Join(params, ", ") + ") " + n.Body.String()
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// Identifier represents a name reference.
type Identifier struct {
	Pos  Position
	Name string
}

func (n *Identifier) String() string   { return n.Name }
func (n *Identifier) Describe() string { return "identifier" }
func (n *Identifier) node()            {}
func (n *Identifier) expr()            {}

// PrefixExpression represents -x or !x.
type PrefixExpression struct {
	Pos      Position
	Operator Operator
	Right    Expression
}

func (n *PrefixExpression) String() string {
	return "(" + n.Operator.String() + n.Right.String() + ")"
}
func (n *PrefixExpression) Describe() string { return "prefix expression" }
func (n *PrefixExpression) node()            {}
func (n *PrefixExpression) expr()            {}

// InfixExpression represents l op r.
type InfixExpression struct {
	Pos      Position
	Left     Expression
	Operator Operator
	Right    Expression
}

func (n *InfixExpression) String() string {
	return "(" + n.Left.String() + " " + n.Operator.String() + " " + n.Right.String() + ")"
}
func (n *InfixExpression) Describe() string { return "infix expression" }
func (n *InfixExpression) node()            {}
func (n *InfixExpression) expr()            {}

// CallExpression represents f(a, b).
type CallExpression struct {
	Pos       Position
	Function  Expression
	Arguments []Expression
}

func (n *CallExpression) String() string {
	return n.Function.String() + "(" + joinExprs(n.Arguments) + ")"
}
func (n *CallExpression) Describe() string { return "call expression" }
func (n *CallExpression) node()            {}
func (n *CallExpression) expr()            {}

// IndexExpression represents a[i].
type IndexExpression struct {
	Pos   Position
	Left  Expression
	Index Expression
}

func (n *IndexExpression) String() string {
	return "(" + n.Left.String() + "[" + n.Index.String() + "])"
}
func (n *IndexExpression) Describe() string { return "index expression" }
func (n *IndexExpression) node()            {}
func (n *IndexExpression) expr()            {}

// IfExpression represents if (cond) { ... } else { ... }.
type IfExpression struct {
	Pos         Position
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement // nil when there is no else branch
}

func (n *IfExpression) Describe() string { return "if expression" }
func (n *IfExpression) node()            {}
func (n *IfExpression) expr()            {}

func (n *IfExpression) String() string {
	s := "if " + n.Condition.String() + " " + n.Consequence.String()
	if n.Alternative != nil {
		s += " else " + n.Alternative.String()
	}
	return s
}

func joinExprs(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func exprString(e Expression) string {
	if e == nil {
		return ""
	}
	return e.String()
}
