package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/simian/ast"
)

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

// SyntaxError is a lexical or parse error at a source position.
type SyntaxError struct {
	Pos ast.Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// ErrorList is the set of syntax errors found in one parse.
type ErrorList []*SyntaxError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d syntax errors:\n  %s", len(l), strings.Join(msgs, "\n  "))
}

// ---------------------------------------------------------------------------
// Operator precedence
// ---------------------------------------------------------------------------

const (
	precLowest      = iota
	precEquals      // == !=
	precLessGreater // < > <= >=
	precSum         // + -
	precProduct     // * / %
	precPower       // ^ (right associative)
	precPrefix      // -x !x
	precCall        // f(x) a[i]
)

var precedences = map[TokenType]int{
	TokenEqual:        precEquals,
	TokenNotEqual:     precEquals,
	TokenLess:         precLessGreater,
	TokenGreater:      precLessGreater,
	TokenLessEqual:    precLessGreater,
	TokenGreaterEqual: precLessGreater,
	TokenPlus:         precSum,
	TokenMinus:        precSum,
	TokenAsterisk:     precProduct,
	TokenSlash:        precProduct,
	TokenPercent:      precProduct,
	TokenCaret:        precPower,
	TokenLParen:       precCall,
	TokenLBracket:     precCall,
}

var infixOperators = map[TokenType]ast.Operator{
	TokenPlus:         ast.Add,
	TokenMinus:        ast.Sub,
	TokenAsterisk:     ast.Mul,
	TokenSlash:        ast.Div,
	TokenPercent:      ast.Mod,
	TokenCaret:        ast.Pow,
	TokenEqual:        ast.Eq,
	TokenNotEqual:     ast.NotEq,
	TokenLess:         ast.Lt,
	TokenLessEqual:    ast.LtEq,
	TokenGreater:      ast.Gt,
	TokenGreaterEqual: ast.GtEq,
}

// ---------------------------------------------------------------------------
// Parser: Pratt parser producing an ast.Program
// ---------------------------------------------------------------------------

// Parser parses source text into an AST. Every parse method leaves
// curToken on the last token of the construct it parsed.
type Parser struct {
	lexer     *Lexer
	curToken  Token
	peekToken Token
	errors    ErrorList
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	// Read two tokens to fill curToken and peekToken
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses input and returns the program, or an ErrorList if any
// syntax error was found.
func Parse(input string) (*ast.Program, error) {
	p := NewParser(input)
	prog := p.ParseProgram()
	if len(p.errors) > 0 {
		return nil, p.errors
	}
	return prog, nil
}

// nextToken advances to the next token. Lexical errors are recorded and
// skipped.
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
	for p.peekToken.Type == TokenError {
		p.errors = append(p.errors, &SyntaxError{Pos: p.peekToken.Pos, Msg: p.peekToken.Literal})
		p.peekToken = p.lexer.NextToken()
	}
}

func (p *Parser) curTokenIs(t TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t TokenType) bool { return p.peekToken.Type == t }

// expectPeek advances if the peek token matches, otherwise records an error.
func (p *Parser) expectPeek(t TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(p.peekToken.Pos, "expected '%s', got %s", t, describeToken(p.peekToken))
	return false
}

// errorf records a parse error.
func (p *Parser) errorf(pos ast.Position, format string, args ...interface{}) {
	p.errors = append(p.errors, &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// Errors returns accumulated syntax errors in the order found.
func (p *Parser) Errors() ErrorList {
	return p.errors
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return precLowest
}

func describeToken(t Token) string {
	switch t.Type {
	case TokenEOF:
		return "end of input"
	case TokenIdentifier:
		return "identifier " + t.Literal
	case TokenInteger:
		return "integer " + t.Literal
	case TokenString:
		return "string " + strconv.Quote(t.Literal)
	}
	return "'" + t.Type.String() + "'"
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// ParseProgram parses the whole input. After an error it resynchronizes at
// the next semicolon and keeps going, so Errors can report several
// problems at once.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.curTokenIs(TokenEOF) {
		if p.curTokenIs(TokenSemicolon) {
			p.nextToken()
			continue
		}
		if stmt := p.parseStatement(); stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}
	return prog
}

// synchronize skips to the next statement boundary.
func (p *Parser) synchronize() {
	for !p.curTokenIs(TokenSemicolon) && !p.curTokenIs(TokenEOF) {
		p.nextToken()
	}
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case TokenLet:
		return p.parseLetStatement()
	case TokenReturn:
		return p.parseReturnStatement()
	case TokenLBrace:
		block := p.parseBlockStatement()
		if block == nil {
			return nil
		}
		p.skipSemicolon()
		return block
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) skipSemicolon() {
	if p.peekTokenIs(TokenSemicolon) {
		p.nextToken()
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Pos: p.curToken.Pos}
	if !p.expectPeek(TokenIdentifier) {
		return nil
	}
	stmt.Name = &ast.Identifier{Pos: p.curToken.Pos, Name: p.curToken.Literal}
	if !p.expectPeek(TokenAssign) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(precLowest)
	if stmt.Value == nil {
		return nil
	}
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Pos: p.curToken.Pos}
	if p.peekTokenIs(TokenSemicolon) || p.peekTokenIs(TokenRBrace) || p.peekTokenIs(TokenEOF) {
		p.skipSemicolon()
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(precLowest)
	if stmt.Value == nil {
		return nil
	}
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	pos := p.curToken.Pos
	expr := p.parseExpression(precLowest)
	if expr == nil {
		return nil
	}
	p.skipSemicolon()
	return &ast.ExpressionStatement{Pos: pos, Expression: expr}
}

// parseBlockStatement parses { stmt; ... }. curToken must be the opening
// brace.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Pos: p.curToken.Pos}
	p.nextToken()
	for !p.curTokenIs(TokenRBrace) {
		switch {
		case p.curTokenIs(TokenEOF):
			p.errorf(p.curToken.Pos, "expected '}', got end of input")
			return nil
		case p.curTokenIs(TokenSemicolon):
			// empty statement
		default:
			stmt := p.parseStatement()
			if stmt == nil {
				return nil
			}
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

func (p *Parser) parseExpression(prec int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for !p.peekTokenIs(TokenSemicolon) && prec < p.peekPrecedence() {
		p.nextToken()
		left = p.parseInfix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	tok := p.curToken
	switch tok.Type {
	case TokenIdentifier:
		return &ast.Identifier{Pos: tok.Pos, Name: tok.Literal}
	case TokenInteger:
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.errorf(tok.Pos, "integer literal out of range: %s", tok.Literal)
			return nil
		}
		return &ast.IntegerLiteral{Pos: tok.Pos, Value: v}
	case TokenString:
		return &ast.StringLiteral{Pos: tok.Pos, Value: tok.Literal}
	case TokenTrue, TokenFalse:
		return &ast.BooleanLiteral{Pos: tok.Pos, Value: tok.Type == TokenTrue}
	case TokenNil:
		return &ast.NilLiteral{Pos: tok.Pos}
	case TokenBang, TokenMinus:
		op := ast.Not
		if tok.Type == TokenMinus {
			op = ast.Neg
		}
		p.nextToken()
		right := p.parseExpression(precPrefix)
		if right == nil {
			return nil
		}
		return &ast.PrefixExpression{Pos: tok.Pos, Operator: op, Right: right}
	case TokenLParen:
		p.nextToken()
		expr := p.parseExpression(precLowest)
		if expr == nil || !p.expectPeek(TokenRParen) {
			return nil
		}
		return expr
	case TokenLBracket:
		elems, ok := p.parseExpressionList(TokenRBracket)
		if !ok {
			return nil
		}
		return &ast.ArrayLiteral{Pos: tok.Pos, Elements: elems}
	case TokenLBrace, TokenHashLBrace:
		return p.parseHashLiteral()
	case TokenIf:
		return p.parseIfExpression()
	case TokenFn:
		return p.parseFunctionLiteral()
	}
	p.errorf(tok.Pos, "unexpected %s", describeToken(tok))
	return nil
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	tok := p.curToken
	switch tok.Type {
	case TokenLParen:
		args, ok := p.parseExpressionList(TokenRParen)
		if !ok {
			return nil
		}
		return &ast.CallExpression{Pos: tok.Pos, Function: left, Arguments: args}
	case TokenLBracket:
		p.nextToken()
		idx := p.parseExpression(precLowest)
		if idx == nil || !p.expectPeek(TokenRBracket) {
			return nil
		}
		return &ast.IndexExpression{Pos: tok.Pos, Left: left, Index: idx}
	}

	op, ok := infixOperators[tok.Type]
	if !ok {
		p.errorf(tok.Pos, "unexpected %s", describeToken(tok))
		return nil
	}
	prec := precedences[tok.Type]
	if op == ast.Pow {
		prec-- // right associative
	}
	p.nextToken()
	right := p.parseExpression(prec)
	if right == nil {
		return nil
	}
	return &ast.InfixExpression{Pos: tok.Pos, Left: left, Operator: op, Right: right}
}

// parseExpressionList parses a comma-separated list ending in end, allowing
// a trailing comma. curToken must be the opening delimiter.
func (p *Parser) parseExpressionList(end TokenType) ([]ast.Expression, bool) {
	list := []ast.Expression{}
	for !p.peekTokenIs(end) {
		p.nextToken()
		expr := p.parseExpression(precLowest)
		if expr == nil {
			return nil, false
		}
		list = append(list, expr)
		if p.peekTokenIs(end) {
			break
		}
		if !p.expectPeek(TokenComma) {
			return nil, false
		}
	}
	p.nextToken()
	return list, true
}

// parseHashLiteral parses {k: v, ...} or #{k: v, ...}.
func (p *Parser) parseHashLiteral() ast.Expression {
	hash := &ast.HashLiteral{Pos: p.curToken.Pos}
	for !p.peekTokenIs(TokenRBrace) {
		p.nextToken()
		key := p.parseExpression(precLowest)
		if key == nil || !p.expectPeek(TokenColon) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(precLowest)
		if value == nil {
			return nil
		}
		hash.Pairs = append(hash.Pairs, ast.HashPair{Key: key, Value: value})
		if p.peekTokenIs(TokenRBrace) {
			break
		}
		if !p.expectPeek(TokenComma) {
			return nil
		}
	}
	p.nextToken()
	return hash
}

func (p *Parser) parseIfExpression() ast.Expression {
	expr := &ast.IfExpression{Pos: p.curToken.Pos}
	p.nextToken()
	expr.Condition = p.parseExpression(precLowest)
	if expr.Condition == nil || !p.expectPeek(TokenLBrace) {
		return nil
	}
	if expr.Consequence = p.parseBlockStatement(); expr.Consequence == nil {
		return nil
	}
	if p.peekTokenIs(TokenElse) {
		p.nextToken()
		if !p.expectPeek(TokenLBrace) {
			return nil
		}
		if expr.Alternative = p.parseBlockStatement(); expr.Alternative == nil {
			return nil
		}
	}
	return expr
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	fn := &ast.FunctionLiteral{Pos: p.curToken.Pos}
	if !p.expectPeek(TokenLParen) {
		return nil
	}
	for !p.peekTokenIs(TokenRParen) {
		if !p.expectPeek(TokenIdentifier) {
			return nil
		}
		fn.Parameters = append(fn.Parameters, &ast.Identifier{Pos: p.curToken.Pos, Name: p.curToken.Literal})
		if p.peekTokenIs(TokenRParen) {
			break
		}
		if !p.expectPeek(TokenComma) {
			return nil
		}
	}
	p.nextToken()
	if !p.expectPeek(TokenLBrace) {
		return nil
	}
	if fn.Body = p.parseBlockStatement(); fn.Body == nil {
		return nil
	}
	return fn
}
