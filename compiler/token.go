package compiler

import (
	"fmt"

	"github.com/chazu/simian/ast"
)

// ---------------------------------------------------------------------------
// Token types
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenIdentifier // foo, push
	TokenInteger    // 42
	TokenString     // "hello"

	// Operators
	TokenAssign       // =
	TokenBang         // !
	TokenPlus         // +
	TokenMinus        // -
	TokenAsterisk     // *
	TokenSlash        // /
	TokenCaret        // ^
	TokenPercent      // %
	TokenLess         // <
	TokenGreater      // >
	TokenEqual        // ==
	TokenNotEqual     // !=
	TokenLessEqual    // <=
	TokenGreaterEqual // >=

	// Delimiters
	TokenComma      // ,
	TokenSemicolon  // ;
	TokenColon      // :
	TokenLParen     // (
	TokenRParen     // )
	TokenLBrace     // {
	TokenRBrace     // }
	TokenLBracket   // [
	TokenRBracket   // ]
	TokenHashLBrace // #{

	// Keywords
	TokenFn
	TokenLet
	TokenTrue
	TokenFalse
	TokenIf
	TokenElse
	TokenReturn
	TokenNil
)

var tokenNames = map[TokenType]string{
	TokenEOF:          "EOF",
	TokenError:        "ERROR",
	TokenIdentifier:   "IDENTIFIER",
	TokenInteger:      "INTEGER",
	TokenString:       "STRING",
	TokenAssign:       "=",
	TokenBang:         "!",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenAsterisk:     "*",
	TokenSlash:        "/",
	TokenCaret:        "^",
	TokenPercent:      "%",
	TokenLess:         "<",
	TokenGreater:      ">",
	TokenEqual:        "==",
	TokenNotEqual:     "!=",
	TokenLessEqual:    "<=",
	TokenGreaterEqual: ">=",
	TokenComma:        ",",
	TokenSemicolon:    ";",
	TokenColon:        ":",
	TokenLParen:       "(",
	TokenRParen:       ")",
	TokenLBrace:       "{",
	TokenRBrace:       "}",
	TokenLBracket:     "[",
	TokenRBracket:     "]",
	TokenHashLBrace:   "#{",
	TokenFn:           "fn",
	TokenLet:          "let",
	TokenTrue:         "true",
	TokenFalse:        "false",
	TokenIf:           "if",
	TokenElse:         "else",
	TokenReturn:       "return",
	TokenNil:          "nil",
}

// String returns a readable name for the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", t)
}

// keywords maps reserved words to their token types.
var keywords = map[string]TokenType{
	"fn":     TokenFn,
	"let":    TokenLet,
	"true":   TokenTrue,
	"false":  TokenFalse,
	"if":     TokenIf,
	"else":   TokenElse,
	"return": TokenReturn,
	"nil":    TokenNil,
}

// Keywords returns the reserved words of the language, for completion.
func Keywords() []string {
	return []string{"else", "false", "fn", "if", "let", "nil", "return", "true"}
}

// LookupIdent returns the keyword token for ident, or TokenIdentifier.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdentifier
}

// Token is a lexical token. For TokenError, Literal holds the message.
type Token struct {
	Type    TokenType
	Literal string
	Pos     ast.Position
}

// String returns a debug representation of the token.
func (t Token) String() string {
	if t.Type == TokenError {
		return fmt.Sprintf("ERROR(%s) at %s", t.Literal, t.Pos)
	}
	return fmt.Sprintf("%s(%q) at %s", t.Type, t.Literal, t.Pos)
}
