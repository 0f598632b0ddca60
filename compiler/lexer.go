package compiler

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/chazu/simian/ast"
)

// ---------------------------------------------------------------------------
// Lexer
// ---------------------------------------------------------------------------

// Lexer tokenizes source text. Errors are reported in-band as TokenError
// tokens; the lexer always makes progress, so callers can keep reading
// after an error.
type Lexer struct {
	input   string
	pos     int  // offset of ch
	readPos int  // offset after ch
	ch      rune // current character, 0 at EOF
	line    int  // line of ch (1-based)
	col     int  // column of ch (1-based, in runes)
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = len(l.input)
		l.col++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
	l.col++
}

// peekChar returns the next character without consuming it.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) position() ast.Position {
	return ast.Position{Line: l.line, Column: l.col}
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// NextToken returns the next token. At end of input it keeps returning
// TokenEOF.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	pos := l.position()
	if l.atEOF() {
		return Token{Type: TokenEOF, Pos: pos}
	}

	// Two-character operators
	two := func(t TokenType, lit string) Token {
		l.readChar()
		l.readChar()
		return Token{Type: t, Literal: lit, Pos: pos}
	}
	switch {
	case l.ch == '=' && l.peekChar() == '=':
		return two(TokenEqual, "==")
	case l.ch == '!' && l.peekChar() == '=':
		return two(TokenNotEqual, "!=")
	case l.ch == '<' && l.peekChar() == '=':
		return two(TokenLessEqual, "<=")
	case l.ch == '>' && l.peekChar() == '=':
		return two(TokenGreaterEqual, ">=")
	case l.ch == '#' && l.peekChar() == '{':
		return two(TokenHashLBrace, "#{")
	}

	if t, ok := singleCharTokens[l.ch]; ok {
		lit := string(l.ch)
		l.readChar()
		return Token{Type: t, Literal: lit, Pos: pos}
	}

	switch {
	case l.ch == '"':
		return l.readString(pos)
	case isDigit(l.ch):
		return l.readNumber(pos)
	case isLetter(l.ch):
		return l.readIdentifier(pos)
	}

	ch := l.ch
	l.readChar()
	return Token{Type: TokenError, Literal: fmt.Sprintf("unexpected character: %c", ch), Pos: pos}
}

var singleCharTokens = map[rune]TokenType{
	'=': TokenAssign,
	'!': TokenBang,
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenAsterisk,
	'/': TokenSlash,
	'^': TokenCaret,
	'%': TokenPercent,
	'<': TokenLess,
	'>': TokenGreater,
	',': TokenComma,
	';': TokenSemicolon,
	':': TokenColon,
	'(': TokenLParen,
	')': TokenRParen,
	'{': TokenLBrace,
	'}': TokenRBrace,
	'[': TokenLBracket,
	']': TokenRBracket,
}

// skipWhitespaceAndComments skips whitespace and // line comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for !l.atEOF() && unicode.IsSpace(l.ch) {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
			continue
		}
		return
	}
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier(pos ast.Position) Token {
	start := l.pos
	for !l.atEOF() && (isLetter(l.ch) || isDigit(l.ch)) {
		l.readChar()
	}
	lit := l.input[start:l.pos]
	return Token{Type: LookupIdent(lit), Literal: lit, Pos: pos}
}

// readNumber reads a decimal integer literal. Range checking happens in
// the parser so that the error carries the literal.
func (l *Lexer) readNumber(pos ast.Position) Token {
	start := l.pos
	for !l.atEOF() && isDigit(l.ch) {
		l.readChar()
	}
	return Token{Type: TokenInteger, Literal: l.input[start:l.pos], Pos: pos}
}

// readString reads a double-quoted string, decoding escapes.
func (l *Lexer) readString(pos ast.Position) Token {
	l.readChar() // consume opening "

	var sb strings.Builder
	for {
		if l.atEOF() {
			return Token{Type: TokenError, Literal: "unterminated string", Pos: pos}
		}
		switch l.ch {
		case '"':
			l.readChar()
			return Token{Type: TokenString, Literal: sb.String(), Pos: pos}
		case '\\':
			escPos := l.position()
			l.readChar()
			if l.atEOF() {
				return Token{Type: TokenError, Literal: "unterminated string", Pos: pos}
			}
			r, ok := escapes[l.ch]
			if !ok {
				bad := l.ch
				l.skipToStringEnd()
				return Token{Type: TokenError, Literal: fmt.Sprintf("unknown escape sequence: \\%c", bad), Pos: escPos}
			}
			sb.WriteRune(r)
			l.readChar()
		default:
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
}

// skipToStringEnd consumes the rest of a malformed string so lexing can
// resume after it.
func (l *Lexer) skipToStringEnd() {
	for !l.atEOF() && l.ch != '"' {
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	if l.ch == '"' {
		l.readChar()
	}
}

var escapes = map[rune]rune{
	'\\': '\\',
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'"':  '"',
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize lexes all of input. It returns the tokens up to and including
// EOF, and the first lexical error if there was one.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	var firstErr error
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenError && firstErr == nil {
			firstErr = &SyntaxError{Pos: tok.Pos, Msg: tok.Literal}
		}
		if tok.Type == TokenEOF {
			return tokens, firstErr
		}
	}
}
