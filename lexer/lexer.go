// Package lexer splits small configuration expressions into tokens.
//
// The token set covers punctuation, the four arithmetic operators, decimal
// numbers and identifiers. Whitespace, line terminators, commas and '#' are
// skipped. Positions are 1-based; a tab advances the column by five.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind identifies the lexical class of a token.
type Kind int

// Token kinds.
const (
	EOF Kind = iota
	QUOTE
	SEMICOLON
	EXCLAMATION
	DOLLAR
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	PERIOD
	COLON
	EQUALS
	AT
	PIPE
	POSITIVE
	NEGATIVE
	MUL
	DIV
	NUMBER
	ID
)

var kindNames = [...]string{
	EOF:         "EOF",
	QUOTE:       "QUOTE",
	SEMICOLON:   "SEMICOLON",
	EXCLAMATION: "EXCLAMATION",
	DOLLAR:      "DOLLAR",
	LPAREN:      "LPAREN",
	RPAREN:      "RPAREN",
	LBRACE:      "LBRACE",
	RBRACE:      "RBRACE",
	LBRACKET:    "LBRACKET",
	RBRACKET:    "RBRACKET",
	PERIOD:      "PERIOD",
	COLON:       "COLON",
	EQUALS:      "EQUALS",
	AT:          "AT",
	PIPE:        "PIPE",
	POSITIVE:    "POSITIVE",
	NEGATIVE:    "NEGATIVE",
	MUL:         "MUL",
	DIV:         "DIV",
	NUMBER:      "NUMBER",
	ID:          "ID",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// EOFText is the text of the token returned at end of input.
const EOFText = "<EOF>"

// Token is a lexeme with its kind. Tokens are comparable; two tokens are equal
// when both kind and text are.
type Token struct {
	Kind Kind
	Text string
}

func (t Token) String() string {
	return t.Text + ", " + t.Kind.String()
}

var punctuation = map[rune]Kind{
	'\'': QUOTE,
	'"':  QUOTE,
	';':  SEMICOLON,
	'!':  EXCLAMATION,
	'$':  DOLLAR,
	'(':  LPAREN,
	')':  RPAREN,
	'{':  LBRACE,
	'}':  RBRACE,
	'[':  LBRACKET,
	']':  RBRACKET,
	'.':  PERIOD,
	':':  COLON,
	'=':  EQUALS,
	'@':  AT,
	'|':  PIPE,
	'+':  POSITIVE,
	'-':  NEGATIVE,
	'*':  MUL,
	'/':  DIV,
}

// SyntaxError reports a character that starts no token.
type SyntaxError struct {
	Char   rune
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid character %c at [%d:%d]", e.Char, e.Line, e.Column)
}

// Lexer produces tokens from an input string on demand.
type Lexer struct {
	input  string
	pos    int
	line   int
	column int
}

// New returns a lexer positioned at the start of input.
func New(input string) *Lexer {
	return &Lexer{input: input, line: 1, column: 1}
}

// Line returns the current 1-based line.
func (l *Lexer) Line() int { return l.line }

// Column returns the current 1-based column.
func (l *Lexer) Column() int { return l.column }

// Next returns the next token. At end of input it returns an EOF token with
// text EOFText, and keeps doing so on later calls.
func (l *Lexer) Next() (Token, error) {
	for l.pos < len(l.input) {
		r, _ := utf8.DecodeRuneInString(l.input[l.pos:])

		switch r {
		case ' ', '\t', '\n', '\r', ',', '#':
			l.advance()
			continue
		}

		if kind, ok := punctuation[r]; ok {
			l.advance()
			return Token{Kind: kind, Text: string(r)}, nil
		}

		switch {
		case unicode.IsDigit(r):
			return Token{Kind: NUMBER, Text: l.run(unicode.IsDigit)}, nil
		case unicode.IsLetter(r):
			return Token{Kind: ID, Text: l.run(unicode.IsLetter)}, nil
		}
		return Token{}, &SyntaxError{Char: r, Line: l.line, Column: l.column}
	}
	return Token{Kind: EOF, Text: EOFText}, nil
}

// All tokenizes the rest of the input, including the final EOF token.
func (l *Lexer) All() ([]Token, error) {
	var out []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return out, err
		}
		out = append(out, tok)
		if tok.Kind == EOF {
			return out, nil
		}
	}
}

func (l *Lexer) run(in func(rune) bool) string {
	start := l.pos
	for l.pos < len(l.input) {
		r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
		if !in(r) {
			break
		}
		l.advance()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) advance() {
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	switch r {
	case '\n':
		l.line++
	case '\r':
		// "\r\n" counts once, on the '\n'.
		if !strings.HasPrefix(l.input[l.pos+size:], "\n") {
			l.line++
		}
	case '\t':
		l.column += 4
	}
	l.column++
	l.pos += size
}
