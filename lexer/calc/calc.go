// Package calc parses and evaluates integer expressions such as "16 * 4" or
// "-(base + 2) / 3".
//
// Grammar:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | primary
//	primary = NUMBER | ID | "(" expr ")"
package calc

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/coregx/relattice/lexer"
)

var (
	// ErrDivisionByZero is returned by Eval when a divisor evaluates to zero.
	ErrDivisionByZero = errors.New("calc: division by zero")

	// ErrUndefined is wrapped by Eval errors for identifiers missing from the
	// environment.
	ErrUndefined = errors.New("calc: undefined identifier")
)

// Env binds identifiers to values.
type Env map[string]int64

// Node is an expression tree node.
type Node interface {
	Eval(env Env) (int64, error)
	String() string
}

// Number is an integer literal.
type Number struct {
	Token lexer.Token
	Value int64
}

func (n *Number) Eval(Env) (int64, error) { return n.Value, nil }
func (n *Number) String() string          { return n.Token.Text }

// Identifier is a name resolved against the environment.
type Identifier struct {
	Token lexer.Token
	Name  string
}

func (n *Identifier) Eval(env Env) (int64, error) {
	v, ok := env[n.Name]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUndefined, n.Name)
	}
	return v, nil
}

func (n *Identifier) String() string { return n.Name }

// UnaryOp is a sign applied to an operand.
type UnaryOp struct {
	Op      lexer.Token
	Operand Node
}

func (n *UnaryOp) Eval(env Env) (int64, error) {
	v, err := n.Operand.Eval(env)
	if err != nil {
		return 0, err
	}
	if n.Op.Kind == lexer.NEGATIVE {
		return -v, nil
	}
	return v, nil
}

func (n *UnaryOp) String() string { return "(" + n.Op.Text + n.Operand.String() + ")" }

// BinaryOp is an arithmetic operator applied to two operands.
type BinaryOp struct {
	Left  Node
	Op    lexer.Token
	Right Node
}

func (n *BinaryOp) Eval(env Env) (int64, error) {
	a, err := n.Left.Eval(env)
	if err != nil {
		return 0, err
	}
	b, err := n.Right.Eval(env)
	if err != nil {
		return 0, err
	}
	switch n.Op.Kind {
	case lexer.POSITIVE:
		return a + b, nil
	case lexer.NEGATIVE:
		return a - b, nil
	case lexer.MUL:
		return a * b, nil
	case lexer.DIV:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	}
	return 0, fmt.Errorf("calc: unknown operator %v", n.Op)
}

func (n *BinaryOp) String() string {
	return "(" + n.Left.String() + " " + n.Op.Text + " " + n.Right.String() + ")"
}

// ParseError reports an unexpected token.
type ParseError struct {
	Expected string
	Found    lexer.Token
	Line     int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("expecting %s found %v on line %d", e.Expected, e.Found, e.Line)
}

// Parser is a recursive-descent parser with one token of lookahead.
type Parser struct {
	lex       *lexer.Lexer
	lookahead lexer.Token
}

// NewParser primes a parser over lex.
func NewParser(lex *lexer.Lexer) (*Parser, error) {
	p := &Parser{lex: lex}
	if err := p.consume(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse parses one expression followed by end of input.
func Parse(input string) (Node, error) {
	p, err := NewParser(lexer.New(input))
	if err != nil {
		return nil, err
	}
	n, err := p.Expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.match(lexer.EOF); err != nil {
		return nil, err
	}
	return n, nil
}

// Eval parses input and evaluates it against env.
func Eval(input string, env Env) (int64, error) {
	n, err := Parse(input)
	if err != nil {
		return 0, err
	}
	return n.Eval(env)
}

// Expr parses an expression at the current token.
func (p *Parser) Expr() (Node, error) {
	n, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.lookahead.Kind == lexer.POSITIVE || p.lookahead.Kind == lexer.NEGATIVE {
		op := p.lookahead
		if err := p.consume(); err != nil {
			return nil, err
		}
		rhs, err := p.term()
		if err != nil {
			return nil, err
		}
		n = &BinaryOp{Left: n, Op: op, Right: rhs}
	}
	return n, nil
}

func (p *Parser) term() (Node, error) {
	n, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.lookahead.Kind == lexer.MUL || p.lookahead.Kind == lexer.DIV {
		op := p.lookahead
		if err := p.consume(); err != nil {
			return nil, err
		}
		rhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		n = &BinaryOp{Left: n, Op: op, Right: rhs}
	}
	return n, nil
}

func (p *Parser) unary() (Node, error) {
	if p.lookahead.Kind == lexer.POSITIVE || p.lookahead.Kind == lexer.NEGATIVE {
		op := p.lookahead
		if err := p.consume(); err != nil {
			return nil, err
		}
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: op, Operand: operand}, nil
	}
	return p.primary()
}

func (p *Parser) primary() (Node, error) {
	tok := p.lookahead
	switch tok.Kind {
	case lexer.NUMBER:
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("calc: number %s: %w", tok.Text, err)
		}
		return &Number{Token: tok, Value: v}, p.consume()
	case lexer.ID:
		return &Identifier{Token: tok, Name: tok.Text}, p.consume()
	case lexer.LPAREN:
		if err := p.consume(); err != nil {
			return nil, err
		}
		n, err := p.Expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.match(lexer.RPAREN); err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, p.errorf("NUMBER, ID or LPAREN")
}

func (p *Parser) match(kind lexer.Kind) (lexer.Token, error) {
	if p.lookahead.Kind != kind {
		return lexer.Token{}, p.errorf(kind.String())
	}
	tok := p.lookahead
	return tok, p.consume()
}

func (p *Parser) consume() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.lookahead = tok
	return nil
}

func (p *Parser) errorf(expected string) error {
	return &ParseError{Expected: expected, Found: p.lookahead, Line: p.lex.Line()}
}
