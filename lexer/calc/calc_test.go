package calc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/coregx/relattice/lexer"
)

func TestEval(t *testing.T) {
	env := Env{"span": 64, "depth": 8}
	tests := []struct {
		input string
		want  int64
	}{
		{"42", 42},
		{"16 * 4", 64},
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"10 - 4 - 3", 3},
		{"100 / 10 / 5", 2},
		{"-3 + 5", 2},
		{"--3", 3},
		{"+7", 7},
		{"-(2 * 3)", -6},
		{"span / depth", 8},
		{"span * span", 4096},
		{"7 / 2", 3},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Eval(tt.input, env)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTree(t *testing.T) {
	tests := map[string]string{
		"1 + 2 * 3":   "(1 + (2 * 3))",
		"(1 + 2) * 3": "((1 + 2) * 3)",
		"-a - b":      "((-a) - b)",
		"a / b * c":   "((a / b) * c)",
	}
	for input, want := range tests {
		n, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		if got := n.String(); got != want {
			t.Errorf("Parse(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	if _, err := Eval("1 / (2 - 2)", nil); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("division by zero error = %v", err)
	}
	if _, err := Eval("x + 1", Env{}); !errors.Is(err, ErrUndefined) {
		t.Errorf("undefined identifier error = %v", err)
	}
	if _, err := Eval("99999999999999999999", nil); err == nil {
		t.Error("an out of range number should fail")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		found    lexer.Token
	}{
		{"", "NUMBER, ID or LPAREN", lexer.Token{Kind: lexer.EOF, Text: lexer.EOFText}},
		{"(1 + 2", "RPAREN", lexer.Token{Kind: lexer.EOF, Text: lexer.EOFText}},
		{"1 2", "EOF", lexer.Token{Kind: lexer.NUMBER, Text: "2"}},
		{"1 + ;", "NUMBER, ID or LPAREN", lexer.Token{Kind: lexer.SEMICOLON, Text: ";"}},
	}
	for _, tt := range tests {
		_, err := Parse(tt.input)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("Parse(%q) error = %v, want *ParseError", tt.input, err)
		}
		if perr.Expected != tt.expected || perr.Found != tt.found {
			t.Errorf("Parse(%q) error = %+v", tt.input, perr)
		}
	}

	_, err := Parse("1 +\n~")
	var serr *lexer.SyntaxError
	if !errors.As(err, &serr) || serr.Line != 2 {
		t.Errorf("lexer errors should surface unchanged, got %v", err)
	}
}

func ExampleEval() {
	v, err := Eval("64 * (depth - 1)", Env{"depth": 3})
	if err != nil {
		panic(err)
	}
	fmt.Println(v)
	// Output: 128
}
