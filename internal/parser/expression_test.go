package parser

import (
	"strings"
	"testing"

	"github.com/fishy-dino/woojin/internal/ast"
	"github.com/fishy-dino/woojin/internal/object"
	"github.com/fishy-dino/woojin/internal/token"
)

func TestOperatorPrecedence(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"2 + 3 * 4", "(2 + (3 * 4))"},
		{"(2 + 3) * 4", "((2 + 3) * 4)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"8 / 4 / 2", "((8 / 4) / 2)"},
		{"8 / (4 / 2)", "(8 / (4 / 2))"},
		{"  1+2*3-4/5  ", "((1 + (2 * 3)) - (4 / 5))"},
		{"$a + 1 >= 2 * $b", "(($a + 1) >= (2 * $b))"},
		{"$a = 1", "($a = 1)"},
		{"1 < 2 == uglyguri", "((1 < 2) == uglyguri)"},
		{"-5 + +2", "(-5 + 2)"},
		{"3 - -1.5", "(3 - -1.5)"},
		{`"ab" * 3`, `("ab" * 3)`},
		{`"a" + "b"`, `("a" + "b")`},
		{"((7))", "7"},
	}

	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			calc, err := ParseCalc(c.input)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := calc.String(); got != c.expected {
				t.Errorf("expected %s, got %s", c.expected, got)
			}
		})
	}
}

func TestPrecedenceTree(t *testing.T) {
	calc, err := ParseCalc("2 + 3 * 4")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	add, ok := calc.(*ast.InfixCalc)
	if !ok || add.Operator != "+" {
		t.Fatalf("expected + at the root, got %s", calc.String())
	}
	if left, ok := add.Left.(*ast.Leaf); !ok || !object.Equal(left.Value, object.Int{Value: 2}) {
		t.Errorf("expected Leaf(2) on the left, got %s", add.Left.String())
	}
	mul, ok := add.Right.(*ast.InfixCalc)
	if !ok || mul.Operator != "*" {
		t.Fatalf("expected * on the right, got %s", add.Right.String())
	}
	if left, ok := mul.Left.(*ast.Leaf); !ok || !object.Equal(left.Value, object.Int{Value: 3}) {
		t.Errorf("expected Leaf(3), got %s", mul.Left.String())
	}
	if right, ok := mul.Right.(*ast.Leaf); !ok || !object.Equal(right.Value, object.Int{Value: 4}) {
		t.Errorf("expected Leaf(4), got %s", mul.Right.String())
	}
}

func TestNumberLiterals(t *testing.T) {
	cases := []struct {
		input    string
		expected object.Value
	}{
		{"0", object.Int{Value: 0}},
		{"2147483647", object.Int{Value: 2147483647}},
		{"-2147483648", object.Int{Value: -2147483648}},
		{"2147483648", object.Long{Value: 2147483648}},
		{"-9000000000", object.Long{Value: -9000000000}},
		{"1.5", object.Float{Value: 1.5}},
		{"+0.25", object.Float{Value: 0.25}},
	}

	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			calc, err := ParseCalc(c.input)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			leaf, ok := calc.(*ast.Leaf)
			if !ok {
				t.Fatalf("expected a leaf, got %T", calc)
			}
			if !object.Equal(leaf.Value, c.expected) {
				t.Errorf("expected %s %s, got %s %s", c.expected.Type(), object.Source(c.expected), leaf.Value.Type(), object.Source(leaf.Value))
			}
		})
	}
}

func TestParseCalcErrors(t *testing.T) {
	cases := []string{
		"",
		"1 +",
		"(1 + 2",
		"1 2",
		"1 )",
		"- $x",
		"[1 + 2]",
		"[1, 2",
		`"open`,
		"uglyguri let",
		"99999999999999999999",
		"2 @ 3",
	}

	for _, input := range cases {
		t.Run(input, func(t *testing.T) {
			if calc, err := ParseCalc(input); !object.IsKind(err, object.ParseError) {
				t.Errorf("expected ParseError, got %v (%v)", err, calc)
			}
		})
	}
}

func TestKeywordInsideExpression(t *testing.T) {
	cases := []struct {
		input string
		fn    func(string) error
	}{
		{"1 + print", func(s string) error { _, err := ParseCalc(s); return err }},
		{"(let)", func(s string) error { _, err := ParseCalc(s); return err }},
		{"yee", func(s string) error { _, err := ParseLiteral(s); return err }},
	}

	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			err := c.fn(c.input)
			if !object.IsKind(err, object.ParseError) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if !strings.Contains(err.Error(), "which only starts a statement") {
				t.Errorf("error does not name the keyword: %v", err)
			}
		})
	}
}

func TestIsStatementKeyword(t *testing.T) {
	for _, word := range []string{"let", "mut", "if", "else", "print", "println", "input", "sleep", "roar", "yee"} {
		if !token.IsStatementKeyword(token.LookupIdent(word)) {
			t.Errorf("%s should be a statement keyword", word)
		}
	}
	for _, word := range []string{"uglyguri", "beautifulguri", "name"} {
		if token.IsStatementKeyword(token.LookupIdent(word)) {
			t.Errorf("%s should not be a statement keyword", word)
		}
	}
}

func TestParseLiteral(t *testing.T) {
	cases := []struct {
		input    string
		expected object.Value
	}{
		{`"hi"`, object.String{Value: "hi"}},
		{"-3", object.Int{Value: -3}},
		{"2.5", object.Float{Value: 2.5}},
		{"uglyguri", object.TRUE},
		{"beautifulguri", object.FALSE},
		{"$name", object.VarRef{Name: "name"}},
		{`[1, "a", [beautifulguri], $x]`, object.Array{Elements: []object.Value{
			object.Int{Value: 1},
			object.String{Value: "a"},
			object.Array{Elements: []object.Value{object.FALSE}},
			object.VarRef{Name: "x"},
		}}},
		{"[]", object.Array{Elements: []object.Value{}}},
	}

	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			val, err := ParseLiteral(c.input)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if !object.Equal(val, c.expected) {
				t.Errorf("expected %s, got %s", object.Source(c.expected), object.Source(val))
			}
		})
	}

	for _, input := range []string{"1 + 2", "(1)", "x", "", `"a" "b"`} {
		if _, err := ParseLiteral(input); !object.IsKind(err, object.ParseError) {
			t.Errorf("ParseLiteral(%q): expected ParseError, got %v", input, err)
		}
	}
}

func TestStringLiteralRoundTrip(t *testing.T) {
	values := []string{
		"",
		"plain",
		"line\nbreak",
		`say "hi"`,
		`back\slash`,
		"tab\tcr\rnul\x00",
		"한국어, with a comma",
		`\n is not a newline here`,
	}

	for _, v := range values {
		quoted := object.Quote(v)
		val, err := ParseLiteral(quoted)
		if err != nil {
			t.Fatalf("ParseLiteral(%s): %v", quoted, err)
		}
		if !object.Equal(val, object.String{Value: v}) {
			t.Errorf("round trip of %q produced %s", v, object.Source(val))
		}
	}
}
