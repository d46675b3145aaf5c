package evaluator

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fishy-dino/woojin/internal/ast"
	"github.com/fishy-dino/woojin/internal/object"
)

func leaf(v object.Value) *ast.Leaf {
	return &ast.Leaf{Value: v}
}

func lit(v object.Value) *ast.Literal {
	return &ast.Literal{Value: v, Line: 1}
}

func infix(op string, left, right ast.Calc) *ast.InfixCalc {
	return &ast.InfixCalc{Operator: op, Left: left, Right: right}
}

func newTestEvaluator(input string) (*Evaluator, *bytes.Buffer) {
	out := &bytes.Buffer{}
	e := New(object.NewEnvironment(), out, NewLineReader(strings.NewReader(input), out))
	e.Sleep = func(time.Duration) {}
	return e, out
}

func TestEvalCalc(t *testing.T) {
	e, _ := newTestEvaluator("")

	// 2 + 3 * 4
	expr := &ast.ExpressionStatement{Expression: infix("+",
		leaf(object.Int{Value: 2}),
		infix("*", leaf(object.Int{Value: 3}), leaf(object.Int{Value: 4})))}

	val, err := e.Execute(expr)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !object.Equal(val, object.Int{Value: 14}) {
		t.Errorf("expected 14, got %s", val.Inspect())
	}

	cmp := &ast.ExpressionStatement{Expression: infix(">=", leaf(object.Int{Value: 3}), leaf(object.Float{Value: 2.5}))}
	val, err = e.Execute(cmp)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !object.Equal(val, object.TRUE) {
		t.Errorf("expected uglyguri, got %s", val.Inspect())
	}
}

func TestPrint(t *testing.T) {
	e, out := newTestEvaluator("")
	e.Env.Declare("name", object.String{Value: "guri"}, object.ANY, false)

	stmts := []ast.Statement{
		&ast.PrintStatement{Arguments: []ast.Statement{lit(object.String{Value: "hi"}), lit(object.VarRef{Name: "name"})}},
		&ast.PrintStatement{Newline: true, Arguments: []ast.Statement{lit(object.String{Value: "!"})}},
		&ast.PrintStatement{Newline: true},
		&ast.PrintStatement{Newline: true, Arguments: []ast.Statement{
			lit(object.TRUE),
			lit(object.Array{Elements: []object.Value{object.Int{Value: 1}, object.Float{Value: 2.5}}}),
			&ast.ExpressionStatement{Expression: infix("*", leaf(object.String{Value: "ab"}), leaf(object.Int{Value: 2}))},
		}},
	}
	for _, stmt := range stmts {
		if _, err := e.Execute(stmt); err != nil {
			t.Fatalf("execute: %v", err)
		}
	}

	expected := "hi guri!\n\nuglyguri [1, 2.5] abab\n"
	if out.String() != expected {
		t.Errorf("expected %q, got %q", expected, out.String())
	}
}

func TestDeclareAndAssign(t *testing.T) {
	e, _ := newTestEvaluator("")

	if _, err := e.Execute(&ast.DeclareStatement{Name: "x", Kind: object.ANY, IsMutable: true, Value: lit(object.Int{Value: 1})}); err != nil {
		t.Fatalf("declare: %v", err)
	}
	// $x = $x + 1
	assign := &ast.AssignStatement{Name: "x", Value: &ast.ExpressionStatement{
		Expression: infix("+", leaf(object.VarRef{Name: "x"}), leaf(object.Int{Value: 1}))}}
	if _, err := e.Execute(assign); err != nil {
		t.Fatalf("assign: %v", err)
	}
	val, _ := e.Env.Lookup("x")
	if !object.Equal(val, object.Int{Value: 2}) {
		t.Errorf("expected 2, got %s", val.Inspect())
	}

	_, err := e.Execute(&ast.AssignStatement{Name: "x", Line: 9, Value: lit(object.String{Value: "a"})})
	if !object.IsKind(err, object.TypeMismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
	var werr *object.Error
	if !errors.As(err, &werr) || werr.Line != 9 {
		t.Errorf("expected line 9, got %d", werr.Line)
	}
}

func TestIf(t *testing.T) {
	cases := []struct {
		cond     object.Value
		expected string
	}{
		{object.TRUE, "a\n"},
		{object.FALSE, "b\n"},
	}

	for _, c := range cases {
		e, out := newTestEvaluator("")
		stmt := &ast.IfStatement{
			Condition:   lit(c.cond),
			Consequence: []ast.Statement{&ast.PrintStatement{Newline: true, Arguments: []ast.Statement{lit(object.String{Value: "a"})}}},
			Alternative: []ast.Statement{&ast.PrintStatement{Newline: true, Arguments: []ast.Statement{lit(object.String{Value: "b"})}}},
		}
		if _, err := e.Execute(stmt); err != nil {
			t.Fatalf("execute: %v", err)
		}
		if out.String() != c.expected {
			t.Errorf("expected %q, got %q", c.expected, out.String())
		}
	}

	e, _ := newTestEvaluator("")
	_, err := e.Execute(&ast.IfStatement{Condition: lit(object.Int{Value: 1})})
	if !object.IsKind(err, object.TypeMismatch) {
		t.Errorf("expected TypeMismatch, got %v", err)
	}
}

func TestUnselectedBranchIsNotEvaluated(t *testing.T) {
	e, _ := newTestEvaluator("")
	stmt := &ast.IfStatement{
		Condition:   lit(object.TRUE),
		Consequence: []ast.Statement{lit(object.Int{Value: 1})},
		Alternative: []ast.Statement{&ast.ExitStatement{Code: 3}},
	}
	if _, err := e.Execute(stmt); err != nil {
		t.Errorf("the else branch ran: %v", err)
	}
}

func TestInput(t *testing.T) {
	e, out := newTestEvaluator("  woojin  \nsecond")

	val, err := e.Execute(&ast.InputStatement{Prompt: lit(object.String{Value: "name? "})})
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if !object.Equal(val, object.String{Value: "woojin"}) {
		t.Errorf("expected woojin, got %q", val.Inspect())
	}

	val, _ = e.Execute(&ast.InputStatement{Prompt: lit(object.String{Value: "> "})})
	if !object.Equal(val, object.String{Value: "second"}) {
		t.Errorf("expected second, got %q", val.Inspect())
	}

	val, _ = e.Execute(&ast.InputStatement{Prompt: lit(object.String{Value: ""})})
	if !object.Equal(val, object.String{Value: ""}) {
		t.Errorf("expected an empty string at end of input, got %q", val.Inspect())
	}

	if out.String() != "name? > " {
		t.Errorf("unexpected prompts %q", out.String())
	}
}

func TestSleep(t *testing.T) {
	e, _ := newTestEvaluator("")
	var slept time.Duration
	e.Sleep = func(d time.Duration) { slept += d }

	if _, err := e.Execute(&ast.SleepStatement{Duration: lit(object.Int{Value: 25})}); err != nil {
		t.Fatalf("sleep: %v", err)
	}
	if _, err := e.Execute(&ast.SleepStatement{Duration: lit(object.Long{Value: 5})}); err != nil {
		t.Fatalf("sleep: %v", err)
	}
	if slept != 30*time.Millisecond {
		t.Errorf("expected 30ms, got %s", slept)
	}

	for _, bad := range []object.Value{object.Float{Value: 1}, object.String{Value: "1"}, object.Int{Value: -1}} {
		if _, err := e.Execute(&ast.SleepStatement{Duration: lit(bad)}); !object.IsKind(err, object.TypeMismatch) {
			t.Errorf("sleep %s: expected TypeMismatch, got %v", object.Source(bad), err)
		}
	}
}

func TestAbortAndExit(t *testing.T) {
	e, _ := newTestEvaluator("")
	e.Env.Declare("why", object.String{Value: "late value"}, object.ANY, true)

	_, err := e.Execute(&ast.AbortStatement{Line: 4, Value: object.VarRef{Name: "why"}})
	var werr *object.Error
	if !errors.As(err, &werr) || werr.Kind != object.Roar || werr.Message != "late value" || werr.Line != 4 {
		t.Errorf("unexpected abort error %v", err)
	}

	_, err = e.Execute(&ast.ExitStatement{Code: -12})
	var exit *ExitError
	if !errors.As(err, &exit) || exit.Code != -12 {
		t.Errorf("expected exit -12, got %v", err)
	}
}

func TestExecuteProgramStopsAtFirstError(t *testing.T) {
	e, out := newTestEvaluator("")
	program := &ast.Program{Statements: []ast.Statement{
		&ast.PrintStatement{Newline: true, Arguments: []ast.Statement{lit(object.String{Value: "before"})}},
		&ast.ExpressionStatement{Line: 2, Expression: infix("/", leaf(object.Int{Value: 1}), leaf(object.Int{Value: 0}))},
		&ast.PrintStatement{Newline: true, Arguments: []ast.Statement{lit(object.String{Value: "after"})}},
	}}

	_, err := e.ExecuteProgram(program)
	if !object.IsKind(err, object.DivisionByZero) {
		t.Fatalf("expected DivisionByZero, got %v", err)
	}
	if out.String() != "before\n" {
		t.Errorf("expected only the first line, got %q", out.String())
	}
}

func TestUndeclaredLiteral(t *testing.T) {
	e, _ := newTestEvaluator("")
	if _, err := e.Execute(lit(object.VarRef{Name: "ghost"})); !object.IsKind(err, object.UndeclaredVariable) {
		t.Errorf("expected UndeclaredVariable, got %v", err)
	}
}
