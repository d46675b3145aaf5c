package evaluator

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fishy-dino/woojin/internal/ast"
	"github.com/fishy-dino/woojin/internal/object"
)

// ExitError unwinds a running program when it reaches `yee`.
type ExitError struct {
	Code int32
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit with code %d", e.Code)
}

type Evaluator struct {
	Env   *object.Environment
	Out   io.Writer
	In    LineReader
	Sleep func(time.Duration)
}

func New(env *object.Environment, out io.Writer, in LineReader) *Evaluator {
	return &Evaluator{
		Env:   env,
		Out:   out,
		In:    in,
		Sleep: time.Sleep,
	}
}

// ExecuteProgram runs the statements of a program in order and stops at
// the first error. A `yee` surfaces as *ExitError. The value of the last
// statement is returned.
func (e *Evaluator) ExecuteProgram(program *ast.Program) (object.Value, error) {
	var last object.Value = object.UNIT
	for _, stmt := range program.Statements {
		val, err := e.Execute(stmt)
		if err != nil {
			return nil, err
		}
		last = val
	}
	return last, nil
}

// Execute runs one statement and returns the value it produced.
func (e *Evaluator) Execute(stmt ast.Statement) (object.Value, error) {
	slog.Debug("executing statement",
		slog.Int("line", stmt.SourceLine()),
		slog.String("node", fmt.Sprintf("%T", stmt)))

	val, err := e.execute(stmt)
	if err != nil {
		return nil, object.AtLine(err, stmt.SourceLine())
	}
	return val, nil
}

func (e *Evaluator) execute(stmt ast.Statement) (object.Value, error) {
	switch node := stmt.(type) {

	case *ast.Comment:
		return object.UNIT, nil

	case *ast.Literal:
		return object.Resolve(e.Env, node.Value)

	case *ast.ExpressionStatement:
		return e.evalCalc(node.Expression)

	case *ast.PrintStatement:
		return e.evalPrint(node)

	case *ast.DeclareStatement:
		val, err := e.Execute(node.Value)
		if err != nil {
			return nil, err
		}
		return e.Env.Declare(node.Name, val, node.Kind, node.IsMutable)

	case *ast.AssignStatement:
		val, err := e.Execute(node.Value)
		if err != nil {
			return nil, err
		}
		return e.Env.Assign(node.Name, val)

	case *ast.InputStatement:
		return e.evalInput(node)

	case *ast.IfStatement:
		return e.evalIf(node)

	case *ast.SleepStatement:
		return e.evalSleep(node)

	case *ast.AbortStatement:
		msg, err := object.Render(e.Env, node.Value)
		if err != nil {
			return nil, err
		}
		return nil, object.Errorf(object.Roar, "%s", msg)

	case *ast.ExitStatement:
		return nil, &ExitError{Code: node.Code}
	}

	return nil, object.Errorf(object.Unknown, "cannot execute %T", stmt)
}

func (e *Evaluator) evalCalc(calc ast.Calc) (object.Value, error) {
	switch node := calc.(type) {
	case *ast.Leaf:
		return node.Value, nil

	case *ast.InfixCalc:
		left, err := e.evalCalc(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.evalCalc(node.Right)
		if err != nil {
			return nil, err
		}

		switch node.Operator {
		case "+":
			return object.Add(e.Env, left, right)
		case "-":
			return object.Sub(e.Env, left, right)
		case "*":
			return object.Mul(e.Env, left, right)
		case "/":
			return object.Div(e.Env, left, right)
		default:
			return object.Compare(e.Env, node.Operator, left, right)
		}
	}

	return nil, object.Errorf(object.Unknown, "cannot evaluate %T", calc)
}

func (e *Evaluator) evalPrint(node *ast.PrintStatement) (object.Value, error) {
	parts := make([]string, 0, len(node.Arguments))
	for _, arg := range node.Arguments {
		val, err := e.Execute(arg)
		if err != nil {
			return nil, err
		}
		text, err := object.Render(e.Env, val)
		if err != nil {
			return nil, err
		}
		parts = append(parts, text)
	}

	out := strings.Join(parts, " ")
	if node.Newline {
		out += "\n"
	}
	if _, err := io.WriteString(e.Out, out); err != nil {
		return nil, object.Errorf(object.Unknown, "write failed: %v", err)
	}
	return object.UNIT, nil
}

func (e *Evaluator) evalInput(node *ast.InputStatement) (object.Value, error) {
	val, err := e.Execute(node.Prompt)
	if err != nil {
		return nil, err
	}
	prompt, err := object.Render(e.Env, val)
	if err != nil {
		return nil, err
	}

	if e.In == nil {
		return nil, object.Errorf(object.Unknown, "no input is available")
	}
	line, err := e.In.ReadLine(prompt)
	if err != nil {
		return nil, object.Errorf(object.Unknown, "input failed: %v", err)
	}
	return object.String{Value: strings.TrimSpace(line)}, nil
}

func (e *Evaluator) evalIf(node *ast.IfStatement) (object.Value, error) {
	val, err := e.Execute(node.Condition)
	if err != nil {
		return nil, err
	}
	cond, err := object.Resolve(e.Env, val)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(object.Bool)
	if !ok {
		return nil, object.Errorf(object.TypeMismatch, "if condition must be bool, got %s", cond.Type())
	}

	branch := node.Alternative
	if b.Value {
		branch = node.Consequence
	}
	for _, stmt := range branch {
		if _, err := e.Execute(stmt); err != nil {
			return nil, err
		}
	}
	return object.UNIT, nil
}

func (e *Evaluator) evalSleep(node *ast.SleepStatement) (object.Value, error) {
	val, err := e.Execute(node.Duration)
	if err != nil {
		return nil, err
	}
	resolved, err := object.Resolve(e.Env, val)
	if err != nil {
		return nil, err
	}

	var ms int64
	switch n := resolved.(type) {
	case object.Int:
		ms = int64(n.Value)
	case object.Long:
		ms = n.Value
	default:
		return nil, object.Errorf(object.TypeMismatch, "sleep expects an int number of milliseconds, got %s", resolved.Type())
	}
	if ms < 0 {
		return nil, object.Errorf(object.TypeMismatch, "sleep expects a non-negative duration, got %d", ms)
	}

	e.Sleep(time.Duration(ms) * time.Millisecond)
	return object.UNIT, nil
}
