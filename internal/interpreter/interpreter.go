package interpreter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fishy-dino/woojin/internal/ast"
	"github.com/fishy-dino/woojin/internal/evaluator"
	"github.com/fishy-dino/woojin/internal/modules"
	"github.com/fishy-dino/woojin/internal/object"
	"github.com/fishy-dino/woojin/internal/parser"
	"github.com/fishy-dino/woojin/internal/util"
)

type Options struct {
	Out    io.Writer            // program output, stdout when nil
	Err    io.Writer            // error reports, stderr when nil
	In     evaluator.LineReader // `input` source, stdin when nil
	Color  bool                 // render error codes in bold red
	Source string               // raw source text, for error context

	// OnParse sees each program after it parsed and before it runs.
	OnParse func(*ast.Program)
}

// Interpreter owns one environment; every program it parses and runs
// shares it.
type Interpreter struct {
	Env *object.Environment

	eval   *evaluator.Evaluator
	parser *parser.Parser
	opts   Options
}

func New(opts Options) *Interpreter {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.In == nil {
		opts.In = evaluator.NewLineReader(os.Stdin, opts.Out)
	}

	env := object.NewEnvironment()
	eval := evaluator.New(env, opts.Out, opts.In)
	return &Interpreter{
		Env:    env,
		eval:   eval,
		parser: parser.New(eval),
		opts:   opts,
	}
}

// Parse builds the program for the given lines. `roar` lines with
// composite values are evaluated while parsing.
func (i *Interpreter) Parse(lines []modules.Line) (*ast.Program, error) {
	return i.parser.ParseProgram(lines)
}

// Execute runs a parsed program and returns the value of its last
// statement.
func (i *Interpreter) Execute(program *ast.Program) (object.Value, error) {
	return i.eval.ExecuteProgram(program)
}

// RunProgram parses and executes lines. The error is nil on normal
// completion and on `yee`.
func (i *Interpreter) RunProgram(lines []modules.Line) (int, error) {
	slog.Info(" ---- begin ----", slog.Int("lines", len(lines)))

	program, err := i.Parse(lines)
	if err == nil {
		if i.opts.OnParse != nil {
			i.opts.OnParse(program)
		}
		_, err = i.Execute(program)
	}

	code := ExitCode(err)
	var exit *evaluator.ExitError
	if errors.As(err, &exit) {
		err = nil
	}
	if err != nil {
		i.Report(err)
	}

	slog.Info(" ---- done ----", slog.Int("exit_code", code))
	return code, err
}

// Run parses and executes lines and returns the process exit code: 0 on
// completion, the `yee` code, or 1 after reporting a fatal error.
func (i *Interpreter) Run(lines []modules.Line) int {
	code, _ := i.RunProgram(lines)
	return code
}

func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *evaluator.ExitError
	if errors.As(err, &exit) {
		return int(exit.Code)
	}
	return 1
}

// Report writes err the way the terminal shows it, followed by the source
// lines around it when they are known.
func (i *Interpreter) Report(err error) {
	fmt.Fprintln(i.opts.Err, Format(err, i.opts.Source, i.opts.Color))
}

func Format(err error, src string, color bool) string {
	var e *object.Error
	if !errors.As(err, &e) {
		e = object.Errorf(object.Unknown, "%v", err)
	}

	out := e.Render(color)
	if e.Line > 0 && src != "" {
		if context := util.GetContextLines(src, e.Line); context != "" {
			out += "\n" + context
		}
	}
	return out
}
