package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/fishy-dino/woojin/internal/ast"
	"github.com/fishy-dino/woojin/internal/evaluator"
	"github.com/fishy-dino/woojin/internal/interpreter"
	"github.com/fishy-dino/woojin/internal/modules"
	"github.com/fishy-dino/woojin/internal/object"
)

const (
	PROMPT       = "wj> "
	CONTINUATION = "..> "
)

const help = `Enter statements to run them. A line ending in ':' opens a block,
an empty line closes it.

  :vars   list declared variables
  :help   show this help
  :quit   leave the session (so does 'yee <code>')
`

// LineSource is where the session reads its lines from. *liner.State
// satisfies it.
type LineSource interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type Config struct {
	IndentWidth int
	History     string // history file, none when empty
	Color       bool
	Out         io.Writer
	Err         io.Writer
}

// Session evaluates lines against one long-lived interpreter.
type Session struct {
	cfg    Config
	src    LineSource
	interp *interpreter.Interpreter
}

func NewSession(src LineSource, cfg Config) *Session {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Err == nil {
		cfg.Err = os.Stderr
	}
	if cfg.IndentWidth <= 0 {
		cfg.IndentWidth = modules.DefaultIndentWidth
	}

	return &Session{
		cfg: cfg,
		src: src,
		interp: interpreter.New(interpreter.Options{
			Out:   cfg.Out,
			Err:   cfg.Err,
			In:    promptReader{src},
			Color: cfg.Color,
		}),
	}
}

// Start runs an interactive session on the terminal and returns the exit
// code.
func Start(cfg Config) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if cfg.History != "" {
		if f, err := os.Open(cfg.History); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer saveHistory(ln, cfg.History)
	}

	return NewSession(ln, cfg).Loop()
}

func saveHistory(ln *liner.State, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		slog.Warn("cannot create history directory", slog.Any("error", err))
		return
	}
	f, err := os.Create(path)
	if err != nil {
		slog.Warn("cannot write history", slog.String("path", path), slog.Any("error", err))
		return
	}
	defer f.Close()
	_, _ = ln.WriteHistory(f)
}

// Loop reads and runs chunks until end of input, :quit or yee.
func (s *Session) Loop() int {
	for {
		chunk, ok := s.read()
		if !ok {
			fmt.Fprintln(s.cfg.Out)
			return 0
		}

		trimmed := strings.TrimSpace(chunk)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if quit := s.command(trimmed); quit {
				return 0
			}
			continue
		}

		s.src.AppendHistory(strings.ReplaceAll(chunk, "\n", "; "))
		if code, exit := s.Eval(chunk); exit {
			return code
		}
	}
}

// read collects one chunk. A line ending in ':' keeps the prompt open
// until an empty line.
func (s *Session) read() (string, bool) {
	var b strings.Builder

	for {
		prompt := PROMPT
		if b.Len() > 0 {
			prompt = CONTINUATION
		}
		line, err := s.src.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			slog.Error("prompt failed", slog.Any("error", err))
			return "", false
		}

		if b.Len() == 0 {
			b.WriteString(line)
			if !strings.HasSuffix(strings.TrimSpace(line), ":") {
				return b.String(), true
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			return b.String(), true
		}
		b.WriteByte('\n')
		b.WriteString(line)
	}
}

func (s *Session) command(cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true
	case ":vars":
		s.printVars()
	case ":help":
		fmt.Fprint(s.cfg.Out, help)
	default:
		fmt.Fprintf(s.cfg.Out, "unknown command %s. Type :help for a list.\n", cmd)
	}
	return false
}

func (s *Session) printVars() {
	for _, name := range s.interp.Env.Names() {
		binding, ok := s.interp.Env.GetBinding(name)
		if !ok {
			continue
		}
		line := fmt.Sprintf("%s: %s = %s", name, binding.Kind, object.Source(binding.Value))
		if binding.IsMutable {
			line += " (mut)"
		}
		fmt.Fprintln(s.cfg.Out, line)
	}
}

// Eval runs one chunk of source. It reports whether the chunk ended the
// session with `yee`, and with which code.
func (s *Session) Eval(chunk string) (int, bool) {
	lines := modules.SplitSource(chunk, s.cfg.IndentWidth)
	program, err := s.interp.Parse(lines)
	if err != nil {
		s.report(err, chunk)
		return 0, false
	}

	val, err := s.interp.Execute(program)
	var exit *evaluator.ExitError
	if errors.As(err, &exit) {
		return int(exit.Code), true
	}
	if err != nil {
		s.report(err, chunk)
		return 0, false
	}

	if echoes(program) && val != nil && val.Type() != object.UNIT_KIND {
		fmt.Fprintln(s.cfg.Out, object.Source(val))
	}
	return 0, false
}

func (s *Session) report(err error, chunk string) {
	fmt.Fprintln(s.cfg.Err, interpreter.Format(err, chunk, s.cfg.Color))
}

// echoes reports whether the value of the program is worth printing: only
// a trailing bare expression is.
func echoes(program *ast.Program) bool {
	n := len(program.Statements)
	if n == 0 {
		return false
	}
	switch program.Statements[n-1].(type) {
	case *ast.ExpressionStatement, *ast.Literal:
		return true
	}
	return false
}

// promptReader serves `input` from the same line source as the session.
type promptReader struct {
	src LineSource
}

func (r promptReader) ReadLine(prompt string) (string, error) {
	return r.src.Prompt(prompt)
}
