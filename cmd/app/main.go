package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fishy-dino/woojin/internal/ast"
	"github.com/fishy-dino/woojin/internal/evaluator"
	"github.com/fishy-dino/woojin/internal/interpreter"
	"github.com/fishy-dino/woojin/internal/journal"
	wjlog "github.com/fishy-dino/woojin/internal/log"
	"github.com/fishy-dino/woojin/internal/modules"
	"github.com/fishy-dino/woojin/internal/parser"
	"github.com/fishy-dino/woojin/internal/repl"
	"github.com/fishy-dino/woojin/internal/util"
)

var (
	// Version is set at build time with -ldflags.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// config vars
	configPath  string
	indentWidth int
	noColor     bool
	// logging
	logLevel string
	logFile  string
	// run journal
	journalDSN  string
	journalList int
	// parser debugging
	debugAST     bool
	debugASTText bool
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&configPath, "config", "", "Config file (.toml, .yaml or .yml), defaults to $"+util.ConfigEnv)
	flag.IntVar(&indentWidth, "indent", modules.DefaultIndentWidth, "Number of columns per indentation level")
	flag.BoolVar(&noColor, "no-color", false, "Do not color error codes")
	// log config
	flag.StringVar(&logLevel, "log-level", "none", "Log level: trace, debug, info, warn, error, none")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
	// journal config
	flag.StringVar(&journalDSN, "journal", "", "Record runs in a database: sqlite3:<path>, mysql:<dsn> or postgres://...")
	flag.IntVar(&journalList, "journal-list", 0, "Print the last N journal runs and exit")
	// parser config
	flag.BoolVar(&debugAST, "debug-ast", false, "Render the AST as a JSON file")
	flag.BoolVar(&debugASTText, "debug-ast-text", false, "Render the AST as an indented text file")
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if version {
		printVersion()
		return 0
	}
	if help {
		printHelp()
		return 0
	}

	config, err := configuration(isTerminal(os.Stderr))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	closer, err := wjlog.Configure(config.LogLevel, config.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v; falling back to stderr\n", err)
	}
	defer closer.Close()

	if journalList > 0 {
		return listJournal(config, journalList, os.Stdout)
	}

	if flag.NArg() == 0 {
		return repl.Start(repl.Config{
			IndentWidth: config.IndentWidth,
			History:     config.History,
			Color:       config.Color,
		})
	}
	return runFile(config, flag.Arg(0), os.Stdin, os.Stdout, os.Stderr)
}

// configuration layers defaults, the config file and the flags that were
// set explicitly. Color stays off when stderr is not a terminal.
func configuration(terminal bool) (util.Configuration, error) {
	config := util.DefaultConfiguration()
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit

	if path := util.ConfigPath(configPath); path != "" {
		if err := util.LoadConfigFile(path, &config); err != nil {
			return config, err
		}
	}

	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "indent":
			if indentWidth <= 0 {
				err = fmt.Errorf("-indent must be positive, got %d", indentWidth)
			}
			config.IndentWidth = indentWidth
		case "no-color":
			config.Color = !noColor
		case "log-level":
			config.LogLevel = logLevel
		case "log-file":
			config.LogFile = logFile
		case "journal":
			config.Journal = journalDSN
		case "debug-ast":
			config.DebugJsonAST = debugAST
		case "debug-ast-text":
			config.DebugTxtAST = debugASTText
		}
	})
	config.Color = config.Color && terminal
	return config, err
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// runFile executes a source file and returns its exit code. Output is
// captured for the journal when one is configured.
func runFile(config util.Configuration, path string, in io.Reader, stdout, stderr io.Writer) int {
	lines, src, err := modules.LoadFile(path, config.IndentWidth)
	if err != nil {
		fmt.Fprintln(stderr, interpreter.Format(err, "", config.Color))
		return 1
	}
	lines = modules.Terminate(lines)

	var captured strings.Builder
	out := stdout
	j, entry := beginJournal(config, path)
	if entry != nil {
		out = io.MultiWriter(stdout, &captured)
	}

	opts := interpreter.Options{
		Out:    out,
		Err:    stderr,
		In:     evaluator.NewLineReader(in, out),
		Color:  config.Color,
		Source: src,
	}
	if config.DebugJsonAST || config.DebugTxtAST {
		opts.OnParse = dumpAST(config, path)
	}
	interp := interpreter.New(opts)

	code, runErr := interp.RunProgram(lines)

	if entry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := entry.Finish(ctx, code, runErr, captured.String()); err != nil {
			slog.Error("failed to record run", slog.Any("error", err))
		}
		_ = j.Close()
	}
	return code
}

// dumpAST writes the debug renderings of program next to its source file.
func dumpAST(config util.Configuration, path string) func(*ast.Program) {
	return func(program *ast.Program) {
		if config.DebugJsonAST {
			if err := parser.WriteASTToJSON(program, path+".ast.json"); err != nil {
				slog.Error("failed to write AST", slog.Any("error", err))
			}
		}
		if config.DebugTxtAST {
			if err := parser.WriteASTToText(program, path+".ast.txt"); err != nil {
				slog.Error("failed to write AST", slog.Any("error", err))
			}
		}
	}
}

// beginJournal starts a journal row. A journal that cannot be reached is
// logged and the program runs without it.
func beginJournal(config util.Configuration, path string) (*journal.Journal, *journal.Run) {
	if config.Journal == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	j, err := journal.Open(ctx, config.Journal)
	if err != nil {
		slog.Error("failed to open journal", slog.Any("error", err))
		return nil, nil
	}
	run, err := j.Begin(ctx, path)
	if err != nil {
		slog.Error("failed to start journal run", slog.Any("error", err))
		_ = j.Close()
		return nil, nil
	}
	return j, run
}

func listJournal(config util.Configuration, n int, out io.Writer) int {
	if config.Journal == "" {
		fmt.Fprintln(os.Stderr, "-journal-list needs a journal, set -journal or journal in the config file")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	j, err := journal.Open(ctx, config.Journal)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer j.Close()

	records, err := j.Recent(ctx, n)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, rec := range records {
		status := "running"
		if rec.ExitCode.Valid {
			status = fmt.Sprintf("exit %d", rec.ExitCode.Int64)
		}
		if rec.ErrorKind.Valid {
			status += fmt.Sprintf(" (%s: %s)", rec.ErrorKind.String, rec.ErrorMessage.String)
		}
		fmt.Fprintf(out, "%4d  %s  %-30s  %s\n",
			rec.ID, rec.StartedAt.Local().Format(time.DateTime), rec.Path, status)
	}
	return 0
}

func printVersion() {
	fmt.Printf("woojin version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: woojin [options] [filename.wj]

Options:
  -config <path>       Load settings from a .toml or .yaml file. Default is $%s.
  -indent <n>          Columns per indentation level. Default is 4.
  -no-color            Print error codes without color.
  -journal <dsn>       Record each run: sqlite3:<path>, mysql:<dsn>, postgres://...
  -journal-list <n>    Print the last n recorded runs and exit.
  -debug-ast           Write the AST of the file to <file>.ast.json.
  -debug-ast-text      Write the AST of the file to <file>.ast.txt.
  -help                Display this help information and exit.
  -version             Display version information and exit.
  -log-level <level>   Set the log level: trace, debug, info, warn, error, none. Default is 'none'.
  -log-file <path>     Specify a log file to write logs. Default is stderr.

Details:
Without a file an interactive session is started.

Examples:
  woojin                          Start an interactive session
  woojin main.wj                  Execute the provided file
  woojin -log-level=debug main.wj Execute with debug logging enabled

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, util.ConfigEnv, Version, BuildDate, Commit)
}
