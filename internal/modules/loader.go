package modules

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fishy-dino/woojin/internal/object"
)

const (
	Extension          = ".wj"
	DefaultIndentWidth = 4
)

// Line is one statement of a source file together with its indentation
// level and the 1-based line it came from.
type Line struct {
	Indent int
	Text   string
	Number int
}

// LoadFile reads a .wj source file and splits it into statement lines.
func LoadFile(path string, indentWidth int) ([]Line, string, error) {
	if filepath.Ext(path) != Extension {
		return nil, "", object.Errorf(object.UnsupportedExtension, "%s is not a %s file", path, Extension)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", object.Errorf(object.FileNotFound, "file %s was not found", path)
		}
		return nil, "", object.Errorf(object.FailReadFailure, "failed to read %s: %v", path, err)
	}

	src := string(data)
	lines := SplitSource(src, indentWidth)
	slog.Debug("loaded source",
		slog.String("path", path),
		slog.Int("bytes", len(data)),
		slog.Int("lines", len(lines)))
	return lines, src, nil
}

// SplitSource turns source text into statement lines. A `;` outside a
// string literal separates statements that share the line's indentation.
// A trailing `//` comment is removed; a comment on its own is kept.
// A tab counts as indentWidth columns and blank lines are dropped.
func SplitSource(src string, indentWidth int) []Line {
	if indentWidth <= 0 {
		indentWidth = DefaultIndentWidth
	}

	src = strings.ReplaceAll(src, "\r\n", "\n")
	lines := []Line{}
	for i, raw := range strings.Split(src, "\n") {
		columns, rest := leadingColumns(raw, indentWidth)
		for _, part := range splitStatements(rest) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			lines = append(lines, Line{
				Indent: columns / indentWidth,
				Text:   part,
				Number: i + 1,
			})
		}
	}
	return lines
}

// Terminate appends an explicit `yee 0` unless the program already ends
// with a top-level yee.
func Terminate(lines []Line) []Line {
	if n := len(lines); n > 0 {
		last := lines[n-1]
		if last.Indent == 0 && (last.Text == "yee" || strings.HasPrefix(last.Text, "yee ")) {
			return lines
		}
	}
	number := 1
	if n := len(lines); n > 0 {
		number = lines[n-1].Number + 1
	}
	return append(lines, Line{Indent: 0, Text: "yee 0", Number: number})
}

func leadingColumns(raw string, indentWidth int) (int, string) {
	columns := 0
	for i, ch := range raw {
		switch ch {
		case ' ':
			columns++
		case '\t':
			columns += indentWidth
		default:
			return columns, raw[i:]
		}
	}
	return columns, ""
}

func splitStatements(line string) []string {
	parts := []string{}
	inString := false
	escaped := false
	start := 0
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case !inString && ch == '/' && i+1 < len(line) && line[i+1] == '/':
			// a statement made only of a comment stays whole, otherwise the
			// comment is dropped
			if strings.TrimSpace(line[start:i]) == "" {
				return append(parts, line[start:])
			}
			return append(parts, line[start:i])
		case !inString && ch == ';':
			parts = append(parts, line[start:i])
			start = i + 1
		}
	}
	return append(parts, line[start:])
}
