package parser

import (
	"github.com/fishy-dino/woojin/internal/ast"
	"github.com/fishy-dino/woojin/internal/modules"
	"github.com/fishy-dino/woojin/internal/object"
)

// structurer walks the indented lines of a program with a single cursor
// shared by the recursive block collection.
type structurer struct {
	parser *Parser
	lines  []modules.Line
	pos    int
}

// ParseProgram builds the statement tree of a whole program. Lines that
// are indented deeper than an `if` (or its `else:`) form its body.
func (p *Parser) ParseProgram(lines []modules.Line) (*ast.Program, error) {
	s := &structurer{parser: p, lines: lines}
	program := &ast.Program{Statements: []ast.Statement{}}

	for s.pos < len(s.lines) {
		stmt, err := s.next()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}
	return program, nil
}

// next parses the line under the cursor, including the body of an if.
func (s *structurer) next() (ast.Statement, error) {
	line := s.lines[s.pos]
	s.pos++

	stmt, err := s.parser.ParseStatement(line.Text, line.Number)
	if err != nil {
		return nil, err
	}

	if ifStmt, ok := stmt.(*ast.IfStatement); ok {
		if err := s.collectIf(ifStmt, line); err != nil {
			return nil, object.AtLine(err, line.Number)
		}
	}
	return stmt, nil
}

func (s *structurer) collectIf(stmt *ast.IfStatement, header modules.Line) error {
	if s.pos >= len(s.lines) {
		return object.Errorf(object.IfParsingFailed, "if at line %d has no body", header.Number)
	}

	consequence, err := s.block(header.Indent)
	if err != nil {
		return err
	}
	if len(consequence) == 0 {
		return object.Errorf(object.IfParsingFailed, "if at line %d has no indented body", header.Number)
	}
	stmt.Consequence = consequence

	if s.pos >= len(s.lines) {
		return nil
	}
	marker := s.lines[s.pos]
	if marker.Indent != header.Indent || !isElseMarker(marker.Text) {
		return nil
	}
	s.pos++

	if s.pos >= len(s.lines) {
		return object.AtLine(object.Errorf(object.ElseParsingFailed, "else at line %d has no body", marker.Number), marker.Number)
	}
	alternative, err := s.block(header.Indent)
	if err != nil {
		return err
	}
	if len(alternative) == 0 {
		return object.AtLine(object.Errorf(object.ElseParsingFailed, "else at line %d has no indented body", marker.Number), marker.Number)
	}
	stmt.Alternative = alternative
	return nil
}

// block collects the statements indented deeper than indent.
func (s *structurer) block(indent int) ([]ast.Statement, error) {
	statements := []ast.Statement{}
	for s.pos < len(s.lines) && s.lines[s.pos].Indent > indent {
		stmt, err := s.next()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}
