package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/fishy-dino/woojin/internal/ast"
	"github.com/fishy-dino/woojin/internal/lexer"
	"github.com/fishy-dino/woojin/internal/object"
	"github.com/fishy-dino/woojin/internal/token"
)

// ParseStatement classifies one line. The first matching form wins:
// empty line, comment, if header, else marker, yee, print/println, roar,
// input/sleep, let, $assignment, then expression, bare literal.
// Errors carry line.
func (p *Parser) ParseStatement(text string, line int) (ast.Statement, error) {
	stmt, err := p.parseStatement(text, line)
	if err != nil {
		return nil, object.AtLine(err, line)
	}
	return stmt, nil
}

func (p *Parser) parseStatement(text string, line int) (ast.Statement, error) {
	text = strings.TrimSpace(text)

	if text == "" {
		return &ast.Literal{Token: token.Token{Type: token.STRING}, Line: line, Value: object.String{Value: ""}}, nil
	}
	if strings.HasPrefix(text, "//") {
		return &ast.Comment{
			Token: token.Token{Type: token.COMMENT, Literal: "//"},
			Line:  line,
			Text:  strings.TrimSpace(text[2:]),
		}, nil
	}

	word, rest := splitWord(text)
	tok := token.Token{Type: token.LookupIdent(word), Literal: word}

	switch tok.Type {
	case token.IF:
		return p.parseIfHeader(tok, rest, line)
	case token.ELSE:
		if isElseMarker(text) {
			return &ast.Literal{Token: tok, Line: line, Value: object.UNIT}, nil
		}
	case token.YEE:
		return parseExit(tok, rest, line)
	case token.PRINT, token.PRINTLN:
		return p.parsePrint(tok, rest, line)
	case token.ROAR:
		return p.parseAbort(tok, rest, line)
	case token.INPUT:
		return p.parseInput(tok, rest, line)
	case token.SLEEP:
		return p.parseSleep(tok, rest, line)
	case token.LET:
		return p.parseDeclare(tok, rest, line)
	}

	if strings.HasPrefix(text, "$") {
		if stmt, ok, err := p.parseAssign(text, line); ok {
			return stmt, err
		}
	}

	return p.parseFallback(text, line)
}

// splitWord cuts text at its first whitespace. A header such as `else:`
// keeps its colon on the word.
func splitWord(text string) (string, string) {
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		word := text
		if strings.HasSuffix(word, ":") {
			word = word[:len(word)-1]
		}
		return word, ""
	}
	return text[:i], strings.TrimSpace(text[i:])
}

func isElseMarker(text string) bool {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "else") {
		return false
	}
	return strings.TrimSpace(text[len("else"):]) == ":"
}

func (p *Parser) parseIfHeader(tok token.Token, rest string, line int) (ast.Statement, error) {
	if !strings.HasSuffix(rest, ":") {
		return nil, object.Errorf(object.IfParsingFailed, "if header must end with ':'")
	}
	condText := strings.TrimSpace(strings.TrimSuffix(rest, ":"))
	if condText == "" {
		return nil, object.Errorf(object.IfParsingFailed, "if header has no condition")
	}

	cond, err := p.parseStatement(condText, line)
	if err != nil {
		return nil, err
	}
	return &ast.IfStatement{
		Token:       tok,
		Line:        line,
		Condition:   cond,
		Consequence: []ast.Statement{},
		Alternative: []ast.Statement{},
	}, nil
}

func parseExit(tok token.Token, rest string, line int) (ast.Statement, error) {
	code, err := strconv.ParseInt(rest, 10, 32)
	if err != nil {
		return nil, object.Errorf(object.ParseError, "yee expects a 32-bit integer exit code, got %q", rest)
	}
	return &ast.ExitStatement{Token: tok, Line: line, Code: int32(code)}, nil
}

func (p *Parser) parsePrint(tok token.Token, rest string, line int) (ast.Statement, error) {
	stmt := &ast.PrintStatement{
		Token:     tok,
		Line:      line,
		Newline:   tok.Type == token.PRINTLN,
		Arguments: []ast.Statement{},
	}

	pieces, err := splitArguments(rest)
	if err != nil {
		return nil, err
	}
	for _, piece := range pieces {
		arg, err := p.parseStatement(piece, line)
		if err != nil {
			return nil, err
		}
		stmt.Arguments = append(stmt.Arguments, arg)
	}
	return stmt, nil
}

// splitArguments splits on commas that are outside string literals and
// outside parentheses or brackets.
func splitArguments(text string) ([]string, error) {
	pieces := []string{}
	if strings.TrimSpace(text) == "" {
		return pieces, nil
	}

	depth := 0
	inString := false
	escaped := false
	start := 0
	for i, ch := range text {
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '(' || ch == '[':
			depth++
		case ch == ')' || ch == ']':
			depth--
		case ch == ',' && depth == 0:
			pieces = append(pieces, text[start:i])
			start = i + 1
		}
	}
	pieces = append(pieces, text[start:])

	for i, piece := range pieces {
		pieces[i] = strings.TrimSpace(piece)
		if pieces[i] == "" {
			return nil, object.Errorf(object.ParseError, "empty argument %d in %q", i+1, text)
		}
	}
	return pieces, nil
}

// parseAbort binds the value of a roar line now. A bare literal or
// variable reference is kept as is and resolved when it is rendered;
// anything else is executed immediately.
func (p *Parser) parseAbort(tok token.Token, rest string, line int) (ast.Statement, error) {
	if rest == "" {
		return &ast.AbortStatement{Token: tok, Line: line, Value: object.UNIT}, nil
	}

	inner, err := p.parseStatement(rest, line)
	if err != nil {
		return nil, err
	}
	if lit, ok := inner.(*ast.Literal); ok {
		return &ast.AbortStatement{Token: tok, Line: line, Value: lit.Value}, nil
	}

	if p.eval == nil {
		return nil, object.Errorf(object.Unknown, "roar needs an evaluator to bind %s", inner.String())
	}
	value, err := p.eval.Execute(inner)
	if err != nil {
		return nil, err
	}
	return &ast.AbortStatement{Token: tok, Line: line, Value: value}, nil
}

func (p *Parser) parseInput(tok token.Token, rest string, line int) (ast.Statement, error) {
	prompt, err := p.parseStatement(rest, line)
	if err != nil {
		return nil, err
	}
	return &ast.InputStatement{Token: tok, Line: line, Prompt: prompt}, nil
}

func (p *Parser) parseSleep(tok token.Token, rest string, line int) (ast.Statement, error) {
	if rest == "" {
		return nil, object.Errorf(object.ParseError, "sleep needs a duration in milliseconds")
	}
	duration, err := p.parseStatement(rest, line)
	if err != nil {
		return nil, err
	}
	return &ast.SleepStatement{Token: tok, Line: line, Duration: duration}, nil
}

// parseDeclare reads `[mut] name[: type] = value`.
func (p *Parser) parseDeclare(tok token.Token, rest string, line int) (ast.Statement, error) {
	stmt := &ast.DeclareStatement{Token: tok, Line: line, Kind: object.ANY}

	if word, after := splitWord(rest); token.LookupIdent(word) == token.MUT && after != "" {
		stmt.IsMutable = true
		rest = after
	}

	eq := strings.Index(rest, "=")
	if eq < 0 {
		return nil, object.Errorf(object.ParseError, "let needs '= value'")
	}
	target, valueText := strings.TrimSpace(rest[:eq]), strings.TrimSpace(rest[eq+1:])
	if strings.HasPrefix(valueText, "=") {
		return nil, object.Errorf(object.ParseError, "let needs '= value', got '=='")
	}
	if valueText == "" {
		return nil, object.Errorf(object.ParseError, "let %s has no value", target)
	}

	name, kindName, annotated := strings.Cut(target, ":")
	name = strings.TrimSpace(name)
	if !isIdentifier(name) {
		return nil, object.Errorf(object.ParseError, "%q is not a valid variable name", name)
	}
	stmt.Name = name

	if annotated {
		kindName = strings.TrimSpace(kindName)
		kind, ok := object.KindFromName(kindName)
		if !ok {
			return nil, object.Errorf(object.InvalidType, "unknown type %q", kindName)
		}
		stmt.Kind = kind
	}

	value, err := p.parseStatement(valueText, line)
	if err != nil {
		return nil, err
	}
	stmt.Value = value
	return stmt, nil
}

func isIdentifier(name string) bool {
	tokens := lexer.Tokens(name)
	return len(tokens) == 1 && tokens[0].Type == token.IDENT && tokens[0].Literal == name
}

// parseAssign recognizes `$name = value`. `$name == value` is left to the
// expression parser.
func (p *Parser) parseAssign(text string, line int) (ast.Statement, bool, error) {
	l := lexer.New(text)
	target := l.NextToken()
	assign := l.NextToken()
	if target.Type != token.VARIABLE || assign.Type != token.ASSIGN {
		return nil, false, nil
	}

	valueText := strings.TrimSpace(text[assign.Position+1:])
	if valueText == "" {
		return nil, true, object.Errorf(object.ParseError, "assignment to $%s has no value", target.Literal)
	}
	value, err := p.parseStatement(valueText, line)
	if err != nil {
		return nil, true, err
	}
	return &ast.AssignStatement{Token: target, Line: line, Name: target.Literal, Value: value}, true, nil
}

// parseFallback tries an expression, then a bare literal. A single leaf
// becomes a Literal statement.
func (p *Parser) parseFallback(text string, line int) (ast.Statement, error) {
	calc, err := ParseCalc(text)
	if err == nil {
		if leaf, ok := calc.(*ast.Leaf); ok {
			return &ast.Literal{Token: leaf.Token, Line: line, Value: leaf.Value}, nil
		}
		return &ast.ExpressionStatement{Token: firstToken(calc), Line: line, Expression: calc}, nil
	}

	if value, litErr := ParseLiteral(text); litErr == nil {
		return &ast.Literal{Token: token.Token{Type: token.IDENT, Literal: text}, Line: line, Value: value}, nil
	}

	return nil, object.Errorf(object.UnknownToken, "unknown token %q (%s)", text, err.(*object.Error).Message)
}

func firstToken(calc ast.Calc) token.Token {
	for {
		switch c := calc.(type) {
		case *ast.InfixCalc:
			calc = c.Left
		case *ast.Leaf:
			return c.Token
		default:
			return token.Token{}
		}
	}
}
