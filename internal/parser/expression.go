package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fishy-dino/woojin/internal/ast"
	"github.com/fishy-dino/woojin/internal/lexer"
	"github.com/fishy-dino/woojin/internal/object"
	"github.com/fishy-dino/woojin/internal/token"
	"github.com/fishy-dino/woojin/internal/util"
)

const (
	_          int = iota
	LOWEST         // lowest
	COMPARISON     // == != < > <= >=
	SUM            // +
	PRODUCT        // *
	PREFIX         // -5
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:   COMPARISON, // `=` compares inside an expression
	token.EQ:       COMPARISON,
	token.NOT_EQ:   COMPARISON,
	token.LT:       COMPARISON,
	token.LT_EQ:    COMPARISON,
	token.GT:       COMPARISON,
	token.GT_EQ:    COMPARISON,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
}

type (
	prefixParseFn func() ast.Calc
	infixParseFn  func(ast.Calc) ast.Calc
)

// calcParser is a Pratt parser over the tokens of one expression.
type calcParser struct {
	l      *lexer.Lexer
	src    string
	errors []string

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func newCalcParser(src string) *calcParser {
	p := &calcParser{
		l:      lexer.New(src),
		src:    src,
		errors: []string{},
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.INT, p.parseNumberLiteral)
	p.registerPrefix(token.FLOAT, p.parseNumberLiteral)
	p.registerPrefix(token.MINUS, p.parseSignedNumber)
	p.registerPrefix(token.PLUS, p.parseSignedNumber)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.VARIABLE, p.parseVariable)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for tokenType := range precedences {
		p.registerInfix(tokenType, p.parseInfixExpression)
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// ParseCalc parses an arithmetic or comparison expression. `*` and `/`
// bind tighter than `+` and `-`, which bind tighter than comparisons.
// Every level is left-associative.
func ParseCalc(src string) (ast.Calc, error) {
	p := newCalcParser(src)
	calc := p.parseExpression(LOWEST)
	if len(p.errors) == 0 && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		p.addError("unexpected %s", describe(p.curToken))
	}
	if len(p.errors) > 0 {
		return nil, object.Errorf(object.ParseError, "%s", strings.Join(p.errors, "; "))
	}
	return calc, nil
}

func (p *calcParser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *calcParser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *calcParser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *calcParser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *calcParser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *calcParser) addError(message string, args ...interface{}) {
	_, col := util.GetLineAndColumn(p.src, p.curToken.Position)
	m := fmt.Sprintf(message, args...)
	p.errors = append(p.errors, fmt.Sprintf("column %d: %s", col, m))
}

func (p *calcParser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.nextToken()
	p.addError("expected %s, got %s instead", t, describe(p.curToken))
	return false
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.ILLEGAL:
		return fmt.Sprintf("illegal token %q", tok.Literal)
	}
	if token.IsStatementKeyword(tok.Type) {
		return fmt.Sprintf("keyword %q, which only starts a statement", tok.Literal)
	}
	return fmt.Sprintf("%q", tok.Literal)
}

func (p *calcParser) parseExpression(precedence int) ast.Calc {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.addError("unexpected %s", describe(p.curToken))
		return nil
	}
	left := prefix()

	for len(p.errors) == 0 && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}

		p.nextToken()

		left = infix(left)
	}

	return left
}

func (p *calcParser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}

	return LOWEST
}

func (p *calcParser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}

	return LOWEST
}

func (p *calcParser) parseInfixExpression(left ast.Calc) ast.Calc {
	expression := &ast.InfixCalc{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)

	return expression
}

func (p *calcParser) parseGroupedExpression() ast.Calc {
	p.nextToken()

	exp := p.parseExpression(LOWEST)

	if len(p.errors) > 0 || !p.expectPeek(token.RPAREN) {
		return nil
	}

	return exp
}

func (p *calcParser) parseNumberLiteral() ast.Calc {
	value, err := numberValue(p.curToken.Literal, p.curTokenIs(token.FLOAT))
	if err != nil {
		p.addError("%v", err)
		return nil
	}
	return &ast.Leaf{Token: p.curToken, Value: value}
}

// parseSignedNumber only accepts a sign directly in front of a number.
func (p *calcParser) parseSignedNumber() ast.Calc {
	sign := p.curToken
	if !p.peekTokenIs(token.INT) && !p.peekTokenIs(token.FLOAT) {
		p.nextToken()
		p.addError("expected a number after %q, got %s", sign.Literal, describe(p.curToken))
		return nil
	}
	p.nextToken()

	literal := sign.Literal + p.curToken.Literal
	value, err := numberValue(literal, p.curTokenIs(token.FLOAT))
	if err != nil {
		p.addError("%v", err)
		return nil
	}
	tok := token.Token{Type: p.curToken.Type, Literal: literal, Position: sign.Position}
	return &ast.Leaf{Token: tok, Value: value}
}

// numberValue maps integer literals to Int, or Long when they do not fit
// in 32 bits, and fractional literals to Float.
func numberValue(literal string, isFloat bool) (object.Value, error) {
	if isFloat {
		f, err := strconv.ParseFloat(literal, 32)
		if err != nil {
			return nil, fmt.Errorf("could not parse %q as float", literal)
		}
		return object.Float{Value: float32(f)}, nil
	}

	i, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("could not parse %q as integer", literal)
	}
	if int64(int32(i)) == i {
		return object.Int{Value: int32(i)}, nil
	}
	return object.Long{Value: i}, nil
}

func (p *calcParser) parseStringLiteral() ast.Calc {
	return &ast.Leaf{Token: p.curToken, Value: object.String{Value: p.curToken.Literal}}
}

func (p *calcParser) parseBoolean() ast.Calc {
	return &ast.Leaf{Token: p.curToken, Value: object.Bool{Value: p.curTokenIs(token.TRUE)}}
}

func (p *calcParser) parseVariable() ast.Calc {
	return &ast.Leaf{Token: p.curToken, Value: object.VarRef{Name: p.curToken.Literal}}
}

// parseArrayLiteral reads `[e1, e2, ...]`. Elements must be literals.
func (p *calcParser) parseArrayLiteral() ast.Calc {
	tok := p.curToken
	elements := []object.Value{}

	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return &ast.Leaf{Token: tok, Value: object.Array{Elements: elements}}
	}

	for {
		p.nextToken()
		element := p.parseExpression(LOWEST)
		if len(p.errors) > 0 {
			return nil
		}
		leaf, ok := element.(*ast.Leaf)
		if !ok {
			p.addError("array elements must be literals, got %s", element.String())
			return nil
		}
		elements = append(elements, leaf.Value)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.Leaf{Token: tok, Value: object.Array{Elements: elements}}
}
