package parser

import (
	"strings"

	"github.com/fishy-dino/woojin/internal/ast"
	"github.com/fishy-dino/woojin/internal/object"
	"github.com/fishy-dino/woojin/internal/token"
)

// ParseLiteral parses exactly one literal value: a signed integer or
// float, a string, a boolean word, a $variable reference or an array of
// literals.
func ParseLiteral(src string) (object.Value, error) {
	p := newCalcParser(src)

	var leaf ast.Calc
	switch p.curToken.Type {
	case token.INT, token.FLOAT, token.MINUS, token.PLUS, token.STRING,
		token.TRUE, token.FALSE, token.VARIABLE, token.LBRACKET:
		leaf = p.prefixParseFns[p.curToken.Type]()
	default:
		p.addError("expected a literal, got %s", describe(p.curToken))
	}

	if len(p.errors) == 0 && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		p.addError("unexpected %s after literal", describe(p.curToken))
	}
	if len(p.errors) > 0 {
		return nil, object.Errorf(object.ParseError, "%s", strings.Join(p.errors, "; "))
	}
	return leaf.(*ast.Leaf).Value, nil
}
