package parser

import (
	"github.com/fishy-dino/woojin/internal/ast"
	"github.com/fishy-dino/woojin/internal/object"
)

// Evaluator runs a statement while the program is still being parsed.
// `roar` needs it to bind its value eagerly.
type Evaluator interface {
	Execute(stmt ast.Statement) (object.Value, error)
}

type Parser struct {
	eval Evaluator
}

func New(eval Evaluator) *Parser {
	return &Parser{eval: eval}
}
