package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fishy-dino/woojin/internal/ast"
	"github.com/fishy-dino/woojin/internal/object"
)

// WalkAST recursively traverses an AST and serializes it into a map structure for JSON output.
func WalkAST(node ast.Node) interface{} {
	if isNil(node) {
		return nil
	}

	switch n := node.(type) {
	case *ast.Program:
		return map[string]interface{}{
			"type":       "Program",
			"statements": walkStatements(n.Statements),
		}

	case *ast.Leaf:
		return map[string]interface{}{
			"type":  "Leaf",
			"token": n.TokenLiteral(),
			"kind":  n.Value.Type().String(),
			"value": object.Source(n.Value),
		}

	case *ast.InfixCalc:
		return map[string]interface{}{
			"type":     "InfixCalc",
			"operator": n.Operator,
			"left":     WalkAST(n.Left),
			"right":    WalkAST(n.Right),
		}

	case *ast.Comment:
		return map[string]interface{}{
			"type": "Comment",
			"line": n.Line,
			"text": n.Text,
		}

	case *ast.ExpressionStatement:
		return map[string]interface{}{
			"type":       "ExpressionStatement",
			"line":       n.Line,
			"expression": WalkAST(n.Expression),
		}

	case *ast.PrintStatement:
		return map[string]interface{}{
			"type":      "PrintStatement",
			"line":      n.Line,
			"newline":   n.Newline,
			"arguments": walkStatements(n.Arguments),
		}

	case *ast.AssignStatement:
		return map[string]interface{}{
			"type":  "AssignStatement",
			"line":  n.Line,
			"name":  n.Name,
			"value": WalkAST(n.Value),
		}

	case *ast.InputStatement:
		return map[string]interface{}{
			"type":   "InputStatement",
			"line":   n.Line,
			"prompt": WalkAST(n.Prompt),
		}

	case *ast.DeclareStatement:
		return map[string]interface{}{
			"type":    "DeclareStatement",
			"line":    n.Line,
			"name":    n.Name,
			"kind":    n.Kind.String(),
			"mutable": n.IsMutable,
			"value":   WalkAST(n.Value),
		}

	case *ast.IfStatement:
		return map[string]interface{}{
			"type":        "IfStatement",
			"line":        n.Line,
			"condition":   WalkAST(n.Condition),
			"consequence": walkStatements(n.Consequence),
			"alternative": walkStatements(n.Alternative),
		}

	case *ast.AbortStatement:
		return map[string]interface{}{
			"type":  "AbortStatement",
			"line":  n.Line,
			"value": object.Source(n.Value),
		}

	case *ast.ExitStatement:
		return map[string]interface{}{
			"type": "ExitStatement",
			"line": n.Line,
			"code": n.Code,
		}

	case *ast.Literal:
		return map[string]interface{}{
			"type":  "Literal",
			"line":  n.Line,
			"kind":  n.Value.Type().String(),
			"value": object.Source(n.Value),
		}

	case *ast.SleepStatement:
		return map[string]interface{}{
			"type":     "SleepStatement",
			"line":     n.Line,
			"duration": WalkAST(n.Duration),
		}

	default:
		return map[string]interface{}{
			"type": "Unknown",
			"node": fmt.Sprintf("%T", n),
		}
	}
}

func walkStatements(statements []ast.Statement) []interface{} {
	result := make([]interface{}, len(statements))
	for i, s := range statements {
		result[i] = WalkAST(s)
	}
	return result
}

func isNil(node ast.Node) bool {
	return node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil())
}

func RenderASTAsJSON(node ast.Node) (string, error) {
	astMap := WalkAST(node)
	buf := new(bytes.Buffer)
	encoder := json.NewEncoder(buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(astMap); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %v", err)
	}
	return buf.String(), nil
}

// WriteASTToJSON takes a root AST node and writes it to a JSON file.
func WriteASTToJSON(node ast.Node, filename string) error {
	out, err := RenderASTAsJSON(node)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write JSON: %v", err)
	}
	return nil
}

// RenderASTAsText renders the program back as indented source, one
// statement per line, with expressions fully parenthesized.
func RenderASTAsText(node ast.Node, indent int) string {
	if isNil(node) {
		return "nil"
	}

	sp := strings.Repeat("    ", indent)

	switch n := node.(type) {
	case *ast.Program:
		var sb strings.Builder
		for _, s := range n.Statements {
			sb.WriteString(RenderASTAsText(s, 0))
			sb.WriteString("\n")
		}
		return sb.String()

	case *ast.IfStatement:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%sif %s:", sp, n.Condition.String()))
		for _, s := range n.Consequence {
			sb.WriteString("\n" + RenderASTAsText(s, indent+1))
		}
		if len(n.Alternative) > 0 {
			sb.WriteString("\n" + sp + "else:")
			for _, s := range n.Alternative {
				sb.WriteString("\n" + RenderASTAsText(s, indent+1))
			}
		}
		return sb.String()

	default:
		return sp + n.String()
	}
}

func WriteASTToText(node ast.Node, filename string) error {
	if err := os.WriteFile(filename, []byte(RenderASTAsText(node, 0)), 0644); err != nil {
		return fmt.Errorf("failed to write AST text: %v", err)
	}
	return nil
}
