package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/fishy-dino/woojin/internal/object"
	"github.com/fishy-dino/woojin/internal/token"
)

// The base Node interface
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement is one line of a program, or an if/else block.
type Statement interface {
	Node
	statementNode()
	SourceLine() int
}

// Calc is a node of an arithmetic or comparison expression tree.
type Calc interface {
	Node
	calcNode()
}

type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	} else {
		return ""
	}
}

func (p *Program) String() string {
	var out bytes.Buffer

	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}

	return out.String()
}

// Leaf holds a literal value or a variable reference.
type Leaf struct {
	Token token.Token
	Value object.Value
}

func (l *Leaf) calcNode()            {}
func (l *Leaf) TokenLiteral() string { return l.Token.Literal }
func (l *Leaf) String() string       { return object.Source(l.Value) }

// InfixCalc is a binary operation. Operator is one of + - * / or a
// comparison operator.
type InfixCalc struct {
	Token    token.Token // The operator token
	Operator string
	Left     Calc
	Right    Calc
}

func (ic *InfixCalc) calcNode()            {}
func (ic *InfixCalc) TokenLiteral() string { return ic.Token.Literal }
func (ic *InfixCalc) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ic.Left.String())
	out.WriteString(" " + ic.Operator + " ")
	out.WriteString(ic.Right.String())
	out.WriteString(")")

	return out.String()
}

type Comment struct {
	Token token.Token
	Line  int
	Text  string
}

func (c *Comment) statementNode()       {}
func (c *Comment) SourceLine() int      { return c.Line }
func (c *Comment) TokenLiteral() string { return c.Token.Literal }
func (c *Comment) String() string       { return "// " + c.Text }

type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Line       int
	Expression Calc
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) SourceLine() int      { return es.Line }
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

type PrintStatement struct {
	Token     token.Token // The 'print' or 'println' token
	Line      int
	Arguments []Statement
	Newline   bool
}

func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) SourceLine() int      { return ps.Line }
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Literal }
func (ps *PrintStatement) String() string {
	var out bytes.Buffer

	if ps.Newline {
		out.WriteString("println")
	} else {
		out.WriteString("print")
	}

	args := []string{}
	for _, a := range ps.Arguments {
		args = append(args, a.String())
	}
	if len(args) > 0 {
		out.WriteString(" ")
		out.WriteString(strings.Join(args, ", "))
	}

	return out.String()
}

type AssignStatement struct {
	Token token.Token // the $name token
	Line  int
	Name  string
	Value Statement
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) SourceLine() int      { return as.Line }
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignStatement) String() string {
	return "$" + as.Name + " = " + as.Value.String()
}

type InputStatement struct {
	Token  token.Token // The 'input' token
	Line   int
	Prompt Statement
}

func (is *InputStatement) statementNode()       {}
func (is *InputStatement) SourceLine() int      { return is.Line }
func (is *InputStatement) TokenLiteral() string { return is.Token.Literal }
func (is *InputStatement) String() string {
	return "input " + is.Prompt.String()
}

type DeclareStatement struct {
	Token     token.Token // The 'let' token
	Line      int
	Name      string
	Kind      object.Kind
	Value     Statement
	IsMutable bool
}

func (ds *DeclareStatement) statementNode()       {}
func (ds *DeclareStatement) SourceLine() int      { return ds.Line }
func (ds *DeclareStatement) TokenLiteral() string { return ds.Token.Literal }
func (ds *DeclareStatement) String() string {
	var out bytes.Buffer

	out.WriteString("let ")
	if ds.IsMutable {
		out.WriteString("mut ")
	}
	out.WriteString(ds.Name)
	if ds.Kind != object.ANY {
		out.WriteString(": " + ds.Kind.String())
	}
	out.WriteString(" = ")
	out.WriteString(ds.Value.String())

	return out.String()
}

type IfStatement struct {
	Token       token.Token // The 'if' token
	Line        int
	Condition   Statement
	Consequence []Statement
	Alternative []Statement
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) SourceLine() int      { return is.Line }
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) String() string {
	var out bytes.Buffer

	out.WriteString("if ")
	out.WriteString(is.Condition.String())
	out.WriteString(": ")
	out.WriteString(block(is.Consequence))

	if len(is.Alternative) > 0 {
		out.WriteString(" else: ")
		out.WriteString(block(is.Alternative))
	}

	return out.String()
}

func block(statements []Statement) string {
	parts := []string{}
	for _, s := range statements {
		parts = append(parts, s.String())
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// AbortStatement carries the value bound when the line was parsed.
type AbortStatement struct {
	Token token.Token // The 'roar' token
	Line  int
	Value object.Value
}

func (as *AbortStatement) statementNode()       {}
func (as *AbortStatement) SourceLine() int      { return as.Line }
func (as *AbortStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AbortStatement) String() string {
	return "roar " + object.Source(as.Value)
}

type ExitStatement struct {
	Token token.Token // The 'yee' token
	Line  int
	Code  int32
}

func (es *ExitStatement) statementNode()       {}
func (es *ExitStatement) SourceLine() int      { return es.Line }
func (es *ExitStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExitStatement) String() string {
	return "yee " + strconv.FormatInt(int64(es.Code), 10)
}

type Literal struct {
	Token token.Token
	Line  int
	Value object.Value
}

func (l *Literal) statementNode()       {}
func (l *Literal) SourceLine() int      { return l.Line }
func (l *Literal) TokenLiteral() string { return l.Token.Literal }
func (l *Literal) String() string       { return object.Source(l.Value) }

type SleepStatement struct {
	Token    token.Token // The 'sleep' token
	Line     int
	Duration Statement
}

func (ss *SleepStatement) statementNode()       {}
func (ss *SleepStatement) SourceLine() int      { return ss.Line }
func (ss *SleepStatement) TokenLiteral() string { return ss.Token.Literal }
func (ss *SleepStatement) String() string {
	return "sleep " + ss.Duration.String()
}
