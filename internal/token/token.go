package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT    = "IDENT"    // int, mut, x, ...
	VARIABLE = "VARIABLE" // $name
	INT      = "INT"      // 1343456
	FLOAT    = "FLOAT"    // 3.14
	STRING   = "STRING"   // "foobar"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"

	LT    = "<"
	LT_EQ = "<="
	GT    = ">"
	GT_EQ = ">="

	EQ     = "=="
	NOT_EQ = "!="

	// Delimiters
	COMMA   = ","
	COLON   = ":"
	COMMENT = "//"

	LPAREN   = "("
	RPAREN   = ")"
	LBRACKET = "["
	RBRACKET = "]"

	// Keywords
	TRUE    = "TRUE"
	FALSE   = "FALSE"
	LET     = "LET"
	MUT     = "MUT"
	IF      = "IF"
	ELSE    = "ELSE"
	PRINT   = "PRINT"
	PRINTLN = "PRINTLN"
	INPUT   = "INPUT"
	SLEEP   = "SLEEP"
	ROAR    = "ROAR"
	YEE     = "YEE"
)

type Token struct {
	Type     TokenType
	Literal  string
	Position int // the src index of the token
}

var keywords = map[string]TokenType{
	// constants
	"uglyguri":      TRUE,
	"beautifulguri": FALSE,

	// declarations
	"let": LET,
	"mut": MUT,

	// flow control
	"if":   IF,
	"else": ELSE,
	"yee":  YEE,
	"roar": ROAR,

	// io
	"print":   PRINT,
	"println": PRINTLN,
	"input":   INPUT,
	"sleep":   SLEEP,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsStatementKeyword reports whether t may only start a statement and
// cannot appear inside an expression.
func IsStatementKeyword(t TokenType) bool {
	switch t {
	case LET, MUT, IF, ELSE, PRINT, PRINTLN, INPUT, SLEEP, ROAR, YEE:
		return true
	}
	return false
}
