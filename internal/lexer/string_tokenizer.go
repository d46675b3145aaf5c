package lexer

import (
	"github.com/fishy-dino/woojin/internal/token"
	"strings"
)

type StringTokenizer struct {
	lexer *Lexer
	start int // position of the opening quote
}

func NewStringTokenizer(lexer *Lexer, start int) *StringTokenizer {
	return &StringTokenizer{lexer: lexer, start: start}
}

// NextToken reads the body of a string literal; the opening `"` has already
// been consumed. The token literal is the decoded string. An unterminated
// string or an unknown escape yields ILLEGAL.
func (s *StringTokenizer) NextToken() token.Token {
	var result strings.Builder

	// Fall back to the general tokenizer mode after the string ends
	defer s.lexer.setMode(NewGeneralTokenizer(s.lexer))

	for {
		if s.lexer.ch == 0 && s.lexer.position >= len(s.lexer.input) {
			return token.Token{Type: token.ILLEGAL, Literal: s.lexer.input[s.start:], Position: s.start}
		}

		if s.lexer.ch == '"' {
			s.lexer.readChar() // Consume the closing `"`
			break
		}

		if s.lexer.ch == '\\' {
			s.lexer.readChar() // Move to the escaped character
			switch s.lexer.ch {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case 'r':
				result.WriteRune('\r')
			case '0':
				result.WriteRune(0)
			case '\\':
				result.WriteRune('\\')
			case '"':
				result.WriteRune('"')
			default:
				pos := s.lexer.position
				s.lexer.readChar()
				return token.Token{Type: token.ILLEGAL, Literal: `\` + s.lexer.input[pos:s.lexer.position], Position: pos - 1}
			}
		} else {
			result.WriteRune(s.lexer.ch)
		}

		s.lexer.readChar()
	}

	return token.Token{
		Type:     token.STRING,
		Literal:  result.String(),
		Position: s.start,
	}
}
