package object

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failures a program can hit. The numeric
// value is the code shown to the user as WJ<code>.
type ErrorKind int

const (
	Roar ErrorKind = iota
	Success
	Unknown
	UnknownToken
	FileNotFound
	UnsupportedExtension
	FailReadFailure
	UndeclaredVariable
	VariableAlreadyDeclared
	VariableNotMutable
	ParseError
	CannotAdd
	CannotSubtract
	CannotMultiply
	CannotDivide
	DivisionByZero
	InvalidType
	TypeMismatch
	CannotCompare
	IfParsingFailed
	ElseParsingFailed
)

var errorKindNames = map[ErrorKind]string{
	Roar:                    "Roar",
	Success:                 "Success",
	Unknown:                 "Unknown",
	UnknownToken:            "UnknownToken",
	FileNotFound:            "FileNotFound",
	UnsupportedExtension:    "UnsupportedExtension",
	FailReadFailure:         "FailReadFailure",
	UndeclaredVariable:      "UndeclaredVariable",
	VariableAlreadyDeclared: "VariableAlreadyDeclared",
	VariableNotMutable:      "VariableNotMutable",
	ParseError:              "ParseError",
	CannotAdd:               "CannotAdd",
	CannotSubtract:          "CannotSubtract",
	CannotMultiply:          "CannotMultiply",
	CannotDivide:            "CannotDivide",
	DivisionByZero:          "DivisionByZero",
	InvalidType:             "InvalidType",
	TypeMismatch:            "TypeMismatch",
	CannotCompare:           "CannotCompare",
	IfParsingFailed:         "IfParsingFailed",
	ElseParsingFailed:       "ElseParsingFailed",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error lets a kind be used as an errors.Is target.
func (k ErrorKind) Error() string { return k.String() }

type Error struct {
	Kind    ErrorKind
	Message string
	Line    int // 1-based source line, 0 when unknown
}

func Errorf(kind ErrorKind, format string, a ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("WJ%d: %s", int(e.Kind), e.Message)
}

func (e *Error) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == e.Kind
}

// Render formats the error the way it is shown on the terminal.
func (e *Error) Render(color bool) string {
	if color {
		return fmt.Sprintf("\x1b[1m\x1b[31mWJ%d\x1b[0m: %s", int(e.Kind), e.Message)
	}
	return e.Error()
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return errors.Is(err, kind)
}

// AtLine records the source line on err if it is an *Error without one.
func AtLine(err error, line int) error {
	var e *Error
	if errors.As(err, &e) && e.Line == 0 {
		e.Line = line
	}
	return err
}
