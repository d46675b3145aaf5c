package object

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const (
	TRUE_WORD  = "uglyguri"
	FALSE_WORD = "beautifulguri"
)

var (
	TRUE  = Bool{Value: true}
	FALSE = Bool{Value: false}
	UNIT  = Unit{}
)

// Resolver looks up the value currently bound to a variable name.
type Resolver interface {
	Lookup(name string) (Value, error)
}

// Value is a run-time value. Implementations are small structs and are
// passed around by value.
type Value interface {
	Type() Kind
	Inspect() string
}

type Bool struct {
	Value bool
}

func (b Bool) Type() Kind { return BOOL }
func (b Bool) Inspect() string {
	if b.Value {
		return TRUE_WORD
	}
	return FALSE_WORD
}

type String struct {
	Value string
}

func (s String) Type() Kind      { return STRING }
func (s String) Inspect() string { return s.Value }

type Int struct {
	Value int32
}

func (i Int) Type() Kind      { return INT }
func (i Int) Inspect() string { return strconv.FormatInt(int64(i.Value), 10) }

type Long struct {
	Value int64
}

func (l Long) Type() Kind      { return LONG }
func (l Long) Inspect() string { return strconv.FormatInt(l.Value, 10) }

type Float struct {
	Value float32
}

func (f Float) Type() Kind      { return FLOAT }
func (f Float) Inspect() string { return strconv.FormatFloat(float64(f.Value), 'f', -1, 32) }

type Double struct {
	Value float64
}

func (d Double) Type() Kind      { return DOUBLE }
func (d Double) Inspect() string { return strconv.FormatFloat(d.Value, 'f', -1, 64) }

type Array struct {
	Elements []Value
}

func (a Array) Type() Kind { return ARRAY }
func (a Array) Inspect() string {
	var out bytes.Buffer

	elements := []string{}
	for _, e := range a.Elements {
		elements = append(elements, e.Inspect())
	}

	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")

	return out.String()
}

// VarRef names a variable. It is never a final value: consumers call
// Resolve before using it.
type VarRef struct {
	Name string
}

func (v VarRef) Type() Kind      { return REF }
func (v VarRef) Inspect() string { return "$" + v.Name }

type Unit struct{}

func (u Unit) Type() Kind      { return UNIT_KIND }
func (u Unit) Inspect() string { return "()" }

// Resolve follows a variable reference to the value bound to it. Array
// elements are resolved as well so a stored array never aliases a variable.
func Resolve(r Resolver, v Value) (Value, error) {
	switch v := v.(type) {
	case VarRef:
		return r.Lookup(v.Name)
	case Array:
		elements := make([]Value, len(v.Elements))
		for i, e := range v.Elements {
			resolved, err := Resolve(r, e)
			if err != nil {
				return nil, err
			}
			elements[i] = resolved
		}
		return Array{Elements: elements}, nil
	default:
		return v, nil
	}
}

// KindOf reports the kind of v after resolving references.
func KindOf(r Resolver, v Value) (Kind, error) {
	resolved, err := Resolve(r, v)
	if err != nil {
		return ANY, err
	}
	return resolved.Type(), nil
}

// TypeMatches is true when kind is ANY or equals the resolved kind of v.
func TypeMatches(r Resolver, v Value, kind Kind) (bool, error) {
	k, err := KindOf(r, v)
	if err != nil {
		return false, err
	}
	return kind.Accepts(k), nil
}

// Render produces the user-visible text of v.
func Render(r Resolver, v Value) (string, error) {
	resolved, err := Resolve(r, v)
	if err != nil {
		return "", err
	}
	return resolved.Inspect(), nil
}

// Quote renders s in string literal syntax.
func Quote(s string) string {
	var out strings.Builder
	out.WriteByte('"')
	for _, ch := range s {
		switch ch {
		case '\\':
			out.WriteString(`\\`)
		case '"':
			out.WriteString(`\"`)
		case '\t':
			out.WriteString(`\t`)
		case '\n':
			out.WriteString(`\n`)
		case '\r':
			out.WriteString(`\r`)
		case 0:
			out.WriteString(`\0`)
		default:
			out.WriteRune(ch)
		}
	}
	out.WriteByte('"')
	return out.String()
}

// Source renders v back into literal syntax.
func Source(v Value) string {
	switch v := v.(type) {
	case String:
		return Quote(v.Value)
	case Float:
		s := v.Inspect()
		if !strings.ContainsAny(s, ".eEN") {
			s += ".0"
		}
		return s
	case Double:
		s := v.Inspect()
		if !strings.ContainsAny(s, ".eEN") {
			s += ".0"
		}
		return s
	case Array:
		elements := make([]string, len(v.Elements))
		for i, e := range v.Elements {
			elements[i] = Source(e)
		}
		return "[" + strings.Join(elements, ", ") + "]"
	case nil:
		return "<nil>"
	default:
		return v.Inspect()
	}
}

// Equal reports structural equality of two unresolved values.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch a := a.(type) {
	case Array:
		other := b.(Array)
		if len(a.Elements) != len(other.Elements) {
			return false
		}
		for i := range a.Elements {
			if !Equal(a.Elements[i], other.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func typeName(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s", v.Type())
}
