package object

import (
	"strings"
)

// maxRepeatBytes bounds the result of string repetition.
const maxRepeatBytes = 1 << 30

func resolvePair(r Resolver, left, right Value) (Value, Value, error) {
	l, err := Resolve(r, left)
	if err != nil {
		return nil, nil, err
	}
	rr, err := Resolve(r, right)
	if err != nil {
		return nil, nil, err
	}
	return l, rr, nil
}

func Add(r Resolver, left, right Value) (Value, error) {
	l, rr, err := resolvePair(r, left, right)
	if err != nil {
		return nil, err
	}
	if ls, ok := l.(String); ok {
		if rs, ok := rr.(String); ok {
			return String{Value: ls.Value + rs.Value}, nil
		}
	}
	if v, ok := arithmetic("+", l, rr); ok {
		return v, nil
	}
	return nil, Errorf(CannotAdd, "cannot add %s and %s", typeName(l), typeName(rr))
}

func Sub(r Resolver, left, right Value) (Value, error) {
	l, rr, err := resolvePair(r, left, right)
	if err != nil {
		return nil, err
	}
	if v, ok := arithmetic("-", l, rr); ok {
		return v, nil
	}
	return nil, Errorf(CannotSubtract, "cannot subtract %s from %s", typeName(rr), typeName(l))
}

func Mul(r Resolver, left, right Value) (Value, error) {
	l, rr, err := resolvePair(r, left, right)
	if err != nil {
		return nil, err
	}
	if s, ok := l.(String); ok {
		switch n := rr.(type) {
		case Int:
			return repeat(s.Value, int64(n.Value))
		case Long:
			return repeat(s.Value, n.Value)
		}
	}
	if v, ok := arithmetic("*", l, rr); ok {
		return v, nil
	}
	return nil, Errorf(CannotMultiply, "cannot multiply %s by %s", typeName(l), typeName(rr))
}

func Div(r Resolver, left, right Value) (Value, error) {
	l, rr, err := resolvePair(r, left, right)
	if err != nil {
		return nil, err
	}
	if l.Type().IsNumeric() && rr.Type().IsNumeric() && isZero(rr) {
		return nil, Errorf(DivisionByZero, "cannot divide %s by zero", l.Inspect())
	}
	if v, ok := arithmetic("/", l, rr); ok {
		return v, nil
	}
	return nil, Errorf(CannotDivide, "cannot divide %s by %s", typeName(l), typeName(rr))
}

func repeat(s string, count int64) (Value, error) {
	if count < 0 {
		return nil, Errorf(CannotMultiply, "cannot repeat a string a negative number of times (%d)", count)
	}
	if count > 0 && int64(len(s)) > maxRepeatBytes/count {
		return nil, Errorf(CannotMultiply, "repeating a %d byte string %d times is too large", len(s), count)
	}
	return String{Value: strings.Repeat(s, int(count))}, nil
}

// promote picks the result kind of a binary numeric operation.
func promote(a, b Kind) Kind {
	if a.IsInteger() && b.IsInteger() {
		if a == LONG || b == LONG {
			return LONG
		}
		return INT
	}
	if a == DOUBLE || b == DOUBLE || a == LONG || b == LONG {
		return DOUBLE
	}
	return FLOAT
}

func asInt64(v Value) int64 {
	switch v := v.(type) {
	case Int:
		return int64(v.Value)
	case Long:
		return v.Value
	}
	return 0
}

func asFloat64(v Value) float64 {
	switch v := v.(type) {
	case Int:
		return float64(v.Value)
	case Long:
		return float64(v.Value)
	case Float:
		return float64(v.Value)
	case Double:
		return v.Value
	}
	return 0
}

func asFloat32(v Value) float32 {
	switch v := v.(type) {
	case Int:
		return float32(v.Value)
	case Long:
		return float32(v.Value)
	case Float:
		return v.Value
	case Double:
		return float32(v.Value)
	}
	return 0
}

func isZero(v Value) bool {
	switch v := v.(type) {
	case Int:
		return v.Value == 0
	case Long:
		return v.Value == 0
	case Float:
		return v.Value == 0
	case Double:
		return v.Value == 0
	}
	return false
}

// arithmetic applies operator to two resolved numbers. Integer results wrap
// on overflow.
func arithmetic(operator string, left, right Value) (Value, bool) {
	if !left.Type().IsNumeric() || !right.Type().IsNumeric() {
		return nil, false
	}

	switch promote(left.Type(), right.Type()) {
	case INT:
		a, b := int32(asInt64(left)), int32(asInt64(right))
		switch operator {
		case "+":
			return Int{Value: a + b}, true
		case "-":
			return Int{Value: a - b}, true
		case "*":
			return Int{Value: a * b}, true
		case "/":
			return Int{Value: a / b}, true
		}
	case LONG:
		a, b := asInt64(left), asInt64(right)
		switch operator {
		case "+":
			return Long{Value: a + b}, true
		case "-":
			return Long{Value: a - b}, true
		case "*":
			return Long{Value: a * b}, true
		case "/":
			return Long{Value: a / b}, true
		}
	case FLOAT:
		a, b := asFloat32(left), asFloat32(right)
		switch operator {
		case "+":
			return Float{Value: a + b}, true
		case "-":
			return Float{Value: a - b}, true
		case "*":
			return Float{Value: a * b}, true
		case "/":
			return Float{Value: a / b}, true
		}
	case DOUBLE:
		a, b := asFloat64(left), asFloat64(right)
		switch operator {
		case "+":
			return Double{Value: a + b}, true
		case "-":
			return Double{Value: a - b}, true
		case "*":
			return Double{Value: a * b}, true
		case "/":
			return Double{Value: a / b}, true
		}
	}
	return nil, false
}

// Compare evaluates a comparison operator ("==", "=", "!=", "<", ">", "<=",
// ">=") and returns a Bool.
func Compare(r Resolver, operator string, left, right Value) (Value, error) {
	l, rr, err := resolvePair(r, left, right)
	if err != nil {
		return nil, err
	}

	var cmp int
	ordered := true
	switch {
	case l.Type().IsNumeric() && rr.Type().IsNumeric():
		cmp = compareNumbers(l, rr)
	case l.Type() == STRING && rr.Type() == STRING:
		cmp = strings.Compare(l.(String).Value, rr.(String).Value)
	case l.Type() == BOOL && rr.Type() == BOOL:
		ordered = false
		if l.(Bool).Value != rr.(Bool).Value {
			cmp = 1
		}
	default:
		return nil, Errorf(CannotCompare, "cannot compare %s with %s", typeName(l), typeName(rr))
	}

	switch operator {
	case "==", "=":
		return Bool{Value: cmp == 0}, nil
	case "!=":
		return Bool{Value: cmp != 0}, nil
	}
	if !ordered {
		return nil, Errorf(CannotCompare, "cannot order %s values with %s", typeName(l), operator)
	}
	switch operator {
	case "<":
		return Bool{Value: cmp < 0}, nil
	case ">":
		return Bool{Value: cmp > 0}, nil
	case "<=":
		return Bool{Value: cmp <= 0}, nil
	case ">=":
		return Bool{Value: cmp >= 0}, nil
	}
	return nil, Errorf(CannotCompare, "unknown comparison operator %q", operator)
}

func compareNumbers(left, right Value) int {
	if promote(left.Type(), right.Type()).IsInteger() {
		a, b := asInt64(left), asInt64(right)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	a, b := asFloat64(left), asFloat64(right)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
