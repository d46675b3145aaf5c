package object

// Kind tags a Value. ANY is only used as a declared kind and accepts every
// value; REF tags an unresolved variable reference.
type Kind uint8

const (
	ANY Kind = iota
	BOOL
	STRING
	INT
	LONG
	FLOAT
	DOUBLE
	ARRAY
	UNIT_KIND
	REF
)

var kindNames = [...]string{"any", "bool", "string", "int", "long", "float", "double", "array", "unit", "ref"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Accepts reports whether a variable declared with k may hold a value of kind other.
func (k Kind) Accepts(other Kind) bool {
	return k == ANY || k == other
}

func (k Kind) IsNumeric() bool {
	return k == INT || k == LONG || k == FLOAT || k == DOUBLE
}

func (k Kind) IsInteger() bool {
	return k == INT || k == LONG
}

// KindFromName maps a type annotation to a Kind. REF is not nameable.
func KindFromName(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name && Kind(i) != REF {
			return Kind(i), true
		}
	}
	return ANY, false
}

// Coerce widens v to kind: int to long, float or double, and float to
// double. Values the kind already accepts are returned unchanged.
func Coerce(kind Kind, v Value) (Value, bool) {
	if kind.Accepts(v.Type()) {
		return v, true
	}
	switch x := v.(type) {
	case Int:
		switch kind {
		case LONG:
			return Long{Value: int64(x.Value)}, true
		case FLOAT:
			return Float{Value: float32(x.Value)}, true
		case DOUBLE:
			return Double{Value: float64(x.Value)}, true
		}
	case Float:
		if kind == DOUBLE {
			return Double{Value: float64(x.Value)}, true
		}
	}
	return v, false
}
