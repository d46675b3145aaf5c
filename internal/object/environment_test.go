package object

import (
	"reflect"
	"sync"
	"testing"
)

func TestDeclareTwice(t *testing.T) {
	env := NewEnvironment()
	if _, err := env.Declare("x", Int{Value: 1}, ANY, false); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if _, err := env.Declare("x", Int{Value: 2}, ANY, true); !IsKind(err, VariableAlreadyDeclared) {
		t.Errorf("expected VariableAlreadyDeclared, got %v", err)
	}
}

func TestAssignImmutable(t *testing.T) {
	env := NewEnvironment()
	env.Declare("x", Int{Value: 1}, ANY, false)

	if _, err := env.Assign("x", Int{Value: 2}); !IsKind(err, VariableNotMutable) {
		t.Errorf("expected VariableNotMutable, got %v", err)
	}
	val, _ := env.Lookup("x")
	if !Equal(val, Int{Value: 1}) {
		t.Errorf("expected the value to stay 1, got %s", val.Inspect())
	}
}

func TestAssignTypeMismatch(t *testing.T) {
	env := NewEnvironment()
	env.Declare("x", Int{Value: 1}, ANY, true)

	if _, err := env.Assign("x", String{Value: "a"}); !IsKind(err, TypeMismatch) {
		t.Errorf("expected TypeMismatch, got %v", err)
	}
	if _, err := env.Assign("x", Int{Value: 5}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	binding, ok := env.GetBinding("x")
	if !ok {
		t.Fatalf("binding missing")
	}
	if binding.Kind != INT || !binding.IsMutable || !Equal(binding.Value, Int{Value: 5}) {
		t.Errorf("unexpected binding %+v", binding)
	}
}

func TestAssignUndeclared(t *testing.T) {
	env := NewEnvironment()
	if _, err := env.Assign("nope", Int{Value: 1}); !IsKind(err, UndeclaredVariable) {
		t.Errorf("expected UndeclaredVariable, got %v", err)
	}
	if _, err := env.Lookup("nope"); !IsKind(err, UndeclaredVariable) {
		t.Errorf("expected UndeclaredVariable, got %v", err)
	}
}

func TestDeclaredKinds(t *testing.T) {
	env := NewEnvironment()

	if _, err := env.Declare("l", Int{Value: 5}, LONG, true); err != nil {
		t.Fatalf("declare long from int: %v", err)
	}
	val, _ := env.Lookup("l")
	if !Equal(val, Long{Value: 5}) {
		t.Errorf("expected long 5, got %s %s", val.Type(), val.Inspect())
	}
	if _, err := env.Assign("l", Int{Value: 6}); err != nil {
		t.Errorf("assign int to long: %v", err)
	}

	if _, err := env.Declare("s", Int{Value: 5}, STRING, false); !IsKind(err, TypeMismatch) {
		t.Errorf("expected TypeMismatch, got %v", err)
	}

	env.Declare("a", Int{Value: 1}, ANY, true)
	if b, _ := env.GetBinding("a"); b.Kind != INT {
		t.Errorf("expected inferred int, got %s", b.Kind)
	}
}

func TestDeclareResolvesReference(t *testing.T) {
	env := NewEnvironment()
	env.Declare("a", Int{Value: 1}, ANY, true)
	env.Declare("b", VarRef{Name: "a"}, ANY, false)
	env.Assign("a", Int{Value: 2})

	val, _ := env.Lookup("b")
	if !Equal(val, Int{Value: 1}) {
		t.Errorf("expected b to keep a copy of 1, got %s", val.Inspect())
	}

	if _, err := env.Declare("c", VarRef{Name: "zzz"}, ANY, false); !IsKind(err, UndeclaredVariable) {
		t.Errorf("expected UndeclaredVariable, got %v", err)
	}
}

func TestNames(t *testing.T) {
	env := NewEnvironment()
	env.Declare("b", TRUE, ANY, false)
	env.Declare("a", TRUE, ANY, false)
	if got := env.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("unexpected names %v", got)
	}
}

func TestConcurrentDeclare(t *testing.T) {
	env := NewEnvironment()
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.Declare("shared", Int{Value: 1}, ANY, false)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else if !IsKind(err, VariableAlreadyDeclared) {
			t.Errorf("unexpected error %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("expected exactly one declaration to succeed, got %d", succeeded)
	}
}
