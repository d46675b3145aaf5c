package object

import (
	"log/slog"
	"sort"
	"sync"
)

// Environment is the single namespace of a program run. Every operation
// holds the lock across its whole check-then-write.
type Environment struct {
	Bindings map[string]*Binding

	mu sync.Mutex
}

type Binding struct {
	Value     Value
	Kind      Kind
	IsMutable bool
}

func NewEnvironment() *Environment {
	return &Environment{
		Bindings: make(map[string]*Binding),
	}
}

// Lookup returns a copy of the value bound to name.
func (e *Environment) Lookup(name string) (Value, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	binding, ok := e.Bindings[name]
	if !ok {
		return nil, Errorf(UndeclaredVariable, "variable %s is not declared", name)
	}
	return binding.Value, nil
}

// GetBinding returns a copy of the binding for name.
func (e *Environment) GetBinding(name string) (Binding, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	binding, ok := e.Bindings[name]
	if !ok {
		return Binding{}, false
	}
	return *binding, true
}

// Declare binds name once. A kind of ANY takes the kind of the value.
func (e *Environment) Declare(name string, val Value, kind Kind, isMutable bool) (Value, error) {
	resolved, err := Resolve(e, val)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.Bindings[name]; exists {
		return nil, Errorf(VariableAlreadyDeclared, "variable %s is already declared", name)
	}

	if kind == ANY {
		kind = resolved.Type()
	}
	coerced, ok := Coerce(kind, resolved)
	if !ok {
		return nil, Errorf(TypeMismatch, "variable %s is declared as %s but was given %s", name, kind, resolved.Type())
	}

	e.Bindings[name] = &Binding{
		Value:     coerced,
		Kind:      kind,
		IsMutable: isMutable,
	}

	slog.Debug("binding value",
		slog.String("name", name),
		slog.Any("kind", kind),
		slog.Bool("mutable", isMutable))
	return coerced, nil
}

// Assign replaces the value of a mutable binding, keeping its kind.
func (e *Environment) Assign(name string, val Value) (Value, error) {
	resolved, err := Resolve(e, val)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	binding, exists := e.Bindings[name]
	if !exists {
		return nil, Errorf(UndeclaredVariable, "variable %s is not declared", name)
	}
	if !binding.IsMutable {
		return nil, Errorf(VariableNotMutable, "variable %s is not mutable", name)
	}
	coerced, ok := Coerce(binding.Kind, resolved)
	if !ok {
		return nil, Errorf(TypeMismatch, "variable %s is %s, not %s", name, binding.Kind, resolved.Type())
	}
	binding.Value = coerced

	slog.Debug("assigning bound value",
		slog.String("name", name),
		slog.Any("kind", binding.Kind))
	return coerced, nil
}

// Names lists the declared names in sorted order.
func (e *Environment) Names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := make([]string, 0, len(e.Bindings))
	for name := range e.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
