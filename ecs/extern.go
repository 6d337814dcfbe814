package ecs

import (
	"fmt"
	"reflect"
)

// HostTable resolves extern declarations to host-provided functions.
// It stands in for a dynamic-library loader: systems declare opaque
// callable symbols and the host supplies the implementations.
//
// Bind checks the declared arity against the registered function, and
// that is the extent of the verification. Argument and return types
// beyond shape are a documented trust boundary between the host and
// the declaration, not something this table can validate.
type HostTable struct {
	libs map[string]map[string]reflect.Value
}

// NewHostTable creates an empty host symbol table.
func NewHostTable() *HostTable {
	return &HostTable{
		libs: make(map[string]map[string]reflect.Value),
	}
}

// RegisterLib registers a named library of host functions. Values that
// are not functions and duplicate library names are rejected.
func (t *HostTable) RegisterLib(lib string, fns map[string]any) error {
	if _, ok := t.libs[lib]; ok {
		return registrationErrorf("duplicate host library %q", lib)
	}

	symbols := make(map[string]reflect.Value, len(fns))
	for name, fn := range fns {
		v := reflect.ValueOf(fn)
		if !v.IsValid() || v.Kind() != reflect.Func {
			return registrationErrorf("host symbol %s.%s is not a function", lib, name)
		}
		symbols[name] = v
	}
	t.libs[lib] = symbols
	return nil
}

// HostFunc is a bound host function, callable with variant arguments.
type HostFunc struct {
	lib  string
	name string
	fn   reflect.Value
}

// Bind resolves a symbol and checks its shape: numIn fixed arguments
// and numOut results. Variadic host functions cannot satisfy a fixed
// extern signature and are rejected.
func (t *HostTable) Bind(lib, name string, numIn, numOut int) (*HostFunc, error) {
	symbols, ok := t.libs[lib]
	if !ok {
		return nil, &UnknownSymbolError{Lib: lib, Symbol: name, Reason: "library not registered"}
	}
	fn, ok := symbols[name]
	if !ok {
		return nil, &UnknownSymbolError{Lib: lib, Symbol: name, Reason: "symbol not found"}
	}

	ft := fn.Type()
	if ft.IsVariadic() {
		return nil, &UnknownSymbolError{Lib: lib, Symbol: name, Reason: "variadic function"}
	}
	if ft.NumIn() != numIn {
		return nil, &UnknownSymbolError{Lib: lib, Symbol: name,
			Reason: fmt.Sprintf("arity mismatch: declared %d arguments, host takes %d", numIn, ft.NumIn())}
	}
	if ft.NumOut() != numOut {
		return nil, &UnknownSymbolError{Lib: lib, Symbol: name,
			Reason: fmt.Sprintf("result mismatch: declared %d results, host returns %d", numOut, ft.NumOut())}
	}

	return &HostFunc{lib: lib, name: name, fn: fn}, nil
}

// Call invokes the bound function. Arguments are cast from variants to
// the host parameter types; a mismatch yields a CastError instead of a
// reflect panic. Results come back as variants.
func (h *HostFunc) Call(args ...Variant) ([]Variant, error) {
	ft := h.fn.Type()
	if len(args) != ft.NumIn() {
		return nil, &UnknownSymbolError{Lib: h.lib, Symbol: h.name,
			Reason: fmt.Sprintf("call with %d arguments, host takes %d", len(args), ft.NumIn())}
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg.typ == nil || !arg.typ.AssignableTo(ft.In(i)) {
			return nil, &CastError{From: arg.typ, To: ft.In(i)}
		}
		in[i] = reflect.ValueOf(arg.value)
	}

	out := h.fn.Call(in)
	results := make([]Variant, len(out))
	for i, v := range out {
		results[i] = VariantOf(v.Interface())
	}
	return results, nil
}
