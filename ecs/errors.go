package ecs

import (
	"fmt"
	"reflect"
)

// RegistrationError reports an invalid component, resource, system or
// test registration: duplicate names, shared-namespace collisions, or
// a self-contradictory access declaration. Registration fails fast;
// the world never starts ticking with a bad registration applied.
type RegistrationError struct {
	Msg string
}

func (e *RegistrationError) Error() string {
	return "ecs: registration: " + e.Msg
}

func registrationErrorf(format string, args ...any) *RegistrationError {
	return &RegistrationError{Msg: fmt.Sprintf(format, args...)}
}

// UnknownTypeError reports a system declaring access to a component or
// resource type that was never registered.
type UnknownTypeError struct {
	Type reflect.Type
}

func (e *UnknownTypeError) Error() string {
	return "ecs: unknown type " + e.Type.String()
}

// AccessViolationError is the defensive runtime re-check of the
// static schedule: two concurrently running systems touched the same
// exclusive type, which indicates a scheduler bug rather than user
// error. It is fatal to the current tick.
type AccessViolationError struct {
	System string
	Type   reflect.Type
}

func (e *AccessViolationError) Error() string {
	return fmt.Sprintf("ecs: access violation: system %q on type %s", e.System, e.Type)
}

// UndeclaredAccessError reports a system body touching a type absent
// from its declared access set. The offending system is isolated for
// the wave and the error surfaces from Tick.
type UndeclaredAccessError struct {
	System string
	Type   reflect.Type
}

func (e *UndeclaredAccessError) Error() string {
	return fmt.Sprintf("ecs: system %q accessed undeclared type %s", e.System, e.Type)
}

// SystemPanicError wraps a panic recovered from a system body. The
// panic aborts that system's remaining invocations for the wave but
// leaves storage intact, since structural changes are deferred.
type SystemPanicError struct {
	System string
	Value  any
}

func (e *SystemPanicError) Error() string {
	return fmt.Sprintf("ecs: system %q panicked: %v", e.System, e.Value)
}

// CastError reports a failed narrowing of a Variant to a concrete
// type. It is recoverable and never aborts a tick.
type CastError struct {
	From reflect.Type
	To   reflect.Type
}

func (e *CastError) Error() string {
	from := "nil"
	if e.From != nil {
		from = e.From.String()
	}
	return fmt.Sprintf("ecs: cannot cast %s to %s", from, e.To)
}

// UnknownSymbolError reports a host-library bind failure: the library
// or symbol is missing, or the declared shape does not match.
type UnknownSymbolError struct {
	Lib    string
	Symbol string
	Reason string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("ecs: host symbol %s.%s: %s", e.Lib, e.Symbol, e.Reason)
}
