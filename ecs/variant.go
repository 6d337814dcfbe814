package ecs

import "reflect"

// Variant is a type-erased value carrying a runtime type tag. Casting
// back to a concrete type checks the tag and returns an explicit
// result instead of panicking, so script-level cast failures stay
// recoverable.
type Variant struct {
	typ   reflect.Type
	value any
}

// VariantOf wraps a value in a Variant.
func VariantOf(value any) Variant {
	return Variant{
		typ:   reflect.TypeOf(value),
		value: value,
	}
}

// Type returns the runtime type tag, or nil for the nil variant.
func (v Variant) Type() reflect.Type {
	return v.typ
}

// IsNil reports whether the variant holds no value.
func (v Variant) IsNil() bool {
	return v.typ == nil
}

// Interface returns the wrapped value.
func (v Variant) Interface() any {
	return v.value
}

// Cast narrows the variant to a concrete type. On a tag mismatch it
// returns the zero value and a CastError.
func Cast[T any](v Variant) (T, error) {
	if value, ok := v.value.(T); ok {
		return value, nil
	}
	var zero T
	return zero, &CastError{From: v.typ, To: reflect.TypeFor[T]()}
}
