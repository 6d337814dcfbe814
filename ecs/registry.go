package ecs

import "reflect"

type typeKind uint8

const (
	kindComponent typeKind = iota
	kindResource
)

func (k typeKind) String() string {
	if k == kindResource {
		return "resource"
	}
	return "component"
}

// typeEntry describes one registered component or resource type.
type typeEntry struct {
	id       int
	typ      reflect.Type
	kind     typeKind
	newTable func() componentTable
}

// TypeRegistry manages component and resource type registration for an
// ECS instance. Components and resources share a single type
// namespace: the same type cannot be registered as both. Each World
// has its own TypeRegistry, allowing multiple independent worlds to
// coexist without interference.
type TypeRegistry struct {
	byType  map[reflect.Type]*typeEntry
	entries []*typeEntry
}

// NewTypeRegistry creates a new type registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		byType: make(map[reflect.Type]*typeEntry),
	}
}

// RegisterComponent registers a new component type with the registry.
// This must be called for each component type before entities can hold
// it or systems can declare access to it.
func RegisterComponent[T any](r *TypeRegistry) error {
	return r.register(reflect.TypeFor[T](), kindComponent, func() componentTable {
		return newGenericTable[T]()
	})
}

// RegisterResource registers a new global resource type with the
// registry. The World materializes a single zero-valued instance per
// registered resource type.
func RegisterResource[T any](r *TypeRegistry) error {
	return r.register(reflect.TypeFor[T](), kindResource, nil)
}

func (r *TypeRegistry) register(t reflect.Type, kind typeKind, newTable func() componentTable) error {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
		return registrationErrorf("%s type %s must be a value type", kind, t)
	}

	if prev, ok := r.byType[t]; ok {
		if prev.kind != kind {
			return registrationErrorf("type %s already registered as a %s", t, prev.kind)
		}
		return registrationErrorf("duplicate %s type %s", kind, t)
	}

	entry := &typeEntry{
		id:       len(r.entries),
		typ:      t,
		kind:     kind,
		newTable: newTable,
	}
	r.byType[t] = entry
	r.entries = append(r.entries, entry)
	return nil
}

// lookup returns the entry for a type, or nil if it was never
// registered.
func (r *TypeRegistry) lookup(t reflect.Type) *typeEntry {
	return r.byType[t]
}
