package ecs

import "reflect"

// Access declares one component or resource requirement of a system:
// the type plus whether the system mutates it. Accesses exist only for
// conflict computation and the defensive runtime re-check; they play
// no part in dispatch.
type Access struct {
	typ     reflect.Type
	mutable bool
}

// Read declares immutable access to type T.
func Read[T any]() Access {
	return Access{typ: reflect.TypeFor[T]()}
}

// Write declares mutable access to type T.
func Write[T any]() Access {
	return Access{typ: reflect.TypeFor[T](), mutable: true}
}

// Type returns the accessed type.
func (a Access) Type() reflect.Type { return a.typ }

// Mutable reports whether the access is exclusive.
func (a Access) Mutable() bool { return a.mutable }

// resolvedAccess binds a declared access to its registry entry.
type resolvedAccess struct {
	entry   *typeEntry
	slot    *storeSlot
	mutable bool
}

// descriptor is a system's full resolved access set.
type descriptor struct {
	components []resolvedAccess
	resources  []resolvedAccess
}

func (d *descriptor) all(yield func(resolvedAccess) bool) {
	for _, a := range d.components {
		if !yield(a) {
			return
		}
	}
	for _, a := range d.resources {
		if !yield(a) {
			return
		}
	}
}

// find returns the resolved access for a type, or nil if the
// descriptor does not declare it.
func (d *descriptor) find(t reflect.Type) *resolvedAccess {
	for i := range d.components {
		if d.components[i].entry.typ == t {
			return &d.components[i]
		}
	}
	for i := range d.resources {
		if d.resources[i].entry.typ == t {
			return &d.resources[i]
		}
	}
	return nil
}

// resolveAccesses validates one declaration list against the registry.
// Unknown types and kind mismatches are rejected, as is declaring the
// same type twice: the mutable/immutable combination would make the
// descriptor self-contradictory, and even same-mode duplicates are
// declaration bugs.
func resolveAccesses(storage *Storage, accesses []Access, kind typeKind, systemName string) ([]resolvedAccess, error) {
	resolved := make([]resolvedAccess, 0, len(accesses))
	for _, a := range accesses {
		entry := storage.registry.lookup(a.typ)
		if entry == nil {
			return nil, &UnknownTypeError{Type: a.typ}
		}
		if entry.kind != kind {
			return nil, registrationErrorf("system %q declares %s %s as a %s",
				systemName, entry.kind, a.typ, kind)
		}
		for _, prev := range resolved {
			if prev.entry == entry {
				if prev.mutable != a.mutable {
					return nil, registrationErrorf("system %q declares %s both mutable and immutable",
						systemName, a.typ)
				}
				return nil, registrationErrorf("system %q declares %s twice", systemName, a.typ)
			}
		}
		resolved = append(resolved, resolvedAccess{
			entry:   entry,
			slot:    storage.slotFor(entry),
			mutable: a.mutable,
		})
	}
	return resolved, nil
}

// conflicts reports whether two descriptors may not run concurrently:
// some type is accessed by both and at least one side mutates it.
// Conflict is decided by type identity alone, never by the entity sets
// the systems end up matching; overlap of matched entities is a
// runtime property the scheduler deliberately does not inspect.
func conflicts(a, b *descriptor) bool {
	for _, x := range a.components {
		for _, y := range b.components {
			if x.entry == y.entry && (x.mutable || y.mutable) {
				return true
			}
		}
	}
	for _, x := range a.resources {
		for _, y := range b.resources {
			if x.entry == y.entry && (x.mutable || y.mutable) {
				return true
			}
		}
	}
	return false
}
