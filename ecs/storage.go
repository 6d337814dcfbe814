package ecs

import (
	"reflect"
	"sync/atomic"
)

// storeSlot is the per-type storage cell: a component table for
// component types, a boxed singleton value for resource types. The
// borrow word backs the defensive runtime exclusivity re-check; the
// static wave partition is what actually prevents conflicting access.
type storeSlot struct {
	entry  *typeEntry
	table  componentTable
	value  any
	borrow atomic.Int32
}

const borrowWriter = -1

// acquire registers a reader or writer on the slot. It returns false
// when the request overlaps an exclusive holder, which indicates a
// scheduling fault.
func (s *storeSlot) acquire(mutable bool) bool {
	if mutable {
		return s.borrow.CompareAndSwap(0, borrowWriter)
	}
	if s.borrow.Add(1) <= 0 {
		s.borrow.Add(-1)
		return false
	}
	return true
}

func (s *storeSlot) release(mutable bool) {
	if mutable {
		s.borrow.Store(0)
		return
	}
	s.borrow.Add(-1)
}

// Storage owns all entity, component and resource data for a world:
// the entity allocator, one table per component type keyed by entity
// index, and one boxed instance per resource type.
type Storage struct {
	registry *TypeRegistry
	entities *entityAllocator
	slots    []*storeSlot
}

// NewStorage creates a new ECS storage backed by the given type
// registry.
func NewStorage(registry *TypeRegistry) *Storage {
	return &Storage{
		registry: registry,
		entities: newEntityAllocator(),
	}
}

func (s *Storage) slotFor(entry *typeEntry) *storeSlot {
	for len(s.slots) <= entry.id {
		s.slots = append(s.slots, nil)
	}
	slot := s.slots[entry.id]
	if slot == nil {
		slot = &storeSlot{entry: entry}
		if entry.kind == kindComponent {
			slot.table = entry.newTable()
		} else {
			slot.value = reflect.New(entry.typ).Interface()
		}
		s.slots[entry.id] = slot
	}
	return slot
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// Spawn creates a new entity holding the provided components.
func (s *Storage) Spawn(components ...any) (Entity, error) {
	slots := make([]*storeSlot, 0, len(components))
	for _, component := range components {
		t := componentType(component)
		entry := s.registry.lookup(t)
		if entry == nil || entry.kind != kindComponent {
			return 0, &UnknownTypeError{Type: t}
		}
		slots = append(slots, s.slotFor(entry))
	}

	e := s.entities.Create()
	for i, component := range components {
		slots[i].table.Set(e.Index(), component)
	}
	return e, nil
}

// Destroy removes the entity and every component it holds. Destroying
// a stale handle is a silent no-op.
func (s *Storage) Destroy(e Entity) bool {
	if !s.entities.Destroy(e) {
		return false
	}
	for _, slot := range s.slots {
		if slot != nil && slot.table != nil {
			slot.table.Remove(e.Index())
		}
	}
	return true
}

// IsAlive reports whether the handle refers to a live entity.
func (s *Storage) IsAlive(e Entity) bool {
	return s.entities.IsAlive(e)
}

// Count returns the number of live entities.
func (s *Storage) Count() int {
	return s.entities.Count()
}

// AddComponent attaches a component to a live entity, replacing any
// previous instance of the same type. Stale handles are ignored.
func (s *Storage) AddComponent(e Entity, component any) error {
	t := componentType(component)
	entry := s.registry.lookup(t)
	if entry == nil || entry.kind != kindComponent {
		return &UnknownTypeError{Type: t}
	}
	if !s.entities.IsAlive(e) {
		return nil
	}
	s.slotFor(entry).table.Set(e.Index(), component)
	return nil
}

// RemoveComponent detaches a component type from a live entity. Stale
// handles and absent components are ignored.
func (s *Storage) RemoveComponent(e Entity, compType reflect.Type) error {
	entry := s.registry.lookup(compType)
	if entry == nil || entry.kind != kindComponent {
		return &UnknownTypeError{Type: compType}
	}
	if !s.entities.IsAlive(e) {
		return nil
	}
	s.slotFor(entry).table.Remove(e.Index())
	return nil
}

// GetComponent returns a pointer to the entity's component of the
// given type, or nil if the entity is stale or lacks it.
func (s *Storage) GetComponent(e Entity, compType reflect.Type) any {
	entry := s.registry.lookup(compType)
	if entry == nil || entry.kind != kindComponent || !s.entities.IsAlive(e) {
		return nil
	}
	return s.slotFor(entry).table.Get(e.Index())
}

// HasComponent checks if a live entity holds a component of the given
// type.
func (s *Storage) HasComponent(e Entity, compType reflect.Type) bool {
	entry := s.registry.lookup(compType)
	if entry == nil || entry.kind != kindComponent || !s.entities.IsAlive(e) {
		return false
	}
	return s.slotFor(entry).table.Has(e.Index())
}

// resource returns the boxed singleton for the type, or nil if the
// type is not a registered resource.
func (s *Storage) resource(t reflect.Type) any {
	entry := s.registry.lookup(t)
	if entry == nil || entry.kind != kindResource {
		return nil
	}
	return s.slotFor(entry).value
}

// setResource overwrites the resource singleton value.
func (s *Storage) setResource(value any) error {
	t := componentType(value)
	entry := s.registry.lookup(t)
	if entry == nil || entry.kind != kindResource {
		return &UnknownTypeError{Type: t}
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	boxed := reflect.ValueOf(s.slotFor(entry).value)
	boxed.Elem().Set(rv)
	return nil
}

// ReadComponent returns a typed pointer to the entity's component, or
// nil if the entity is stale or lacks it. Host-side accessor; inside
// a system body use Get on the frame instead.
func ReadComponent[T any](s *Storage, e Entity) *T {
	ptr := s.GetComponent(e, reflect.TypeFor[T]())
	if ptr == nil {
		return nil
	}
	return ptr.(*T)
}

// ReadResource returns a typed pointer to the resource singleton, or
// nil if the type is not a registered resource.
func ReadResource[T any](s *Storage) *T {
	ptr := s.resource(reflect.TypeFor[T]())
	if ptr == nil {
		return nil
	}
	return ptr.(*T)
}
