package ecs

import "reflect"

// Frame is the per-system execution context for one tick: the frame's
// delta time, the system's command buffer, and checked access to the
// storage. Component and resource lookups go through Get and Res,
// which verify the touched type against the system's declared access
// set.
type Frame struct {
	DeltaTime float64
	Commands  *Commands

	storage *Storage
	system  *systemEntry
}

func newFrame(dt float64, storage *Storage, system *systemEntry) *Frame {
	return &Frame{
		DeltaTime: dt,
		Commands:  newCommands(),
		storage:   storage,
		system:    system,
	}
}

// checkDeclared panics with UndeclaredAccessError when a system body
// touches a type outside its access declaration. Frames without a
// system (the test surface) skip the check.
func (f *Frame) checkDeclared(t reflect.Type) {
	if f.system == nil {
		return
	}
	if f.system.desc.find(t) == nil {
		panic(&UndeclaredAccessError{System: f.system.name, Type: t})
	}
}

// Get returns a pointer to the entity's component of type T, or nil if
// the entity is stale or does not hold one. T must appear in the
// system's component declaration. If T was declared with Read, the
// caller must not write through the returned pointer: other systems in
// the same wave may be reading it, and the scheduler does not detect
// writes through a read-declared pointer.
func Get[T any](f *Frame, e Entity) *T {
	t := reflect.TypeFor[T]()
	f.checkDeclared(t)
	ptr := f.storage.GetComponent(e, t)
	if ptr == nil {
		return nil
	}
	return ptr.(*T)
}

// Res returns a pointer to the resource singleton of type T. T must
// appear in the system's resource declaration. As with Get, a
// read-declared resource must not be written through the returned
// pointer.
func Res[T any](f *Frame) *T {
	t := reflect.TypeFor[T]()
	f.checkDeclared(t)
	ptr := f.storage.resource(t)
	if ptr == nil {
		return nil
	}
	return ptr.(*T)
}

// Alive reports whether the handle still refers to a live entity.
func (f *Frame) Alive(e Entity) bool {
	return f.storage.IsAlive(e)
}
