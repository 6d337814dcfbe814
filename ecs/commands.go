package ecs

import (
	"reflect"

	"github.com/kamstrup/intmap"
)

// Commands buffers structural operations requested during a wave so
// that no system mid-wave ever observes a structural change made by a
// concurrently running system. Each system gets its own buffer; the
// engine drains buffers between waves, in plan order, each buffer
// replayed in the exact order its operations were recorded.
type Commands struct {
	log []command
}

func newCommands() *Commands {
	return &Commands{}
}

type commandKind uint8

const (
	cmdSpawn commandKind = iota
	cmdDestroy
	cmdAdd
	cmdRemove
	cmdDefer
)

// command is one recorded operation. Only the fields relevant to its
// kind are set.
type command struct {
	kind       commandKind
	entity     Entity
	component  any
	compType   reflect.Type
	components []any
	fn         func()
}

// Spawn queues creation of a new entity with the given components.
func (c *Commands) Spawn(components ...any) {
	c.log = append(c.log, command{kind: cmdSpawn, components: components})
}

// Destroy queues an entity destruction. Destroying an already-stale
// handle is silently ignored at apply time.
func (c *Commands) Destroy(entity Entity) {
	c.log = append(c.log, command{kind: cmdDestroy, entity: entity})
}

// AddComponent queues a component addition.
func (c *Commands) AddComponent(entity Entity, component any) {
	c.log = append(c.log, command{kind: cmdAdd, entity: entity, component: component})
}

// RemoveComponent queues a component removal.
func (c *Commands) RemoveComponent(entity Entity, compType reflect.Type) {
	c.log = append(c.log, command{kind: cmdRemove, entity: entity, compType: compType})
}

// Defer queues an arbitrary function for execution at the apply
// boundary, in its recorded position among the structural operations.
func (c *Commands) Defer(fn func()) {
	c.log = append(c.log, command{kind: cmdDefer, fn: fn})
}

// Flush replays the buffered operations against the storage in the
// order they were recorded, then resets the buffer. An add or remove
// recorded after a destroy of the same entity in this buffer is
// dropped; recorded before the destroy, it applies and the destroy
// then supersedes it.
func (c *Commands) Flush(storage *Storage) {
	destroyed := intmap.New[uint64, struct{}](8)

	for i := range c.log {
		cmd := &c.log[i]
		switch cmd.kind {
		case cmdSpawn:
			storage.Spawn(cmd.components...)
		case cmdDestroy:
			storage.Destroy(cmd.entity)
			destroyed.Put(uint64(cmd.entity), struct{}{})
		case cmdAdd:
			if _, dead := destroyed.Get(uint64(cmd.entity)); !dead {
				storage.AddComponent(cmd.entity, cmd.component)
			}
		case cmdRemove:
			if _, dead := destroyed.Get(uint64(cmd.entity)); !dead {
				storage.RemoveComponent(cmd.entity, cmd.compType)
			}
		case cmdDefer:
			cmd.fn()
		}
	}

	c.log = c.log[:0]
}
