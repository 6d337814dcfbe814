package ecs

// Entity encodes both the generation counter (upper 32 bits) and the
// storage index (lower 32 bits). A handle is live only while its
// generation matches the allocator's current generation for the index.
type Entity uint64

// newEntity creates an Entity from a generation and a storage index.
func newEntity(generation uint32, index uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

// Generation extracts the generation counter from the entity handle.
func (e Entity) Generation() uint32 {
	return uint32(e >> 32)
}

// Index extracts the storage index from the entity handle.
func (e Entity) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// entityAllocator hands out entity handles, recycling freed indices.
// The generation for an index is bumped when the slot is freed, so a
// stale handle never compares equal to the slot's next occupant.
type entityAllocator struct {
	generations []uint32
	alive       []bool
	free        []uint32
}

func newEntityAllocator() *entityAllocator {
	return &entityAllocator{}
}

// Create allocates a fresh entity handle. Freed indices are reused
// before the table grows.
func (a *entityAllocator) Create() Entity {
	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		a.alive[index] = true
		return newEntity(a.generations[index], index)
	}

	index := uint32(len(a.generations))
	a.generations = append(a.generations, 0)
	a.alive = append(a.alive, true)
	return newEntity(0, index)
}

// IsAlive reports whether the handle still refers to a live entity.
func (a *entityAllocator) IsAlive(e Entity) bool {
	index := e.Index()
	if index >= uint32(len(a.generations)) {
		return false
	}
	return a.alive[index] && a.generations[index] == e.Generation()
}

// Destroy frees the entity's index slot and bumps its generation.
// Destroying a stale or unknown handle is a no-op; only the first
// destroy takes effect. Returns whether the handle was live.
func (a *entityAllocator) Destroy(e Entity) bool {
	if !a.IsAlive(e) {
		return false
	}
	index := e.Index()
	a.alive[index] = false
	a.generations[index]++
	a.free = append(a.free, index)
	return true
}

// Count returns the number of live entities.
func (a *entityAllocator) Count() int {
	return len(a.generations) - len(a.free)
}
