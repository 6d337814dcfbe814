package ecs

import "iter"

const tableBlockSize = 64

// componentTable is a type-erased per-component-type table keyed by
// entity index.
type componentTable interface {
	Set(index uint32, item any) bool
	Get(index uint32) any
	Remove(index uint32) bool
	Has(index uint32) bool
	Len() int
	Indices() iter.Seq[uint32]
}

// genericTable stores components of a specific type T in fixed-size
// blocks, indexed directly by entity index. A filled bitmap tracks
// occupancy; empty slots cost a zero value, not an allocation.
type genericTable[T any] struct {
	blocks [][tableBlockSize]T
	filled [][tableBlockSize]bool
	count  int
}

func newGenericTable[T any]() *genericTable[T] {
	return &genericTable[T]{}
}

func (t *genericTable[T]) grow(blockIdx int) {
	for blockIdx >= len(t.blocks) {
		t.blocks = append(t.blocks, [tableBlockSize]T{})
		t.filled = append(t.filled, [tableBlockSize]bool{})
	}
}

// Set stores the component for the entity index, replacing any
// previous value. Returns false if the item is not of type T.
func (t *genericTable[T]) Set(index uint32, item any) bool {
	var concrete T
	if ptr, ok := item.(*T); ok {
		concrete = *ptr
	} else if val, ok := item.(T); ok {
		concrete = val
	} else {
		return false
	}

	blockIdx := int(index) / tableBlockSize
	slotIdx := int(index) % tableBlockSize
	t.grow(blockIdx)

	if !t.filled[blockIdx][slotIdx] {
		t.filled[blockIdx][slotIdx] = true
		t.count++
	}
	t.blocks[blockIdx][slotIdx] = concrete
	return true
}

// Get returns a pointer to the component at the given entity index,
// or nil if the slot is empty.
func (t *genericTable[T]) Get(index uint32) any {
	ptr := t.getPtr(index)
	if ptr == nil {
		return nil
	}
	return ptr
}

func (t *genericTable[T]) getPtr(index uint32) *T {
	blockIdx := int(index) / tableBlockSize
	slotIdx := int(index) % tableBlockSize

	if blockIdx >= len(t.blocks) || !t.filled[blockIdx][slotIdx] {
		return nil
	}
	return &t.blocks[blockIdx][slotIdx]
}

// Remove clears the slot for the entity index. Returns whether a
// component was present.
func (t *genericTable[T]) Remove(index uint32) bool {
	blockIdx := int(index) / tableBlockSize
	slotIdx := int(index) % tableBlockSize

	if blockIdx >= len(t.blocks) || !t.filled[blockIdx][slotIdx] {
		return false
	}

	var zero T
	t.blocks[blockIdx][slotIdx] = zero
	t.filled[blockIdx][slotIdx] = false
	t.count--
	return true
}

// Has checks if a component exists at the given entity index.
func (t *genericTable[T]) Has(index uint32) bool {
	blockIdx := int(index) / tableBlockSize
	slotIdx := int(index) % tableBlockSize

	if blockIdx >= len(t.blocks) {
		return false
	}
	return t.filled[blockIdx][slotIdx]
}

// Len returns the number of entities holding this component type.
func (t *genericTable[T]) Len() int {
	return t.count
}

// Indices iterates the entity indices of all occupied slots in
// ascending order.
func (t *genericTable[T]) Indices() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for blockIdx := range t.filled {
			for slotIdx := 0; slotIdx < tableBlockSize; slotIdx++ {
				if !t.filled[blockIdx][slotIdx] {
					continue
				}
				if !yield(uint32(blockIdx*tableBlockSize + slotIdx)) {
					return
				}
			}
		}
	}
}
