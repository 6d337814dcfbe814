package ecs

import "iter"

// matchEntities iterates the entities owning every component type in
// the descriptor. The smallest required table is scanned and the
// remaining tables filter it, so the cost is proportional to the
// narrowest component's population.
func matchEntities(storage *Storage, d *descriptor) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		if len(d.components) == 0 {
			return
		}

		narrowest := 0
		for i := 1; i < len(d.components); i++ {
			if d.components[i].slot.table.Len() < d.components[narrowest].slot.table.Len() {
				narrowest = i
			}
		}

		entities := storage.entities
		for index := range d.components[narrowest].slot.table.Indices() {
			if !entities.alive[index] {
				continue
			}
			owned := true
			for i := range d.components {
				if i == narrowest {
					continue
				}
				if !d.components[i].slot.table.Has(index) {
					owned = false
					break
				}
			}
			if !owned {
				continue
			}
			if !yield(newEntity(entities.generations[index], index)) {
				return
			}
		}
	}
}
