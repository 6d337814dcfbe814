package ecs

// executionPlan partitions the registered systems into ordered waves.
// Every system appears in exactly one wave; within a wave no two
// systems' access descriptors conflict. The plan is cached and reused
// every tick until the registered system set changes.
type executionPlan struct {
	waves [][]*systemEntry
}

// buildPlan assigns systems to waves greedily: walk systems in
// declaration order, place each into the earliest wave with no
// conflicting member, or open a new wave. Not necessarily minimal in
// wave count, but deterministic: an unchanged registration set always
// reproduces the identical partition.
func buildPlan(systems []*systemEntry) *executionPlan {
	plan := &executionPlan{}

next:
	for _, sys := range systems {
		for i, wave := range plan.waves {
			if !conflictsWithWave(sys, wave) {
				plan.waves[i] = append(wave, sys)
				continue next
			}
		}
		plan.waves = append(plan.waves, []*systemEntry{sys})
	}

	return plan
}

func conflictsWithWave(sys *systemEntry, wave []*systemEntry) bool {
	for _, member := range wave {
		if conflicts(sys.desc, member.desc) {
			return true
		}
	}
	return false
}

// waveOf returns the wave index holding the system.
func (p *executionPlan) waveOf(sys *systemEntry) int {
	for i, wave := range p.waves {
		for _, member := range wave {
			if member == sys {
				return i
			}
		}
	}
	return -1
}
