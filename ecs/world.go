package ecs

import (
	"context"
	"reflect"
	"time"
)

// World is an explicit ECS session: type registry, storage, registered
// systems and the cached execution plan. There is no process-wide
// state; independent worlds never interfere.
//
// Registration (components, resources, systems, tests) and direct
// structural calls (Spawn, Destroy, SetResource) belong to the host
// and must happen between ticks, never from inside a running system.
type World struct {
	// OnTickError, when non-nil, receives the joined error of every tick
	// that fails non-fatally inside Run. It is called from Run's
	// goroutine, between ticks.
	OnTickError func(error)

	registry *TypeRegistry
	storage  *Storage
	systems  []*systemEntry
	tests    []*testEntry

	// plan is nil while the registered system set is dirty.
	plan *executionPlan
}

// NewWorld creates a world backed by the given type registry.
func NewWorld(registry *TypeRegistry) *World {
	return &World{
		registry: registry,
		storage:  NewStorage(registry),
	}
}

// Storage exposes the world's storage for host-side access.
func (w *World) Storage() *Storage {
	return w.storage
}

// RegisterSystem validates the declaration and adds the system to the
// world. The cached execution plan is discarded and rebuilt on the
// next tick. Registration errors leave the world unchanged.
func (w *World) RegisterSystem(desc SystemDesc) error {
	if desc.Name == "" {
		return registrationErrorf("system name must not be empty")
	}
	for _, sys := range w.systems {
		if sys.name == desc.Name {
			return registrationErrorf("duplicate system %q", desc.Name)
		}
	}

	switch {
	case len(desc.Components) > 0 && desc.Each == nil:
		return registrationErrorf("system %q declares components but has no Each body", desc.Name)
	case len(desc.Components) > 0 && desc.Run != nil:
		return registrationErrorf("system %q declares components and a Run body", desc.Name)
	case len(desc.Components) == 0 && desc.Run == nil:
		return registrationErrorf("system %q has no body", desc.Name)
	case len(desc.Components) == 0 && desc.Each != nil:
		return registrationErrorf("system %q has an Each body but no component declaration", desc.Name)
	}

	components, err := resolveAccesses(w.storage, desc.Components, kindComponent, desc.Name)
	if err != nil {
		return err
	}
	resources, err := resolveAccesses(w.storage, desc.Resources, kindResource, desc.Name)
	if err != nil {
		return err
	}

	w.systems = append(w.systems, &systemEntry{
		name:  desc.Name,
		order: len(w.systems),
		desc:  &descriptor{components: components, resources: resources},
		each:  desc.Each,
		run:   desc.Run,
		stats: systemStatsInternal{minDuration: time.Duration(1<<63 - 1)},
	})
	w.plan = nil
	return nil
}

func (w *World) executionPlan() *executionPlan {
	if w.plan == nil {
		w.plan = buildPlan(w.systems)
	}
	return w.plan
}

// Plan returns the wave partition as system names, building the plan
// if the system set changed since the last tick.
func (w *World) Plan() [][]string {
	plan := w.executionPlan()
	waves := make([][]string, len(plan.waves))
	for i, wave := range plan.waves {
		names := make([]string, len(wave))
		for j, sys := range wave {
			names[j] = sys.name
		}
		waves[i] = names
	}
	return waves
}

// Spawn creates an entity directly, for host-side setup between ticks.
func (w *World) Spawn(components ...any) (Entity, error) {
	return w.storage.Spawn(components...)
}

// Destroy removes an entity directly, for host-side use between ticks.
func (w *World) Destroy(e Entity) bool {
	return w.storage.Destroy(e)
}

// IsAlive reports whether the handle refers to a live entity.
func (w *World) IsAlive(e Entity) bool {
	return w.storage.IsAlive(e)
}

// SetResource overwrites a registered resource's singleton value.
func (w *World) SetResource(value any) error {
	return w.storage.setResource(value)
}

// GetResource returns the resource singleton pointer for the type, or
// nil if the type is not a registered resource.
func (w *World) GetResource(t reflect.Type) any {
	return w.storage.resource(t)
}

// Run ticks the world at the given interval until the context is
// cancelled or a tick reports a fatal engine fault. Non-fatal tick
// errors (isolated system panics, undeclared accesses) do not stop the
// loop; they are handed to OnTickError when set and otherwise
// discarded. Callers that need per-tick errors without a callback
// should drive Tick directly.
func (w *World) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			if err := w.Tick(dt); err != nil {
				if isFatal(err) {
					return err
				}
				if w.OnTickError != nil {
					w.OnTickError(err)
				}
			}
		}
	}
}

// Stats returns execution statistics for all registered systems.
func (w *World) Stats() *SchedulerStats {
	plan := w.executionPlan()
	stats := &SchedulerStats{
		SystemCount: len(w.systems),
		WaveCount:   len(plan.waves),
		Systems:     make([]SystemStats, len(w.systems)),
	}

	var totalExecs int64
	for i, sys := range w.systems {
		avgDuration := time.Duration(0)
		if sys.stats.executionCount > 0 {
			avgDuration = sys.stats.totalDuration / time.Duration(sys.stats.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           sys.name,
			Wave:           plan.waveOf(sys),
			ExecutionCount: sys.stats.executionCount,
			MinDuration:    sys.stats.minDuration,
			MaxDuration:    sys.stats.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   sys.stats.lastDuration,
			TotalDuration:  sys.stats.totalDuration,
		}
		totalExecs += sys.stats.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
