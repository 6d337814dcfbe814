package main

import (
	"math/rand"

	"github.com/plus3/surge/ecs"
)

// registerAllSystems wires a schedule that exercises both parallel
// waves (disjoint access) and forced serialization (shared writers).
func registerAllSystems(world *ecs.World, rng *rand.Rand) error {
	systems := []ecs.SystemDesc{
		{
			Name:      "clock",
			Resources: []ecs.Access{ecs.Write[Clock]()},
			Run: func(f *ecs.Frame) {
				clock := ecs.Res[Clock](f)
				clock.Elapsed += f.DeltaTime
				clock.Frame++
			},
		},
		{
			Name:       "movement",
			Components: []ecs.Access{ecs.Write[Position](), ecs.Read[Velocity]()},
			Each: func(f *ecs.Frame, e ecs.Entity) {
				pos := ecs.Get[Position](f, e)
				vel := ecs.Get[Velocity](f, e)
				pos.X += vel.DX * float32(f.DeltaTime)
				pos.Y += vel.DY * float32(f.DeltaTime)
			},
		},
		{
			Name:       "regen",
			Components: []ecs.Access{ecs.Write[Health]()},
			Each: func(f *ecs.Frame, e ecs.Entity) {
				h := ecs.Get[Health](f, e)
				if h.Current < h.Max {
					h.Current++
				}
			},
		},
		{
			Name:       "decay",
			Components: []ecs.Access{ecs.Write[Lifetime]()},
			Each: func(f *ecs.Frame, e ecs.Entity) {
				life := ecs.Get[Lifetime](f, e)
				life.Remaining -= f.DeltaTime
				if life.Remaining <= 0 {
					f.Commands.Destroy(e)
				}
			},
		},
		{
			Name:       "combat",
			Components: []ecs.Access{ecs.Write[Health](), ecs.Read[Damage]()},
			Each: func(f *ecs.Frame, e ecs.Entity) {
				h := ecs.Get[Health](f, e)
				h.Current -= ecs.Get[Damage](f, e).Amount
				if h.Current <= 0 {
					f.Commands.Destroy(e)
				}
			},
		},
		{
			Name:       "bounds",
			Components: []ecs.Access{ecs.Read[Position]()},
			Each: func(f *ecs.Frame, e ecs.Entity) {
				pos := ecs.Get[Position](f, e)
				if pos.X < -10000 || pos.X > 10000 || pos.Y < -10000 || pos.Y > 10000 {
					f.Commands.Destroy(e)
				}
			},
		},
		{
			Name:      "spawner",
			Resources: []ecs.Access{ecs.Read[SpawnBudget]()},
			Run: func(f *ecs.Frame) {
				budget := ecs.Res[SpawnBudget](f)
				for i := 0; i < budget.PerTick; i++ {
					f.Commands.Spawn(
						Position{X: rng.Float32() * 1000, Y: rng.Float32() * 1000},
						Velocity{DX: rng.Float32()*2 - 1, DY: rng.Float32()*2 - 1},
						Lifetime{Remaining: rng.Float64() * 10},
					)
				}
			},
		},
	}

	for _, desc := range systems {
		if err := world.RegisterSystem(desc); err != nil {
			return err
		}
	}
	return nil
}
