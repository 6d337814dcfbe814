package main

import (
	"math/rand"

	"github.com/plus3/surge/ecs"
)

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current, Max int
}

type Lifetime struct {
	Remaining float64
}

type Damage struct {
	Amount int
}

type Label struct {
	Value string
}

type Clock struct {
	Elapsed float64
	Frame   int64
}

type SpawnBudget struct {
	PerTick int
}

func registerAllTypes(registry *ecs.TypeRegistry) error {
	if err := ecs.RegisterComponent[Position](registry); err != nil {
		return err
	}
	if err := ecs.RegisterComponent[Velocity](registry); err != nil {
		return err
	}
	if err := ecs.RegisterComponent[Health](registry); err != nil {
		return err
	}
	if err := ecs.RegisterComponent[Lifetime](registry); err != nil {
		return err
	}
	if err := ecs.RegisterComponent[Damage](registry); err != nil {
		return err
	}
	if err := ecs.RegisterComponent[Label](registry); err != nil {
		return err
	}
	if err := ecs.RegisterResource[Clock](registry); err != nil {
		return err
	}
	return ecs.RegisterResource[SpawnBudget](registry)
}

// spawnRandomEntity creates an entity with a random component mix.
// Every entity carries Position so the heaviest queries touch it.
func spawnRandomEntity(world *ecs.World, rng *rand.Rand) error {
	components := []any{
		Position{X: rng.Float32() * 1000, Y: rng.Float32() * 1000},
	}
	if rng.Intn(2) == 0 {
		components = append(components, Velocity{DX: rng.Float32()*2 - 1, DY: rng.Float32()*2 - 1})
	}
	if rng.Intn(3) == 0 {
		components = append(components, Health{Current: 100, Max: 100})
	}
	if rng.Intn(4) == 0 {
		components = append(components, Lifetime{Remaining: rng.Float64() * 30})
	}
	if rng.Intn(5) == 0 {
		components = append(components, Damage{Amount: rng.Intn(10) + 1})
	}
	_, err := world.Spawn(components...)
	return err
}
