package ecs_test

import "github.com/plus3/surge/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current int
	Max     int
}

type Name struct {
	Value string
}

type Tag struct{}

// Common test resource types
type Time struct {
	Delta float64
}

type Score struct {
	Points int
}

func newTestRegistry() *ecs.TypeRegistry {
	registry := ecs.NewTypeRegistry()
	if err := ecs.RegisterComponent[Position](registry); err != nil {
		panic(err)
	}
	if err := ecs.RegisterComponent[Velocity](registry); err != nil {
		panic(err)
	}
	if err := ecs.RegisterComponent[Health](registry); err != nil {
		panic(err)
	}
	if err := ecs.RegisterComponent[Name](registry); err != nil {
		panic(err)
	}
	if err := ecs.RegisterComponent[Tag](registry); err != nil {
		panic(err)
	}
	if err := ecs.RegisterResource[Time](registry); err != nil {
		panic(err)
	}
	if err := ecs.RegisterResource[Score](registry); err != nil {
		panic(err)
	}
	return registry
}

func newTestWorld() *ecs.World {
	return ecs.NewWorld(newTestRegistry())
}
