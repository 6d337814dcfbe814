package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"

	"github.com/plus3/surge/ecs"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	spawnPerTick := flag.Int("spawn-per-tick", 10, "Entities spawned per tick by the spawner system.")
	seed := flag.Int64("seed", 1, "Seed for the entity mix.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	cpuProfile := flag.Bool("cpuprofile", false, "Write a CPU profile to the current directory.")
	flag.Parse()

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	log.Println("Starting ECS stress test...")

	rng := rand.New(rand.NewSource(*seed))

	// 1. Setup registry, world, and systems
	registry := ecs.NewTypeRegistry()
	if err := registerAllTypes(registry); err != nil {
		log.Fatalf("Failed to register types: %v", err)
	}
	world := ecs.NewWorld(registry)
	if err := registerAllSystems(world, rng); err != nil {
		log.Fatalf("Failed to register systems: %v", err)
	}
	if err := world.SetResource(SpawnBudget{PerTick: *spawnPerTick}); err != nil {
		log.Fatalf("Failed to set spawn budget: %v", err)
	}

	log.Printf("Execution plan: %d waves", len(world.Plan()))
	for i, wave := range world.Plan() {
		log.Printf("  wave %d: %v", i, wave)
	}

	// 2. Populate the world with initial entities
	log.Printf("Populating world with %d entities...\n", *entityCount)
	for i := 0; i < *entityCount; i++ {
		if err := spawnRandomEntity(world, rng); err != nil {
			log.Fatalf("Failed to spawn entity: %v", err)
		}
	}
	log.Println("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Systems:        world.Stats().SystemCount,
		Waves:          len(world.Plan()),
		GCPauseMetrics: *gcPauseMetrics,
		TickTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalTicks int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			tickStart := time.Now()
			if err := world.Tick(float64(deltaTime) / float64(time.Second)); err != nil {
				log.Fatalf("Tick failed: %v", err)
			}
			tickDuration := time.Since(tickStart)

			report.TickTime.Samples = append(report.TickTime.Samples, tickDuration)
			totalTicks++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalTicks = totalTicks
	report.FinalEntities = world.Storage().Count()
	report.TickTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	// 4. Generate report to console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	printSystemStats(world)

	log.Println("Stress test complete.")
}

func printSystemStats(world *ecs.World) {
	fmt.Println("\n--- Per-System Timings ---")
	for _, s := range world.Stats().Systems {
		fmt.Printf("%-12s wave=%d runs=%-8d avg=%-12s min=%-12s max=%s\n",
			s.Name, s.Wave, s.ExecutionCount, s.AvgDuration, s.MinDuration, s.MaxDuration)
	}
}
