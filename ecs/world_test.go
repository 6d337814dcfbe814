package ecs_test

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/plus3/surge/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickResourceWrite(t *testing.T) {
	w := newTestWorld()

	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:      "clock",
		Resources: []ecs.Access{ecs.Write[Time]()},
		Run: func(f *ecs.Frame) {
			ecs.Res[Time](f).Delta = 0.016
		},
	}))

	require.NoError(t, w.Tick(0.016))
	assert.Equal(t, 0.016, ecs.ReadResource[Time](w.Storage()).Delta)
}

func TestTickMovesEntities(t *testing.T) {
	w := newTestWorld()

	e, err := w.Spawn(Position{X: 0, Y: 0}, Velocity{DX: 1, DY: 0})
	require.NoError(t, err)

	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:       "move",
		Components: []ecs.Access{ecs.Write[Position](), ecs.Read[Velocity]()},
		Each: func(f *ecs.Frame, e ecs.Entity) {
			pos := ecs.Get[Position](f, e)
			vel := ecs.Get[Velocity](f, e)
			pos.X += vel.DX
			pos.Y += vel.DY
		},
	}))

	require.NoError(t, w.Tick(1.0))
	assert.Equal(t, float32(1), ecs.ReadComponent[Position](w.Storage(), e).X)

	require.NoError(t, w.Tick(1.0))
	assert.Equal(t, float32(2), ecs.ReadComponent[Position](w.Storage(), e).X)
}

func TestQueryMatchesIntersectionOnly(t *testing.T) {
	w := newTestWorld()

	both1, _ := w.Spawn(Position{}, Velocity{})
	onlyPos, _ := w.Spawn(Position{})
	onlyVel, _ := w.Spawn(Velocity{})
	both2, _ := w.Spawn(Velocity{}, Position{})

	matched := map[ecs.Entity]bool{}
	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:       "collect",
		Components: []ecs.Access{ecs.Read[Position](), ecs.Read[Velocity]()},
		Each: func(f *ecs.Frame, e ecs.Entity) {
			matched[e] = true
		},
	}))
	require.NoError(t, w.Tick(0))

	assert.Equal(t, map[ecs.Entity]bool{both1: true, both2: true}, matched)
	assert.NotContains(t, matched, onlyPos)
	assert.NotContains(t, matched, onlyVel)
}

func TestResourceOnlySystemRunsOncePerTick(t *testing.T) {
	w := newTestWorld()

	runs := 0
	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:      "counter",
		Resources: []ecs.Access{ecs.Write[Score]()},
		Run: func(f *ecs.Frame) {
			runs++
			ecs.Res[Score](f).Points++
		},
	}))

	// Entities are irrelevant to a resource-only system.
	w.Spawn(Position{})
	w.Spawn(Position{})

	require.NoError(t, w.Tick(0))
	require.NoError(t, w.Tick(0))
	assert.Equal(t, 2, runs)
	assert.Equal(t, 2, ecs.ReadResource[Score](w.Storage()).Points)
}

// Structural operations from one wave are invisible to that wave and
// visible to the next wave of the same tick.
func TestCommandsApplyAtWaveBoundary(t *testing.T) {
	w := newTestWorld()

	var firstWaveSaw, secondWaveSaw int
	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:       "spawner",
		Components: []ecs.Access{ecs.Write[Position]()},
		Each: func(f *ecs.Frame, e ecs.Entity) {
			firstWaveSaw++
			f.Commands.Spawn(Position{X: 100})
		},
	}))
	// Shares Position mutably with the spawner, so it lands in wave two.
	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:       "observer",
		Components: []ecs.Access{ecs.Write[Position]()},
		Each: func(f *ecs.Frame, e ecs.Entity) {
			secondWaveSaw++
		},
	}))
	require.Equal(t, [][]string{{"spawner"}, {"observer"}}, w.Plan())

	w.Spawn(Position{})

	require.NoError(t, w.Tick(0))
	assert.Equal(t, 1, firstWaveSaw)
	assert.Equal(t, 2, secondWaveSaw, "observer must see the spawner's entity")

	// Next tick both see the enlarged set.
	firstWaveSaw, secondWaveSaw = 0, 0
	require.NoError(t, w.Tick(0))
	assert.Equal(t, 2, firstWaveSaw)
	assert.Equal(t, 4, secondWaveSaw)
}

func TestDestroyedMidTickEntitySkippedNextTick(t *testing.T) {
	w := newTestWorld()

	doomed, err := w.Spawn(Position{}, Tag{})
	require.NoError(t, err)
	survivor, err := w.Spawn(Position{})
	require.NoError(t, err)

	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:       "reaper",
		Components: []ecs.Access{ecs.Read[Tag]()},
		Each: func(f *ecs.Frame, e ecs.Entity) {
			f.Commands.Destroy(e)
		},
	}))

	seen := map[ecs.Entity]int{}
	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:       "census",
		Components: []ecs.Access{ecs.Read[Position]()},
		Each: func(f *ecs.Frame, e ecs.Entity) {
			seen[e]++
		},
	}))

	// Disjoint access, same wave: the destroy is invisible during the
	// tick that records it.
	require.Equal(t, [][]string{{"reaper", "census"}}, w.Plan())

	require.NoError(t, w.Tick(0))
	assert.Equal(t, 1, seen[doomed])
	assert.Equal(t, 1, seen[survivor])
	assert.False(t, w.IsAlive(doomed))

	require.NoError(t, w.Tick(0))
	assert.Equal(t, 1, seen[doomed], "destroyed entity must not match again")
	assert.Equal(t, 2, seen[survivor])
}

// Systems sharing a wave genuinely run concurrently: a rendezvous
// between two same-wave systems completes only if both are live at
// once.
func TestWaveRunsSystemsConcurrently(t *testing.T) {
	w := newTestWorld()
	w.Spawn(Position{}, Velocity{})

	ping := make(chan struct{})
	pong := make(chan struct{})

	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:       "left",
		Components: []ecs.Access{ecs.Read[Position]()},
		Each: func(f *ecs.Frame, e ecs.Entity) {
			ping <- struct{}{}
			<-pong
		},
	}))
	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:       "right",
		Components: []ecs.Access{ecs.Read[Velocity]()},
		Each: func(f *ecs.Frame, e ecs.Entity) {
			<-ping
			pong <- struct{}{}
		},
	}))
	require.Equal(t, [][]string{{"left", "right"}}, w.Plan())

	done := make(chan error, 1)
	go func() { done <- w.Tick(0) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("wave did not execute systems concurrently")
	}
}

// All readers of a resource within a wave observe the identical value:
// the writer is fenced into its own wave.
func TestReadersObserveConsistentResource(t *testing.T) {
	w := newTestWorld()

	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:      "advance",
		Resources: []ecs.Access{ecs.Write[Score]()},
		Run: func(f *ecs.Frame) {
			ecs.Res[Score](f).Points++
		},
	}))

	var observed [4]int64
	for i := 0; i < len(observed); i++ {
		i := i
		require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
			Name:      "observe" + string(rune('0'+i)),
			Resources: []ecs.Access{ecs.Read[Score]()},
			Run: func(f *ecs.Frame) {
				atomic.StoreInt64(&observed[i], int64(ecs.Res[Score](f).Points))
			},
		}))
	}

	for tick := 1; tick <= 3; tick++ {
		require.NoError(t, w.Tick(0))
		for i := range observed {
			assert.Equal(t, int64(tick), atomic.LoadInt64(&observed[i]))
		}
	}
}

func TestSystemPanicIsolated(t *testing.T) {
	w := newTestWorld()
	w.Spawn(Position{}, Velocity{})

	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:       "faulty",
		Components: []ecs.Access{ecs.Write[Position]()},
		Each: func(f *ecs.Frame, e ecs.Entity) {
			panic("boom")
		},
	}))

	healthyRan := false
	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:       "healthy",
		Components: []ecs.Access{ecs.Read[Velocity]()},
		Each: func(f *ecs.Frame, e ecs.Entity) {
			healthyRan = true
		},
	}))

	err := w.Tick(0)
	var panicked *ecs.SystemPanicError
	require.ErrorAs(t, err, &panicked)
	assert.Equal(t, "faulty", panicked.System)
	assert.True(t, healthyRan, "panic in one system must not halt the wave")

	// Storage is intact; the next tick still runs.
	assert.Equal(t, 1, w.Storage().Count())
	err = w.Tick(0)
	require.ErrorAs(t, err, &panicked)
}

func TestUndeclaredAccessSurfaces(t *testing.T) {
	w := newTestWorld()
	w.Spawn(Position{}, Velocity{})

	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:       "sneaky",
		Components: []ecs.Access{ecs.Read[Position]()},
		Each: func(f *ecs.Frame, e ecs.Entity) {
			// Velocity is not declared.
			ecs.Get[Velocity](f, e)
		},
	}))

	err := w.Tick(0)
	var undeclared *ecs.UndeclaredAccessError
	require.ErrorAs(t, err, &undeclared)
	assert.Equal(t, "sneaky", undeclared.System)
	assert.Equal(t, reflect.TypeFor[Velocity](), undeclared.Type)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	w := newTestWorld()

	ticks := 0
	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:      "count",
		Resources: []ecs.Access{ecs.Write[Score]()},
		Run: func(f *ecs.Frame) {
			ticks++
		},
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, w.Run(ctx, time.Millisecond))
	assert.Greater(t, ticks, 0)
}

func TestRunReportsNonFatalTickErrors(t *testing.T) {
	w := newTestWorld()
	w.Spawn(Position{})

	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:       "flaky",
		Components: []ecs.Access{ecs.Write[Position]()},
		Each: func(*ecs.Frame, ecs.Entity) {
			panic("tick failure")
		},
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen []error
	w.OnTickError = func(err error) {
		seen = append(seen, err)
		cancel()
	}

	// The panic is isolated, so Run keeps going until the callback
	// cancels the context.
	require.NoError(t, w.Run(ctx, time.Millisecond))

	require.NotEmpty(t, seen)
	var panicErr *ecs.SystemPanicError
	require.ErrorAs(t, seen[0], &panicErr)
	assert.Equal(t, "flaky", panicErr.System)
}

func TestStats(t *testing.T) {
	w := newTestWorld()
	w.Spawn(Position{})

	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:       "work",
		Components: []ecs.Access{ecs.Write[Position]()},
		Each:       func(*ecs.Frame, ecs.Entity) {},
	}))

	require.NoError(t, w.Tick(0))
	require.NoError(t, w.Tick(0))

	stats := w.Stats()
	require.Equal(t, 1, stats.SystemCount)
	require.Equal(t, 1, stats.WaveCount)
	require.Len(t, stats.Systems, 1)
	assert.Equal(t, "work", stats.Systems[0].Name)
	assert.Equal(t, 0, stats.Systems[0].Wave)
	assert.Equal(t, int64(2), stats.Systems[0].ExecutionCount)
	assert.Equal(t, int64(2), stats.TotalExecutions)
	assert.LessOrEqual(t, stats.Systems[0].MinDuration, stats.Systems[0].MaxDuration)
}

func TestTickErrorsJoined(t *testing.T) {
	w := newTestWorld()
	w.Spawn(Position{}, Velocity{})

	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:       "fault1",
		Components: []ecs.Access{ecs.Write[Position]()},
		Each:       func(*ecs.Frame, ecs.Entity) { panic("one") },
	}))
	require.NoError(t, w.RegisterSystem(ecs.SystemDesc{
		Name:       "fault2",
		Components: []ecs.Access{ecs.Write[Velocity]()},
		Each:       func(*ecs.Frame, ecs.Entity) { panic("two") },
	}))

	err := w.Tick(0)
	require.Error(t, err)

	var panicked *ecs.SystemPanicError
	assert.True(t, errors.As(err, &panicked))
}
