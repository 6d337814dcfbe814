package ecs

import "time"

// SystemDesc declares a system: its name, the component and resource
// types it touches (with mutability), and its body. The access
// declaration is fixed for the session once registered; the scheduler
// derives the wave partition from it.
//
// A system with component requirements provides Each, invoked once per
// entity owning every required component type. A system with no
// component requirements provides Run, invoked exactly once per tick.
type SystemDesc struct {
	Name       string
	Components []Access
	Resources  []Access
	Each       func(frame *Frame, entity Entity)
	Run        func(frame *Frame)
}

// systemEntry is a registered system with its resolved descriptor.
type systemEntry struct {
	name  string
	order int
	desc  *descriptor
	each  func(frame *Frame, entity Entity)
	run   func(frame *Frame)
	stats systemStatsInternal
}

type systemStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

// SchedulerStats provides statistics about system execution.
type SchedulerStats struct {
	SystemCount     int
	WaveCount       int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Wave           int
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}
