package ecs

import (
	"errors"
	"sync"
	"time"
)

// Tick runs one full execution plan pass: waves execute strictly in
// plan order, each wave's systems run concurrently, and each wave's
// buffered structural commands are applied before the next wave
// starts. The host calls Tick exactly once per simulation frame.
//
// Per-system failures (panics, undeclared access) are isolated to the
// offending system and joined into the returned error; the remaining
// systems and waves still run. An AccessViolationError is fatal: the
// tick aborts without applying the failing wave's commands.
func (w *World) Tick(dt float64) error {
	plan := w.executionPlan()

	var tickErrs []error
	for _, wave := range plan.waves {
		frames := make([]*Frame, len(wave))
		errs := make([]error, len(wave))

		var wg sync.WaitGroup
		for i, sys := range wave {
			frames[i] = newFrame(dt, w.storage, sys)
			wg.Add(1)
			go func(i int, sys *systemEntry) {
				defer wg.Done()
				errs[i] = w.runSystem(sys, frames[i])
			}(i, sys)
		}
		wg.Wait()

		fatal := false
		for _, err := range errs {
			if err == nil {
				continue
			}
			tickErrs = append(tickErrs, err)
			if isFatal(err) {
				fatal = true
			}
		}
		if fatal {
			return errors.Join(tickErrs...)
		}

		for _, frame := range frames {
			frame.Commands.Flush(w.storage)
		}
	}

	return errors.Join(tickErrs...)
}

func isFatal(err error) bool {
	var violation *AccessViolationError
	return errors.As(err, &violation)
}

// runSystem executes one system for the current wave. Declared slots
// are borrow-acquired up front as the defensive re-check of the static
// schedule, and a recovered panic aborts only this system's remaining
// invocations.
func (w *World) runSystem(sys *systemEntry, frame *Frame) (err error) {
	start := time.Now()
	defer func() {
		sys.stats.record(time.Since(start))
	}()

	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *UndeclaredAccessError:
				err = e
			case *AccessViolationError:
				err = e
			default:
				err = &SystemPanicError{System: sys.name, Value: r}
			}
		}
	}()

	var held []resolvedAccess
	defer func() {
		for _, a := range held {
			a.slot.release(a.mutable)
		}
	}()
	for a := range sys.desc.all {
		if !a.slot.acquire(a.mutable) {
			return &AccessViolationError{System: sys.name, Type: a.entry.typ}
		}
		held = append(held, a)
	}

	if sys.run != nil {
		sys.run(frame)
		return nil
	}

	for e := range matchEntities(w.storage, sys.desc) {
		sys.each(frame, e)
	}
	return nil
}
