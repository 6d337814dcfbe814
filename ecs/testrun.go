package ecs

// TestFunc is a script-surface test body. It runs directly against the
// world, outside the scheduler, and reports failure by returning a
// non-nil error carrying the assertion message.
type TestFunc func(frame *Frame) error

type testEntry struct {
	name string
	fn   TestFunc
}

// TestResult records one test's outcome.
type TestResult struct {
	Name string
	Err  error
}

// Passed reports whether the test succeeded.
func (r TestResult) Passed() bool {
	return r.Err == nil
}

// TestReport aggregates a test run. A failed assertion is never fatal
// to the engine; it only contributes to the aggregate outcome.
type TestReport struct {
	Results []TestResult
	Passed  int
	Failed  int
}

// OK reports whether every test passed.
func (r *TestReport) OK() bool {
	return r.Failed == 0
}

// RegisterTest adds a named test function. Tests are invoked by
// RunTests, never by Tick.
func (w *World) RegisterTest(name string, fn TestFunc) error {
	if name == "" {
		return registrationErrorf("test name must not be empty")
	}
	if fn == nil {
		return registrationErrorf("test %q has no body", name)
	}
	for _, t := range w.tests {
		if t.name == name {
			return registrationErrorf("duplicate test %q", name)
		}
	}
	w.tests = append(w.tests, &testEntry{name: name, fn: fn})
	return nil
}

// RunTests invokes all registered tests in registration order. Each
// test gets an unchecked frame with full storage access; its buffered
// commands are applied when it completes. A panicking test is recorded
// as failed and does not stop the run.
func (w *World) RunTests() *TestReport {
	report := &TestReport{}
	for _, t := range w.tests {
		result := TestResult{Name: t.name, Err: w.runTest(t)}
		if result.Passed() {
			report.Passed++
		} else {
			report.Failed++
		}
		report.Results = append(report.Results, result)
	}
	return report
}

func (w *World) runTest(t *testEntry) (err error) {
	frame := newFrame(0, w.storage, nil)
	defer func() {
		if r := recover(); r != nil {
			err = &SystemPanicError{System: t.name, Value: r}
		}
	}()
	err = t.fn(frame)
	frame.Commands.Flush(w.storage)
	return err
}
