package main

import (
	"github.com/probeworks/gauntlet/registry"
	"github.com/probeworks/gauntlet/suite"
)

// crashTarget stays nil so test_crash faults when it writes through it.
var crashTarget *int

// registerDemoTests registers the demonstration tests this binary ships
// with: a manually timed test, an automatic benchmark, an erroring test, a
// failing test, and one that raises a fatal memory fault to show the crash
// guard at work.
func registerDemoTests(reg *registry.Registry) error {
	tests := []struct {
		name string
		desc string
		body suite.Body
	}{
		{
			name: "test_timer",
			desc: "Manual benchmark. Requires timespan to be printed manually.",
			body: func(t *suite.T) {
				t.StartTimer()
				churn()
				t.StopTimer()
			},
		},
		{
			name: "bench_alloc",
			desc: "Builtin benchmark. Execution timespan is printed automatically below.",
			body: func(t *suite.T) {
				churn()
			},
		},
		{
			name: "test_errfunc",
			desc: "Produces an error.",
			body: func(t *suite.T) {
				t.RecordError("a non-critical error occurred.")
			},
		},
		{
			name: "test_failfunc",
			desc: "Fails immediately.",
			body: func(t *suite.T) {
				t.RecordFailure("a critical error occurred!")
			},
		},
		{
			name: "test_segvfunc",
			desc: "Raises a fatal memory fault.",
			body: func(t *suite.T) {
				*crashTarget = 1
			},
		},
	}

	for _, tc := range tests {
		if err := reg.Register(tc.name, tc.desc, tc.body); err != nil {
			return err
		}
	}
	return nil
}

// churn does a little allocation work so the timed demos measure something.
func churn() {
	buf := make([]byte, 1<<20)
	for i := range buf {
		buf[i] = byte(i)
	}
}
