// Package suite is the execution engine: it owns an ordered collection of
// registered runners, executes them strictly one at a time, each on its own
// short-lived goroutine, intercepts fatal memory faults through the crash
// guard, and accumulates per-test results for stats derivation.
//
// The goroutine per test exists only to sandbox a potential fatal fault; it
// is always joined before the engine proceeds, so there is never more than
// one test in flight and no reordering of results.
package suite

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/probeworks/gauntlet/crashguard"
	"github.com/probeworks/gauntlet/metrics"
	"github.com/probeworks/gauntlet/reporting"
	"github.com/probeworks/gauntlet/types"
)

// CrashFailureMessage is the synthetic failure diagnostic recorded when a
// test body raised a fatal memory fault.
const CrashFailureMessage = "encountered a fatal memory fault"

// ErrAborted is returned by Run and Step when a test failed and the run was
// started with fatal failures enabled. The suite stays unfinished and no
// further runners execute.
var ErrAborted = errors.New("suite aborted on fatal failure")

// Suite holds registered runners, their accumulated results and the run
// state in between. The zero value is not usable; construct with New.
type Suite struct {
	log    log.Logger
	sink   reporting.Sink
	guard  crashguard.Guard
	tracer trace.Tracer

	runID   string
	runners []*Runner
	results []*T

	cursor        int
	finished      bool
	crashes       int
	fatalFailures bool
}

// Config holds configuration for creating a new suite.
type Config struct {
	Log   log.Logger
	Sink  reporting.Sink   // defaults to a console sink on stdout
	Guard crashguard.Guard // defaults to the process-wide crash guard
	Quiet bool             // suppress sink output without changing behavior
}

// New creates an empty suite.
func New(cfg Config) *Suite {
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	if cfg.Sink == nil {
		cfg.Sink = reporting.NewConsoleSink(os.Stdout)
	}
	if cfg.Quiet {
		cfg.Sink = reporting.NopSink{}
	}
	if cfg.Guard == nil {
		cfg.Guard = crashguard.Install()
	}
	return &Suite{
		log:    cfg.Log,
		sink:   cfg.Sink,
		guard:  cfg.Guard,
		tracer: otel.Tracer("suite engine"),
	}
}

// Add appends runners to the suite. Insertion order is execution order.
func (s *Suite) Add(runners ...*Runner) {
	s.runners = append(s.runners, runners...)
}

// Register constructs a runner and appends it, as a convenience for hosts
// that register tests one by one.
func (s *Suite) Register(body Body, name, description string) error {
	r, err := NewRunner(body, name, description)
	if err != nil {
		return err
	}
	s.Add(r)
	return nil
}

// SetSink swaps the reporting sink. Swapping mid-run is not supported;
// do it before Run.
func (s *Suite) SetSink(sink reporting.Sink) {
	if sink == nil {
		sink = reporting.NopSink{}
	}
	s.sink = sink
}

// Run executes every remaining runner in registration order. With
// fatalFailures set, the first failing test aborts the run and ErrAborted is
// returned; otherwise the suite is marked finished once all runners have
// executed.
func (s *Suite) Run(ctx context.Context, fatalFailures bool) error {
	ctx, span := s.tracer.Start(ctx, fmt.Sprintf("suite run %s", s.ensureRunID()))
	defer span.End()

	for s.cursor < len(s.runners) {
		if err := s.Step(ctx, fatalFailures); err != nil {
			return err
		}
	}
	s.finished = true
	return nil
}

// Step executes exactly one test: the runner at the cursor. It blocks until
// the test body's goroutine completes; there is no timeout, so a hung body
// hangs the suite. Stepping an exhausted suite is a no-op.
func (s *Suite) Step(ctx context.Context, fatalFailures bool) error {
	if s.cursor >= len(s.runners) {
		return nil
	}
	s.fatalFailures = fatalFailures
	runID := s.ensureRunID()

	runner := s.runners[s.cursor]
	_, span := s.tracer.Start(ctx, fmt.Sprintf("test %s", runner.Name()))
	defer span.End()

	if !s.guard.Installed() {
		// Engine-fatal: without the guard a faulting body would take the
		// whole process down. The cursor does not advance.
		return fmt.Errorf("crash guard is not installed")
	}

	bench := runner.Benchmark()
	t := newT(runner.Name())

	before := s.guard.Snapshot()
	if bench {
		t.StartTimer()
	}

	s.execute(runner, t)

	// The fallback end stamp must stay after the join: the body's goroutine
	// no longer runs, so its own StopTimer call, if any, already landed.
	if bench && t.EndedAt().IsZero() {
		t.StopTimer()
	}

	crashed := s.guard.Snapshot() != before
	if crashed {
		// Force-fail regardless of what the body itself reported.
		t.RecordFailure(CrashFailureMessage)
		s.crashes++
		metrics.RecordCrash(runID)
	}

	s.results = append(s.results, t)
	s.cursor++

	status := types.Classify(t.Failed(), t.ErrorCount())
	metrics.RecordTest(runID, runner.Name(), status)

	rec := &types.TestRecord{
		Ordinal:        s.cursor,
		Total:          len(s.runners),
		Name:           runner.Name(),
		Description:    runner.Description(),
		Status:         status,
		FailureMessage: t.FailureMessage(),
		ErrorMessages:  t.ErrorMessages(),
		Benchmark:      bench,
		Elapsed:        t.Elapsed(),
	}
	if err := s.sink.Report(rec); err != nil {
		s.log.Warn("Reporting sink failed", "test", runner.Name(), "error", err)
	}

	s.log.Debug("Test executed",
		"run_id", runID,
		"test", runner.Name(),
		"status", status,
		"errors", t.ErrorCount(),
		"crashed", crashed)

	if t.Failed() && fatalFailures {
		s.log.Warn("Aborting suite on fatal failure",
			"test", runner.Name(),
			"remaining", len(s.runners)-s.cursor)
		return ErrAborted
	}
	return nil
}

// execute runs the test body on its own goroutine and joins on completion.
// The guard traps memory faults on that goroutine; any other panic value is
// recorded as a failure so a panicking body cannot take the engine down.
func (s *Suite) execute(runner *Runner, t *T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if recovered := s.guard.Trap(func() { runner.body(t) }); recovered != nil {
			t.RecordFailure(fmt.Sprintf("runtime error: %v", recovered))
		}
	}()
	<-done
}

// Reset returns the suite to its idle state: results, cursor, crash count,
// finished flag and run ID are cleared while registered runners are kept.
// A reset suite reruns deterministically given deterministic bodies.
func (s *Suite) Reset() {
	s.results = nil
	s.cursor = 0
	s.finished = false
	s.crashes = 0
	s.runID = ""
	s.fatalFailures = false
}

func (s *Suite) ensureRunID() string {
	if s.runID == "" {
		s.runID = uuid.New().String()
	}
	return s.runID
}

// RunID returns the identifier of the current run, or "" before any test
// has been scheduled.
func (s *Suite) RunID() string { return s.runID }

// Len returns the number of registered runners.
func (s *Suite) Len() int { return len(s.runners) }

// Ran returns the number of tests executed so far.
func (s *Suite) Ran() int { return s.cursor }

// Finished reports whether every runner executed without an abort.
func (s *Suite) Finished() bool { return s.finished }

// CrashCount returns the number of tests during which a fault was detected.
func (s *Suite) CrashCount() int { return s.crashes }

// FatalFailures reports whether the most recent run used the abort-on-failure
// policy.
func (s *Suite) FatalFailures() bool { return s.fatalFailures }

// Runner returns the i-th registered runner.
func (s *Suite) Runner(i int) *Runner { return s.runners[i] }

// Result returns the i-th result. Only indexes below Ran() are populated.
func (s *Suite) Result(i int) *T { return s.results[i] }

// Results returns a copy of the result slice accumulated so far.
func (s *Suite) Results() []*T {
	out := make([]*T, len(s.results))
	copy(out, s.results)
	return out
}
